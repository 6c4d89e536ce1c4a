package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Setenv("STORAGE", "file")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("API_KEY", "")
	t.Setenv("SEED_FILE", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newCLI(&out).Run(append([]string{"storectl"}, args...))
	return out.String(), err
}

func TestProductsList(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "products", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "جاكيت جلدي كلاسيك")
	assert.Contains(t, out, "350.00 ر.س")
	assert.NotContains(t, out, "(low)")
}

func TestCartPersistsAcrossRuns(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "cart", "add", "1")
	require.NoError(t, err)
	_, err = run(t, "cart", "add", "1")
	require.NoError(t, err)
	_, err = run(t, "cart", "add", "2")
	require.NoError(t, err)

	out, err := run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "820.00 ر.س")

	out, err = run(t, "cart", "qty", "--delta=-5", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "470.00 ر.س")
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "cart", "add", "99")

	assert.Error(t, err)
}

func TestOrderLifecycle(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "cart", "add", "1")
	require.NoError(t, err)
	out, err := run(t, "orders", "place", "--name", "A", "--phone", "555", "--address", "X")
	require.NoError(t, err)
	assert.Contains(t, out, "350.00 ر.س")

	_, err = run(t, "orders", "list")
	assert.ErrorIs(t, err, errAdminRequired)

	out, err = run(t, "--admin", "orders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "قيد الانتظار")

	out, err = run(t, "--admin", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "orders:   1")
}

func TestProductAdmin(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "products", "add", "--name", "وشاح", "--price", "45.5")
	assert.ErrorIs(t, err, errAdminRequired)

	out, err := run(t, "--admin", "products", "add", "--id", "9", "--name", "وشاح", "--price", "45.5", "--category", "إكسسوارات", "--stock", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "added 9")

	out, err = run(t, "products", "list", "--category", "إكسسوارات")
	require.NoError(t, err)
	assert.Contains(t, out, "2 (low)")

	_, err = run(t, "--admin", "products", "update", "--stock", "20", "9")
	require.NoError(t, err)

	out, err = run(t, "products", "list", "--category", "إكسسوارات")
	require.NoError(t, err)
	assert.Contains(t, out, "وشاح")
	assert.Contains(t, out, "45.50 ر.س")
	assert.NotContains(t, out, "(low)")

	_, err = run(t, "--admin", "products", "delete", "9")
	require.NoError(t, err)
	out, err = run(t, "products", "list", "--category", "إكسسوارات")
	require.NoError(t, err)
	assert.NotContains(t, out, "وشاح")
}

func TestDescribe_WithoutKey(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "--admin", "describe", "--name", "جاكيت")

	require.NoError(t, err)
	assert.Contains(t, out, "الرجاء توفير مفتاح API")
}
