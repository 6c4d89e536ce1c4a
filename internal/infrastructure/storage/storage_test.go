package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the behaviour every adapter must share.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "never-written")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyProducts, []byte(`[{"id":"1"}]`)))
	v, ok, err := s.Get(ctx, KeyProducts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"}]`, string(v))

	require.NoError(t, s.Set(ctx, KeyProducts, []byte(`[]`)))
	v, _, err = s.Get(ctx, KeyProducts)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v))

	require.NoError(t, s.Set(ctx, KeyCart, []byte(`[{"id":"2","quantity":1}]`)))
	v, _, err = s.Get(ctx, KeyProducts)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v), "keys are independent")
}

// ============================================
// Memory Tests
// ============================================

func TestMemory(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte(`[1]`)

	require.NoError(t, m.Set(ctx, KeyOrders, buf))
	buf[1] = '9'

	v, _, _ := m.Get(ctx, KeyOrders)
	assert.Equal(t, `[1]`, string(v))
}

// ============================================
// File Tests
// ============================================

func TestFile(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	exerciseStorage(t, f)
}

func TestFile_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, KeyOrders, []byte(`[{"id":"o1"}]`)))

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, KeyOrders)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"o1"}]`, string(v))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "orders.json", entries[0].Name())
}

func TestFile_RejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = f.Set(ctx, "../escape", []byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, _, err = f.Get(ctx, "a/b")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// ============================================
// Dynamo Tests
// ============================================

type fakeDynamo struct {
	items  map[string]map[string]types.AttributeValue
	getErr error
	putErr error
	table  string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.table = *in.TableName
	key := in.Key["key"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.table = *in.TableName
	key := in.Item["key"].(*types.AttributeValueMemberS).Value
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamo(t *testing.T) {
	fake := newFakeDynamo()

	exerciseStorage(t, NewDynamo(fake, "store_entries"))
	assert.Equal(t, "store_entries", fake.table)
}

func TestDynamo_Errors(t *testing.T) {
	fake := newFakeDynamo()
	fake.getErr = errors.New("throttled")
	fake.putErr = errors.New("throttled")
	s := NewDynamo(fake, "t")
	ctx := context.Background()

	_, _, err := s.Get(ctx, KeyCart)
	assert.ErrorContains(t, err, "throttled")

	err = s.Set(ctx, KeyCart, []byte(`[]`))
	assert.ErrorContains(t, err, "throttled")
}

// ============================================
// Postgres Tests
// ============================================

func TestConnectPostgres_Unreachable(t *testing.T) {
	db, err := ConnectPostgres("postgres://u:p@127.0.0.1:1/store?sslmode=disable&connect_timeout=1")

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "connect postgres")
}

func TestPostgres(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := ConnectPostgres(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewPostgres(db)
	require.NoError(t, s.EnsureSchema(context.Background()))
	t.Cleanup(func() { cleanupEntries(t, db) })

	exerciseStorage(t, s)
}

func cleanupEntries(t *testing.T, db *sql.DB) {
	_, err := db.Exec("DELETE FROM store_entries WHERE key IN ($1, $2, $3)", KeyProducts, KeyOrders, KeyCart)
	assert.NoError(t, err)
}

// ============================================
// MySQL Tests
// ============================================

func TestMySQL(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	db, err := ConnectMySQL(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewMySQL(db)
	require.NoError(t, s.EnsureSchema(context.Background()))
	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM store_entries WHERE entry_key IN (?, ?, ?)", KeyProducts, KeyOrders, KeyCart)
		assert.NoError(t, err)
	})

	exerciseStorage(t, s)
}
