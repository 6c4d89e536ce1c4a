package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS store_entries (
	entry_key  VARCHAR(64) NOT NULL PRIMARY KEY,
	value      JSON NOT NULL,
	updated_at DATETIME(6) NOT NULL
)`

// MySQL stores each key as a row of the store_entries table. "key" is
// reserved in MySQL, hence entry_key.
type MySQL struct {
	db *sqlx.DB
}

func NewMySQL(db *sqlx.DB) *MySQL {
	return &MySQL{db: db}
}

func (s *MySQL) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, mysqlSchema); err != nil {
		return errors.Wrap(err, "create store_entries")
	}
	return nil
}

func (s *MySQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, "SELECT value FROM store_entries WHERE entry_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "select %s", key)
	}
	return value, true, nil
}

func (s *MySQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO store_entries (entry_key, value, updated_at) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`,
		key,
		string(value),
		time.Now().UTC(),
	)
	if err != nil {
		return errors.Wrapf(err, "upsert %s", key)
	}
	return nil
}

// ConnectMySQL opens and pings a MySQL connection pool.
func ConnectMySQL(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql")
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
