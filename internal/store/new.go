package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
PRAGMA busy_timeout       = 10000;
PRAGMA journal_mode       = WAL;
PRAGMA journal_size_limit = 200000000;
PRAGMA synchronous        = NORMAL;
PRAGMA foreign_keys       = ON;
PRAGMA temp_store         = MEMORY;
PRAGMA cache_size         = -16000;

create table if not exists jobs (
	id text primary key not null,
	name text not null,
	blake3_hash text not null,
	status text not null,
	step text not null default '',
	progress real not null default 0,
	error text not null default '',
	transcript_path text not null default '',
	summary_path text not null default '',
	document_path text not null default '',
	created_at integer not null,
	updated_at integer not null
);

create index if not exists jobs_hash_status on jobs (blake3_hash, status);`

type implStore struct {
	db *sql.DB
}

// New opens the SQLite database at dsn and creates the schema if needed.
func New(ctx context.Context, dsn string) (Store, error) {
	if err := ensureDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &implStore{db: db}, nil
}

func (s *implStore) Close() error {
	return s.db.Close()
}

// ensureDir creates the parent directory of a file DSN.
func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	return nil
}
