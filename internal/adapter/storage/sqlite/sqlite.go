// Package sqlite persists record-store collections in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	version INTEGER NOT NULL
);`

// Backend implements store.Backend on one SQLite table, one row per collection.
type Backend struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open opens (and creates if needed) the database file at path.
func Open(path string, log *logger.Logger) (*Backend, error) {
	log = log.Named("SQLiteBackend")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	log.Info("SQLite record store opened", zap.String("path", path))
	return &Backend{db: db, logger: log}, nil
}

func (b *Backend) Load(ctx context.Context, c store.Collection) (store.Snapshot, error) {
	var (
		data    string
		version int64
	)
	err := b.db.QueryRowContext(ctx, `SELECT data, version FROM collections WHERE name = ?`, string(c)).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, store.ErrCollectionNotFound
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("select %s: %w", c, err)
	}
	return store.Snapshot{Data: []byte(data), Version: version}, nil
}

func (b *Backend) Save(ctx context.Context, c store.Collection, data []byte, expectedVersion int64) (int64, error) {
	switch expectedVersion {
	case store.AnyVersion:
		var version int64
		err := b.db.QueryRowContext(ctx, `
			INSERT INTO collections (name, data, version) VALUES (?, ?, 1)
			ON CONFLICT(name) DO UPDATE SET data = excluded.data, version = collections.version + 1
			RETURNING version`, string(c), string(data)).Scan(&version)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", c, err)
		}
		return version, nil

	case 0:
		res, err := b.db.ExecContext(ctx,
			`INSERT INTO collections (name, data, version) VALUES (?, ?, 1) ON CONFLICT(name) DO NOTHING`,
			string(c), string(data))
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", c, err)
		}
		return 1, expectOneRow(res)

	default:
		res, err := b.db.ExecContext(ctx,
			`UPDATE collections SET data = ?, version = version + 1 WHERE name = ? AND version = ?`,
			string(data), string(c), expectedVersion)
		if err != nil {
			return 0, fmt.Errorf("update %s: %w", c, err)
		}
		return expectedVersion + 1, expectOneRow(res)
	}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrVersionConflict
	}
	return nil
}

func (b *Backend) Close(context.Context) error {
	b.logger.Info("Closing SQLite record store")
	return b.db.Close()
}
