package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS secrets (
    id             TEXT PRIMARY KEY,
    encrypted_data TEXT NOT NULL,
    iv             TEXT NOT NULL,
    pin_digest     TEXT NOT NULL DEFAULT '',
    one_time_view  INTEGER NOT NULL DEFAULT 1,
    viewed         INTEGER NOT NULL DEFAULT 0,
    created_at     TIMESTAMP NOT NULL,
    expires_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_secrets_expires_at ON secrets (expires_at);

CREATE TABLE IF NOT EXISTS secret_files (
    secret_id      TEXT NOT NULL REFERENCES secrets (id) ON DELETE CASCADE,
    position       INTEGER NOT NULL,
    encrypted_data TEXT NOT NULL,
    iv             TEXT NOT NULL,
    filename       TEXT NOT NULL,
    file_type      TEXT NOT NULL DEFAULT '',
    file_size      INTEGER NOT NULL,
    PRIMARY KEY (secret_id, position)
);
`

// SQLiteStore persists records in a SQLite database file.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens or creates the database at path and applies the
// schema. Parent directories are created as needed. The path ":memory:"
// yields a non-persistent database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "create database directory")
			}
		}
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}

	// A single connection serializes writers and keeps an in-memory
	// database coherent, since each sqlite connection to :memory: would
	// otherwise see its own empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	return &SQLiteStore{db: db}, nil
}

// Create persists a new record and its files in one transaction.
func (s *SQLiteStore) Create(ctx context.Context, rec *Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO secrets (id, encrypted_data, iv, pin_digest, one_time_view, viewed, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.EncryptedData, rec.IV, rec.PinDigest, rec.OneTimeView, rec.Viewed,
		rec.CreatedAt.UTC(), rec.ExpiresAt.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicateID
		}
		return errors.Wrap(err, "insert secret")
	}

	for _, f := range rec.Files {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO secret_files (secret_id, position, encrypted_data, iv, filename, file_type, file_size)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, f.Position, f.EncryptedData, f.IV, f.Filename, f.FileType, f.FileSize)
		if err != nil {
			return errors.Wrap(err, "insert secret file")
		}
	}

	return errors.Wrap(tx.Commit(), "commit transaction")
}

// Get returns the record with the given id, expired or not.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.GetContext(ctx, &rec,
		`SELECT id, encrypted_data, iv, pin_digest, one_time_view, viewed, created_at, expires_at
		 FROM secrets WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select secret")
	}

	if err := s.db.SelectContext(ctx, &rec.Files,
		`SELECT secret_id, position, encrypted_data, iv, filename, file_type, file_size
		 FROM secret_files WHERE secret_id = ? ORDER BY position`, id); err != nil {
		return nil, errors.Wrap(err, "select secret files")
	}

	return &rec, nil
}

// Claim atomically removes and returns an unexpired record. The conditional
// delete is the gate: its row count decides the single winner when several
// claimers race.
func (s *SQLiteStore) Claim(ctx context.Context, id string, now time.Time) (*Record, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	var rec Record
	err = tx.GetContext(ctx, &rec,
		`SELECT id, encrypted_data, iv, pin_digest, one_time_view, viewed, created_at, expires_at
		 FROM secrets WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select secret")
	}

	if err := tx.SelectContext(ctx, &rec.Files,
		`SELECT secret_id, position, encrypted_data, iv, filename, file_type, file_size
		 FROM secret_files WHERE secret_id = ? ORDER BY position`, id); err != nil {
		return nil, errors.Wrap(err, "select secret files")
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM secrets WHERE id = ? AND expires_at > ?`, id, now.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "delete secret")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "rows affected") //coverage:ignore
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit transaction")
	}
	return &rec, nil
}

// MarkViewed records that a secret has been opened.
func (s *SQLiteStore) MarkViewed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE secrets SET viewed = 1 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "update secret")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected") //coverage:ignore
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record and its files if present.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, id)
	return errors.Wrap(err, "delete secret")
}

// DeleteExpired removes every record past its expiry.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "delete expired secrets")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected") //coverage:ignore
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
