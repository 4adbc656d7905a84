// Package store persists secret envelopes for the hushbox server. Two
// implementations share one interface: an in-process map for tests and
// single-node deployments without persistence, and a SQLite database for
// everything else.
//
// Records hold ciphertext and lifecycle metadata only. Plaintext, keys and
// raw PIN digests never reach this package.
package store

import (
	"context"
	"errors"
	"time"
)

// Storage errors. The service layer collapses all lifecycle outcomes into a
// uniform "gone" at the API boundary; the distinctions below exist for
// logging and tests.
var (
	// ErrNotFound is returned when no record matches the id.
	ErrNotFound = errors.New("secret record not found")

	// ErrDuplicateID is returned when a record with the same id already
	// exists.
	ErrDuplicateID = errors.New("duplicate secret id")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Record is one stored secret: the opaque ciphertext envelope plus the
// lifecycle fields the protocol state machine needs.
type Record struct {
	ID            string    `db:"id"`
	EncryptedData string    `db:"encrypted_data"`
	IV            string    `db:"iv"`
	PinDigest     string    `db:"pin_digest"` // hardened at-rest form, empty when no PIN
	OneTimeView   bool      `db:"one_time_view"`
	Viewed        bool      `db:"viewed"`
	CreatedAt     time.Time `db:"created_at"`
	ExpiresAt     time.Time `db:"expires_at"`
	Files         []FileRecord
}

// FileRecord is one encrypted attachment of a Record. Position preserves
// the submission order.
type FileRecord struct {
	SecretID      string `db:"secret_id"`
	Position      int    `db:"position"`
	EncryptedData string `db:"encrypted_data"`
	IV            string `db:"iv"`
	Filename      string `db:"filename"`
	FileType      string `db:"file_type"`
	FileSize      int64  `db:"file_size"`
}

// Store persists secret records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Create persists a new record. An existing id yields ErrDuplicateID.
	Create(ctx context.Context, rec *Record) error

	// Get returns the record with the given id, whether or not it has
	// expired. Callers decide what expiry means.
	Get(ctx context.Context, id string) (*Record, error)

	// Claim atomically removes and returns a record that has not expired by
	// now. At most one caller ever claims a given id; everyone else gets
	// ErrNotFound.
	Claim(ctx context.Context, id string, now time.Time) (*Record, error)

	// MarkViewed records that a secret has been opened at least once.
	MarkViewed(ctx context.Context, id string) error

	// Delete removes a record. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every record whose expiry is at or before now
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Close releases resources held by the store.
	Close() error
}
