package store

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// forEachStore runs fn against every backend so both implementations are
// held to the same contract.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "hushbox.db"))
			require.NoError(t, err)
			return s
		},
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			fn(t, s)
		})
	}
}

func testRecord(id string) *Record {
	created := time.Now().UTC().Truncate(time.Second)
	return &Record{
		ID:            id,
		EncryptedData: "c2VhbGVkIHBheWxvYWQgYnl0ZXM=",
		IV:            strings.Repeat("ab", 16),
		OneTimeView:   true,
		CreatedAt:     created,
		ExpiresAt:     created.Add(time.Hour),
	}
}

// Ensure a created record round-trips with its files in submission order.
func TestStoreCreateGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("0a", 32))
		rec.PinDigest = "aa11$bb22"
		rec.Files = []FileRecord{
			{SecretID: rec.ID, Position: 0, EncryptedData: "Zmlyc3Q=", IV: strings.Repeat("cd", 16), Filename: "notes.txt", FileType: "text/plain", FileSize: 120},
			{SecretID: rec.ID, Position: 1, EncryptedData: "c2Vjb25k", IV: strings.Repeat("ef", 16), Filename: "key.pem", FileSize: 3072},
		}
		require.NoError(t, s.Create(ctx, rec))

		got, err := s.Get(ctx, rec.ID)
		require.NoError(t, err)
		require.Equal(t, rec.ID, got.ID)
		require.Equal(t, rec.EncryptedData, got.EncryptedData)
		require.Equal(t, rec.IV, got.IV)
		require.Equal(t, rec.PinDigest, got.PinDigest)
		require.True(t, got.OneTimeView)
		require.False(t, got.Viewed)
		require.True(t, got.CreatedAt.Equal(rec.CreatedAt))
		require.True(t, got.ExpiresAt.Equal(rec.ExpiresAt))

		require.Len(t, got.Files, 2)
		require.Equal(t, "notes.txt", got.Files[0].Filename)
		require.Equal(t, "text/plain", got.Files[0].FileType)
		require.Equal(t, int64(120), got.Files[0].FileSize)
		require.Equal(t, "key.pem", got.Files[1].Filename)
		require.Equal(t, 1, got.Files[1].Position)
	})
}

// Ensure creating the same id twice fails with ErrDuplicateID.
func TestStoreCreateDuplicate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("1b", 32))
		require.NoError(t, s.Create(ctx, rec))
		require.ErrorIs(t, s.Create(ctx, rec), ErrDuplicateID)
	})
}

// Ensure fetching an unknown id fails with ErrNotFound.
func TestStoreGetMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.Get(context.Background(), strings.Repeat("2c", 32))
		require.ErrorIs(t, err, ErrNotFound)
	})
}

// Ensure a claim removes the record so later claims and gets miss.
func TestStoreClaim(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("3d", 32))
		rec.Files = []FileRecord{
			{SecretID: rec.ID, Position: 0, EncryptedData: "ZGF0YQ==", IV: strings.Repeat("aa", 16), Filename: "a.bin", FileSize: 4},
		}
		require.NoError(t, s.Create(ctx, rec))

		now := rec.CreatedAt.Add(time.Minute)
		got, err := s.Claim(ctx, rec.ID, now)
		require.NoError(t, err)
		require.Equal(t, rec.EncryptedData, got.EncryptedData)
		require.Len(t, got.Files, 1)

		_, err = s.Claim(ctx, rec.ID, now)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get(ctx, rec.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

// Ensure an expired record cannot be claimed but is still visible to Get
// until the sweeper removes it.
func TestStoreClaimExpired(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("4e", 32))
		require.NoError(t, s.Create(ctx, rec))

		after := rec.ExpiresAt.Add(time.Second)
		_, err := s.Claim(ctx, rec.ID, after)
		require.ErrorIs(t, err, ErrNotFound)

		got, err := s.Get(ctx, rec.ID)
		require.NoError(t, err)
		require.Equal(t, rec.ID, got.ID)
	})
}

// Ensure exactly one of many concurrent claimers wins.
func TestStoreClaimConcurrent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("5f", 32))
		require.NoError(t, s.Create(ctx, rec))

		now := rec.CreatedAt.Add(time.Minute)
		var wins int32
		errs := make(chan error, 16)
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Claim(ctx, rec.ID, now)
				switch err {
				case nil:
					atomic.AddInt32(&wins, 1)
				case ErrNotFound:
				default:
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		require.Equal(t, int32(1), atomic.LoadInt32(&wins))
	})
}

// Ensure MarkViewed flips the flag and reports unknown ids.
func TestStoreMarkViewed(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("6a", 32))
		rec.OneTimeView = false
		require.NoError(t, s.Create(ctx, rec))

		require.NoError(t, s.MarkViewed(ctx, rec.ID))
		got, err := s.Get(ctx, rec.ID)
		require.NoError(t, err)
		require.True(t, got.Viewed)

		require.ErrorIs(t, s.MarkViewed(ctx, strings.Repeat("7b", 32)), ErrNotFound)
	})
}

// Ensure Delete removes the record and tolerates unknown ids.
func TestStoreDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("8c", 32))
		require.NoError(t, s.Create(ctx, rec))

		require.NoError(t, s.Delete(ctx, rec.ID))
		_, err := s.Get(ctx, rec.ID)
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Delete(ctx, rec.ID))
	})
}

// Ensure DeleteExpired removes only records past their expiry and reports
// the count.
func TestStoreDeleteExpired(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Second)

		live := testRecord(strings.Repeat("9d", 32))
		live.ExpiresAt = now.Add(time.Hour)
		deadA := testRecord(strings.Repeat("ae", 32))
		deadA.ExpiresAt = now.Add(-time.Minute)
		deadB := testRecord(strings.Repeat("bf", 32))
		deadB.ExpiresAt = now.Add(-time.Hour)

		for _, rec := range []*Record{live, deadA, deadB} {
			require.NoError(t, s.Create(ctx, rec))
		}

		n, err := s.DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.Equal(t, int64(2), n)

		_, err = s.Get(ctx, live.ID)
		require.NoError(t, err)
		_, err = s.Get(ctx, deadA.ID)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get(ctx, deadB.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

// Ensure deleting a record removes its file rows, so recreating the id
// does not resurrect old attachments.
func TestStoreDeleteCascadesFiles(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec := testRecord(strings.Repeat("ca", 32))
		rec.Files = []FileRecord{
			{SecretID: rec.ID, Position: 0, EncryptedData: "b2xk", IV: strings.Repeat("11", 16), Filename: "old.txt", FileSize: 3},
		}
		require.NoError(t, s.Create(ctx, rec))
		require.NoError(t, s.Delete(ctx, rec.ID))

		fresh := testRecord(rec.ID)
		require.NoError(t, s.Create(ctx, fresh))

		got, err := s.Get(ctx, rec.ID)
		require.NoError(t, err)
		require.Empty(t, got.Files)
	})
}

// Ensure a closed memory store rejects all operations.
func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.Create(ctx, testRecord(strings.Repeat("db", 32))), ErrClosed)
	_, err := s.Get(ctx, strings.Repeat("db", 32))
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.Claim(ctx, strings.Repeat("db", 32), time.Now())
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.MarkViewed(ctx, strings.Repeat("db", 32)), ErrClosed)
	require.ErrorIs(t, s.Delete(ctx, strings.Repeat("db", 32)), ErrClosed)
	_, err = s.DeleteExpired(ctx, time.Now())
	require.ErrorIs(t, err, ErrClosed)
}
