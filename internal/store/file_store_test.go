package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenvault/internal/domain"
	"tokenvault/internal/store"
)

func record(name string) domain.SecretRecord {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return domain.SecretRecord{
		ID:   domain.RecordID("id-" + name),
		Name: domain.SecretName(name),
		KDF: domain.KDFParams{
			Algorithm:  domain.KDFPBKDF2SHA256,
			Salt:       []byte("0123456789abcdef"),
			Iterations: 600_000,
		},
		Token:     domain.Token("tok-" + name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newStore(t *testing.T) (*store.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.json")
	return store.NewFileStore(path), path
}

func TestReadAll_MissingFileIsEmpty(t *testing.T) {
	s, path := newStore(t)

	got, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "reading must not create the store file")
}

func TestWriteAll_ReadAll_PreservesOrder(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	in := []domain.SecretRecord{record("b"), record("a"), record("c")}

	require.NoError(t, s.WriteAll(ctx, in))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestWriteAll_ReadAll_Idempotent(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteAll(ctx, []domain.SecretRecord{record("x"), record("y")}))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	recs, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, s.WriteAll(ctx, recs))

	again, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, recs, again)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestWriteAll_FileModeAndNoTempLeftovers(t *testing.T) {
	s, path := newStore(t)
	require.NoError(t, s.WriteAll(context.Background(), []domain.SecretRecord{record("a")}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWriteAll_NeverPersistsKeyMaterial(t *testing.T) {
	s, path := newStore(t)
	require.NoError(t, s.WriteAll(context.Background(), []domain.SecretRecord{record("a")}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"key"`)
	assert.Contains(t, string(b), `"salt"`)
	assert.Contains(t, string(b), `"version": 1`)
}

func TestReadAll_Corrupt(t *testing.T) {
	cases := map[string]string{
		"garbage":       "\x00\x01not json",
		"empty file":    "",
		"legacy list":   `[{"Name":"a","Key":"k","Token":"t"}]`,
		"wrong version": `{"version": 7, "secrets": []}`,
		"missing name":  `{"version": 1, "secrets": [{"token": "t"}]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s, path := newStore(t)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			got, err := s.ReadAll(context.Background())
			assert.ErrorIs(t, err, domain.ErrCorruptStore)
			assert.Nil(t, got)
		})
	}
}

func TestWriteAll_PersistenceError(t *testing.T) {
	s, path := newStore(t)
	// A directory where the file should be makes the final rename fail.
	require.NoError(t, os.Mkdir(path, 0o700))

	err := s.WriteAll(context.Background(), []domain.SecretRecord{record("a")})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestUpdate_FnErrorWritesNothing(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteAll(ctx, []domain.SecretRecord{record("a")}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Update(ctx, func(recs []domain.SecretRecord) ([]domain.SecretRecord, error) {
		return append(recs, record("b")), boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_ConcurrentWritersDoNotLoseChanges(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Update(ctx, func(recs []domain.SecretRecord) ([]domain.SecretRecord, error) {
				return append(recs, record(fmt.Sprintf("r%02d", i))), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestUpdate_SeparateHandlesShareTheFileLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.json")
	a := store.NewFileStore(path)
	b := store.NewFileStore(path)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i, s := range []*store.FileStore{a, b, a, b} {
		wg.Add(1)
		go func(i int, s *store.FileStore) {
			defer wg.Done()
			assert.NoError(t, s.Update(ctx, func(recs []domain.SecretRecord) ([]domain.SecretRecord, error) {
				return append(recs, record(fmt.Sprintf("h%d", i))), nil
			}))
		}(i, s)
	}
	wg.Wait()

	got, err := a.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestUpdate_LockedByAnotherHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	held := flock.New(path + ".lock")
	require.NoError(t, held.Lock())
	defer func() { _ = held.Unlock() }()

	s := store.NewFileStore(path, store.WithLockTimeout(100*time.Millisecond))
	err := s.Update(context.Background(), func(recs []domain.SecretRecord) ([]domain.SecretRecord, error) {
		t.Fatal("fn must not run without the lock")
		return recs, nil
	})
	assert.ErrorIs(t, err, domain.ErrLocked)
}

func TestUpdate_CancelledContext(t *testing.T) {
	s, path := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Update(ctx, func(recs []domain.SecretRecord) ([]domain.SecretRecord, error) {
		t.Fatal("fn must not run after cancellation")
		return recs, nil
	})
	assert.ErrorIs(t, err, domain.ErrLocked)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(path + ".lock")
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestView_CancelledContext(t *testing.T) {
	s, _ := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.View(ctx, func([]domain.SecretRecord) error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestView_HasNoSideEffects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-yet")
	path := filepath.Join(dir, "secrets.json")
	s := store.NewFileStore(path)

	got, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = os.Stat(dir)
	assert.True(t, errors.Is(err, os.ErrNotExist), "reading must not create the store directory")
}

func TestView_DoesNotWaitForWriters(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteAll(ctx, []domain.SecretRecord{record("a")}))

	held := flock.New(path + ".lock")
	require.NoError(t, held.Lock())
	defer func() { _ = held.Unlock() }()

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SecretName("a"), got[0].Name)
}
