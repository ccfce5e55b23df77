package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"tokenvault/internal/domain"
)

const (
	// The current supported version of the store document.
	storeFormatVersion = 1

	storeFileMode os.FileMode = 0o600
)

// FileStore keeps every secret record in one JSON file.
//
// The whole file is read on every operation and rewritten on every mutation.
// Writes go through a temp file and rename, so a crash leaves either the old
// or the new document, never a torn one. Mutations hold an in-process mutex
// and an exclusive flock on "<path>.lock" so concurrent writers in this or
// other processes cannot lose each other's changes. Reads take no lock.
type FileStore struct {
	path        string
	lockTimeout time.Duration
	log         *zap.Logger

	mu    sync.Mutex
	flock *flock.Flock
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLockTimeout bounds how long an operation waits for the file lock.
// Zero waits until the caller's context is done.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) { s.lockTimeout = d }
}

// NewFileStore returns a FileStore persisting to path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:  path,
		log:   zap.NewNop(),
		flock: flock.New(path + ".lock"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("store", path))
	return s
}

// Path returns the store file location.
func (s *FileStore) Path() string { return s.path }

// ReadAll loads every record. A missing file yields an empty slice.
func (s *FileStore) ReadAll(ctx context.Context) ([]domain.SecretRecord, error) {
	var out []domain.SecretRecord
	err := s.View(ctx, func(records []domain.SecretRecord) error {
		out = records
		return nil
	})
	return out, err
}

// WriteAll replaces the file with records.
func (s *FileStore) WriteAll(ctx context.Context, records []domain.SecretRecord) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.writeAll(records)
}

// Update runs a locked read-modify-write. If fn fails nothing is written.
func (s *FileStore) Update(
	ctx context.Context,
	fn func([]domain.SecretRecord) ([]domain.SecretRecord, error),
) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	records, err := s.readAll()
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return s.writeAll(next)
}

// View runs fn over a snapshot of the current records. It takes no lock and
// creates nothing on disk: writers replace the file by rename, so a reader
// always sees one whole document.
func (s *FileStore) View(ctx context.Context, fn func([]domain.SecretRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records, err := s.readAll()
	if err != nil {
		return err
	}
	return fn(records)
}

func (s *FileStore) readAll() ([]domain.SecretRecord, error) {
	b, err := readFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if b == nil {
		s.log.Debug("store file absent, starting empty")
		return []domain.SecretRecord{}, nil
	}

	var doc domain.StoreFile
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptStore, s.path, err)
	}
	if doc.Version != storeFormatVersion {
		return nil, fmt.Errorf("%w: %s: unsupported store version %d",
			domain.ErrCorruptStore, s.path, doc.Version)
	}
	for i, r := range doc.Secrets {
		if r.Name == "" || r.Token == "" {
			return nil, fmt.Errorf("%w: %s: record %d is incomplete", domain.ErrCorruptStore, s.path, i)
		}
	}
	if doc.Secrets == nil {
		doc.Secrets = []domain.SecretRecord{}
	}
	s.log.Debug("store loaded", zap.Int("records", len(doc.Secrets)))
	return doc.Secrets, nil
}

func (s *FileStore) writeAll(records []domain.SecretRecord) error {
	if records == nil {
		records = []domain.SecretRecord{}
	}
	b, err := json.MarshalIndent(domain.StoreFile{Version: storeFormatVersion, Secrets: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrPersistence, err)
	}
	if err := writeFile(s.path, b, storeFileMode); err != nil {
		s.log.Error("store write failed", zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	s.log.Debug("store written", zap.Int("records", len(records)))
	return nil
}

// Compile-time assertion that FileStore implements domain.SecretStore.
var _ domain.SecretStore = (*FileStore)(nil)
