package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"tokenvault/internal/domain"
)

const lockRetryDelay = 25 * time.Millisecond

// acquire takes the in-process mutex and then the exclusive advisory lock
// on the sidecar lock file. The returned func releases both. Only mutations
// call it, so the store directory and "<path>.lock" appear on first write.
func (s *FileStore) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLocked, s.flock.Path(), err)
	}
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	ok, err := s.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !ok {
		s.mu.Unlock()
		if err == nil {
			err = context.DeadlineExceeded
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLocked, s.flock.Path(), err)
	}
	return func() {
		if err := s.flock.Unlock(); err != nil {
			s.log.Warn("release store lock", zap.Error(err))
		}
		s.mu.Unlock()
	}, nil
}
