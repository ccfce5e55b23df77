package interfaces

import (
	"context"

	domaintypes "tokenvault/internal/domain/types"
)

// SecretStore persists the full, ordered record collection.
//
// ReadAll and WriteAll are the raw whole-file operations. Update holds the
// store's locks for the duration of fn, so a read-modify-write done through
// it cannot interleave with another writer. View and ReadAll observe a
// consistent snapshot and have no side effects.
type SecretStore interface {
	ReadAll(ctx context.Context) ([]domaintypes.SecretRecord, error)
	WriteAll(ctx context.Context, records []domaintypes.SecretRecord) error

	Update(ctx context.Context, fn func([]domaintypes.SecretRecord) ([]domaintypes.SecretRecord, error)) error
	View(ctx context.Context, fn func([]domaintypes.SecretRecord) error) error
}
