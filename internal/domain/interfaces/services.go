package interfaces

import (
	"context"

	domaintypes "tokenvault/internal/domain/types"
)

// VaultService is the public get/add/update/remove/exists/list API.
//
// A nil value on Add, Update or Ensure means "ask the Prompter".
type VaultService interface {
	Exists(ctx context.Context, name domaintypes.SecretName) (bool, error)
	Get(ctx context.Context, name domaintypes.SecretName) (string, bool, error)
	Add(ctx context.Context, name domaintypes.SecretName, value *string) (domaintypes.Token, error)
	Update(ctx context.Context, name domaintypes.SecretName, value *string) (domaintypes.Token, error)
	Remove(ctx context.Context, name domaintypes.SecretName) error
	List(ctx context.Context) ([]domaintypes.SecretName, error)
	Ensure(ctx context.Context, name domaintypes.SecretName, value *string) (string, error)
	Rekey(ctx context.Context, newPassphrase []byte) error
}

// Prompter obtains a secret value from a human, with echo suppressed.
// Implementations must return ctx.Err() once ctx is cancelled.
type Prompter interface {
	Secret(ctx context.Context, label string) (string, error)
}
