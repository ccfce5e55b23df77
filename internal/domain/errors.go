package domain

import "errors"

// Error kinds shared by the store, the cipher and the vault. Callers match
// them with errors.Is; every layer wraps rather than replaces them.
var (
	// ErrCorruptStore means the store file exists but cannot be parsed.
	ErrCorruptStore = errors.New("secret store is corrupt")
	// ErrPersistence means writing the store file failed; the mutation
	// must be treated as not applied.
	ErrPersistence = errors.New("secret store write failed")
	// ErrDecryption means the token did not authenticate under the derived
	// key: wrong passphrase, tampering, or a malformed token.
	ErrDecryption = errors.New("wrong passphrase or corrupted secret")

	ErrInvalidName        = errors.New("invalid secret name")
	ErrDuplicateName      = errors.New("secret already exists")
	ErrNotFound           = errors.New("secret not found")
	ErrNoValue            = errors.New("no secret value supplied")
	ErrPassphraseRequired = errors.New("passphrase required")
	ErrWeakKDF            = errors.New("key derivation parameters out of range")
	ErrLocked             = errors.New("secret store is locked by another process")
)
