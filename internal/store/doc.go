// Package store provides file-based persistence for the secret vault.
//
// FileStore implements domain.SecretStore by serialising the ordered record
// collection as one JSON document:
//
//	{"version": 1, "secrets": [{"id", "name", "kdf", "token", ...}, ...]}
//
// A missing file is an empty store; anything that fails to parse is
// domain.ErrCorruptStore, never "empty". Writes are atomic (temp file, fsync,
// rename) and mutations are serialised by an in-process mutex plus an
// advisory flock on a sidecar "<path>.lock" file.
package store
