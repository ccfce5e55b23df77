// Package crypto exposes the primitives the vault is built on.
//
// Contents
//
//   - Password-based key derivation with a per-record random salt
//     (NewKDFParams, ValidateKDF, DeriveKey). PBKDF2-SHA256 is the default;
//     scrypt is accepted as an alternative.
//   - Self-describing authenticated tokens (Seal, Open) using
//     XChaCha20-Poly1305 with a random nonce per seal.
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short token fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Open fails closed: every failure mode maps to domain.ErrDecryption and no
// partial plaintext is ever returned. Derived keys are never persisted;
// callers re-derive them from the passphrase and Wipe them after use.
package crypto
