package types

// KDFAlgorithm names a password-based key derivation function.
type KDFAlgorithm string

const (
	// KDFPBKDF2SHA256 is PBKDF2 with HMAC-SHA256.
	KDFPBKDF2SHA256 KDFAlgorithm = "pbkdf2-sha256"
	// KDFScrypt is scrypt with (N, r, p) cost parameters.
	KDFScrypt KDFAlgorithm = "scrypt"
)

// KDFParams is everything needed to re-derive a record key from the
// passphrase. The derived key itself is never persisted.
type KDFParams struct {
	Algorithm  KDFAlgorithm `json:"alg"`
	Salt       []byte       `json:"salt"`
	Iterations int          `json:"iterations,omitempty"`
	N          int          `json:"scrypt_n,omitempty"`
	R          int          `json:"scrypt_r,omitempty"`
	P          int          `json:"scrypt_p,omitempty"`
}

// SecretRecord is one named, encrypted credential.
type SecretRecord struct {
	ID        RecordID   `json:"id"`
	Name      SecretName `json:"name"`
	KDF       KDFParams  `json:"kdf"`
	Token     Token      `json:"token"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt Timestamp  `json:"updated_at"`
}

// StoreFile is the on-disk document holding every record in insertion order.
type StoreFile struct {
	Version int            `json:"version"`
	Secrets []SecretRecord `json:"secrets"`
}
