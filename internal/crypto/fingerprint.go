package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"tokenvault/internal/domain"
)

// Fingerprint returns a short hex tag for a token, safe to print.
//
// It hashes with SHA-256 and truncates to 6 bytes (12 hex chars). The tag
// changes on every update because each seal uses a fresh nonce and salt.
func Fingerprint(tok domain.Token) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:6])
}
