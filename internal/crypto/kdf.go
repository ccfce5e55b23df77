package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"

	"tokenvault/internal/domain"
)

const (
	KeyBytes  = chacha20poly1305.KeySize
	SaltBytes = 16

	// MinPBKDF2Iterations is the lowest iteration count accepted for
	// PBKDF2-SHA256, both when creating and when opening records.
	MinPBKDF2Iterations = 390_000
	// DefaultPBKDF2Iterations is used when no count is configured. Raise it
	// over time; records keep the count they were sealed with.
	DefaultPBKDF2Iterations = 600_000

	// MaxPBKDF2Iterations caps the count read back from a store file.
	MaxPBKDF2Iterations = 10_000_000

	minScryptN = 1 << 14
	minScryptR = 8

	// Upper bounds keep a tampered record from exhausting memory or CPU.
	// 128*N*r bytes must also stay within maxScryptMemory.
	maxScryptN      = 1 << 20
	maxScryptR      = 32
	maxScryptP      = 16
	maxScryptMemory = 1 << 30
)

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }

// NewKDFParams returns fresh parameters for alg with a random salt.
// An empty alg selects PBKDF2-SHA256; iterations <= 0 selects the default.
// iterations is ignored for scrypt.
func NewKDFParams(alg domain.KDFAlgorithm, iterations int) (domain.KDFParams, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return domain.KDFParams{}, fmt.Errorf("generate salt: %w", err)
	}

	var p domain.KDFParams
	switch alg {
	case "", domain.KDFPBKDF2SHA256:
		if iterations <= 0 {
			iterations = DefaultPBKDF2Iterations
		}
		p = domain.KDFParams{Algorithm: domain.KDFPBKDF2SHA256, Salt: salt, Iterations: iterations}
	case domain.KDFScrypt:
		N, r, pp := scryptParamsDefault()
		p = domain.KDFParams{Algorithm: domain.KDFScrypt, Salt: salt, N: N, R: r, P: pp}
	default:
		return domain.KDFParams{}, fmt.Errorf("%w: unknown algorithm %q", domain.ErrWeakKDF, alg)
	}
	if err := ValidateKDF(p); err != nil {
		return domain.KDFParams{}, err
	}
	return p, nil
}

// ValidateKDF rejects unknown algorithms and parameters outside the accepted
// range: under the floor they are too weak, over the cap they are too
// expensive to evaluate.
func ValidateKDF(p domain.KDFParams) error {
	if len(p.Salt) < SaltBytes {
		return fmt.Errorf("%w: salt is %d bytes, need %d", domain.ErrWeakKDF, len(p.Salt), SaltBytes)
	}
	switch p.Algorithm {
	case domain.KDFPBKDF2SHA256:
		if p.Iterations < MinPBKDF2Iterations || p.Iterations > MaxPBKDF2Iterations {
			return fmt.Errorf("%w: %d pbkdf2 iterations, need %d to %d",
				domain.ErrWeakKDF, p.Iterations, MinPBKDF2Iterations, MaxPBKDF2Iterations)
		}
	case domain.KDFScrypt:
		if p.N < minScryptN || p.N > maxScryptN || p.N&(p.N-1) != 0 ||
			p.R < minScryptR || p.R > maxScryptR ||
			p.P < 1 || p.P > maxScryptP ||
			128*int64(p.N)*int64(p.R) > maxScryptMemory {
			return fmt.Errorf("%w: scrypt N=%d r=%d p=%d", domain.ErrWeakKDF, p.N, p.R, p.P)
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", domain.ErrWeakKDF, p.Algorithm)
	}
	return nil
}

// DeriveKey turns passphrase and p into a KeyBytes-long symmetric key.
// The result is deterministic in (passphrase, p). Callers should Wipe it.
func DeriveKey(passphrase []byte, p domain.KDFParams) ([]byte, error) {
	if err := ValidateKDF(p); err != nil {
		return nil, err
	}
	switch p.Algorithm {
	case domain.KDFScrypt:
		return scrypt.Key(passphrase, p.Salt, p.N, p.R, p.P, KeyBytes)
	default:
		return pbkdf2.Key(passphrase, p.Salt, p.Iterations, KeyBytes, sha256.New), nil
	}
}
