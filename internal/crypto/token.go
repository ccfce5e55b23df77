package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"tokenvault/internal/domain"
)

// tokenVersion is the first byte of every token. Bump it when the layout
// below changes; Open refuses versions it does not know.
const tokenVersion byte = 0x01

const tokenHeaderLen = 1 + chacha20poly1305.NonceSizeX

// Token layout, before base64url (no padding):
//
//	version (1) || nonce (24) || XChaCha20-Poly1305 ciphertext+tag
//
// The version byte and the caller's associated data are authenticated.

// Seal encrypts plaintext under key and binds it to ad.
func Seal(key, plaintext, ad []byte) (domain.Token, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	buf := make([]byte, tokenHeaderLen, tokenHeaderLen+len(plaintext)+aead.Overhead())
	buf[0] = tokenVersion
	nonce := buf[1:tokenHeaderLen]
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	buf = aead.Seal(buf, nonce, plaintext, tokenAD(buf[0], ad))
	return domain.Token(base64.RawURLEncoding.EncodeToString(buf)), nil
}

// Open authenticates and decrypts tok. Any failure, including a malformed
// or truncated token, is reported as domain.ErrDecryption.
func Open(key []byte, tok domain.Token, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	raw, err := base64.RawURLEncoding.DecodeString(string(tok))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed token", domain.ErrDecryption)
	}
	if len(raw) < tokenHeaderLen+aead.Overhead() {
		return nil, fmt.Errorf("%w: token too short", domain.ErrDecryption)
	}
	if raw[0] != tokenVersion {
		return nil, fmt.Errorf("%w: unsupported token version %d", domain.ErrDecryption, raw[0])
	}
	pt, err := aead.Open(nil, raw[1:tokenHeaderLen], raw[tokenHeaderLen:], tokenAD(raw[0], ad))
	if err != nil {
		return nil, domain.ErrDecryption
	}
	return pt, nil
}

func tokenAD(version byte, ad []byte) []byte {
	out := make([]byte, 0, 1+len(ad))
	out = append(out, version)
	return append(out, ad...)
}
