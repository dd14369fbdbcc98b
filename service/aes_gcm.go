package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/allisson/dataprotection/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Envelopes are self-contained: Seal prepends the randomly generated
// 12-byte nonce to the ciphertext, so the sealed strategy's protector deals
// in single byte strings the same way the derived-key strategy does.
//
// Thread safety: the underlying cipher.AEAD is stateless; each Seal
// generates its nonce independently, so one instance may be shared across
// goroutines.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits); returns
// domain.ErrInvalidKeySize otherwise.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != domain.CipherKeySize {
		return nil, domain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Seal encrypts and authenticates plaintext, binding the optional aad, and
// returns nonce || ciphertext+tag. A unique nonce is generated per call
// from crypto/rand.
func (a *AESGCMCipher) Seal(plaintext, aad []byte) ([]byte, error) {
	return aeadSeal(a.aead, plaintext, aad)
}

// Open verifies and decrypts an envelope produced by Seal. The same aad
// must be supplied; any mismatch or tampering fails authentication.
func (a *AESGCMCipher) Open(envelope, aad []byte) ([]byte, error) {
	return aeadOpen(a.aead, envelope, aad)
}

// aeadSeal implements the shared nonce-prefixed envelope form for both
// sealed-strategy ciphers.
func aeadSeal(aead cipher.AEAD, plaintext, aad []byte) ([]byte, error) {
	envelope := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(envelope); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(envelope, envelope, plaintext, aad), nil
}

// aeadOpen reverses aeadSeal. Callers handling adversary-supplied envelopes
// must collapse the returned error into their generic failure.
func aeadOpen(aead cipher.AEAD, envelope, aad []byte) ([]byte, error) {
	if len(envelope) < aead.NonceSize() {
		return nil, fmt.Errorf("envelope shorter than nonce")
	}

	nonce := envelope[:aead.NonceSize()]
	plaintext, err := aead.Open(nil, nonce, envelope[aead.NonceSize():], aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
