package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/allisson/dataprotection/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using
// ChaCha20-Poly1305.
//
// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305
// MAC. It is constant time in software and particularly efficient on
// platforms without hardware AES acceleration. Envelopes follow the same
// nonce-prefixed form as AESGCMCipher.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
//
// The key must be exactly 32 bytes (256 bits); returns
// domain.ErrInvalidKeySize otherwise.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != domain.CipherKeySize {
		return nil, domain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Seal encrypts and authenticates plaintext, binding the optional aad, and
// returns nonce || ciphertext+tag.
func (c *ChaCha20Poly1305Cipher) Seal(plaintext, aad []byte) ([]byte, error) {
	return aeadSeal(c.aead, plaintext, aad)
}

// Open verifies and decrypts an envelope produced by Seal with the same
// aad.
func (c *ChaCha20Poly1305Cipher) Open(envelope, aad []byte) ([]byte, error) {
	return aeadOpen(c.aead, envelope, aad)
}
