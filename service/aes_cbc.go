package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/allisson/dataprotection/domain"
	"github.com/allisson/dataprotection/internal/errors"
)

// AESCBCCipher implements AES-256-CBC with PKCS#7 padding.
//
// CBC provides confidentiality only; it is always paired with a separate
// HMAC in encrypt-then-MAC order by the protector. The cipher never sees an
// envelope that has not already passed MAC verification, which is what keeps
// its padding check from becoming an oracle.
//
// Padding always expands the plaintext: unaligned input is padded up to the
// next block boundary, and block-aligned input (including empty) gains one
// full padding block. Ciphertext length is therefore always a positive
// multiple of the block size and strictly greater than the plaintext length.
//
// Thread safety: the underlying cipher.Block is stateless and safe for
// concurrent use; a fresh CBC stream is constructed per call.
type AESCBCCipher struct {
	block cipher.Block
}

// NewAESCBC creates a new AES-256-CBC cipher instance.
//
// The key must be exactly 32 bytes (256 bits). Returns
// domain.ErrInvalidKeySize otherwise.
func NewAESCBC(key []byte) (*AESCBCCipher, error) {
	if len(key) != domain.CipherKeySize {
		return nil, domain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &AESCBCCipher{block: block}, nil
}

// Encrypt encrypts plaintext under the given 16-byte IV and returns the
// padded ciphertext. The output length is always
// BlockSize*(1 + len(plaintext)/BlockSize).
func (a *AESCBCCipher) Encrypt(iv, plaintext []byte) ([]byte, error) {
	if len(iv) != domain.IVSize {
		return nil, errors.Wrap(errors.ErrInternal, "iv must be one block")
	}

	padded := pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(a.block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext under the given IV and strips the PKCS#7
// padding, returning the recovered plaintext.
//
// Any anomaly (empty or misaligned ciphertext, invalid padding bytes) is an
// error. Callers that handle adversary-supplied data must collapse it into
// their generic failure; the protector verifies the MAC before this method
// ever runs.
func (a *AESCBCCipher) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != domain.IVSize {
		return nil, errors.New("iv must be one block")
	}
	if len(ciphertext) == 0 || len(ciphertext)%domain.BlockSize != 0 {
		return nil, errors.New("ciphertext is not a positive multiple of the block size")
	}

	// Working buffer sized to the ciphertext: a safe upper bound on the
	// plaintext length.
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(a.block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := unpad(padded)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// pad applies PKCS#7 padding, always appending between 1 and BlockSize
// bytes.
func pad(plaintext []byte) []byte {
	padLen := domain.BlockSize - len(plaintext)%domain.BlockSize
	padded := make([]byte, len(plaintext)+padLen)
	copy(padded, plaintext)
	for i := len(plaintext); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// unpad validates and strips PKCS#7 padding. The check inspects every
// padding byte rather than stopping at the first mismatch.
func unpad(padded []byte) ([]byte, error) {
	padLen := int(padded[len(padded)-1])
	if padLen < 1 || padLen > domain.BlockSize || padLen > len(padded) {
		return nil, errors.New("invalid padding length")
	}

	var bad byte
	for _, b := range padded[len(padded)-padLen:] {
		bad |= b ^ byte(padLen)
	}
	if bad != 0 {
		return nil, errors.New("invalid padding bytes")
	}

	return padded[:len(padded)-padLen], nil
}
