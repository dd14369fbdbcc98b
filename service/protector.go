package service

import (
	"crypto/hmac"
	"crypto/rand"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/allisson/dataprotection/domain"
	"github.com/allisson/dataprotection/internal/errors"
)

// KeyedProtector implements the Protector interface for the derived-key
// strategy with encrypt-then-MAC: AES-256-CBC for confidentiality and
// HMAC-SHA256 over IV || ciphertext for integrity.
//
// A protector owns one set of derived key material and is stateless across
// calls. It is safe to share one instance across goroutines: encryption
// uses a fresh CBC stream per call, and every MAC computation runs on a
// short-lived duplicate of the keyed-hash state, never on the canonical
// state itself.
type KeyedProtector struct {
	cipher   *AESCBCCipher
	mac      KeyedHash
	material *domain.DerivedKeyMaterial
	kdf      KeyDeriver

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewKeyedProtector creates a protector that owns the given key material.
// The kdf is retained for DeriveSubProtector.
//
// Returns domain.ErrInvalidKeySize if the cipher or MAC key has the wrong
// length.
func NewKeyedProtector(material *domain.DerivedKeyMaterial, kdf KeyDeriver) (*KeyedProtector, error) {
	cbc, err := NewAESCBC(material.CipherKey)
	if err != nil {
		return nil, err
	}

	mac, err := NewHMACSHA256(material.MACKey)
	if err != nil {
		return nil, err
	}

	return &KeyedProtector{
		cipher:   cbc,
		mac:      mac,
		material: material,
		kdf:      kdf,
	}, nil
}

// Protect encrypts and authenticates plaintext into a self-contained
// envelope: IV(16) || ciphertext || MAC(32).
//
// The envelope length is exactly domain.EnvelopeSize(len(plaintext)); the
// ciphertext is always strictly longer than the plaintext because padding
// adds at least one byte and a full block for block-aligned input. The only
// randomness consumed is the per-call IV.
func (p *KeyedProtector) Protect(plaintext []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}

	// One owned buffer; IV, ciphertext, and MAC are written at fixed
	// offsets within it.
	envelope := make([]byte, domain.EnvelopeSize(len(plaintext)))
	iv := envelope[:domain.IVSize]
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	ciphertext, err := p.cipher.Encrypt(iv, plaintext)
	if err != nil {
		return nil, err
	}

	// The precomputed envelope length and the produced ciphertext length
	// must agree exactly. A mismatch is a defect, not a recoverable
	// condition.
	macOffset := len(envelope) - domain.MACSize
	if len(ciphertext) != macOffset-domain.IVSize {
		return nil, fmt.Errorf(
			"%w: ciphertext length %d does not match expected %d",
			errors.ErrInternal,
			len(ciphertext),
			macOffset-domain.IVSize,
		)
	}
	copy(envelope[domain.IVSize:], ciphertext)

	mac := p.mac.Clone()
	mac.Write(envelope[:macOffset])
	copy(envelope[macOffset:], mac.Sum(nil))

	return envelope, nil
}

// Unprotect verifies and decrypts an envelope produced by Protect.
//
// Every failure path — short input, misaligned ciphertext, forged or
// corrupted MAC, padding anomaly — returns domain.ErrAuthenticationFailed
// with no distinguishing detail. The MAC is recomputed over
// IV || ciphertext with a duplicated hash state and compared in constant
// time before any decryption is attempted.
func (p *KeyedProtector) Unprotect(envelope []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}

	if len(envelope) < domain.MinEnvelopeSize {
		return nil, domain.ErrAuthenticationFailed
	}
	macOffset := len(envelope) - domain.MACSize
	iv := envelope[:domain.IVSize]
	ciphertext := envelope[domain.IVSize:macOffset]
	if len(ciphertext)%domain.BlockSize != 0 {
		return nil, domain.ErrAuthenticationFailed
	}

	mac := p.mac.Clone()
	mac.Write(envelope[:macOffset])
	expected := mac.Sum(nil)
	if !hmac.Equal(expected, envelope[macOffset:]) {
		return nil, domain.ErrAuthenticationFailed
	}

	plaintext, err := p.cipher.Decrypt(iv, ciphertext)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}

	return plaintext, nil
}

// DeriveSubProtector derives a new independent protector one level deeper
// in the purpose hierarchy, using this protector's retained key-derivation
// key as the parent. The root secret is never touched again.
func (p *KeyedProtector) DeriveSubProtector(purpose string) (Protector, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}

	material, err := p.kdf.Derive(p.material.KeyDerivationKey, purpose)
	if err != nil {
		return nil, err
	}

	return NewKeyedProtector(material, p.kdf)
}

// Close zeroes the protector's operational keys. The retained
// key-derivation key is not zeroed (sub-protectors may outlive this one).
// Idempotent.
func (p *KeyedProtector) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.material.Close()
		p.mac.Close()
	})
}
