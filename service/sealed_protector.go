package service

import (
	"sync"
	"sync/atomic"

	"github.com/allisson/dataprotection/domain"
)

// SealedProtector implements the Protector interface for the
// platform-sealed strategy.
//
// This strategy is simpler than the derived-key one: a single 32-byte key
// per purpose, used with an authenticated cipher, so no separate MAC key is
// needed — the AEAD's tag provides integrity. Envelopes are the cipher's
// nonce-prefixed form, not the CBC+HMAC layout of KeyedProtector; the two
// strategies do not interoperate at the byte level.
type SealedProtector struct {
	aead        AEAD
	key         []byte
	alg         domain.Algorithm
	kdf         KeyDeriver
	aeadManager AEADManager

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewSealedProtector creates a sealed-strategy protector owning the given
// single key. The kdf and aeadManager are retained for
// DeriveSubProtector.
func NewSealedProtector(
	key []byte,
	alg domain.Algorithm,
	kdf KeyDeriver,
	aeadManager AEADManager,
) (*SealedProtector, error) {
	aead, err := aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	return &SealedProtector{
		aead:        aead,
		key:         key,
		alg:         alg,
		kdf:         kdf,
		aeadManager: aeadManager,
	}, nil
}

// Protect encrypts and authenticates plaintext into a self-contained
// envelope.
func (p *SealedProtector) Protect(plaintext []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}

	return p.aead.Seal(plaintext, nil)
}

// Unprotect verifies and decrypts an envelope produced by Protect. As with
// the derived-key strategy, every integrity or format failure collapses
// into domain.ErrAuthenticationFailed.
func (p *SealedProtector) Unprotect(envelope []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}

	plaintext, err := p.aead.Open(envelope, nil)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// DeriveSubProtector derives an independent sealed protector for a deeper
// purpose by re-deriving the single key from this protector's key.
func (p *SealedProtector) DeriveSubProtector(purpose string) (Protector, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}

	key, err := p.kdf.DeriveKey(p.key, nil, purpose)
	if err != nil {
		return nil, err
	}

	return NewSealedProtector(key, p.alg, p.kdf, p.aeadManager)
}

// Close zeroes the protector's key. Idempotent.
func (p *SealedProtector) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		domain.Zero(p.key)
	})
}
