package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
	"sync"

	"github.com/allisson/dataprotection/domain"
)

// HMACSHA256 implements the KeyedHash interface over HMAC-SHA256.
//
// The canonical keyed state is the retained MAC key; it is fixed at
// construction and never written through. Every MAC computation obtains its
// own short-lived hash instance from Clone, so concurrent operations on one
// protector cannot corrupt each other's digests.
type HMACSHA256 struct {
	key       []byte
	closeOnce sync.Once
}

// NewHMACSHA256 creates a keyed hash over a copy of the given 32-byte key.
// Returns domain.ErrInvalidKeySize for any other key length.
func NewHMACSHA256(key []byte) (*HMACSHA256, error) {
	if len(key) != domain.MACKeySize {
		return nil, domain.ErrInvalidKeySize
	}

	owned := make([]byte, len(key))
	copy(owned, key)
	return &HMACSHA256{key: owned}, nil
}

// Clone returns a fresh HMAC-SHA256 instance keyed with the canonical key.
// The instance is owned by the caller, used for exactly one digest, and
// discarded; the canonical key is only ever read.
func (h *HMACSHA256) Clone() hash.Hash {
	return hmac.New(sha256.New, h.key)
}

// Size returns the HMAC-SHA256 digest size (32 bytes).
func (h *HMACSHA256) Size() int {
	return sha256.Size
}

// Close zeroes the canonical key. Idempotent.
func (h *HMACSHA256) Close() {
	h.closeOnce.Do(func() {
		domain.Zero(h.key)
	})
}
