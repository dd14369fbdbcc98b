// Package service implements the purpose-scoped protection services: the
// key derivation function, the two protector kinds, and the providers that
// manufacture protectors from a root secret.
package service

import (
	"context"
	"hash"

	"github.com/allisson/dataprotection/domain"
)

// Protector provides confidentiality and integrity for opaque byte payloads
// under one purpose-bound key.
//
// Implementations are safe for concurrent use: Protect and Unprotect are
// synchronous, CPU-bound, and never mutate shared state. A single protector
// may be held as a process-wide singleton for its purpose.
type Protector interface {
	// Protect encrypts and authenticates plaintext, returning a
	// self-contained envelope. It never fails for any input, including
	// empty, except after Close or on randomness exhaustion.
	Protect(plaintext []byte) ([]byte, error)

	// Unprotect verifies and decrypts an envelope produced by Protect.
	// Every integrity or format problem fails with
	// domain.ErrAuthenticationFailed and no distinguishing detail.
	Unprotect(envelope []byte) ([]byte, error)

	// DeriveSubProtector extends the purpose hierarchy: it derives a new
	// independent protector from this protector's key-derivation key and
	// the given purpose. Purposes compose into a namespace: deriving "A"
	// then "B" is not the same branch as "B" then "A", nor as "A.B".
	DeriveSubProtector(purpose string) (Protector, error)

	// Close releases the protector's key material. Idempotent, never fails.
	Close()
}

// ProtectionProvider manufactures protectors for named purposes from a root
// secret it owns exclusively.
type ProtectionProvider interface {
	// CreateProtector derives an independent protector for the purpose.
	// Derivation is deterministic: the same provider and purpose always
	// yield the same key material. The context is consulted only by
	// providers that unseal their root secret through an external keeper.
	CreateProtector(ctx context.Context, purpose string) (Protector, error)

	// Close releases the root secret's resources. Idempotent, never fails.
	Close()
}

// KeyDeriver is the key derivation capability consumed by providers and
// protectors. Derivation is deterministic and keyed: it has no randomness.
type KeyDeriver interface {
	// Derive fans a parent key-derivation key out into the full key
	// material for one purpose: cipher key, MAC key, and the child KDK for
	// further derivation, all in a single domain-separated pass.
	// Absent or malformed parent material fails loudly with
	// domain.ErrMalformedKeyMaterial.
	Derive(parentKDK []byte, purpose string) (*domain.DerivedKeyMaterial, error)

	// DeriveKey produces a single 32-byte key for the sealed strategy,
	// mixing an entropy salt and the purpose into the derivation context.
	DeriveKey(parentKey, entropy []byte, purpose string) ([]byte, error)
}

// KeyedHash is the keyed-hash (MAC) capability with explicit duplication.
//
// The canonical keyed state is fixed at construction and never written
// through; every MAC computation operates on a short-lived duplicate
// obtained from Clone. This is what makes concurrent Protect/Unprotect
// calls on one protector mutually non-interfering.
type KeyedHash interface {
	// Clone returns a fresh hash.Hash keyed with the canonical key. The
	// returned instance is owned by the caller and must not be shared.
	Clone() hash.Hash

	// Size returns the digest size in bytes.
	Size() int

	// Close zeroes the canonical key. Idempotent.
	Close()
}

// AEAD is the authenticated-encryption capability used by the sealed
// strategy. Unlike the raw cipher primitives, AEAD envelopes are
// self-contained: Seal prepends the nonce, Open consumes it.
type AEAD interface {
	// Seal encrypts and authenticates plaintext, binding aad, and returns
	// nonce || ciphertext+tag.
	Seal(plaintext, aad []byte) ([]byte, error)

	// Open verifies and decrypts an envelope produced by Seal with the
	// same aad.
	Open(envelope, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD instances for the sealed strategy's algorithms.
type AEADManager interface {
	// CreateCipher creates an AEAD for the algorithm. Returns
	// domain.ErrInvalidKeySize if key is not 32 bytes or
	// domain.ErrUnsupportedAlgorithm if the algorithm is unknown.
	CreateCipher(key []byte, alg domain.Algorithm) (AEAD, error)
}

// KeeperService opens sealed-secret keepers for the sealed protection
// strategy.
type KeeperService interface {
	// OpenKeeper opens a keeper for the given key URI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://,
	// base64key://
	OpenKeeper(ctx context.Context, keyURI string) (domain.Keeper, error)
}
