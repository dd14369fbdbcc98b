package domain

import (
	"encoding/base64"
	"fmt"
	"os"
)

// RootKey is the root of a protection hierarchy: a key-derivation key from
// which every purpose-bound protector is derived.
//
// Root keys should live in a Key Management Service and reach the process
// through the sealed provider; the environment-variable loader below exists
// for development and test environments.
//
// Security considerations:
//   - The key must be 32 bytes (256 bits) of cryptographically secure
//     randomness.
//   - A root key is only ever an input to key derivation, never used for
//     direct encryption.
//   - The key is owned exclusively by the provider constructed from it and
//     is never exposed to callers.
//
// Fields:
//   - ID: identifier for the root key (e.g., "prod-root-2026"), used in
//     logs and metrics attributes only.
//   - Key: the raw 32-byte key-derivation key.
type RootKey struct {
	ID  string
	Key []byte
}

// Close zeroes the root key material. Idempotent.
func (r *RootKey) Close() {
	Zero(r.Key)
}

// LoadRootKeyFromEnv loads the root key-derivation key from environment
// variables.
//
// Two variables are read:
//   - ROOT_KEY: the key material, standard base64, exactly 32 bytes decoded
//   - ROOT_KEY_ID: optional identifier; defaults to "root"
//
// The temporary decoded buffer is owned by the returned RootKey; callers
// must Close it when the provider built from it is disposed.
//
// Returns:
//   - ErrRootKeyNotSet if ROOT_KEY is not configured
//   - ErrInvalidRootKeyBase64 if base64 decoding fails
//   - ErrInvalidKeySize if the decoded key is not exactly 32 bytes
func LoadRootKeyFromEnv() (*RootKey, error) {
	raw := os.Getenv("ROOT_KEY")
	if raw == "" {
		return nil, ErrRootKeyNotSet
	}

	id := os.Getenv("ROOT_KEY_ID")
	if id == "" {
		id = "root"
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRootKeyBase64, err)
	}
	if len(key) != KeyDerivationKeySize {
		Zero(key)
		return nil, fmt.Errorf(
			"%w: root key must be %d bytes, got %d",
			ErrInvalidKeySize,
			KeyDerivationKeySize,
			len(key),
		)
	}

	return &RootKey{ID: id, Key: key}, nil
}
