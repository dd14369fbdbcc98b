package domain

import (
	"github.com/allisson/dataprotection/internal/errors"
)

// Protection error definitions.
//
// The library distinguishes exactly two error classes. Configuration and
// programming errors (invalid purpose, malformed key material, misconfigured
// root secret) fail loudly with a specific sentinel. Data-integrity errors —
// anything an adversary can influence by handing a crafted envelope to
// Unprotect — collapse into the single ErrAuthenticationFailed sentinel with
// no distinguishing detail.
var (
	// ErrAuthenticationFailed is the one generic failure returned by
	// Unprotect for every integrity or format problem: short input,
	// corrupted IV, corrupted ciphertext, forged MAC, or any internal
	// decoding anomaly.
	//
	// The sub-cause is deliberately not disclosed. Distinguishing "bad MAC"
	// from "bad padding" from "malformed length" would reopen a
	// padding-oracle class of attack, so every failure path inside
	// Unprotect is converted to this error before it reaches the caller.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidPurpose indicates a missing or empty purpose string.
	//
	// Purposes name branches of the key-derivation hierarchy; an absent
	// purpose is a contract violation by the caller, not a runtime data
	// error.
	ErrInvalidPurpose = errors.Wrap(errors.ErrInvalidInput, "invalid purpose")

	// ErrInvalidKeySize indicates a cryptographic key of the wrong length.
	//
	// All keys in the hierarchy (cipher keys, MAC keys, and key-derivation
	// keys) must be exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrMalformedKeyMaterial indicates absent or malformed parent key
	// material handed to the key derivation function.
	//
	// This is an unrecoverable configuration error: derivation fails loudly
	// rather than silently substituting a default key.
	ErrMalformedKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "malformed key material")

	// ErrUnsupportedAlgorithm indicates an unknown sealed-strategy
	// algorithm. Supported: AESGCM, ChaCha20.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrRootKeyNotSet indicates the ROOT_KEY environment variable is not
	// configured.
	ErrRootKeyNotSet = errors.Wrap(errors.ErrInvalidInput, "ROOT_KEY not set")

	// ErrInvalidRootKeyBase64 indicates the configured root key is not
	// valid standard base64.
	ErrInvalidRootKeyBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid root key base64")

	// ErrProtectorClosed indicates an operation on a protector or provider
	// whose key material has already been released.
	ErrProtectorClosed = errors.New("protector is closed")
)
