// Package domain defines the core domain models for purpose-scoped data
// protection.
//
// It implements a purpose-keyed protection hierarchy: a root secret is fanned
// out through a deterministic KDF into independent per-purpose key material,
// and each purpose protects opaque payloads with encrypt-then-MAC
// (AES-256-CBC + HMAC-SHA256) inside a fixed self-contained envelope.
package domain

// Envelope layout constants for the derived-key protection strategy.
//
// A protected envelope is a single byte string laid out as
//
//	[0:16)        IV
//	[16:len-32)   ciphertext, a positive multiple of the block size
//	[len-32:len)  HMAC-SHA256 tag over IV || ciphertext
//
// There is no version tag and no key identifier: the caller is responsible
// for unprotecting data with the protector (purpose) that produced it.
const (
	// BlockSize is the cipher block size in bytes (AES).
	BlockSize = 16

	// IVSize is the size of the random initialization vector in bytes.
	IVSize = 16

	// MACSize is the size of the HMAC-SHA256 tag in bytes.
	MACSize = 32

	// MinEnvelopeSize is the smallest well-formed envelope: an IV, one
	// ciphertext block, and a MAC. Anything shorter is rejected before any
	// cryptographic processing.
	MinEnvelopeSize = IVSize + BlockSize + MACSize
)

// EnvelopeSize returns the exact envelope length produced when protecting a
// plaintext of the given length.
//
// PKCS#7 padding always adds at least one byte and pads block-aligned input
// with a full extra block, so the ciphertext is always strictly longer than
// the plaintext:
//
//	EnvelopeSize(n) = IVSize + BlockSize*(1 + n/BlockSize) + MACSize
func EnvelopeSize(plaintextLen int) int {
	return IVSize + BlockSize*(1+plaintextLen/BlockSize) + MACSize
}
