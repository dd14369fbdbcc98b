package domain

// DerivedKeyMaterial is the output of one KDF invocation for a purpose: the
// operational key pair for this level of the hierarchy plus the
// key-derivation key for the next level.
//
// CipherKey and MACKey are used directly by the protector for this purpose.
// KeyDerivationKey is never used for encryption or authentication; its only
// legitimate use is as the parent input when deriving a sub-purpose. The
// three values are produced in a single derivation pass and are
// cryptographically independent of one another and of any other purpose
// string.
type DerivedKeyMaterial struct {
	CipherKey        []byte // AES-256 key (32 bytes)
	MACKey           []byte // HMAC-SHA256 key (32 bytes)
	KeyDerivationKey []byte // parent KDK for sub-purpose derivation (32 bytes)
}

// Close zeroes the operational keys.
//
// The key-derivation key is intentionally left intact: sub-protectors
// derived from this material may outlive it, and the KDK is plain managed
// memory in this design. Callers targeting higher assurance can zero it
// explicitly.
func (d *DerivedKeyMaterial) Close() {
	Zero(d.CipherKey)
	Zero(d.MACKey)
}
