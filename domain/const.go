package domain

// Algorithm represents the authenticated-encryption algorithm used by the
// platform-sealed protection strategy.
//
// The sealed strategy derives a single key per purpose and relies on the
// cipher itself being authenticated, so only AEAD algorithms are offered.
// The derived-key strategy does not use this type: its envelope format is
// fixed to AES-256-CBC with an HMAC-SHA256 tag.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM combines AES encryption with GMAC authentication. It uses a
	// 256-bit key and performs best on hardware with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption
	// algorithm.
	//
	// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the
	// Poly1305 MAC. It is constant time in software and the better choice
	// on platforms without AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Key sizes in bytes. All keys in the hierarchy are 256 bits: the AES-256
// cipher key, the HMAC-SHA256 key, and the key-derivation keys that link
// one level of the purpose hierarchy to the next.
const (
	CipherKeySize        = 32
	MACKeySize           = 32
	KeyDerivationKeySize = 32
)
