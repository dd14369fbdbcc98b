package service

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/allisson/dataprotection/domain"
)

// Fixed algorithm labels mixed into the derivation context. They bind the
// derived material to the cipher and MAC algorithms it will key, so a
// future algorithm change cannot silently reuse key material.
const (
	cipherAlgorithmLabel = "AES-256-CBC"
	macAlgorithmLabel    = "HMAC-SHA256"
	sealedAlgorithmLabel = "AEAD-SEALED"
)

// SP800108KDF implements the KeyDeriver interface with the SP 800-108
// counter-mode construction over HMAC-SHA512.
//
// Derivation is deterministic and keyed: repeated derivation with the same
// parent key and purpose yields bit-identical output. One 32-byte parent
// key-derivation key fans out into 96 bytes — cipher key, MAC key, and the
// child KDK for the next hierarchy level — in a single pass, so the three
// outputs are domain-separated from one another and from every other
// purpose string.
type SP800108KDF struct{}

// NewSP800108KDF creates a new SP800108KDF.
func NewSP800108KDF() *SP800108KDF {
	return &SP800108KDF{}
}

// Derive produces the full key material for one purpose from a parent
// key-derivation key.
//
// The purpose string is the derivation label; the context is the pair of
// fixed algorithm labels. The output is split as
// cipherKey(32) || macKey(32) || childKDK(32).
//
// Returns domain.ErrMalformedKeyMaterial if the parent key is absent or not
// exactly 32 bytes, and domain.ErrInvalidPurpose for an empty purpose.
// Both are loud configuration errors, distinct from the generic
// authentication failure of Unprotect.
func (s *SP800108KDF) Derive(parentKDK []byte, purpose string) (*domain.DerivedKeyMaterial, error) {
	if len(parentKDK) != domain.KeyDerivationKeySize {
		return nil, fmt.Errorf(
			"%w: parent key-derivation key must be %d bytes, got %d",
			domain.ErrMalformedKeyMaterial,
			domain.KeyDerivationKeySize,
			len(parentKDK),
		)
	}
	if err := domain.ValidatePurpose(purpose); err != nil {
		return nil, err
	}

	context := make([]byte, 0, len(cipherAlgorithmLabel)+1+len(macAlgorithmLabel))
	context = append(context, cipherAlgorithmLabel...)
	context = append(context, 0x00)
	context = append(context, macAlgorithmLabel...)

	total := domain.CipherKeySize + domain.MACKeySize + domain.KeyDerivationKeySize
	out := deriveBytes(parentKDK, []byte(purpose), context, total)

	return &domain.DerivedKeyMaterial{
		CipherKey:        out[:domain.CipherKeySize],
		MACKey:           out[domain.CipherKeySize : domain.CipherKeySize+domain.MACKeySize],
		KeyDerivationKey: out[domain.CipherKeySize+domain.MACKeySize:],
	}, nil
}

// DeriveKey produces the sealed strategy's single 32-byte key, mixing the
// entropy salt and the purpose into the derivation context. The entropy may
// be nil; the parent key may be any non-empty secret (unsealed root blobs
// are not required to be exactly 32 bytes).
func (s *SP800108KDF) DeriveKey(parentKey, entropy []byte, purpose string) ([]byte, error) {
	if len(parentKey) == 0 {
		return nil, fmt.Errorf("%w: parent key is empty", domain.ErrMalformedKeyMaterial)
	}
	if err := domain.ValidatePurpose(purpose); err != nil {
		return nil, err
	}

	context := make([]byte, 0, len(sealedAlgorithmLabel)+1+len(entropy))
	context = append(context, sealedAlgorithmLabel...)
	context = append(context, 0x00)
	context = append(context, entropy...)

	return deriveBytes(parentKey, []byte(purpose), context, domain.CipherKeySize), nil
}

// deriveBytes is the SP 800-108 KDF in counter mode (NIST SP 800-108r1,
// section 4.1) with HMAC-SHA512 as the PRF. For each block i (1-based):
//
//	K(i) = PRF(key, BE32(i) || label || 0x00 || context || BE32(length in bits))
//
// The result is the concatenation of blocks truncated to length bytes.
func deriveBytes(key, label, context []byte, length int) []byte {
	fixed := make([]byte, 0, len(label)+1+len(context)+4)
	fixed = append(fixed, label...)
	fixed = append(fixed, 0x00)
	fixed = append(fixed, context...)
	fixed = binary.BigEndian.AppendUint32(fixed, uint32(length*8))

	out := make([]byte, 0, length)
	var counter [4]byte
	for i := uint32(1); len(out) < length; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		prf := hmac.New(sha512.New, key)
		prf.Write(counter[:])
		prf.Write(fixed)
		out = append(out, prf.Sum(nil)...)
	}

	return out[:length]
}
