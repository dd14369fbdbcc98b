package service

import (
	"github.com/allisson/dataprotection/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD
// cipher instances for the sealed protection strategy.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// Returns domain.ErrInvalidKeySize if key is not 32 bytes or
// domain.ErrUnsupportedAlgorithm if the algorithm is unknown.
func (am *AEADManagerService) CreateCipher(key []byte, alg domain.Algorithm) (AEAD, error) {
	if len(key) != domain.CipherKeySize {
		return nil, domain.ErrInvalidKeySize
	}

	switch alg {
	case domain.AESGCM:
		return NewAESGCM(key)
	case domain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, domain.ErrUnsupportedAlgorithm
	}
}
