package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/allisson/dataprotection/domain"
)

// SealedProtectionProvider implements the ProtectionProvider interface for
// the platform-sealed strategy: the root secret is an opaque blob sealed by
// an external keeper (KMS, Vault, or a local key), plus an entropy salt.
//
// Each CreateProtector call unseals the blob through the keeper, mixes the
// entropy and purpose into a single derived key, and hands that key to an
// authenticated cipher. Root-secret confidentiality is therefore exactly as
// strong as the backing keeper.
type SealedProtectionProvider struct {
	id          uuid.UUID
	keeper      domain.Keeper
	sealedRoot  []byte
	entropy     []byte
	alg         domain.Algorithm
	kdf         KeyDeriver
	aeadManager AEADManager
	logger      *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewSealedProtectionProvider creates a provider over a keeper-sealed root
// blob. The entropy salt may be nil; it is mixed into every derivation when
// present. The blob is not unsealed until the first CreateProtector call.
func NewSealedProtectionProvider(
	keeper domain.Keeper,
	sealedRoot []byte,
	entropy []byte,
	alg domain.Algorithm,
	kdf KeyDeriver,
	aeadManager AEADManager,
	logger *slog.Logger,
) (*SealedProtectionProvider, error) {
	if len(sealedRoot) == 0 {
		return nil, fmt.Errorf("%w: sealed root blob is empty", domain.ErrMalformedKeyMaterial)
	}
	switch alg {
	case domain.AESGCM, domain.ChaCha20:
	default:
		return nil, domain.ErrUnsupportedAlgorithm
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SealedProtectionProvider{
		id:          uuid.Must(uuid.NewV7()),
		keeper:      keeper,
		sealedRoot:  sealedRoot,
		entropy:     entropy,
		alg:         alg,
		kdf:         kdf,
		aeadManager: aeadManager,
		logger:      logger,
	}, nil
}

// ID returns the provider's instance identifier.
func (p *SealedProtectionProvider) ID() uuid.UUID {
	return p.id
}

// CreateProtector unseals the root blob through the keeper and derives a
// single-key AEAD protector for the purpose. The unsealed root is zeroed
// before returning; only the derived key lives in the protector.
func (p *SealedProtectionProvider) CreateProtector(ctx context.Context, purpose string) (Protector, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}
	if err := domain.ValidatePurpose(purpose); err != nil {
		return nil, err
	}

	root, err := p.keeper.Decrypt(ctx, p.sealedRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal root secret: %w", err)
	}
	defer domain.Zero(root)

	key, err := p.kdf.DeriveKey(root, p.entropy, purpose)
	if err != nil {
		return nil, err
	}

	protector, err := NewSealedProtector(key, p.alg, p.kdf, p.aeadManager)
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "sealed protector created",
		slog.String("provider_id", p.id.String()),
		slog.String("algorithm", string(p.alg)),
		slog.String("purpose", purpose),
	)

	return protector, nil
}

// Close releases the keeper. Idempotent, never fails; a keeper close error
// is logged and swallowed.
func (p *SealedProtectionProvider) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if err := p.keeper.Close(); err != nil {
			p.logger.Warn("failed to close keeper",
				slog.String("provider_id", p.id.String()),
				slog.String("error", err.Error()),
			)
		}
	})
}
