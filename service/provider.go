package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/allisson/dataprotection/domain"
)

// KeyProtectionProvider implements the ProtectionProvider interface for the
// derived-key strategy: the root secret is a 32-byte key-derivation key,
// and every CreateProtector call splits off an independent
// {cipher key, MAC key, child KDK} triple through the KDF.
//
// The provider owns its copy of the root key exclusively; the key is never
// exposed to callers and is zeroed on Close. Creating a protector is a pure
// function of (root key, purpose) with no side effects beyond allocating
// key material, so providers are safe to share across goroutines.
type KeyProtectionProvider struct {
	id        uuid.UUID
	rootKeyID string
	rootKDK   []byte
	kdf       KeyDeriver
	logger    *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewKeyProtectionProvider creates a provider over a copy of the given root
// key. The RootKey remains owned by the caller and may be closed once the
// provider is constructed.
//
// Returns domain.ErrInvalidKeySize if the root key is not exactly 32 bytes.
func NewKeyProtectionProvider(
	rootKey *domain.RootKey,
	kdf KeyDeriver,
	logger *slog.Logger,
) (*KeyProtectionProvider, error) {
	if len(rootKey.Key) != domain.KeyDerivationKeySize {
		return nil, domain.ErrInvalidKeySize
	}
	if logger == nil {
		logger = slog.Default()
	}

	owned := make([]byte, len(rootKey.Key))
	copy(owned, rootKey.Key)

	return &KeyProtectionProvider{
		id:        uuid.Must(uuid.NewV7()),
		rootKeyID: rootKey.ID,
		rootKDK:   owned,
		kdf:       kdf,
		logger:    logger,
	}, nil
}

// ID returns the provider's instance identifier, used in logs and metrics
// attributes.
func (p *KeyProtectionProvider) ID() uuid.UUID {
	return p.id
}

// CreateProtector derives an independent protector for the purpose.
//
// Derivation is deterministic: the same root key and purpose always yield
// the same key material; only per-operation IVs are random. The context is
// unused by this strategy (derivation is local and CPU-bound) and accepted
// for interface symmetry with the sealed provider.
//
// Returns domain.ErrInvalidPurpose for an empty purpose and
// domain.ErrProtectorClosed after Close.
func (p *KeyProtectionProvider) CreateProtector(ctx context.Context, purpose string) (Protector, error) {
	if p.closed.Load() {
		return nil, domain.ErrProtectorClosed
	}
	if err := domain.ValidatePurpose(purpose); err != nil {
		return nil, err
	}

	material, err := p.kdf.Derive(p.rootKDK, purpose)
	if err != nil {
		return nil, err
	}

	protector, err := NewKeyedProtector(material, p.kdf)
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "protector created",
		slog.String("provider_id", p.id.String()),
		slog.String("root_key_id", p.rootKeyID),
		slog.String("purpose", purpose),
	)

	return protector, nil
}

// Close zeroes the provider's root key-derivation key. Protectors already
// created remain usable. Idempotent.
func (p *KeyProtectionProvider) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		domain.Zero(p.rootKDK)
		p.logger.Debug("protection provider closed",
			slog.String("provider_id", p.id.String()),
		)
	})
}
