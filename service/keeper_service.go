package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	"github.com/allisson/dataprotection/domain"

	// Register all sealed-secret keeper drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// keeperService implements KeeperService using gocloud.dev/secrets.
type keeperService struct{}

// NewKeeperService creates a new keeper service instance.
func NewKeeperService() KeeperService {
	return &keeperService{}
}

// OpenKeeper opens a secrets.Keeper for the configured provider using the
// keyURI. Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://,
// base64key://. Returns a domain.Keeper which *secrets.Keeper implements.
func (k *keeperService) OpenKeeper(ctx context.Context, keyURI string) (domain.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open keeper: %w", err)
	}
	return keeper, nil
}
