package domain

import "context"

// Keeper abstracts the platform secret-sealing primitive used by the sealed
// protection strategy. *secrets.Keeper from gocloud.dev/secrets implements
// this interface; tests can substitute a fake.
type Keeper interface {
	// Encrypt seals plaintext under the keeper's key.
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)

	// Decrypt unseals a blob previously sealed with Encrypt.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)

	// Close releases any resources held by the keeper.
	Close() error
}
