package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dataprotection/domain"
)

func newAEADKey(t *testing.T) []byte {
	t.Helper()

	key := make([]byte, domain.CipherKeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAEADCiphers(t *testing.T) {
	tests := []struct {
		name string
		new  func(key []byte) (AEAD, error)
	}{
		{
			name: "aes-gcm",
			new:  func(key []byte) (AEAD, error) { return NewAESGCM(key) },
		},
		{
			name: "chacha20-poly1305",
			new:  func(key []byte) (AEAD, error) { return NewChaCha20Poly1305(key) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := newAEADKey(t)
			aead, err := tt.new(key)
			require.NoError(t, err)

			t.Run("invalid key size", func(t *testing.T) {
				for _, size := range []int{0, 16, 31, 33} {
					_, err := tt.new(make([]byte, size))
					assert.ErrorIs(t, err, domain.ErrInvalidKeySize)
				}
			})

			t.Run("round trip", func(t *testing.T) {
				for _, plaintextLen := range []int{0, 1, 16, 1000} {
					plaintext := make([]byte, plaintextLen)
					_, err := rand.Read(plaintext)
					require.NoError(t, err)

					envelope, err := aead.Seal(plaintext, nil)
					require.NoError(t, err)

					recovered, err := aead.Open(envelope, nil)
					require.NoError(t, err)
					assert.Equal(t, plaintext, recovered)
				}
			})

			t.Run("aad is bound", func(t *testing.T) {
				envelope, err := aead.Seal([]byte("payload"), []byte("context-a"))
				require.NoError(t, err)

				recovered, err := aead.Open(envelope, []byte("context-a"))
				require.NoError(t, err)
				assert.Equal(t, []byte("payload"), recovered)

				_, err = aead.Open(envelope, []byte("context-b"))
				assert.Error(t, err)
				_, err = aead.Open(envelope, nil)
				assert.Error(t, err)
			})

			t.Run("tampered envelope fails", func(t *testing.T) {
				envelope, err := aead.Seal([]byte("payload"), nil)
				require.NoError(t, err)

				envelope[len(envelope)-1] ^= 0x01
				_, err = aead.Open(envelope, nil)
				assert.Error(t, err)
			})

			t.Run("short envelope fails", func(t *testing.T) {
				_, err := aead.Open([]byte{0x01}, nil)
				assert.Error(t, err)
				_, err = aead.Open(nil, nil)
				assert.Error(t, err)
			})

			t.Run("wrong key fails", func(t *testing.T) {
				envelope, err := aead.Seal([]byte("payload"), nil)
				require.NoError(t, err)

				other, err := tt.new(newAEADKey(t))
				require.NoError(t, err)

				_, err = other.Open(envelope, nil)
				assert.Error(t, err)
			})
		})
	}
}

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := make([]byte, domain.CipherKeySize)

	t.Run("aes-gcm", func(t *testing.T) {
		aead, err := manager.CreateCipher(key, domain.AESGCM)
		require.NoError(t, err)
		assert.IsType(t, &AESGCMCipher{}, aead)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		aead, err := manager.CreateCipher(key, domain.ChaCha20)
		require.NoError(t, err)
		assert.IsType(t, &ChaCha20Poly1305Cipher{}, aead)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), domain.AESGCM)
		assert.ErrorIs(t, err, domain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(key, domain.Algorithm("des"))
		assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)
	})
}
