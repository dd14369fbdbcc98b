package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dataprotection/domain"
)

func TestNewHMACSHA256(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		kh, err := NewHMACSHA256(make([]byte, 32))
		require.NoError(t, err)
		assert.NotNil(t, kh)
		assert.Equal(t, 32, kh.Size())
	})

	t.Run("invalid key size", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33} {
			_, err := NewHMACSHA256(make([]byte, size))
			assert.ErrorIs(t, err, domain.ErrInvalidKeySize)
		}
	})

	t.Run("owns a copy of the key", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		kh, err := NewHMACSHA256(key)
		require.NoError(t, err)

		expected := hmac.New(sha256.New, key)
		expected.Write([]byte("payload"))

		// Mutating the caller's slice must not affect the keyed hash.
		domain.Zero(key)

		mac := kh.Clone()
		mac.Write([]byte("payload"))
		assert.Equal(t, expected.Sum(nil), mac.Sum(nil))
	})
}

func TestHMACSHA256_Clone(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	kh, err := NewHMACSHA256(key)
	require.NoError(t, err)

	t.Run("clones are independent", func(t *testing.T) {
		first := kh.Clone()
		second := kh.Clone()

		first.Write([]byte("first payload"))
		second.Write([]byte("second payload"))

		assert.NotEqual(t, first.Sum(nil), second.Sum(nil))
	})

	t.Run("canonical state is never mutated", func(t *testing.T) {
		// Using one clone heavily must not change what later clones
		// compute.
		busy := kh.Clone()
		for range 100 {
			busy.Write([]byte("churn"))
		}

		a := kh.Clone()
		a.Write([]byte("data"))
		b := kh.Clone()
		b.Write([]byte("data"))
		assert.Equal(t, a.Sum(nil), b.Sum(nil))
	})

	t.Run("matches direct hmac computation", func(t *testing.T) {
		mac := kh.Clone()
		mac.Write([]byte("data"))

		expected := hmac.New(sha256.New, key)
		expected.Write([]byte("data"))
		assert.Equal(t, expected.Sum(nil), mac.Sum(nil))
	})
}

func TestHMACSHA256_Close(t *testing.T) {
	kh, err := NewHMACSHA256(make([]byte, 32))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		kh.Close()
		kh.Close()
	})
}
