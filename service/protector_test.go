package service

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/dataprotection/domain"
)

func newTestProtector(t *testing.T, parentKDK []byte, purpose string) *KeyedProtector {
	t.Helper()

	kdf := NewSP800108KDF()
	material, err := kdf.Derive(parentKDK, purpose)
	require.NoError(t, err)

	protector, err := NewKeyedProtector(material, kdf)
	require.NoError(t, err)
	return protector
}

func TestKeyedProtector_RoundTrip(t *testing.T) {
	parent := testParentKDK(t)
	protector := newTestProtector(t, parent, "session-cookie")
	defer protector.Close()

	tests := []struct {
		name         string
		plaintextLen int
	}{
		{name: "empty", plaintextLen: 0},
		{name: "one byte", plaintextLen: 1},
		{name: "below block", plaintextLen: 15},
		{name: "exactly one block", plaintextLen: 16},
		{name: "above block", plaintextLen: 17},
		{name: "several blocks", plaintextLen: 1000},
		{name: "large", plaintextLen: 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext := make([]byte, tt.plaintextLen)
			_, err := rand.Read(plaintext)
			require.NoError(t, err)

			envelope, err := protector.Protect(plaintext)
			require.NoError(t, err)
			assert.Equal(t, domain.EnvelopeSize(tt.plaintextLen), len(envelope))

			recovered, err := protector.Unprotect(envelope)
			require.NoError(t, err)
			assert.Equal(t, plaintext, recovered)
		})
	}

	t.Run("short plaintext yields minimum envelope", func(t *testing.T) {
		envelope, err := protector.Protect([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, domain.MinEnvelopeSize, len(envelope))
	})

	t.Run("envelopes differ between calls", func(t *testing.T) {
		first, err := protector.Protect([]byte("same payload"))
		require.NoError(t, err)
		second, err := protector.Protect([]byte("same payload"))
		require.NoError(t, err)

		// Fresh IV per call makes every envelope unique.
		assert.NotEqual(t, first, second)
	})
}

func TestKeyedProtector_Unprotect(t *testing.T) {
	parent := testParentKDK(t)
	protector := newTestProtector(t, parent, "session-cookie")
	defer protector.Close()

	envelope, err := protector.Protect([]byte("attack at dawn"))
	require.NoError(t, err)

	t.Run("tampering any byte fails with the generic error", func(t *testing.T) {
		for i := range envelope {
			tampered := make([]byte, len(envelope))
			copy(tampered, envelope)
			tampered[i] ^= 0x01

			_, err := protector.Unprotect(tampered)
			assert.EqualError(t, err, "authentication failed", "byte %d", i)
		}
	})

	t.Run("truncated envelope", func(t *testing.T) {
		for _, size := range []int{0, 1, 16, 47, 48, 63} {
			_, err := protector.Unprotect(envelope[:size])
			assert.ErrorIs(t, err, domain.ErrAuthenticationFailed, "size %d", size)
		}
	})

	t.Run("misaligned envelope length", func(t *testing.T) {
		extended := append(append([]byte{}, envelope...), 0x00)
		_, err := protector.Unprotect(extended)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("nil envelope", func(t *testing.T) {
		_, err := protector.Unprotect(nil)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("envelope from a different root", func(t *testing.T) {
		other := newTestProtector(t, testParentKDK(t), "session-cookie")
		defer other.Close()

		_, err := other.Unprotect(envelope)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("envelope from a different purpose", func(t *testing.T) {
		other := newTestProtector(t, parent, "csrf-token")
		defer other.Close()

		_, err := other.Unprotect(envelope)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})
}

func TestKeyedProtector_Determinism(t *testing.T) {
	parent := testParentKDK(t)

	t.Run("same root and purpose interoperate", func(t *testing.T) {
		writer := newTestProtector(t, parent, "session-cookie")
		defer writer.Close()
		reader := newTestProtector(t, parent, "session-cookie")
		defer reader.Close()

		envelope, err := writer.Protect([]byte("cross-instance payload"))
		require.NoError(t, err)

		recovered, err := reader.Unprotect(envelope)
		require.NoError(t, err)
		assert.Equal(t, []byte("cross-instance payload"), recovered)
	})
}

func TestKeyedProtector_DeriveSubProtector(t *testing.T) {
	parent := testParentKDK(t)
	protector := newTestProtector(t, parent, "A")
	defer protector.Close()

	t.Run("sub-protector round trip", func(t *testing.T) {
		sub, err := protector.DeriveSubProtector("B")
		require.NoError(t, err)
		defer sub.Close()

		envelope, err := sub.Protect([]byte("nested payload"))
		require.NoError(t, err)
		recovered, err := sub.Unprotect(envelope)
		require.NoError(t, err)
		assert.Equal(t, []byte("nested payload"), recovered)
	})

	t.Run("parent cannot read child envelopes", func(t *testing.T) {
		sub, err := protector.DeriveSubProtector("B")
		require.NoError(t, err)
		defer sub.Close()

		envelope, err := sub.Protect([]byte("child only"))
		require.NoError(t, err)

		_, err = protector.Unprotect(envelope)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("chain order matters", func(t *testing.T) {
		ab, err := newTestProtector(t, parent, "A").DeriveSubProtector("B")
		require.NoError(t, err)
		defer ab.Close()

		ba, err := newTestProtector(t, parent, "B").DeriveSubProtector("A")
		require.NoError(t, err)
		defer ba.Close()

		flat := newTestProtector(t, parent, "A.B")
		defer flat.Close()

		envelope, err := ab.Protect([]byte("ordering"))
		require.NoError(t, err)

		_, err = ba.Unprotect(envelope)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
		_, err = flat.Unprotect(envelope)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("empty purpose is rejected", func(t *testing.T) {
		_, err := protector.DeriveSubProtector("")
		assert.ErrorIs(t, err, domain.ErrInvalidPurpose)
	})

	t.Run("sub-protector survives parent close", func(t *testing.T) {
		local := newTestProtector(t, parent, "parent")
		sub, err := local.DeriveSubProtector("child")
		require.NoError(t, err)
		defer sub.Close()

		local.Close()

		envelope, err := sub.Protect([]byte("outlives the parent"))
		require.NoError(t, err)
		recovered, err := sub.Unprotect(envelope)
		require.NoError(t, err)
		assert.Equal(t, []byte("outlives the parent"), recovered)
	})
}

func TestKeyedProtector_Close(t *testing.T) {
	parent := testParentKDK(t)

	t.Run("operations fail after close", func(t *testing.T) {
		protector := newTestProtector(t, parent, "session-cookie")
		envelope, err := protector.Protect([]byte("payload"))
		require.NoError(t, err)

		protector.Close()

		_, err = protector.Protect([]byte("payload"))
		assert.ErrorIs(t, err, domain.ErrProtectorClosed)
		_, err = protector.Unprotect(envelope)
		assert.ErrorIs(t, err, domain.ErrProtectorClosed)
		_, err = protector.DeriveSubProtector("child")
		assert.ErrorIs(t, err, domain.ErrProtectorClosed)
	})

	t.Run("idempotent", func(t *testing.T) {
		protector := newTestProtector(t, parent, "session-cookie")
		assert.NotPanics(t, func() {
			protector.Close()
			protector.Close()
		})
	})
}

func TestKeyedProtector_Concurrency(t *testing.T) {
	parent := testParentKDK(t)
	protector := newTestProtector(t, parent, "session-cookie")
	defer protector.Close()

	var g errgroup.Group
	for i := range 20 {
		g.Go(func() error {
			plaintext := fmt.Appendf(nil, "payload-%d", i)
			for range 50 {
				envelope, err := protector.Protect(plaintext)
				if err != nil {
					return err
				}
				recovered, err := protector.Unprotect(envelope)
				if err != nil {
					return err
				}
				if string(recovered) != string(plaintext) {
					return fmt.Errorf("round trip mismatch for %q", plaintext)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
