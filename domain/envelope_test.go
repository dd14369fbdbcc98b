package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeSize(t *testing.T) {
	tests := []struct {
		name         string
		plaintextLen int
		want         int
	}{
		{name: "empty plaintext", plaintextLen: 0, want: 64},
		{name: "one byte", plaintextLen: 1, want: 64},
		{name: "five bytes", plaintextLen: 5, want: 64},
		{name: "one byte below block", plaintextLen: 15, want: 64},
		{name: "exactly one block", plaintextLen: 16, want: 80},
		{name: "one byte above block", plaintextLen: 17, want: 80},
		{name: "two blocks", plaintextLen: 32, want: 96},
		{name: "large plaintext", plaintextLen: 1000, want: 48 + 16*(1+1000/16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvelopeSize(tt.plaintextLen))
		})
	}
}

func TestEnvelopeSize_AlwaysExpandsPlaintext(t *testing.T) {
	// Padding adds at least one byte, so the ciphertext region is always
	// strictly longer than the plaintext.
	for n := 0; n <= 256; n++ {
		ciphertextLen := EnvelopeSize(n) - IVSize - MACSize
		assert.Greater(t, ciphertextLen, n)
		assert.Equal(t, 0, ciphertextLen%BlockSize)
	}
}

func TestMinEnvelopeSize(t *testing.T) {
	assert.Equal(t, EnvelopeSize(0), MinEnvelopeSize)
	assert.Equal(t, 64, MinEnvelopeSize)
}
