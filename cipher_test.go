package blindbench

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEncKey() []byte {
	return bytes.Repeat([]byte{0x42}, EncKeySize)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testEncKey()

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"short", []byte("hello")},
		{"empty", []byte{}},
		{"json payload", []byte(`{"name":"Ann","email":"ann@example.com"}`)},
		{"binary", []byte{0x00, 0xff, 0x10, 0x80}},
		{"large", bytes.Repeat([]byte("x"), 100_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, iv, err := Encrypt(tt.plaintext, key)
			require.NoError(t, err)
			require.Len(t, iv, NonceSize)
			// Tag appended to ciphertext.
			require.Len(t, ciphertext, len(tt.plaintext)+TagSize)

			got, err := Decrypt(ciphertext, iv, key)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key := testEncKey()

	ct1, iv1, err := Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)
	ct2, iv2, err := Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)

	assert.NotEqual(t, iv1, iv2, "nonce must never repeat under one key")
	assert.NotEqual(t, ct1, ct2)
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key := testEncKey()
	ciphertext, iv, err := Encrypt([]byte("sensitive"), key)
	require.NoError(t, err)

	// Flipping any single bit of the ciphertext must fail authentication.
	for i := range ciphertext {
		tampered := append([]byte(nil), ciphertext...)
		tampered[i] ^= 0x01
		_, err := Decrypt(tampered, iv, key)
		require.ErrorIs(t, err, ErrAuthenticationFailed, "flipped ciphertext byte %d", i)
	}

	// Same for the iv.
	for i := range iv {
		tampered := append([]byte(nil), iv...)
		tampered[i] ^= 0x01
		_, err := Decrypt(ciphertext, tampered, key)
		require.ErrorIs(t, err, ErrAuthenticationFailed, "flipped iv byte %d", i)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	ciphertext, iv, err := Encrypt([]byte("sensitive"), testEncKey())
	require.NoError(t, err)

	wrongKey := bytes.Repeat([]byte{0x43}, EncKeySize)
	_, err = Decrypt(ciphertext, iv, wrongKey)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestEncrypt_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		_, _, err := Encrypt([]byte("x"), make([]byte, size))
		require.ErrorIs(t, err, ErrInvalidKeySize, "key size %d", size)
	}
}

func TestDecrypt_InvalidIVSize(t *testing.T) {
	key := testEncKey()
	ciphertext, _, err := Encrypt([]byte("x"), key)
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, make([]byte, 8), key)
	require.ErrorIs(t, err, ErrInvalidFormat)
}
