package blindbench

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

const (
	// EncKeySize is the record-encryption key length. The KDF contract
	// assigns 32 bytes of output to this key, so the cipher is AES-256-GCM.
	EncKeySize = 32

	// NonceSize is the GCM nonce length: 96 bits, freshly random per record.
	// A nonce must never be reused with the same key.
	NonceSize = 12

	// TagSize is the GCM authentication tag length appended to ciphertext.
	TagSize = 16
)

// Encrypt seals plaintext under key with a fresh random 96-bit nonce.
// Returns the ciphertext (tag appended) and the nonce separately, matching
// the {ciphertext, iv} record layout of the remote store.
func Encrypt(plaintext, key []byte) (ciphertext, iv []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, NonceSize)
	if _, err := rand.Read(iv); err != nil {
		// Unrecoverable: the platform's random source is broken.
		panic("blindbench: crypto/rand failed: " + err.Error())
	}

	return aead.Seal(nil, iv, plaintext, nil), iv, nil
}

// Decrypt opens ciphertext sealed by Encrypt. A failed tag check returns
// ErrAuthenticationFailed, never corrupted plaintext; it signals a wrong
// key (wrong passphrase, salt, or KDF parameters) or tampered data.
func Decrypt(ciphertext, iv, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != NonceSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidFormat, NonceSize, len(iv))
	}
	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != EncKeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", ErrInvalidKeySize, EncKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	return aead, nil
}
