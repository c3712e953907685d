package blindbench

import "errors"

var (
	// ErrConfiguration indicates missing or invalid run configuration
	// (passphrase, salt, or KDF parameter set). Fatal: no store access
	// happens after this is returned.
	ErrConfiguration = errors.New("blindbench: invalid configuration")

	// ErrAuthenticationFailed indicates the GCM tag check failed during
	// decryption: wrong key or corrupted ciphertext. Distinct from format
	// errors because it usually means a wrong passphrase.
	ErrAuthenticationFailed = errors.New("blindbench: authentication failed")

	// ErrCryptoFailure indicates the cipher provider rejected the key material.
	ErrCryptoFailure = errors.New("blindbench: crypto provider failure")

	// ErrInvalidKeySize indicates a key of the wrong length was supplied.
	ErrInvalidKeySize = errors.New("blindbench: invalid key size")

	// ErrInvalidFormat indicates a malformed ciphertext, IV, or cache blob.
	ErrInvalidFormat = errors.New("blindbench: invalid format")

	// ErrStoreUnavailable indicates the record/index store failed during a
	// fetch or index lookup. It aborts the affected mode only; sibling modes
	// in the same run still execute.
	ErrStoreUnavailable = errors.New("blindbench: store unavailable")

	// ErrUnknownMode indicates an unrecognized retrieval mode name.
	ErrUnknownMode = errors.New("blindbench: unknown retrieval mode")

	// ErrDecompressionFailed indicates a cache blob failed to decompress.
	ErrDecompressionFailed = errors.New("blindbench: decompression failed")
)
