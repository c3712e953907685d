package blindbench

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
)

// HashAlgo selects the hash backing token HMACs. Configuration state, not a
// module-level toggle: it travels inside the IndexKey so two runs with
// different parameter sets cannot interfere.
type HashAlgo string

const (
	HashSHA256 HashAlgo = "SHA-256" // default parameter set
	HashSHA512 HashAlgo = "SHA-512" // "PQ" parameter set
)

func (h HashAlgo) new() (func() hash.Hash, error) {
	switch h {
	case HashSHA256:
		return sha256.New, nil
	case HashSHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: unsupported HMAC hash %q", ErrConfiguration, string(h))
	}
}

// IndexKey is the keyed-PRF handle for blind-index tokens. The zero value is
// unusable; obtain one from DeriveKeys.
type IndexKey struct {
	key  []byte
	hash HashAlgo
}

// Hash reports the hash algorithm this key tokenizes with.
func (k IndexKey) Hash() HashAlgo { return k.hash }

// ComputeToken computes the deterministic search token for a normalized
// prefix: hex-encoded HMAC over the prefix under the index key. The token is
// the bucket key in the remote index; the store never sees the plaintext
// prefix.
//
// Same (prefix, key) always yields the same token. Collisions across
// unrelated prefixes are cryptographically negligible and not handled.
func ComputeToken(normalizedPrefix string, key IndexKey) string {
	newHash, err := key.hash.new()
	if err != nil {
		// IndexKey values come from DeriveKeys, which validates the algorithm.
		panic("blindbench: " + err.Error())
	}
	mac := hmac.New(newHash, key.key)
	mac.Write([]byte(normalizedPrefix))
	return hex.EncodeToString(mac.Sum(nil))
}
