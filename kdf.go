package blindbench

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// kdfOutputLen is the total PBKDF2 output: 32 bytes of encryption key
// followed by 32 bytes of index key material. The byte layout is a fixed
// contract shared by writers and readers; changing it orphans every
// existing ciphertext and index bucket.
const kdfOutputLen = 64

// Params is a KDF parameter set. Writers and readers must use the same set:
// iteration count feeds key derivation, HMACHash feeds token computation,
// and a mismatch in either makes index data unreadable (lookups return
// empty buckets, not errors).
type Params struct {
	Iterations int
	HMACHash   HashAlgo
}

// DefaultParams is the standard parameter set.
func DefaultParams() Params {
	return Params{Iterations: 100_000, HMACHash: HashSHA256}
}

// PQParams is the hardened "PQ" parameter set: triple the PBKDF2 work and
// SHA-512 tokens. Index data built under one set is invisible under the
// other; that is the compatibility contract, not a bug.
func PQParams() Params {
	return Params{Iterations: 300_000, HMACHash: HashSHA512}
}

// ParamsByName resolves a profile name ("default" or "pq") to its
// parameter set.
func ParamsByName(name string) (Params, error) {
	switch name {
	case "", "default":
		return DefaultParams(), nil
	case "pq":
		return PQParams(), nil
	default:
		return Params{}, fmt.Errorf("%w: unknown KDF profile %q", ErrConfiguration, name)
	}
}

// DerivedKeys holds the two independent keys derived for one benchmark run.
// They are never persisted; hold them only for the duration of the run.
type DerivedKeys struct {
	Enc   []byte   // record-encryption key, KDF output bytes [0,32)
	Index IndexKey // blind-index key, KDF output bytes [32,64)
}

// DeriveKeys runs PBKDF2-SHA256 over (passphrase, salt) for
// params.Iterations rounds and splits the 64-byte output into the
// record-encryption key and the blind-index key.
//
// Derivation is deterministic: independent writer and reader processes
// agree on keys by agreeing on (passphrase, salt, params), without ever
// transmitting key material. The salt is not a secret but must match
// exactly or all derived keys diverge.
func DeriveKeys(passphrase string, salt []byte, params Params) (*DerivedKeys, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty passphrase", ErrConfiguration)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrConfiguration)
	}
	if params.Iterations <= 0 {
		return nil, fmt.Errorf("%w: non-positive KDF iteration count", ErrConfiguration)
	}
	if _, err := params.HMACHash.new(); err != nil {
		return nil, err
	}

	material := pbkdf2.Key([]byte(passphrase), salt, params.Iterations, kdfOutputLen, sha256.New)

	return &DerivedKeys{
		Enc: material[:32],
		Index: IndexKey{
			key:  material[32:64],
			hash: params.HMACHash,
		},
	}, nil
}

// Zero overwrites the derived key material. The DerivedKeys value is
// unusable afterwards.
func (k *DerivedKeys) Zero() {
	for i := range k.Enc {
		k.Enc[i] = 0
	}
	for i := range k.Index.key {
		k.Index.key[i] = 0
	}
}
