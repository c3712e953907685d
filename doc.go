// Package blindbench benchmarks retrieval strategies over an encrypted
// dataset of person records, measuring where latency goes when searching by
// name or email prefix under different confidentiality trade-offs.
//
// Four interchangeable retrieval modes share one result shape:
//
//   - Blind Index: deterministic HMAC token lookup, batched fetch, decrypt.
//     The store never sees the plaintext search term.
//   - Decrypt-and-Scan: fetch everything, decrypt everything, filter locally.
//     The ground-truth baseline.
//   - Client Cache: decrypt once into a persisted snapshot (bounded by a
//     cap), then scan the snapshot on subsequent runs.
//   - Plaintext Index: same shape as Blind Index but keyed by the plaintext
//     prefix. The explicit control condition; no zero-trust property.
//
// # Keys
//
// Both keys are derived per run from a passphrase and salt using
// PBKDF2-SHA256:
//
//	keys, err := blindbench.DeriveKeys(passphrase, salt, blindbench.DefaultParams())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Bytes [0,32) of the KDF output become the record-encryption key
// (AES-256-GCM) and bytes [32,64) become the blind-index key. Writer and
// reader never exchange keys; matching (passphrase, salt, params) is the
// whole agreement protocol. A parameter-set mismatch makes every token
// lookup return an empty bucket, by design of deterministic tokenization.
//
// # Running a benchmark
//
//	runner, err := blindbench.NewRunner(recordStore, cacheStore, keys)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results := runner.RunModes(ctx, "persons", "ann",
//	    blindbench.ModeBlindIndex, blindbench.ModeDecryptScan)
//
// Modes execute strictly sequentially in a fixed canonical order so repeated
// comparisons stay visually stable and one mode's I/O cannot skew another's
// measured latency. Each result carries a per-phase breakdown (index, fetch,
// decrypt, scan, cache build) whose sum is the reported total.
//
// # Leakage
//
// Deterministic tokenization leaks equality, frequency and access patterns.
// This package measures the latency cost of the blind-index trade-off; it
// does not attempt to hide that leakage.
package blindbench
