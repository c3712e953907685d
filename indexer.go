package blindbench

import (
	"context"
	"fmt"
	"time"

	"github.com/ai8future/blindbench/store"
)

// Indexer materializes the write path of the blind index protocol: for each
// record, the deduplicated union of name- and email-prefixes becomes one
// bucket entry per prefix token, plus the plaintext-keyed control buckets.
//
// The same Normalize and prefix enumeration run here and at query time;
// any divergence means no token ever matches.
type Indexer struct {
	keys      *DerivedKeys
	maxPrefix int
}

// NewIndexer creates an Indexer for the given run keys.
func NewIndexer(keys *DerivedKeys) *Indexer {
	return &Indexer{keys: keys, maxPrefix: MaxPrefixLen}
}

// recordPrefixes is prefixes(name) ∪ prefixes(email), deduplicated.
func (ix *Indexer) recordPrefixes(p PersonRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, field := range []string{p.Name, p.Email} {
		for _, prefix := range Prefixes(field, ix.maxPrefix) {
			if !seen[prefix] {
				seen[prefix] = true
				out = append(out, prefix)
			}
		}
	}
	return out
}

// Seed encrypts and indexes a dataset into the store: one encrypted record
// per person, one index/{token} bucket per distinct prefix token, the
// plaintextIndex/{prefix} control buckets, and the datasets/{id} size
// document. Buckets are assembled in memory and written whole.
func (ix *Indexer) Seed(ctx context.Context, w store.Writer, datasetID string, people []PersonRecord) error {
	index := make(map[string][]string)
	plain := make(map[string][]string)

	for _, p := range people {
		rec, err := SealRecord(p, ix.keys.Enc)
		if err != nil {
			return fmt.Errorf("seal record %s: %w", p.ID, err)
		}
		if err := w.PutRecord(ctx, datasetID, rec); err != nil {
			return fmt.Errorf("put record %s: %w", p.ID, err)
		}
		for _, prefix := range ix.recordPrefixes(p) {
			token := ComputeToken(prefix, ix.keys.Index)
			index[token] = append(index[token], p.ID)
			plain[prefix] = append(plain[prefix], p.ID)
		}
	}

	for token, ids := range index {
		if err := w.PutIndexBucket(ctx, datasetID, token, ids); err != nil {
			return fmt.Errorf("put index bucket: %w", err)
		}
	}
	for prefix, ids := range plain {
		if err := w.PutPlainBucket(ctx, datasetID, prefix, ids); err != nil {
			return fmt.Errorf("put plaintext bucket: %w", err)
		}
	}

	return w.PutDataset(ctx, store.DatasetInfo{
		ID:        datasetID,
		Size:      len(people),
		UpdatedAt: time.Now().UTC(),
	})
}
