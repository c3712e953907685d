// Package store defines the record/index store consumed by the benchmark
// engine: point reads of index buckets, bounded batch reads of encrypted
// records, and a cursor-paginated scan in stable id order.
//
// The engine treats the store as an external collaborator. Implementations:
// Memory (tests and self-contained demos) and dynamo.Store (DynamoDB).
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested document does not exist.
//
// Implementations should return an error satisfying
// `errors.Is(err, ErrNotFound)`. Note that an absent index bucket is NOT an
// error: bucket reads return (nil, nil), meaning zero matches.
var ErrNotFound = errors.New("store: not found")

// BatchGetLimit is the maximum number of ids a single BatchGetRecords call
// may carry. Callers chunk larger id sets.
const BatchGetLimit = 10

// Record is the stored form of one person record: authenticated ciphertext
// plus the nonce it was sealed with.
type Record struct {
	ID         string
	Ciphertext []byte
	IV         []byte
	Version    int
}

// DatasetInfo is the datasets/{id} document.
type DatasetInfo struct {
	ID        string
	Size      int
	UpdatedAt time.Time
}

// RecordStore is the read surface the retrieval modes consume.
type RecordStore interface {
	// GetDataset returns the dataset metadata document.
	GetDataset(ctx context.Context, datasetID string) (*DatasetInfo, error)

	// BatchGetRecords fetches the records for up to BatchGetLimit ids in the
	// order the ids were given. Missing ids are skipped, not errors.
	BatchGetRecords(ctx context.Context, datasetID string, ids []string) ([]Record, error)

	// ScanRecords returns one page of records in stable id order, starting
	// after cursor (empty cursor starts from the beginning). The returned
	// cursor resumes the scan; a short page signals exhaustion.
	ScanRecords(ctx context.Context, datasetID, cursor string, limit int) ([]Record, string, error)

	// GetIndexBucket returns the record ids under a blind-index token, in the
	// store's native bucket order. An absent bucket yields (nil, nil).
	GetIndexBucket(ctx context.Context, datasetID, token string) ([]string, error)

	// GetPlainBucket is GetIndexBucket keyed by the normalized plaintext
	// prefix instead of its token. The control condition.
	GetPlainBucket(ctx context.Context, datasetID, prefix string) ([]string, error)
}

// Writer is the write surface used by the index builder. Buckets are
// written whole; the seeding job owns bucket assembly.
type Writer interface {
	PutRecord(ctx context.Context, datasetID string, rec Record) error
	PutIndexBucket(ctx context.Context, datasetID, token string, recordIDs []string) error
	PutPlainBucket(ctx context.Context, datasetID, prefix string, recordIDs []string) error
	PutDataset(ctx context.Context, info DatasetInfo) error
}
