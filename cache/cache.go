// Package cache defines the persistent client-cache store: one opaque blob
// per dataset id, holding the encoded decrypted snapshot. Absence is a valid
// "no cache yet" signal, not an error.
//
// The blob schema (what a snapshot contains and how it is compressed) is
// owned by the benchmark engine; implementations only move bytes. This keeps
// the engine swappable between the in-memory store (tests) and a real
// persistent store (MinIO/S3) without touching retrieval logic.
package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no cache blob exists for a dataset.
//
// Implementations should return an error satisfying
// `errors.Is(err, ErrNotFound)`.
var ErrNotFound = errors.New("cache: not found")

// Store is a key-value blob store keyed by dataset id.
type Store interface {
	Get(ctx context.Context, datasetID string) ([]byte, error)
	Put(ctx context.Context, datasetID string, blob []byte) error
	Delete(ctx context.Context, datasetID string) error
}
