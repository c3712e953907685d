package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory RecordStore and Writer for tests and the
// self-contained demo backend. Thread-safe; reads return copies so callers
// cannot mutate stored state.
type Memory struct {
	mu       sync.RWMutex
	datasets map[string]*memDataset
}

type memDataset struct {
	info    DatasetInfo
	records map[string]Record
	ids     []string // sorted; the stable scan order
	index   map[string][]string
	plain   map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{datasets: make(map[string]*memDataset)}
}

func (m *Memory) dataset(datasetID string) *memDataset {
	ds, ok := m.datasets[datasetID]
	if !ok {
		ds = &memDataset{
			records: make(map[string]Record),
			index:   make(map[string][]string),
			plain:   make(map[string][]string),
		}
		m.datasets[datasetID] = ds
	}
	return ds
}

// GetDataset returns the dataset metadata document.
func (m *Memory) GetDataset(_ context.Context, datasetID string) (*DatasetInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, ok := m.datasets[datasetID]
	if !ok {
		return nil, ErrNotFound
	}
	info := ds.info
	return &info, nil
}

// BatchGetRecords fetches records by id, preserving the requested order.
func (m *Memory) BatchGetRecords(_ context.Context, datasetID string, ids []string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, ok := m.datasets[datasetID]
	if !ok {
		return nil, nil
	}
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := ds.records[id]; ok {
			out = append(out, copyRecord(rec))
		}
	}
	return out, nil
}

// ScanRecords returns one id-ordered page starting after cursor.
func (m *Memory) ScanRecords(_ context.Context, datasetID, cursor string, limit int) ([]Record, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, ok := m.datasets[datasetID]
	if !ok {
		return nil, "", nil
	}

	// First id strictly after the cursor.
	start := 0
	if cursor != "" {
		start = sort.SearchStrings(ds.ids, cursor)
		if start < len(ds.ids) && ds.ids[start] == cursor {
			start++
		}
	}

	end := start + limit
	if end > len(ds.ids) {
		end = len(ds.ids)
	}
	page := make([]Record, 0, end-start)
	for _, id := range ds.ids[start:end] {
		page = append(page, copyRecord(ds.records[id]))
	}

	next := ""
	if len(page) > 0 {
		next = page[len(page)-1].ID
	}
	return page, next, nil
}

// GetIndexBucket returns the ids under a token; nil if the bucket is absent.
func (m *Memory) GetIndexBucket(_ context.Context, datasetID, token string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, ok := m.datasets[datasetID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), ds.index[token]...), nil
}

// GetPlainBucket returns the ids under a plaintext prefix; nil if absent.
func (m *Memory) GetPlainBucket(_ context.Context, datasetID, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, ok := m.datasets[datasetID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), ds.plain[prefix]...), nil
}

// PutRecord stores a record and keeps the scan order sorted.
func (m *Memory) PutRecord(_ context.Context, datasetID string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ds := m.dataset(datasetID)
	if _, exists := ds.records[rec.ID]; !exists {
		i := sort.SearchStrings(ds.ids, rec.ID)
		ds.ids = append(ds.ids, "")
		copy(ds.ids[i+1:], ds.ids[i:])
		ds.ids[i] = rec.ID
	}
	ds.records[rec.ID] = copyRecord(rec)
	return nil
}

// PutIndexBucket writes a whole blind-index bucket.
func (m *Memory) PutIndexBucket(_ context.Context, datasetID, token string, recordIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dataset(datasetID).index[token] = append([]string(nil), recordIDs...)
	return nil
}

// PutPlainBucket writes a whole plaintext-index bucket.
func (m *Memory) PutPlainBucket(_ context.Context, datasetID, prefix string, recordIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dataset(datasetID).plain[prefix] = append([]string(nil), recordIDs...)
	return nil
}

// PutDataset writes the dataset metadata document.
func (m *Memory) PutDataset(_ context.Context, info DatasetInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dataset(info.ID).info = info
	return nil
}

func copyRecord(rec Record) Record {
	out := rec
	out.Ciphertext = append([]byte(nil), rec.Ciphertext...)
	out.IV = append([]byte(nil), rec.IV...)
	return out
}
