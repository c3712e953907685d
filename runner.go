package blindbench

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ai8future/blindbench/cache"
	"github.com/ai8future/blindbench/store"
)

// Runner executes retrieval modes against one record/index store and one
// cache store, using keys derived for the current run. The derived keys are
// read-only for the duration of a run and owned exclusively by it.
//
// Phases within a mode run strictly sequentially (index, fetch, decrypt,
// scan): each phase's output is the next phase's input, and sequential
// execution is what makes the timing breakdown meaningful. Batch lookups are
// chunked and issued one chunk at a time for the same reason.
type Runner struct {
	store store.RecordStore
	cache cache.Store
	keys  *DerivedKeys
	log   *Logger

	batchSize      int
	scanPageSize   int
	maxResultFetch int
	cacheCap       int
}

// NewRunner creates a Runner. The cache store may be nil if ModeClientCache
// is never selected.
func NewRunner(st store.RecordStore, ca cache.Store, keys *DerivedKeys, opts ...Option) (*Runner, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: nil record store", ErrConfiguration)
	}
	if keys == nil {
		return nil, fmt.Errorf("%w: nil derived keys", ErrConfiguration)
	}

	r := &Runner{
		store:          st,
		cache:          ca,
		keys:           keys,
		log:            NoopLogger(),
		batchSize:      DefaultBatchSize,
		scanPageSize:   DefaultScanPageSize,
		maxResultFetch: DefaultMaxResultFetch,
		cacheCap:       DefaultCacheCap,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.batchSize > store.BatchGetLimit {
		r.batchSize = store.BatchGetLimit
	}
	return r, nil
}

// Run executes one mode for one query. An empty normalized query
// short-circuits to a zero-result outcome before any store access.
func (r *Runner) Run(ctx context.Context, mode Mode, datasetID, query string) (*Result, error) {
	normalized := Normalize(query)
	if normalized == "" {
		return emptyResult(mode), nil
	}

	var res *Result
	var err error
	switch mode {
	case ModeBlindIndex:
		res, err = r.runBlindIndex(ctx, datasetID, normalized)
	case ModeDecryptScan:
		res, err = r.runDecryptScan(ctx, datasetID, normalized)
	case ModeClientCache:
		res, err = r.runClientCache(ctx, datasetID, normalized)
	case ModePlainIndex:
		res, err = r.runPlainIndex(ctx, datasetID, normalized)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	r.log.logMode(ctx, mode, res, err)
	return res, err
}

// RunModes executes the selected modes one after another, never
// concurrently, in canonical order regardless of selection order. A failed
// mode reports its own error and does not block the remaining modes. With no
// explicit selection, all modes run.
func (r *Runner) RunModes(ctx context.Context, datasetID, query string, modes ...Mode) []ModeResult {
	selected := CanonicalModes()
	if len(modes) > 0 {
		selected = selectCanonical(modes)
	}

	out := make([]ModeResult, 0, len(selected))
	for _, mode := range selected {
		res, err := r.Run(ctx, mode, datasetID, query)
		out = append(out, ModeResult{Mode: mode, Result: res, Err: err})
	}
	return out
}

// runBlindIndex: one token-bucket point read, then batched fetch + decrypt.
// No local scan phase; correctness depends on the index being complete.
func (r *Runner) runBlindIndex(ctx context.Context, datasetID, normalized string) (*Result, error) {
	var bd Breakdown

	t := startPhase()
	token := ComputeToken(normalized, r.keys.Index)
	ids, err := r.store.GetIndexBucket(ctx, datasetID, token)
	bd.IndexMs = t.stop()
	if err != nil {
		return nil, fmt.Errorf("%w: index lookup: %v", ErrStoreUnavailable, err)
	}

	return r.finishIndexMode(ctx, ModeBlindIndex, datasetID, ids, bd)
}

// runPlainIndex is runBlindIndex without the token step: the bucket key is
// the normalized prefix itself.
func (r *Runner) runPlainIndex(ctx context.Context, datasetID, normalized string) (*Result, error) {
	var bd Breakdown

	t := startPhase()
	ids, err := r.store.GetPlainBucket(ctx, datasetID, normalized)
	bd.IndexMs = t.stop()
	if err != nil {
		return nil, fmt.Errorf("%w: plaintext index lookup: %v", ErrStoreUnavailable, err)
	}

	return r.finishIndexMode(ctx, ModePlainIndex, datasetID, ids, bd)
}

// finishIndexMode applies the capping policy, then fetches and decrypts the
// (possibly capped) id set. ResultCount reports the true bucket size; fetch
// and decrypt timings reflect only the capped subset.
func (r *Runner) finishIndexMode(ctx context.Context, mode Mode, datasetID string, ids []string, bd Breakdown) (*Result, error) {
	resultCount := len(ids)
	note := ""
	if len(ids) > r.maxResultFetch {
		ids = ids[:r.maxResultFetch]
		note = fmt.Sprintf("index bucket holds %d matches; fetched and decrypted only the first %d", resultCount, len(ids))
	}

	t := startPhase()
	records := make([]store.Record, 0, len(ids))
	for start := 0; start < len(ids); start += r.batchSize {
		end := min(start+r.batchSize, len(ids))
		chunk, err := r.store.BatchGetRecords(ctx, datasetID, ids[start:end])
		if err != nil {
			bd.FetchMs = t.stop()
			return nil, fmt.Errorf("%w: batch fetch: %v", ErrStoreUnavailable, err)
		}
		records = append(records, chunk...)
	}
	bd.FetchMs = t.stop()

	t = startPhase()
	hits, err := r.decryptAll(records)
	bd.DecryptMs = t.stop()
	if err != nil {
		return nil, err
	}

	return assembleResult(mode, bd, resultCount, hits, note), nil
}

// runDecryptScan fetches the full record set page by page, decrypts every
// record, and filters locally. The ground-truth baseline.
func (r *Runner) runDecryptScan(ctx context.Context, datasetID, normalized string) (*Result, error) {
	var bd Breakdown

	t := startPhase()
	records, err := r.fetchAll(ctx, datasetID, 0)
	bd.FetchMs = t.stop()
	if err != nil {
		return nil, err
	}

	t = startPhase()
	people, err := r.decryptAll(records)
	bd.DecryptMs = t.stop()
	if err != nil {
		return nil, err
	}

	t = startPhase()
	matches := filterByPrefix(people, normalized)
	bd.ScanMs = t.stop()

	return assembleResult(ModeDecryptScan, bd, len(matches), matches, ""), nil
}

// runClientCache scans the persisted decrypted snapshot, building it on
// first use. On the warm path the fetch and decrypt phases are skipped
// entirely; the cache read is timed as part of the local scan phase, since
// the snapshot is the scan's input source.
func (r *Runner) runClientCache(ctx context.Context, datasetID, normalized string) (*Result, error) {
	if r.cache == nil {
		return nil, fmt.Errorf("%w: no cache store configured", ErrConfiguration)
	}

	var bd Breakdown

	// Read failures and undecodable blobs degrade to "no cache present",
	// triggering a cold build; their read time belongs to the build.
	t := startPhase()
	cached := r.readCache(ctx, datasetID)
	readMs := t.stop()

	note := ""
	if cached == nil {
		bd.CacheBuildMs += readMs
		built, sizeNote, err := r.buildCache(ctx, datasetID, &bd)
		if err != nil {
			return nil, err
		}
		cached = built
		note = sizeNote
	} else {
		bd.ScanMs += readMs
		if cached.Cap > 0 && cached.RecordCount >= cached.Cap {
			note = fmt.Sprintf("cache capped at %d records; results reflect the cached subset only", cached.Cap)
		}
	}

	t = startPhase()
	matches := filterByPrefix(cached.Records, normalized)
	bd.ScanMs += t.stop()

	return assembleResult(ModeClientCache, bd, len(matches), matches, note), nil
}

// readCache returns the decoded snapshot or nil when no usable cache exists.
func (r *Runner) readCache(ctx context.Context, datasetID string) *CachedDataset {
	blob, err := r.cache.Get(ctx, datasetID)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			r.log.WarnContext(ctx, "cache read failed, rebuilding", "dataset", datasetID, "error", err)
		}
		return nil
	}
	cached, err := DecodeCachedDataset(blob)
	if err != nil {
		r.log.WarnContext(ctx, "cache blob undecodable, rebuilding", "dataset", datasetID, "error", err)
		return nil
	}
	return cached
}

// buildCache performs the cold path: fetch up to min(datasetSize, cacheCap)
// records, decrypt them, and persist the snapshot. Fetch and decrypt time
// land in their own phases; encoding and the cache write land in the
// cache-build phase.
func (r *Runner) buildCache(ctx context.Context, datasetID string, bd *Breakdown) (*CachedDataset, string, error) {
	t := startPhase()
	size := -1
	info, err := r.store.GetDataset(ctx, datasetID)
	switch {
	case err == nil:
		size = info.Size
	case errors.Is(err, store.ErrNotFound):
		// Size unknown; the scan below still stops at the cap.
	default:
		bd.FetchMs = t.stop()
		return nil, "", fmt.Errorf("%w: dataset lookup: %v", ErrStoreUnavailable, err)
	}

	records, err := r.fetchAll(ctx, datasetID, r.cacheCap)
	bd.FetchMs = t.stop()
	if err != nil {
		return nil, "", err
	}

	t = startPhase()
	people, err := r.decryptAll(records)
	bd.DecryptMs = t.stop()
	if err != nil {
		return nil, "", err
	}

	t = startPhase()
	cached := &CachedDataset{
		DatasetID:   datasetID,
		Records:     people,
		BuiltAt:     time.Now().UTC(),
		RecordCount: len(people),
		Cap:         r.cacheCap,
		BuildMs:     bd.FetchMs + bd.DecryptMs,
	}
	blob, err := EncodeCachedDataset(cached)
	if err == nil {
		err = r.cache.Put(ctx, datasetID, blob)
	}
	bd.CacheBuildMs += t.stop()
	if err != nil {
		// The snapshot still serves this run; only persistence failed.
		r.log.WarnContext(ctx, "cache write failed", "dataset", datasetID, "error", err)
	}

	note := ""
	if size > len(people) {
		note = fmt.Sprintf("cache holds %d of %d records; results reflect the cached subset only", len(people), size)
	} else if size < 0 && len(people) >= r.cacheCap {
		note = fmt.Sprintf("cache capped at %d records; results reflect the cached subset only", r.cacheCap)
	}
	return cached, note, nil
}

// fetchAll advances the scan cursor page by page until a short page signals
// exhaustion, or until max records have arrived (max <= 0 means unbounded).
// Pages are requested one at a time to keep fetch timing attributable.
func (r *Runner) fetchAll(ctx context.Context, datasetID string, max int) ([]store.Record, error) {
	var records []store.Record
	cursor := ""
	for {
		limit := r.scanPageSize
		if max > 0 && max-len(records) < limit {
			limit = max - len(records)
		}
		if limit <= 0 {
			break
		}
		page, next, err := r.store.ScanRecords(ctx, datasetID, cursor, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrStoreUnavailable, err)
		}
		records = append(records, page...)
		if len(page) < limit {
			break
		}
		cursor = next
	}
	return records, nil
}

// decryptAll opens records in fetch order. The first authentication failure
// aborts the mode: skipping the record silently would understate the result
// count.
func (r *Runner) decryptAll(records []store.Record) ([]PersonRecord, error) {
	people := make([]PersonRecord, 0, len(records))
	for _, rec := range records {
		p, err := OpenRecord(rec, r.keys.Enc)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}

// filterByPrefix keeps records whose normalized name or email starts with
// the normalized query. Order is preserved.
func filterByPrefix(people []PersonRecord, normalizedQuery string) []PersonRecord {
	var matches []PersonRecord
	for _, p := range people {
		if strings.HasPrefix(Normalize(p.Name), normalizedQuery) ||
			strings.HasPrefix(Normalize(p.Email), normalizedQuery) {
			matches = append(matches, p)
		}
	}
	return matches
}
