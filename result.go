package blindbench

// MaxHits caps the records attached to a result, regardless of how many
// matched. ResultCount always reports the true match count.
const MaxHits = 20

// Breakdown attributes a mode's latency to its phases, in milliseconds.
// Every field is always present; phases a mode does not exercise report 0,
// keeping the schema uniform across modes.
type Breakdown struct {
	IndexMs      float64 `json:"indexMs"`
	FetchMs      float64 `json:"fetchMs"`
	DecryptMs    float64 `json:"decryptMs"`
	ScanMs       float64 `json:"scanMs"`
	CacheBuildMs float64 `json:"cacheBuildMs"`
}

// sum is the total of all phases; phases not exercised contribute 0, so
// this equals the sum of the phases actually used.
func (b Breakdown) sum() float64 {
	return b.IndexMs + b.FetchMs + b.DecryptMs + b.ScanMs + b.CacheBuildMs
}

// Result is the unit of output per mode per run. Immutable once produced.
//
// Hits holds at most MaxHits records in the order the underlying fetch
// returned them (no re-sorting). When a result was capped or sampled,
// SampleNote explains the discrepancy between ResultCount and what was
// fetched; it is never silent.
type Result struct {
	Mode        Mode           `json:"mode"`
	TotalMs     float64        `json:"totalMs"`
	Breakdown   Breakdown      `json:"breakdown"`
	ResultCount int            `json:"resultCount"`
	SampleNote  string         `json:"sampleNote,omitempty"`
	Hits        []PersonRecord `json:"hits"`
}

// ModeResult pairs a mode with its outcome. A failed mode carries its error
// here and does not block sibling modes in the same run.
type ModeResult struct {
	Mode   Mode    `json:"mode"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// assembleResult finalizes a result: totals the breakdown and truncates hits.
func assembleResult(mode Mode, bd Breakdown, resultCount int, hits []PersonRecord, sampleNote string) *Result {
	if len(hits) > MaxHits {
		hits = hits[:MaxHits]
	}
	return &Result{
		Mode:        mode,
		TotalMs:     bd.sum(),
		Breakdown:   bd,
		ResultCount: resultCount,
		SampleNote:  sampleNote,
		Hits:        hits,
	}
}

// emptyResult is the zero-match outcome for an empty normalized query.
// Not an error: the mode short-circuits before touching the store.
func emptyResult(mode Mode) *Result {
	return assembleResult(mode, Breakdown{}, 0, nil, "")
}
