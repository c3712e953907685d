package blindbench

// Engine policy defaults. All are option-overridable per Runner.
const (
	// DefaultBatchSize bounds how many ids one batch-get request carries.
	// Must not exceed the store's batch-lookup limit.
	DefaultBatchSize = 10

	// DefaultScanPageSize is the page size of the full-dataset scan.
	DefaultScanPageSize = 100

	// DefaultMaxResultFetch caps how many matched ids are fetched and
	// decrypted. The true match count is still reported.
	DefaultMaxResultFetch = 50

	// DefaultCacheCap bounds the client-cache snapshot cardinality.
	DefaultCacheCap = 500
)

// Option is a functional option for configuring a Runner.
type Option func(*Runner)

// WithBatchSize sets the batch-get chunk size. Values outside
// (0, store.BatchGetLimit] are ignored.
func WithBatchSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithScanPageSize sets the page size of the full-dataset scan.
func WithScanPageSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.scanPageSize = n
		}
	}
}

// WithMaxResultFetch sets the fetch cap for index-mode result sets. When a
// bucket exceeds it, only the first n ids are fetched and decrypted, and the
// result carries an explanatory sample note.
func WithMaxResultFetch(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxResultFetch = n
		}
	}
}

// WithCacheCap sets the maximum records held in a client-cache snapshot.
func WithCacheCap(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.cacheCap = n
		}
	}
}

// WithLogger sets the engine logger. Defaults to NoopLogger.
func WithLogger(l *Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}
