package blindbench

import "fmt"

// Mode is one of the four retrieval strategies. A closed enumeration: the
// engine dispatches on it and no fifth mode is anticipated.
type Mode string

const (
	// ModeBlindIndex looks up the HMAC token bucket, then batch-fetches and
	// decrypts only the matching records.
	ModeBlindIndex Mode = "blind-index"

	// ModeDecryptScan fetches and decrypts the full dataset, filtering
	// locally. The ground-truth baseline for completeness.
	ModeDecryptScan Mode = "decrypt-scan"

	// ModeClientCache scans a persisted decrypted snapshot, building it on
	// first use (bounded by the cache cap).
	ModeClientCache Mode = "client-cache"

	// ModePlainIndex looks up by the plaintext prefix itself. The control
	// condition: fastest, but forfeits the zero-trust property.
	ModePlainIndex Mode = "plaintext-index"
)

// canonicalModeOrder fixes the reporting order so repeated comparisons stay
// visually stable regardless of user-selection order.
var canonicalModeOrder = []Mode{ModeBlindIndex, ModeDecryptScan, ModeClientCache, ModePlainIndex}

// CanonicalModes returns all modes in canonical order.
func CanonicalModes() []Mode {
	return append([]Mode(nil), canonicalModeOrder...)
}

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	for _, known := range canonicalModeOrder {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// selectCanonical filters the canonical order down to the selected modes,
// deduplicating.
func selectCanonical(selected []Mode) []Mode {
	want := make(map[Mode]bool, len(selected))
	for _, m := range selected {
		want[m] = true
	}
	out := make([]Mode, 0, len(want))
	for _, m := range canonicalModeOrder {
		if want[m] {
			out = append(out, m)
		}
	}
	return out
}
