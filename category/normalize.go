package category

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chainPool keeps reusable transformer chains; a chain is stateful and must
// not be shared between goroutines while in use.
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)), // accents split off by NFKD
			runes.Remove(runes.In(unicode.Cf)), // zero-width and format chars
			norm.NFC,
		)
	},
}

// Normalize returns the lookup key for a raw item or category name.
//
// Pipeline:
//  1. invalid UTF-8 bytes dropped
//  2. NFKD, Unicode case folding, accents and format marks removed, NFC
//  3. periods removed
//  4. whitespace runs collapsed to a single '_' and trimmed at both ends
//
// "  Polar Bear. " and "polar_bear" both normalize to "polar_bear";
// "Émeu" becomes "emeu".
// Normalize is safe for concurrent use.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// fall back to a plain lower-case fold; the chain only fails on
		// malformed input we already repaired above
		ns = strings.ToLower(s)
	}

	ns = strings.ReplaceAll(ns, ".", "")

	return strings.Join(strings.Fields(ns), "_")
}

// NormalizeAll maps Normalize over in, returning a new slice.
func NormalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Normalize(s)
	}

	return out
}
