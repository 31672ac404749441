// Package normalize turns raw user-supplied domain strings into canonical
// (domain, url) pairs
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Strip control characters
// 3 Remove zero-width and format chars
// 4 Width fold fullwidth to ASCII
// 5 Trim surrounding whitespace
// 6 Strip a leading http:// or https:// scheme
// 7 Cut at the first slash, the prefix is the canonical domain
// Letter case is preserved throughout, purely textual, no DNS, no url.Parse
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// Entry is the canonical form of one raw input string
type Entry struct {
	// Domain is the bare host, scheme and path stripped, case preserved
	Domain string

	// URL is the original string when it already carried a scheme,
	// otherwise https:// + Domain
	URL string
}

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		// no case folding here, Domain keeps the caller's casing
		return transform.Chain(
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the canonical (domain, url) pair for raw
// It is total, garbage in produces a cleaned-up best effort out, never an error
func (n *Normalizer) Normalize(raw string) Entry {
	s := Clean(raw)

	// strip zero-widths and fold widths via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err == nil {
		s = ns
	}

	s = strings.TrimSpace(s)

	hadScheme := hasScheme(s)
	domain := stripScheme(s)
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}

	url := s
	if !hadScheme {
		url = "https://" + domain
	}
	return Entry{Domain: domain, URL: url}
}

// NormalizeAll maps Normalize over raws preserving input order
func (n *Normalizer) NormalizeAll(raws []string) []Entry {
	out := make([]Entry, 0, len(raws))
	for _, r := range raws {
		out = append(out, n.Normalize(r))
	}
	return out
}

// hasScheme reports whether s starts with http, matching the loose original
// contract (http://, https://, and bare "http..." prefixes all count)
func hasScheme(s string) bool {
	return strings.HasPrefix(s, "http")
}

// stripScheme removes a leading http:// or https:// if present
func stripScheme(s string) string {
	if rest, ok := strings.CutPrefix(s, "https://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(s, "http://"); ok {
		return rest
	}
	return s
}
