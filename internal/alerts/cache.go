// Package alerts implements the process-wide alert term cache, the
// text/identifier matching rules run against every decoded message, and
// the regeneration pipeline that replays matching over stored history.
package alerts

import (
	"regexp"
	"strings"
	"sync"
)

// Cache holds the current alert-term and ignore-term sets, upper-cased,
// in insertion order, plus the word-boundary regular expressions
// compiled for text matching against each term. It is the single source
// of truth the hot path consults — Set* calls replace the whole set.
type Cache struct {
	mu           sync.RWMutex
	terms        []string
	ignore       []string
	termRegex    map[string]*regexp.Regexp
	ignoreRegex  map[string]*regexp.Regexp
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		termRegex:   make(map[string]*regexp.Regexp),
		ignoreRegex: make(map[string]*regexp.Regexp),
	}
}

// SetAlertTerms replaces the alert-term set, upper-casing and
// de-duplicating input while preserving first-seen order. Idempotent.
func (c *Cache) SetAlertTerms(terms []string) {
	normalized := normalizeSet(terms)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terms = normalized
	c.termRegex = compileWordBoundary(normalized)
}

// SetIgnoreTerms replaces the ignore-term set.
func (c *Cache) SetIgnoreTerms(terms []string) {
	normalized := normalizeSet(terms)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ignore = normalized
	c.ignoreRegex = compileWordBoundary(normalized)
}

// compileWordBoundary builds one case-insensitive word-boundary regular
// expression per term for text-field matching. Every term is quoted
// literally via regexp.QuoteMeta, so characters with special regex
// meaning match themselves.
func compileWordBoundary(terms []string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(terms))
	for _, t := range terms {
		pattern := `(?i)\b` + regexp.QuoteMeta(t) + `\b`
		out[t] = regexp.MustCompile(pattern)
	}
	return out
}

// Terms returns a copy of the current alert-term set.
func (c *Cache) Terms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.terms))
	copy(out, c.terms)
	return out
}

// IgnoreTerms returns a copy of the current ignore-term set.
func (c *Cache) IgnoreTerms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.ignore))
	copy(out, c.ignore)
	return out
}

// snapshot returns a consistent view of terms/ignore plus their compiled
// regular expressions for use by the matcher, without holding the lock
// for the duration of matching.
func (c *Cache) snapshot() cacheSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cacheSnapshot{
		terms:       append([]string(nil), c.terms...),
		ignore:      append([]string(nil), c.ignore...),
		termRegex:   c.termRegex,
		ignoreRegex: c.ignoreRegex,
	}
}

type cacheSnapshot struct {
	terms       []string
	ignore      []string
	termRegex   map[string]*regexp.Regexp
	ignoreRegex map[string]*regexp.Regexp
}

func normalizeSet(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		u := strings.ToUpper(strings.TrimSpace(t))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
