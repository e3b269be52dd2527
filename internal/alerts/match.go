package alerts

import (
	"strings"

	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
	"github.com/sdr-enthusiasts/acarshub-core/internal/metrics"
)

// MatchType identifies which field of a record an AlertMatch fired on.
type MatchType string

const (
	MatchText   MatchType = "text"
	MatchICAO   MatchType = "icao"
	MatchTail   MatchType = "tail"
	MatchFlight MatchType = "flight"
)

// Hit is one surviving (non-ignored) alert match against a record.
type Hit struct {
	Term string
	Type MatchType
}

// Match runs the record through the cache's alert terms and ignore
// terms per spec §4.4 step 5: text is matched with a case-insensitive
// word-boundary regex, icao/tail/flight with case-insensitive substring
// containment. A hit is suppressed if any ignore-term fires against the
// same field using the same rule.
func (c *Cache) Match(r *message.Record) []Hit {
	snap := c.snapshot()
	if len(snap.terms) == 0 {
		return nil
	}

	var hits []Hit
	fieldChecks := []struct {
		typ   MatchType
		value string
		regex bool
	}{
		{MatchText, r.Text, true},
		{MatchICAO, r.ICAO, false},
		{MatchTail, r.Tail, false},
		{MatchFlight, r.Flight, false},
	}

	for _, fc := range fieldChecks {
		if fc.value == "" {
			continue
		}
		for _, term := range snap.terms {
			if !matches(snap, term, fc.typ, fc.value, fc.regex) {
				continue
			}
			if ignoredBy(snap, fc.typ, fc.value, fc.regex) {
				continue
			}
			hits = append(hits, Hit{Term: term, Type: fc.typ})
			metrics.AlertMatchesTotal.WithLabelValues(string(fc.typ)).Inc()
		}
	}
	return hits
}

func matches(snap cacheSnapshot, term string, typ MatchType, value string, useRegex bool) bool {
	if useRegex {
		re := snap.termRegex[term]
		return re != nil && re.MatchString(value)
	}
	return strings.Contains(strings.ToUpper(value), term)
}

func ignoredBy(snap cacheSnapshot, typ MatchType, value string, useRegex bool) bool {
	for _, term := range snap.ignore {
		if useRegex {
			re := snap.ignoreRegex[term]
			if re != nil && re.MatchString(value) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToUpper(value), term) {
			return true
		}
	}
	return false
}
