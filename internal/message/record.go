// Package message holds the canonical flat message record and the
// per-decoder-kind formatters that produce it from raw JSON payloads.
package message

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// Record is the normalized, flat representation of one decoded message,
// carrying every field spec.md §3 names. Absent fields default to their
// zero value; string fields default to "".
type Record struct {
	UID   string
	Kind  config.Kind
	Time  float64 // seconds since epoch

	Station string
	Text    string
	Label   string
	Flight  string
	Tail    string
	ICAO    string
	Origin  string
	Dest    string
	Freq    string // zero-padded to 7 characters
	Level   string
	Errors  int

	// ARINC-620 timing fields
	ETA      string
	GateOut  string
	GateIn   string
	WheelsOff string
	WheelsOn string
	Position string
	Altitude string

	// raw payload carried through for enrichment/persistence best-effort use
	Data      string
	Libacars  string
	Lat       string
	Lon       string
	Alt       string

	// attached by the processor after matching (spec §4.4 step 6)
	Matched       bool
	MatchedText   []string
	MatchedICAO   []string
	MatchedTail   []string
	MatchedFlight []string
}

// IsEmpty reports whether the message carries no meaningful payload per
// spec §4.4 step 3: the save decision hinges on any of these fields
// being present and non-empty.
func (r *Record) IsEmpty() bool {
	fields := []string{
		r.Text, r.Data, r.Libacars, r.Dest, r.Origin,
		r.ETA, r.GateOut, r.GateIn, r.WheelsOff, r.WheelsOn,
		r.Lat, r.Lon, r.Alt,
	}
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
