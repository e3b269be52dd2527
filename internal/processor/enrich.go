package processor

import "strings"

// Enricher looks up decorative annotations the processor attaches to a
// record before broadcast (spec §4.4 step 7). Every lookup is
// best-effort: a miss leaves the corresponding field untouched. None of
// this affects matching, the save decision, or persistence — all of
// that already ran in storage.Engine.AddMessage before Annotate is
// called.
type Enricher struct {
	// Airlines maps a flight number's leading ICAO airline prefix (e.g.
	// "UAL" in "UAL123") to a display name.
	Airlines map[string]string
	// Stations maps a ground-station identifier to a display name.
	Stations map[string]string
}

// NewEnricher constructs an Enricher from lookup tables. Either map may
// be nil, in which case that lookup always misses.
func NewEnricher(airlines, stations map[string]string) *Enricher {
	return &Enricher{Airlines: airlines, Stations: stations}
}

// Annotate returns the airline display name for flight (via its ICAO
// prefix), the ground-station display name for station, and icao
// upper-cased. Each of the two names is "" on a miss.
func (e *Enricher) Annotate(flight, station, icao string) (airlineName, stationName, formattedICAO string) {
	if e.Airlines != nil {
		if prefix := flightPrefix(flight); prefix != "" {
			airlineName = e.Airlines[prefix]
		}
	}
	if e.Stations != nil && station != "" {
		stationName = e.Stations[station]
	}
	formattedICAO = strings.ToUpper(icao)
	return
}

// flightPrefix extracts the leading alphabetic run of a flight number
// ("UAL123" -> "UAL"), which conventionally encodes the operating
// airline's ICAO code.
func flightPrefix(flight string) string {
	flight = strings.ToUpper(strings.TrimSpace(flight))
	i := 0
	for i < len(flight) && flight[i] >= 'A' && flight[i] <= 'Z' {
		i++
	}
	return flight[:i]
}
