// Package adsb implements the periodic ADS-B aircraft-position snapshot
// poller of spec §4.10: fetch a fixed-schema JSON payload over HTTP,
// project it to a known subset of fields, and cache the last good
// snapshot across failed polls.
package adsb

import (
	"encoding/json"
	"strconv"
)

// Aircraft is the projected subset of fields spec §4.10 names. Numeric
// fields may arrive as JSON numbers or numeric strings upstream;
// parseSnapshot coerces either into the typed fields below and drops
// anything not in this set.
type Aircraft struct {
	Hex      string  `json:"hex"`
	Flight   string  `json:"flight"`
	AltBaro  float64 `json:"alt_baro"`
	GS       float64 `json:"gs"`
	Track    float64 `json:"track"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Seen     float64 `json:"seen"`
	SeenPos  float64 `json:"seen_pos"`
	RSSI     float64 `json:"rssi"`
	Messages int64   `json:"messages"`
	Category string  `json:"category"`
}

// Snapshot is the cached projection of one successful poll.
type Snapshot struct {
	Now      float64    `json:"now"`
	Aircraft []Aircraft `json:"aircraft"`
}

// rawPayload mirrors the upstream wire schema before projection.
type rawPayload struct {
	Now      float64         `json:"now"`
	Aircraft []rawAircraft   `json:"aircraft"`
}

// rawAircraft captures each field as json.RawMessage so numeric-or-
// string values can be coerced uniformly, and tolerates unknown fields
// being present (they're simply never unmarshaled here).
type rawAircraft struct {
	Hex      json.RawMessage `json:"hex"`
	Flight   json.RawMessage `json:"flight"`
	AltBaro  json.RawMessage `json:"alt_baro"`
	GS       json.RawMessage `json:"gs"`
	Track    json.RawMessage `json:"track"`
	Lat      json.RawMessage `json:"lat"`
	Lon      json.RawMessage `json:"lon"`
	Seen     json.RawMessage `json:"seen"`
	SeenPos  json.RawMessage `json:"seen_pos"`
	RSSI     json.RawMessage `json:"rssi"`
	Messages json.RawMessage `json:"messages"`
	Category json.RawMessage `json:"category"`
}

// parseSnapshot decodes body into a projected Snapshot, coercing
// numeric-string fields and dropping anything outside the known
// subset.
func parseSnapshot(body []byte) (Snapshot, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snapshot{}, err
	}

	out := Snapshot{Now: raw.Now, Aircraft: make([]Aircraft, 0, len(raw.Aircraft))}
	for _, a := range raw.Aircraft {
		out.Aircraft = append(out.Aircraft, Aircraft{
			Hex:      asString(a.Hex),
			Flight:   asString(a.Flight),
			AltBaro:  asFloat(a.AltBaro),
			GS:       asFloat(a.GS),
			Track:    asFloat(a.Track),
			Lat:      asFloat(a.Lat),
			Lon:      asFloat(a.Lon),
			Seen:     asFloat(a.Seen),
			SeenPos:  asFloat(a.SeenPos),
			RSSI:     asFloat(a.RSSI),
			Messages: int64(asFloat(a.Messages)),
			Category: asString(a.Category),
		})
	}
	return out, nil
}

// asString unwraps a raw JSON value as a string, accepting both quoted
// strings and bare numbers (stringified via their literal form).
func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// asFloat unwraps a raw JSON value as a float64, accepting both bare
// numbers and numeric strings (e.g. ground-state altitude fields like
// `"ground"` fail to parse and are treated as absent, yielding 0).
func asFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return 0
}
