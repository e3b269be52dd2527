package storage

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sdr-enthusiasts/acarshub-core/internal/alerts"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// AddResult is the result of AddMessage, mirroring spec §4.6's Insert
// contract return shape.
type AddResult struct {
	UID           string
	Matched       bool
	MatchedText   []string
	MatchedICAO   []string
	MatchedTail   []string
	MatchedFlight []string
	Persisted     bool
}

// AddMessage runs spec §4.4 steps 2-5 as one logical unit: frequency
// counter update, the save decision, the level counter update, and
// alert matching against the in-memory cache. It assigns r.UID
// internally. Step 1 (format) and steps 6-8 (uid attach done here,
// enrichment, broadcast) are the caller's (processor's) responsibility.
func (e *Engine) AddMessage(r *message.Record, saveAll bool) (AddResult, error) {
	r.UID = uuid.NewString()

	if err := e.incrementFrequencyCounter(r.Kind, r.Freq); err != nil {
		e.log.Error().Err(err).Msg("frequency counter update failed")
	}

	hits := e.cache.Match(r)
	r.Matched = len(hits) > 0
	for _, h := range hits {
		switch h.Type {
		case alerts.MatchText:
			r.MatchedText = append(r.MatchedText, h.Term)
		case alerts.MatchICAO:
			r.MatchedICAO = append(r.MatchedICAO, h.Term)
		case alerts.MatchTail:
			r.MatchedTail = append(r.MatchedTail, h.Term)
		case alerts.MatchFlight:
			r.MatchedFlight = append(r.MatchedFlight, h.Term)
		}
	}

	persist := saveAll || !r.IsEmpty()

	result := AddResult{
		UID:           r.UID,
		Matched:       r.Matched,
		MatchedText:   r.MatchedText,
		MatchedICAO:   r.MatchedICAO,
		MatchedTail:   r.MatchedTail,
		MatchedFlight: r.MatchedFlight,
		Persisted:     persist,
	}

	if persist {
		if err := e.insertMessage(r); err != nil {
			return result, err
		}
		field := "good"
		if r.Errors > 0 {
			field = "errors"
		}
		if err := e.bumpCount(field); err != nil {
			e.log.Error().Err(err).Msg("count update failed")
		}
	} else {
		if err := e.bumpNonloggedCount(r.Errors > 0); err != nil {
			e.log.Error().Err(err).Msg("nonlogged count update failed")
		}
	}

	if err := e.incrementLevelCounter(r.Kind, r.Level); err != nil {
		e.log.Error().Err(err).Msg("level counter update failed")
	}

	if persist {
		now := time.Now()
		for _, h := range hits {
			if err := e.AddAlertMatch(r.UID, h.Term, h.Type, now); err != nil {
				e.log.Error().Err(err).Str("term", h.Term).Msg("failed to persist alert match")
			}
		}
	}

	return result, nil
}

func (e *Engine) insertMessage(r *message.Record) error {
	_, err := e.db.NamedExec(`
		INSERT INTO messages (
			uid, kind, time, station, text, label, flight, tail, icao,
			depa, dsta, freq, level, errors, eta, gate_out, gate_in,
			wheels_off, wheels_on, position, altitude, libacars,
			matched, matched_text, matched_icao, matched_tail, matched_flight
		) VALUES (
			:uid, :kind, :time, :station, :text, :label, :flight, :tail, :icao,
			:depa, :dsta, :freq, :level, :errors, :eta, :gate_out, :gate_in,
			:wheels_off, :wheels_on, :position, :altitude, :libacars,
			:matched, :matched_text, :matched_icao, :matched_tail, :matched_flight
		)`, messageRow{
		UID: r.UID, Kind: string(r.Kind), Time: r.Time, Station: r.Station,
		Text: r.Text, Label: r.Label, Flight: r.Flight, Tail: r.Tail, ICAO: r.ICAO,
		Depa: r.Origin, Dsta: r.Dest, Freq: r.Freq, Level: r.Level, Errors: r.Errors,
		ETA: r.ETA, GateOut: r.GateOut, GateIn: r.GateIn, WheelsOff: r.WheelsOff,
		WheelsOn: r.WheelsOn, Position: r.Position, Altitude: r.Altitude, Libacars: r.Libacars,
		Matched:       r.Matched,
		MatchedText:   joinTerms(r.MatchedText),
		MatchedICAO:   joinTerms(r.MatchedICAO),
		MatchedTail:   joinTerms(r.MatchedTail),
		MatchedFlight: joinTerms(r.MatchedFlight),
	})
	return err
}

// messageRow mirrors the messages table for sqlx named-parameter binds.
type messageRow struct {
	UID           string  `db:"uid"`
	Kind          string  `db:"kind"`
	Time          float64 `db:"time"`
	Station       string  `db:"station"`
	Text          string  `db:"text"`
	Label         string  `db:"label"`
	Flight        string  `db:"flight"`
	Tail          string  `db:"tail"`
	ICAO          string  `db:"icao"`
	Depa          string  `db:"depa"`
	Dsta          string  `db:"dsta"`
	Freq          string  `db:"freq"`
	Level         string  `db:"level"`
	Errors        int     `db:"errors"`
	ETA           string  `db:"eta"`
	GateOut       string  `db:"gate_out"`
	GateIn        string  `db:"gate_in"`
	WheelsOff     string  `db:"wheels_off"`
	WheelsOn      string  `db:"wheels_on"`
	Position      string  `db:"position"`
	Altitude      string  `db:"altitude"`
	Libacars      string  `db:"libacars"`
	Matched       bool    `db:"matched"`
	MatchedText   string  `db:"matched_text"`
	MatchedICAO   string  `db:"matched_icao"`
	MatchedTail   string  `db:"matched_tail"`
	MatchedFlight string  `db:"matched_flight"`
}

func joinTerms(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	out := terms[0]
	for _, t := range terms[1:] {
		out += "," + t
	}
	return out
}

func (e *Engine) incrementFrequencyCounter(kind config.Kind, freq string) error {
	if freq == "" {
		return nil
	}
	_, err := e.db.Exec(
		"INSERT INTO "+freqTable(kind)+" (freq, count) VALUES (?, 1) "+
			"ON CONFLICT(freq) DO UPDATE SET count = count + 1", freq)
	return err
}

func (e *Engine) incrementLevelCounter(kind config.Kind, level string) error {
	f, err := strconv.ParseFloat(level, 64)
	if err != nil {
		return nil // not a real number: spec says skip silently
	}
	_, err = e.db.Exec(
		"INSERT INTO "+levelTable(kind)+" (level, count) VALUES (?, 1) "+
			"ON CONFLICT(level) DO UPDATE SET count = count + 1", f)
	return err
}

func (e *Engine) bumpCount(field string) error {
	_, err := e.db.Exec("UPDATE count SET total = total + 1, " + field + " = " + field + " + 1 WHERE id = 1")
	return err
}

func (e *Engine) bumpNonloggedCount(isError bool) error {
	field := "nonlogged_good"
	if isError {
		field = "nonlogged_errors"
	}
	_, err := e.db.Exec("UPDATE nonlogged_count SET " + field + " = " + field + " + 1 WHERE id = 1")
	return err
}
