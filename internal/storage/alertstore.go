package storage

import (
	"time"

	"github.com/sdr-enthusiasts/acarshub-core/internal/alerts"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// ReplaceAlertTerms implements alerts.Store: inserts rows missing from
// terms at counter 0, deletes rows absent from terms, leaves existing
// counters intact.
func (e *Engine) ReplaceAlertTerms(terms []string) error {
	tx, err := e.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	wanted := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		wanted[t] = struct{}{}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO alert_stats (term, count) VALUES (?, 0)`, t); err != nil {
			return err
		}
	}

	var existing []string
	if err := tx.Select(&existing, `SELECT term FROM alert_stats`); err != nil {
		return err
	}
	for _, t := range existing {
		if _, ok := wanted[t]; !ok {
			if _, err := tx.Exec(`DELETE FROM alert_stats WHERE term = ?`, t); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// ReplaceIgnoreTerms replaces the ignore-term table wholesale.
func (e *Engine) ReplaceIgnoreTerms(terms []string) error {
	tx, err := e.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ignore_alert_terms`); err != nil {
		return err
	}
	for _, t := range terms {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO ignore_alert_terms (term) VALUES (?)`, t); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddAlertMatch persists one AlertMatch row and upserts the term's
// cumulative counter.
func (e *Engine) AddAlertMatch(messageUID, term string, matchType alerts.MatchType, matchedAt time.Time) error {
	tx, err := e.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO alert_matches (message_uid, term, match_type, matched_at) VALUES (?, ?, ?, ?)`,
		messageUID, term, string(matchType), matchedAt.Unix()); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO alert_stats (term, count) VALUES (?, 1) ON CONFLICT(term) DO UPDATE SET count = count + 1`,
		term); err != nil {
		return err
	}
	return tx.Commit()
}

func (e *Engine) SearchAlerts(limit, offset int) ([]alerts.AlertMatchRow, error) {
	return e.searchAlertMatches(`SELECT id, message_uid, term, match_type, matched_at FROM alert_matches
		ORDER BY matched_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

func (e *Engine) SearchAlertsByTerm(term string, limit, offset int) ([]alerts.AlertMatchRow, error) {
	return e.searchAlertMatches(`SELECT id, message_uid, term, match_type, matched_at FROM alert_matches
		WHERE term = ? ORDER BY matched_at DESC LIMIT ? OFFSET ?`, term, limit, offset)
}

func (e *Engine) searchAlertMatches(query string, args ...interface{}) ([]alerts.AlertMatchRow, error) {
	var rows []alertMatchRecord
	if err := e.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]alerts.AlertMatchRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, alerts.AlertMatchRow{
			ID:         r.ID,
			MessageUID: r.MessageUID,
			Term:       r.Term,
			MatchType:  alerts.MatchType(r.MatchType),
			MatchedAt:  time.Unix(r.MatchedAt, 0),
		})
	}
	return out, nil
}

type alertMatchRecord struct {
	ID         int64  `db:"id"`
	MessageUID string `db:"message_uid"`
	Term       string `db:"term"`
	MatchType  string `db:"match_type"`
	MatchedAt  int64  `db:"matched_at"`
}

func (e *Engine) GetAlertCounts() ([]alerts.TermCount, error) {
	var rows []struct {
		Term  string `db:"term"`
		Count int64  `db:"count"`
	}
	if err := e.db.Select(&rows, `SELECT term, count FROM alert_stats`); err != nil {
		return nil, err
	}
	out := make([]alerts.TermCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, alerts.TermCount{Term: r.Term, Count: r.Count})
	}
	return out, nil
}

func (e *Engine) DeleteOldAlertMatches(cutoff time.Time) (int64, error) {
	res, err := e.db.Exec(`DELETE FROM alert_matches WHERE matched_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (e *Engine) DeleteAllAlertMatches() error {
	_, err := e.db.Exec(`DELETE FROM alert_matches`)
	return err
}

func (e *Engine) ResetAlertCounters() error {
	_, err := e.db.Exec(`UPDATE alert_stats SET count = 0`)
	return err
}

// StreamMessages implements alerts.MessageSource, used by regeneration.
func (e *Engine) StreamMessages(fn func(*message.Record) error) error {
	rows, err := e.db.Queryx(`SELECT uid, kind, time, station, text, label, flight, tail, icao,
		depa, dsta, freq, level, errors, eta, gate_out, gate_in, wheels_off, wheels_on,
		position, altitude, libacars FROM messages`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row messageRow
		if err := rows.StructScan(&row); err != nil {
			return err
		}
		r := rowToRecord(row)
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}

func rowToRecord(row messageRow) *message.Record {
	return &message.Record{
		UID:       row.UID,
		Kind:      config.Kind(row.Kind),
		Time:      row.Time,
		Station:   row.Station,
		Text:      row.Text,
		Label:     row.Label,
		Flight:    row.Flight,
		Tail:      row.Tail,
		ICAO:      row.ICAO,
		Origin:    row.Depa,
		Dest:      row.Dsta,
		Freq:      row.Freq,
		Level:     row.Level,
		Errors:    row.Errors,
		ETA:       row.ETA,
		GateOut:   row.GateOut,
		GateIn:    row.GateIn,
		WheelsOff: row.WheelsOff,
		WheelsOn:  row.WheelsOn,
		Position:  row.Position,
		Altitude:  row.Altitude,
		Libacars:  row.Libacars,
	}
}
