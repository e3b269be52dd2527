package storage

import "time"

// PruneResult reports how much pruneDatabase removed.
type PruneResult struct {
	PrunedMessages int64
	PrunedAlerts   int64
}

// PruneDatabase implements spec §4.6's pruneDatabase: messages older
// than messageSaveDays are deleted unless referenced by an AlertMatch
// still inside the alert retention window; AlertMatch rows older than
// alertSaveDays are deleted unconditionally.
func (e *Engine) PruneDatabase(messageSaveDays, alertSaveDays int) (PruneResult, error) {
	now := time.Now()
	messageCutoff := now.Add(-time.Duration(messageSaveDays) * 24 * time.Hour)
	alertCutoff := now.Add(-time.Duration(alertSaveDays) * 24 * time.Hour)

	tx, err := e.db.Beginx()
	if err != nil {
		return PruneResult{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM messages
		WHERE time < ?
		AND uid NOT IN (
			SELECT DISTINCT message_uid FROM alert_matches WHERE matched_at >= ?
		)`, messageCutoff.Unix(), alertCutoff.Unix())
	if err != nil {
		return PruneResult{}, err
	}
	prunedMessages, err := res.RowsAffected()
	if err != nil {
		return PruneResult{}, err
	}

	res, err = tx.Exec(`DELETE FROM alert_matches WHERE matched_at < ?`, alertCutoff.Unix())
	if err != nil {
		return PruneResult{}, err
	}
	prunedAlerts, err := res.RowsAffected()
	if err != nil {
		return PruneResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return PruneResult{}, err
	}

	e.log.Info().
		Int64("pruned_messages", prunedMessages).
		Int64("pruned_alerts", prunedAlerts).
		Msg("database pruned")

	return PruneResult{PrunedMessages: prunedMessages, PrunedAlerts: prunedAlerts}, nil
}
