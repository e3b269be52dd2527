package storage

// OptimizeRegular updates query-planner statistics. Best-effort: errors
// are logged and returned so the scheduler can note the failure without
// treating it as fatal.
func (e *Engine) OptimizeRegular() error {
	if _, err := e.db.Exec(`ANALYZE`); err != nil {
		e.log.Error().Err(err).Msg("ANALYZE failed")
		return err
	}
	return nil
}

// OptimizeMerge consolidates the FTS5 index segments. level follows
// SQLite's fts5 'merge' rank convention: a positive value merges up to
// that many segments, a negative value merges and removes. 0 requests
// the default merge.
func (e *Engine) OptimizeMerge(level int) error {
	if level == 0 {
		level = 8
	}
	_, err := e.db.Exec(`INSERT INTO messages_fts(messages_fts, rank) VALUES ('merge', ?)`, level)
	if err != nil {
		e.log.Error().Err(err).Msg("fts merge failed")
		return err
	}
	return nil
}
