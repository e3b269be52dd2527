package storage

import "time"

// TimeseriesPoint is one row of the timeseries_stats table.
type TimeseriesPoint struct {
	Timestamp  time.Time
	Resolution string
	ACARS      int64
	VDLM       int64
	HFDL       int64
	IMSL       int64
	IRDM       int64
	Total      int64
	Errors     int64
}

// InsertTimeseriesPoint records one snapshot at the given resolution.
func (e *Engine) InsertTimeseriesPoint(p TimeseriesPoint) error {
	_, err := e.db.Exec(`
		INSERT INTO timeseries_stats (
			timestamp, resolution, acars_count, vdlm_count, hfdl_count,
			imsl_count, irdm_count, total_count, error_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Timestamp.Unix(), p.Resolution, p.ACARS, p.VDLM, p.HFDL, p.IMSL, p.IRDM,
		p.Total, p.Errors, time.Now().Unix())
	return err
}

// TimeseriesSince returns every point of the given resolution with a
// timestamp at or after since, ordered oldest-first.
func (e *Engine) TimeseriesSince(resolution string, since time.Time) ([]TimeseriesPoint, error) {
	var rows []struct {
		Timestamp int64  `db:"timestamp"`
		ACARS     int64  `db:"acars_count"`
		VDLM      int64  `db:"vdlm_count"`
		HFDL      int64  `db:"hfdl_count"`
		IMSL      int64  `db:"imsl_count"`
		IRDM      int64  `db:"irdm_count"`
		Total     int64  `db:"total_count"`
		Errors    int64  `db:"error_count"`
	}
	err := e.db.Select(&rows, `
		SELECT timestamp, acars_count, vdlm_count, hfdl_count, imsl_count,
			irdm_count, total_count, error_count
		FROM timeseries_stats WHERE resolution = ? AND timestamp >= ?
		ORDER BY timestamp ASC`, resolution, since.Unix())
	if err != nil {
		return nil, err
	}
	out := make([]TimeseriesPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, TimeseriesPoint{
			Timestamp:  time.Unix(r.Timestamp, 0),
			Resolution: resolution,
			ACARS:      r.ACARS, VDLM: r.VDLM, HFDL: r.HFDL, IMSL: r.IMSL, IRDM: r.IRDM,
			Total: r.Total, Errors: r.Errors,
		})
	}
	return out, nil
}

// TimeseriesTotals is the summed counters over a window of timeseries_stats
// rows, plus how many rows contributed to the sum.
type TimeseriesTotals struct {
	ACARS, VDLM, HFDL, IMSL, IRDM, Total int64
	Rows                                 int64
}

// SumTimeseriesSince sums the per-kind and total counter columns (not
// error_count) across rows of the given resolution with timestamp >=
// since, for spec §6's stats response
// ("sum acars_count, vdlm_count, hfdl_count, imsl_count, irdm_count from
// timeseries_stats rows with timestamp >= now - 3600"). Rows reports how
// many rows contributed, so the caller can detect the zero-rows case and
// fall back to the queue's cumulative totals.
func (e *Engine) SumTimeseriesSince(resolution string, since time.Time) (TimeseriesTotals, error) {
	var row struct {
		ACARS int64 `db:"acars"`
		VDLM  int64 `db:"vdlm"`
		HFDL  int64 `db:"hfdl"`
		IMSL  int64 `db:"imsl"`
		IRDM  int64 `db:"irdm"`
		Total int64 `db:"total"`
		Rows  int64 `db:"rows"`
	}
	err := e.db.Get(&row, `
		SELECT
			COALESCE(SUM(acars_count), 0) AS acars,
			COALESCE(SUM(vdlm_count), 0) AS vdlm,
			COALESCE(SUM(hfdl_count), 0) AS hfdl,
			COALESCE(SUM(imsl_count), 0) AS imsl,
			COALESCE(SUM(irdm_count), 0) AS irdm,
			COALESCE(SUM(total_count), 0) AS total,
			COUNT(*) AS rows
		FROM timeseries_stats WHERE resolution = ? AND timestamp >= ?`,
		resolution, since.Unix())
	if err != nil {
		return TimeseriesTotals{}, err
	}
	return TimeseriesTotals{
		ACARS: row.ACARS, VDLM: row.VDLM, HFDL: row.HFDL, IMSL: row.IMSL, IRDM: row.IRDM,
		Total: row.Total, Rows: row.Rows,
	}, nil
}

// PruneTimeseries deletes points of the given resolution older than cutoff.
func (e *Engine) PruneTimeseries(resolution string, cutoff time.Time) (int64, error) {
	res, err := e.db.Exec(`DELETE FROM timeseries_stats WHERE resolution = ? AND timestamp < ?`,
		resolution, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
