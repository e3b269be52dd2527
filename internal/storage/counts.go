package storage

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// FrequencyCount is one {freq, count} row from a freqs_<kind> table.
type FrequencyCount struct {
	Freq  string
	Count int64
}

// LevelCount is one {level, count} row from a level_<kind> table.
type LevelCount struct {
	Level float64
	Count int64
}

// MessageCountRow is the singleton `count` row.
type MessageCountRow struct {
	Total  int64 `db:"total"`
	Good   int64 `db:"good"`
	Errors int64 `db:"errors"`
}

// NonloggedCountRow is the singleton `nonlogged_count` row.
type NonloggedCountRow struct {
	NonloggedGood   int64 `db:"nonlogged_good"`
	NonloggedErrors int64 `db:"nonlogged_errors"`
}

func (e *Engine) GetFrequencyCounts(kind config.Kind) ([]FrequencyCount, error) {
	var rows []struct {
		Freq  string `db:"freq"`
		Count int64  `db:"count"`
	}
	if err := e.db.Select(&rows, "SELECT freq, count FROM "+freqTable(kind)+" ORDER BY count DESC"); err != nil {
		return nil, err
	}
	out := make([]FrequencyCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, FrequencyCount{Freq: r.Freq, Count: r.Count})
	}
	return out, nil
}

func (e *Engine) GetLevelCounts(kind config.Kind) ([]LevelCount, error) {
	var rows []struct {
		Level float64 `db:"level"`
		Count int64   `db:"count"`
	}
	if err := e.db.Select(&rows, "SELECT level, count FROM "+levelTable(kind)+" ORDER BY level ASC"); err != nil {
		return nil, err
	}
	out := make([]LevelCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, LevelCount{Level: r.Level, Count: r.Count})
	}
	return out, nil
}

func (e *Engine) GetMessageCount() (MessageCountRow, error) {
	var row MessageCountRow
	err := e.db.Get(&row, "SELECT total, good, errors FROM count WHERE id = 1")
	return row, err
}

func (e *Engine) GetNonloggedCount() (NonloggedCountRow, error) {
	var row NonloggedCountRow
	err := e.db.Get(&row, "SELECT nonlogged_good, nonlogged_errors FROM nonlogged_count WHERE id = 1")
	return row, err
}
