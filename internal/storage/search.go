package storage

import (
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// SearchQuery is any subset of the filterable fields plus paging and
// sort controls, per spec §4.6's search contract.
type SearchQuery struct {
	Tail      string
	Flight    string
	ICAO      string
	Depa      string
	Dsta      string
	Label     string
	Msgno     string
	Text      string
	Freq      string
	Kind      config.Kind
	StationID string

	StartTime float64
	EndTime   float64
	HasStart  bool
	HasEnd    bool

	Limit     int
	Offset    int
	SortBy    string // time, tail, flight, label
	SortOrder string // asc, desc
}

// SearchResult is the search contract's return shape.
type SearchResult struct {
	Messages   []*message.Record
	TotalCount int
}

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// Search runs q against the store. Queries naming station_id or icao run
// every filter directly on the base table (station, icao, flight, tail
// and text by substring, the rest by equality). Otherwise the flight,
// tail, depa, dsta, label, freq and text filters use the FTS5
// prefix-match index, and the kind, msgno and time-range filters are
// applied on the base table. Pagination and sort defaults mirror spec
// §4.6 exactly.
func (e *Engine) Search(q SearchQuery) (SearchResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	sortBy := "time"
	switch q.SortBy {
	case "time", "tail", "flight", "label":
		sortBy = q.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	useFTS := q.StationID == "" && q.ICAO == "" && hasFTSFilterable(q)

	var ids []int64
	var err error
	if useFTS {
		ids, err = e.ftsCandidateIDs(q)
		if err != nil {
			return SearchResult{}, err
		}
		if len(ids) == 0 && ftsQueryIsEmpty(q) {
			// no full-text filters at all: fall through to the base table
			useFTS = false
		}
	}

	base := sq.Select("id", "uid", "kind", "time", "station", "text", "label", "flight",
		"tail", "icao", "depa", "dsta", "freq", "level", "errors", "eta", "gate_out",
		"gate_in", "wheels_off", "wheels_on", "position", "altitude", "libacars").
		From("messages")

	countQuery := sq.Select("COUNT(*)").From("messages")

	if useFTS {
		rest := SearchQuery{Msgno: q.Msgno, Kind: q.Kind, StartTime: q.StartTime, EndTime: q.EndTime,
			HasStart: q.HasStart, HasEnd: q.HasEnd}
		base = applyBaseFilters(base.Where(sq.Eq{"id": ids}), rest)
		countQuery = applyBaseFilters(countQuery.Where(sq.Eq{"id": ids}), rest)
	} else {
		base = applyBaseFilters(base, q)
		countQuery = applyBaseFilters(countQuery, q)
	}

	var total int
	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return SearchResult{}, err
	}
	if err := e.db.Get(&total, countSQL, countArgs...); err != nil {
		return SearchResult{}, err
	}

	base = base.OrderBy(sortBy + " " + sortOrder).Limit(uint64(limit)).Offset(uint64(q.Offset))
	querySQL, queryArgs, err := base.ToSql()
	if err != nil {
		return SearchResult{}, err
	}

	var rows []messageRow
	if err := e.db.Select(&rows, querySQL, queryArgs...); err != nil {
		return SearchResult{}, err
	}

	out := make([]*message.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToRecord(r))
	}
	return SearchResult{Messages: out, TotalCount: total}, nil
}

func hasFTSFilterable(q SearchQuery) bool {
	return q.Flight != "" || q.Tail != "" || q.Depa != "" || q.Dsta != "" ||
		q.Label != "" || q.Freq != "" || q.Text != ""
}

func ftsQueryIsEmpty(q SearchQuery) bool {
	return !hasFTSFilterable(q)
}

// ftsCandidateIDs builds one FTS5 MATCH query ANDing a prefix term per
// filterable field and returns the matching message ids.
func (e *Engine) ftsCandidateIDs(q SearchQuery) ([]int64, error) {
	var clauses []string
	add := func(column, value string) {
		if value == "" {
			return
		}
		clauses = append(clauses, column+":"+sanitizeFTSToken(value)+"*")
	}
	add("flight", q.Flight)
	add("tail", q.Tail)
	add("depa", q.Depa)
	add("dsta", q.Dsta)
	add("label", q.Label)
	add("freq", q.Freq)
	add("text", q.Text)

	if len(clauses) == 0 {
		return nil, nil
	}
	matchExpr := strings.Join(clauses, " AND ")

	var ids []int64
	err := e.db.Select(&ids, `SELECT rowid FROM messages_fts WHERE messages_fts MATCH ?`, matchExpr)
	return ids, err
}

// sanitizeFTSToken doubles embedded double quotes and strips control
// characters before the token is embedded in an FTS5 MATCH expression.
func sanitizeFTSToken(v string) string {
	v = controlChars.ReplaceAllString(v, "")
	v = strings.ReplaceAll(v, `"`, `""`)
	return `"` + v + `"`
}

func applyBaseFilters(b sq.SelectBuilder, q SearchQuery) sq.SelectBuilder {
	if q.StationID != "" {
		b = b.Where(sq.Like{"station": "%" + q.StationID + "%"})
	}
	if q.ICAO != "" {
		b = b.Where(sq.Like{"icao": "%" + q.ICAO + "%"})
	}
	if q.Flight != "" {
		b = b.Where(sq.Like{"flight": "%" + q.Flight + "%"})
	}
	if q.Tail != "" {
		b = b.Where(sq.Like{"tail": "%" + q.Tail + "%"})
	}
	if q.Text != "" {
		b = b.Where(sq.Like{"text": "%" + q.Text + "%"})
	}
	if q.Depa != "" {
		b = b.Where(sq.Eq{"depa": q.Depa})
	}
	if q.Dsta != "" {
		b = b.Where(sq.Eq{"dsta": q.Dsta})
	}
	if q.Label != "" {
		b = b.Where(sq.Eq{"label": q.Label})
	}
	if q.Msgno != "" {
		b = b.Where(sq.Eq{"msgno": q.Msgno})
	}
	if q.Freq != "" {
		b = b.Where(sq.Eq{"freq": q.Freq})
	}
	if q.Kind != "" {
		b = b.Where(sq.Eq{"kind": string(q.Kind)})
	}
	if q.HasStart {
		b = b.Where(sq.GtOrEq{"time": q.StartTime})
	}
	if q.HasEnd {
		b = b.Where(sq.LtOrEq{"time": q.EndTime})
	}
	return b
}
