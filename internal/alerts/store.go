package alerts

import (
	"time"

	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// AlertMatchRow is one persisted AlertMatch record.
type AlertMatchRow struct {
	ID          int64
	MessageUID  string
	Term        string
	MatchType   MatchType
	MatchedAt   time.Time
}

// TermCount is one {term, count} pair from getAlertCounts.
type TermCount struct {
	Term  string
	Count int64
}

// Store is the persistence contract alerts.Service needs from the
// storage engine. internal/storage implements it.
type Store interface {
	// ReplaceAlertTerms inserts rows missing from terms (counter 0) and
	// deletes rows absent from terms, leaving existing counters intact.
	ReplaceAlertTerms(terms []string) error
	// ReplaceIgnoreTerms replaces the ignore-term table wholesale.
	ReplaceIgnoreTerms(terms []string) error

	// AddAlertMatch persists one AlertMatch row and upserts the term's
	// cumulative counter (insert at 1 if absent, else increment).
	AddAlertMatch(messageUID string, term string, matchType MatchType, matchedAt time.Time) error

	SearchAlerts(limit, offset int) ([]AlertMatchRow, error)
	SearchAlertsByTerm(term string, limit, offset int) ([]AlertMatchRow, error)
	GetAlertCounts() ([]TermCount, error)

	// DeleteOldAlertMatches deletes rows with matched_at < cutoff and
	// returns the number of rows deleted.
	DeleteOldAlertMatches(cutoff time.Time) (int64, error)

	// DeleteAllAlertMatches truncates the AlertMatch table.
	DeleteAllAlertMatches() error
	// ResetAlertCounters zeroes every term's cumulative counter.
	ResetAlertCounters() error
}

// MessageSource streams every stored message to fn, in any order,
// stopping and returning fn's error if it returns one. Used by
// regeneration to replay matching over history.
type MessageSource interface {
	StreamMessages(fn func(*message.Record) error) error
}
