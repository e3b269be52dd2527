package alerts

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// Service wires the hot-path Cache to persistent Store, keeping them in
// sync: every Set* call writes through to the store before refreshing
// the cache, so a restart reloads the same state the cache last held.
type Service struct {
	cache *Cache
	store Store
	log   zerolog.Logger
}

// NewService constructs a Service around an already-populated cache and
// its backing store.
func NewService(cache *Cache, store Store, log zerolog.Logger) *Service {
	return &Service{
		cache: cache,
		store: store,
		log:   log.With().Str("component", "alerts").Logger(),
	}
}

// Cache exposes the underlying cache for the processor's hot-path Match
// calls, which must not go through the service to avoid store latency.
func (s *Service) Cache() *Cache { return s.cache }

// SetAlertTerms upper-cases and de-duplicates terms, then replaces the
// alert-term set in the store, then the cache. Idempotent.
func (s *Service) SetAlertTerms(terms []string) error {
	normalized := normalizeSet(terms)
	if err := s.store.ReplaceAlertTerms(normalized); err != nil {
		return err
	}
	s.cache.SetAlertTerms(normalized)
	return nil
}

// SetAlertIgnore upper-cases and de-duplicates terms, then replaces the
// ignore-term set in the store, then the cache.
func (s *Service) SetAlertIgnore(terms []string) error {
	normalized := normalizeSet(terms)
	if err := s.store.ReplaceIgnoreTerms(normalized); err != nil {
		return err
	}
	s.cache.SetIgnoreTerms(normalized)
	return nil
}

// AddAlertMatch persists a single match, used by both the processor's
// hot path and regeneration.
func (s *Service) AddAlertMatch(messageUID, term string, matchType MatchType, matchedAt time.Time) error {
	return s.store.AddAlertMatch(messageUID, term, matchType, matchedAt)
}

func (s *Service) SearchAlerts(limit, offset int) ([]AlertMatchRow, error) {
	return s.store.SearchAlerts(limit, offset)
}

func (s *Service) SearchAlertsByTerm(term string, limit, offset int) ([]AlertMatchRow, error) {
	return s.store.SearchAlertsByTerm(term, limit, offset)
}

func (s *Service) GetAlertCounts() ([]TermCount, error) {
	return s.store.GetAlertCounts()
}

func (s *Service) DeleteOldAlertMatches(cutoff time.Time) (int64, error) {
	return s.store.DeleteOldAlertMatches(cutoff)
}

// RegenerationResult summarizes one regenerateAllAlertMatches run.
type RegenerationResult struct {
	TotalMessages   int64
	MatchedMessages int64
	TotalMatches    int64
}

// RegenerateAllAlertMatches replaces the term sets, wipes every existing
// AlertMatch row and counter, then replays matching over every stored
// message, reinserting matches and counters as it goes.
func (s *Service) RegenerateAllAlertMatches(source MessageSource, terms, ignore []string) (RegenerationResult, error) {
	if err := s.SetAlertTerms(terms); err != nil {
		return RegenerationResult{}, err
	}
	if err := s.SetAlertIgnore(ignore); err != nil {
		return RegenerationResult{}, err
	}
	if err := s.store.DeleteAllAlertMatches(); err != nil {
		return RegenerationResult{}, err
	}
	if err := s.store.ResetAlertCounters(); err != nil {
		return RegenerationResult{}, err
	}

	var result RegenerationResult
	err := source.StreamMessages(func(r *message.Record) error {
		result.TotalMessages++
		hits := s.cache.Match(r)
		if len(hits) == 0 {
			return nil
		}
		result.MatchedMessages++
		result.TotalMatches += int64(len(hits))
		for _, h := range hits {
			if err := s.store.AddAlertMatch(r.UID, h.Term, h.Type, time.Unix(int64(r.Time), 0)); err != nil {
				s.log.Error().Err(err).Str("uid", r.UID).Msg("failed to persist regenerated alert match")
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}
