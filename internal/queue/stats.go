package queue

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// KindStats holds the counters kept for a single decoder kind.
type KindStats struct {
	Total        int64
	TotalBytes   int64
	LastMinute   int64
	ErrorCount   int64
	OverflowDrop int64
}

// Stats is a deep-copyable snapshot of queue counters, cumulative since
// the last ClearStatistics call plus a rolling last-minute window that
// resets on each wall-clock minute boundary.
type Stats struct {
	ByKind       map[config.Kind]*KindStats
	TotalPushed  int64
	TotalDropped int64
}

func newStats() Stats {
	s := Stats{ByKind: make(map[config.Kind]*KindStats, len(config.Kinds))}
	for _, k := range config.Kinds {
		s.ByKind[k] = &KindStats{}
	}
	return s
}

func (s *Stats) recordPush(kind config.Kind, payload []byte, overflowed bool) {
	ks, ok := s.ByKind[kind]
	if !ok {
		ks = &KindStats{}
		s.ByKind[kind] = ks
	}
	ks.Total++
	ks.TotalBytes += int64(len(payload))
	ks.LastMinute++
	s.TotalPushed++
	if overflowed {
		ks.OverflowDrop++
		s.TotalDropped++
	}
}

// RecordErrors adds amount to the error counter for kind.
func (s *Stats) RecordErrors(kind config.Kind, amount int64) {
	ks, ok := s.ByKind[kind]
	if !ok {
		ks = &KindStats{}
		s.ByKind[kind] = ks
	}
	ks.ErrorCount += amount
}

func (s *Stats) resetLastMinute() {
	for _, ks := range s.ByKind {
		ks.LastMinute = 0
	}
}

func (s Stats) clone() Stats {
	out := Stats{
		ByKind:       make(map[config.Kind]*KindStats, len(s.ByKind)),
		TotalPushed:  s.TotalPushed,
		TotalDropped: s.TotalDropped,
	}
	for k, v := range s.ByKind {
		cp := *v
		out.ByKind[k] = &cp
	}
	return out
}
