// Package focus keeps the recognizer's focus filter equal to the set of
// words currently in play and decides when the word supply is spent.
package focus

import (
	"sort"

	"go.uber.org/zap"

	"github.com/nathoo/signstrike/engine/binding"
	"github.com/nathoo/signstrike/engine/recognizer"
	"github.com/nathoo/signstrike/engine/words"
)

// Sync republishes live words to a recognizer. Any collaborator may be nil;
// the affected operation then degrades to a logged no-op.
type Sync struct {
	rec       recognizer.Recognizer
	bindings  *binding.Registry
	pool      *words.Pool
	log       *zap.Logger
	published []string
	count     int
}

// New creates a filter sync over the given collaborators.
func New(rec recognizer.Recognizer, bindings *binding.Registry, pool *words.Pool, log *zap.Logger) *Sync {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sync{rec: rec, bindings: bindings, pool: pool, log: log}
}

// Republish replaces the recognizer's filter with exactly liveWords.
func (s *Sync) Republish(liveWords []string) {
	filter := append([]string(nil), liveWords...)
	sort.Strings(filter)
	s.published = filter
	s.count++

	if s.rec == nil {
		s.log.Warn("no recognizer bound, focus filter not published",
			zap.Strings("words", filter))
		return
	}
	s.rec.SetFilter(filter)
	s.log.Debug("focus filter republished", zap.Strings("words", filter))
}

// Refresh republishes the words of the live bindings.
func (s *Sync) Refresh() {
	if s.bindings == nil {
		s.Republish(nil)
		return
	}
	s.Republish(s.bindings.Words())
}

// Published returns the last filter handed to the recognizer.
func (s *Sync) Published() []string {
	return append([]string(nil), s.published...)
}

// Count returns how many times the filter was published.
func (s *Sync) Count() int { return s.count }

// CheckWinCondition is true iff no binding is live and the working set is
// exhausted. A missing pool counts as exhausted.
func (s *Sync) CheckWinCondition() bool {
	if s.bindings != nil && s.bindings.Len() > 0 {
		return false
	}
	if s.pool != nil && s.pool.Len() > 0 {
		return false
	}
	return true
}
