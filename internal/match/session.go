package match

// SessionState holds everything that survives a match reset:
// achievements, best streaks, and the full round history. It lives for
// the process lifetime and is injected into the engine rather than
// held as package state.
type SessionState struct {
	bestHumanStreak    int
	bestOpponentStreak int

	achieved  map[string]struct{}
	badgeList []string // insertion order, for display

	history []RoundRecord
}

// NewSessionState creates an empty session.
func NewSessionState() *SessionState {
	return &SessionState{
		achieved: make(map[string]struct{}),
	}
}

// Unlock records an achievement. Returns true only the first time a
// name is seen; re-unlocking is a no-op.
func (s *SessionState) Unlock(name string) bool {
	if _, ok := s.achieved[name]; ok {
		return false
	}
	s.achieved[name] = struct{}{}
	s.badgeList = append(s.badgeList, name)
	return true
}

// Has reports whether the named achievement is unlocked.
func (s *SessionState) Has(name string) bool {
	_, ok := s.achieved[name]
	return ok
}

// Achievements returns the unlocked badges in unlock order.
func (s *SessionState) Achievements() []string {
	out := make([]string, len(s.badgeList))
	copy(out, s.badgeList)
	return out
}

// BestHumanStreak returns the longest human win run ever observed.
func (s *SessionState) BestHumanStreak() int { return s.bestHumanStreak }

// BestOpponentStreak returns the longest opponent win run ever observed.
func (s *SessionState) BestOpponentStreak() int { return s.bestOpponentStreak }

// noteStreak folds a signed streak into the session maxima.
func (s *SessionState) noteStreak(streak int) {
	if streak > s.bestHumanStreak {
		s.bestHumanStreak = streak
	}
	if streak < 0 && -streak > s.bestOpponentStreak {
		s.bestOpponentStreak = -streak
	}
}

// appendRecord adds a resolved round to the session-wide history.
func (s *SessionState) appendRecord(r RoundRecord) {
	s.history = append(s.history, r)
}

// History returns a snapshot of the full ordered round history.
func (s *SessionState) History() []RoundRecord {
	out := make([]RoundRecord, len(s.history))
	copy(out, s.history)
	return out
}
