// Package match owns the round resolver and the match state machine:
// scores, streaks, the adaptive-strategy window, achievements, and
// match conclusion.
package match

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rpsdesk/internal/game"
	"rpsdesk/internal/rng"
	"rpsdesk/internal/strategy"
)

// Phase is the lifecycle stage of a match.
type Phase string

const (
	// PhaseInProgress accepts rounds.
	PhaseInProgress Phase = "in_progress"
	// PhaseConcluded rejects rounds until an explicit reset.
	PhaseConcluded Phase = "concluded"
)

// Winner identifies which side took the match.
type Winner string

const (
	WinnerNone     Winner = ""
	WinnerHuman    Winner = "human"
	WinnerOpponent Winner = "opponent"
)

// AchievementFirstWin unlocks on the first human round win of a session.
const AchievementFirstWin = "First Win"

// RoundRecord is the immutable result of one resolved round.
type RoundRecord struct {
	ID       string       `json:"id"`
	PlayedAt time.Time    `json:"playedAt"`
	Human    game.Move    `json:"human"`
	Opponent game.Move    `json:"opponent"`
	Outcome  game.Outcome `json:"outcome"`
}

// RoundResult is the composite answer to one play action.
type RoundResult struct {
	Record         RoundRecord `json:"record"`
	Streak         int         `json:"streak"`
	MatchConcluded bool        `json:"matchConcluded"`
	Winner         Winner      `json:"winner,omitempty"`
	Unlocked       []string    `json:"unlocked,omitempty"`
}

// MatchInfo identifies one match within a session.
type MatchInfo struct {
	ID         string        `json:"id"`
	BestOf     int           `json:"bestOf"`
	TargetWins int           `json:"targetWins"`
	Difficulty strategy.Mode `json:"difficulty"`
	StartedAt  time.Time     `json:"startedAt"`
}

// Snapshot is the read-only view the presentation layer binds to.
type Snapshot struct {
	MatchID            string        `json:"matchId"`
	Phase              Phase         `json:"phase"`
	BestOf             int           `json:"bestOf"`
	TargetWins         int           `json:"targetWins"`
	Difficulty         strategy.Mode `json:"difficulty"`
	ScriptedOpponent   bool          `json:"scriptedOpponent"`
	HumanScore         int           `json:"humanScore"`
	OpponentScore      int           `json:"opponentScore"`
	Ties               int           `json:"ties"`
	Rounds             int           `json:"rounds"`
	CurrentStreak      int           `json:"currentStreak"`
	BestHumanStreak    int           `json:"bestHumanStreak"`
	BestOpponentStreak int           `json:"bestOpponentStreak"`
	Achievements       []string      `json:"achievements"`
}

// Observer receives engine callbacks. Collaborators (event emitters,
// archive stores, live feeds) subscribe instead of the engine knowing
// about any of them. Callbacks run synchronously on the caller's
// goroutine.
type Observer interface {
	MatchStarted(info MatchInfo)
	RoundApplied(info MatchInfo, result RoundResult)
	MatchConcluded(info MatchInfo, winner Winner, snap Snapshot)
}

// Config carries the tunable engine policy.
type Config struct {
	// BestOf is the match format; even values are coerced up to the next
	// odd number. Default 5.
	BestOf int
	// Difficulty selects the built-in opponent behaviour. Default Adaptive.
	Difficulty strategy.Mode
	// HotStreakThreshold is the streak length that unlocks the hot
	// streak badge. Default 3.
	HotStreakThreshold int
	// WindowSize caps the recent-move window read by the adaptive
	// strategy. Default 7.
	WindowSize int
	// Clock supplies round timestamps; nil means time.Now.
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.BestOf <= 0 {
		c.BestOf = 5
	}
	if c.BestOf%2 == 0 {
		c.BestOf++
	}
	if c.Difficulty == "" {
		c.Difficulty = strategy.Adaptive
	}
	if c.HotStreakThreshold <= 0 {
		c.HotStreakThreshold = 3
	}
	if c.WindowSize <= 0 {
		c.WindowSize = 7
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Engine is the single-session game engine. It is synchronous and not
// safe for concurrent use; callers serialize access (the bindings
// layer holds the lock).
type Engine struct {
	cfg     Config
	session *SessionState
	src     rng.Source
	script  strategy.Chooser

	observers []Observer

	matchID   string
	startedAt time.Time
	phase     Phase

	humanScore    int
	opponentScore int
	ties          int
	rounds        int
	streak        int

	recent       []game.Move
	matchHistory []RoundRecord
}

// New creates an engine bound to a session. A nil source gets a fresh
// randomly seeded stream.
func New(cfg Config, session *SessionState, src rng.Source) *Engine {
	if session == nil {
		session = NewSessionState()
	}
	if src == nil {
		src = rng.NewStream(rng.RandomSeed(), rng.RandomSeed())
	}
	e := &Engine{
		cfg:     cfg.withDefaults(),
		session: session,
		src:     src,
	}
	e.startMatch()
	return e
}

// Subscribe registers an observer. It immediately receives the
// in-flight match so late subscribers never miss the open MatchStarted.
func (e *Engine) Subscribe(o Observer) {
	e.observers = append(e.observers, o)
	o.MatchStarted(e.matchInfo())
}

// Session exposes the injected session state.
func (e *Engine) Session() *SessionState { return e.session }

// TargetWins is the score that concludes the current match.
func (e *Engine) TargetWins() int { return e.cfg.BestOf/2 + 1 }

func (e *Engine) matchInfo() MatchInfo {
	return MatchInfo{
		ID:         e.matchID,
		BestOf:     e.cfg.BestOf,
		TargetWins: e.TargetWins(),
		Difficulty: e.cfg.Difficulty,
		StartedAt:  e.startedAt,
	}
}

// ResolveRound resolves one round without touching match state: it
// draws the opponent move for the current window and difficulty,
// judges the outcome, and stamps a record. Bookkeeping belongs to Play.
func (e *Engine) ResolveRound(human game.Move) (RoundRecord, error) {
	if !human.Valid() {
		return RoundRecord{}, fmt.Errorf("%w: %d", ErrInvalidMove, int(human))
	}
	if e.phase == PhaseConcluded {
		return RoundRecord{}, ErrMatchConcluded
	}

	opponent := e.chooseOpponent()
	return RoundRecord{
		ID:       uuid.NewString(),
		PlayedAt: e.cfg.Clock().UTC(),
		Human:    human,
		Opponent: opponent,
		Outcome:  game.Judge(human, opponent),
	}, nil
}

func (e *Engine) chooseOpponent() game.Move {
	if e.script != nil {
		move, err := e.script.Choose(e.recentWindow())
		if err == nil {
			return move
		}
		// A broken script never costs the player the round; fall back to
		// a uniform throw.
		log.Printf("strategy script failed, using random move: %v", err)
	}
	return strategy.Choose(e.cfg.Difficulty, e.recent, e.src)
}

// Play is the single entry point a UI action invokes per round:
// resolve, then apply all bookkeeping. On error the match state is
// unchanged.
func (e *Engine) Play(human game.Move) (RoundResult, error) {
	record, err := e.ResolveRound(human)
	if err != nil {
		return RoundResult{}, err
	}

	// Window maintenance: capacity cfg.WindowSize, FIFO eviction.
	e.recent = append(e.recent, human)
	if len(e.recent) > e.cfg.WindowSize {
		e.recent = e.recent[1:]
	}

	e.rounds++
	var unlocked []string
	switch record.Outcome {
	case game.Win:
		e.humanScore++
		if e.streak >= 0 {
			e.streak++
		} else {
			e.streak = 1
		}
		if e.session.Unlock(AchievementFirstWin) {
			unlocked = append(unlocked, AchievementFirstWin)
		}
		if e.streak >= e.cfg.HotStreakThreshold {
			badge := hotStreakBadge(e.cfg.HotStreakThreshold)
			if e.session.Unlock(badge) {
				unlocked = append(unlocked, badge)
			}
		}
	case game.Lose:
		e.opponentScore++
		if e.streak <= 0 {
			e.streak--
		} else {
			e.streak = -1
		}
	default:
		// A tie neither breaks nor extends the streak. Matches the
		// reference behaviour; see DESIGN.md before changing.
		e.ties++
	}
	e.session.noteStreak(e.streak)

	e.session.appendRecord(record)
	e.matchHistory = append(e.matchHistory, record)

	result := RoundResult{
		Record:   record,
		Streak:   e.streak,
		Unlocked: unlocked,
	}

	if e.humanScore >= e.TargetWins() || e.opponentScore >= e.TargetWins() {
		e.phase = PhaseConcluded
		result.MatchConcluded = true
		if e.humanScore > e.opponentScore {
			result.Winner = WinnerHuman
		} else {
			result.Winner = WinnerOpponent
		}
	}

	info := e.matchInfo()
	for _, o := range e.observers {
		o.RoundApplied(info, result)
	}
	if result.MatchConcluded {
		snap := e.Snapshot()
		for _, o := range e.observers {
			o.MatchConcluded(info, result.Winner, snap)
		}
	}

	return result, nil
}

func hotStreakBadge(threshold int) string {
	return fmt.Sprintf("Hot Streak (%d)", threshold)
}

func (e *Engine) startMatch() {
	e.matchID = uuid.NewString()
	e.startedAt = e.cfg.Clock().UTC()
	e.phase = PhaseInProgress
	e.humanScore = 0
	e.opponentScore = 0
	e.ties = 0
	e.rounds = 0
	e.streak = 0
	e.recent = e.recent[:0]
	e.matchHistory = e.matchHistory[:0]
}

// ResetMatch starts a fresh match. Always legal. Session-scoped state
// (achievements, best streaks, full history) survives.
func (e *Engine) ResetMatch() {
	e.startMatch()
	info := e.matchInfo()
	for _, o := range e.observers {
		o.MatchStarted(info)
	}
}

// NewMatch is ResetMatch under its UI name.
func (e *Engine) NewMatch() { e.ResetMatch() }

// SetBestOf updates the match format. Even values are coerced to n+1
// so a decisive winner is guaranteed. Takes effect immediately without
// resetting the current match; the caller decides whether to reset.
func (e *Engine) SetBestOf(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBestOf, n)
	}
	if n%2 == 0 {
		n++
	}
	e.cfg.BestOf = n
	return nil
}

// SetDifficulty switches the built-in opponent behaviour.
func (e *Engine) SetDifficulty(mode strategy.Mode) error {
	parsed, err := strategy.ParseMode(string(mode))
	if err != nil {
		return err
	}
	e.cfg.Difficulty = parsed
	return nil
}

// UseScript routes opponent selection through a custom chooser. The
// built-in difficulty remains the fallback when the script errors.
func (e *Engine) UseScript(c strategy.Chooser) { e.script = c }

// ClearScript restores the built-in strategy.
func (e *Engine) ClearScript() { e.script = nil }

// Scripted reports whether a custom chooser is active.
func (e *Engine) Scripted() bool { return e.script != nil }

func (e *Engine) recentWindow() []game.Move {
	out := make([]game.Move, len(e.recent))
	copy(out, e.recent)
	return out
}

// Snapshot returns the current display state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		MatchID:            e.matchID,
		Phase:              e.phase,
		BestOf:             e.cfg.BestOf,
		TargetWins:         e.TargetWins(),
		Difficulty:         e.cfg.Difficulty,
		ScriptedOpponent:   e.script != nil,
		HumanScore:         e.humanScore,
		OpponentScore:      e.opponentScore,
		Ties:               e.ties,
		Rounds:             e.rounds,
		CurrentStreak:      e.streak,
		BestHumanStreak:    e.session.BestHumanStreak(),
		BestOpponentStreak: e.session.BestOpponentStreak(),
		Achievements:       e.session.Achievements(),
	}
}

// History returns the full session-wide round history snapshot, oldest
// first, for export.
func (e *Engine) History() []RoundRecord {
	return e.session.History()
}

// MatchHistory returns the rounds of the current match only.
func (e *Engine) MatchHistory() []RoundRecord {
	out := make([]RoundRecord, len(e.matchHistory))
	copy(out, e.matchHistory)
	return out
}
