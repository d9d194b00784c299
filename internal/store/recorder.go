package store

import (
	"context"
	"log"
	"time"

	"rpsdesk/internal/match"
)

// Recorder subscribes to the engine and archives its activity.
// Archiving is best-effort: a write failure is logged, never surfaced
// to the player.
type Recorder struct {
	store *Store
}

// NewRecorder wraps a store as an engine observer.
func NewRecorder(s *Store) *Recorder {
	return &Recorder{store: s}
}

func (r *Recorder) MatchStarted(info match.MatchInfo) {
	row := MatchRow{
		ID:         info.ID,
		BestOf:     info.BestOf,
		TargetWins: info.TargetWins,
		Difficulty: string(info.Difficulty),
		StartedAt:  info.StartedAt,
	}
	if err := r.store.CreateMatch(context.Background(), row); err != nil {
		log.Printf("archive: create match %s failed: %v", info.ID, err)
	}
}

func (r *Recorder) RoundApplied(info match.MatchInfo, res match.RoundResult) {
	row := RoundRow{
		MatchID:  info.ID,
		RecordID: res.Record.ID,
		PlayedAt: res.Record.PlayedAt,
		Human:    res.Record.Human.String(),
		Opponent: res.Record.Opponent.String(),
		Outcome:  res.Record.Outcome.String(),
		Streak:   res.Streak,
	}
	if err := r.store.AppendRound(context.Background(), row); err != nil {
		log.Printf("archive: append round %s failed: %v", res.Record.ID, err)
	}
}

func (r *Recorder) MatchConcluded(info match.MatchInfo, winner match.Winner, _ match.Snapshot) {
	if err := r.store.ConcludeMatch(context.Background(), info.ID, string(winner), time.Now().UTC()); err != nil {
		log.Printf("archive: conclude match %s failed: %v", info.ID, err)
	}
}
