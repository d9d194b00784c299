package store

import (
	"context"
	"path/filepath"
	"testing"

	"rpsdesk/internal/game"
	"rpsdesk/internal/match"
	"rpsdesk/internal/strategy"
)

// loopSource cycles through canned floats.
type loopSource struct {
	vals []float64
	i    int
}

func (s *loopSource) Float() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestRecorderArchivesFullMatch(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Random mode with 0.9 always draws Scissors; Rock wins every round.
	engine := match.New(match.Config{
		BestOf:     3,
		Difficulty: strategy.Random,
	}, nil, &loopSource{vals: []float64{0.9}})
	engine.Subscribe(NewRecorder(s))

	matchID := engine.Snapshot().MatchID

	for i := 0; i < 2; i++ {
		if _, err := engine.Play(game.Rock); err != nil {
			t.Fatalf("play %d: %v", i, err)
		}
	}

	ctx := context.Background()
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if m.HumanScore != 2 || m.OpponentScore != 0 || m.Rounds != 2 {
		t.Errorf("match counters = %d/%d over %d rounds, want 2/0 over 2", m.HumanScore, m.OpponentScore, m.Rounds)
	}
	if m.Winner != "human" {
		t.Errorf("winner = %q, want human", m.Winner)
	}
	if m.ConcludedAt == nil {
		t.Error("concluded_at not stamped")
	}

	rounds, err := s.ListRounds(ctx, matchID, 0, 0)
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("archived %d rounds, want 2", len(rounds))
	}
	if rounds[0].Human != "Rock" || rounds[0].Opponent != "Scissors" || rounds[0].Outcome != "Win" {
		t.Errorf("round 1 = %+v", rounds[0])
	}
	if rounds[1].Streak != 2 {
		t.Errorf("round 2 streak = %d, want 2", rounds[1].Streak)
	}
}

func TestRecorderSubscribeReplaysOpenMatch(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	engine := match.New(match.Config{Difficulty: strategy.Random}, nil, &loopSource{vals: []float64{0.1}})

	// Subscribing after the match opened must still create the row.
	engine.Subscribe(NewRecorder(s))

	m, err := s.GetMatch(context.Background(), engine.Snapshot().MatchID)
	if err != nil {
		t.Fatalf("match row missing after subscribe: %v", err)
	}
	if m.BestOf != 5 || m.TargetWins != 3 {
		t.Errorf("match row = %+v, want defaults best-of 5, target 3", m)
	}
}
