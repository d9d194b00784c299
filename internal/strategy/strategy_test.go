package strategy

import (
	"testing"

	"rpsdesk/internal/game"
)

// script replays a canned float sequence.
type script struct {
	floats []float64
	i      int
}

func (s *script) Float() float64 {
	v := s.floats[s.i%len(s.floats)]
	s.i++
	return v
}

func TestChooseRandomMode(t *testing.T) {
	// One draw per call; buckets of 1/3 map to Rock, Paper, Scissors.
	src := &script{floats: []float64{0.0, 0.5, 0.99}}
	recent := []game.Move{game.Rock, game.Rock, game.Rock}

	want := []game.Move{game.Rock, game.Paper, game.Scissors}
	for i, w := range want {
		if got := Choose(Random, recent, src); got != w {
			t.Errorf("call %d: Choose(Random) = %v, want %v", i, got, w)
		}
	}
}

func TestChooseEmptyWindowFallsBackToRandom(t *testing.T) {
	// Adaptive with no history must be a single uniform draw, not a
	// coin flip followed by a counter.
	src := &script{floats: []float64{0.5}}
	if got := Choose(Adaptive, nil, src); got != game.Paper {
		t.Errorf("Choose(Adaptive, empty) = %v, want Paper from the single draw", got)
	}
	if src.i != 1 {
		t.Errorf("empty window consumed %d draws, want 1", src.i)
	}
}

func TestChooseAdaptiveCounters(t *testing.T) {
	tests := []struct {
		name   string
		recent []game.Move
		want   game.Move // counter of the predicted move
	}{
		{"all rock", []game.Move{game.Rock, game.Rock, game.Rock}, game.Paper},
		{"paper majority", []game.Move{game.Paper, game.Scissors, game.Paper}, game.Scissors},
		{"scissors majority", []game.Move{game.Scissors, game.Scissors, game.Rock}, game.Rock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 0.0 < 0.7: the counter branch is taken.
			src := &script{floats: []float64{0.0}}
			if got := Choose(Adaptive, tt.recent, src); got != tt.want {
				t.Errorf("Choose(Adaptive, %v) = %v, want %v", tt.recent, got, tt.want)
			}
		})
	}
}

func TestChooseAdaptiveRandomBranch(t *testing.T) {
	// First draw 0.8 >= 0.7 skips the counter; second draw 0.0 picks Rock.
	src := &script{floats: []float64{0.8, 0.0}}
	got := Choose(Adaptive, []game.Move{game.Paper, game.Paper}, src)
	if got != game.Rock {
		t.Errorf("Choose random branch = %v, want Rock", got)
	}
	if src.i != 2 {
		t.Errorf("random branch consumed %d draws, want 2", src.i)
	}
}

func TestMostFrequentTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		recent []game.Move
		want   game.Move
	}{
		{"three-way tie keeps Rock", []game.Move{game.Scissors, game.Paper, game.Rock}, game.Rock},
		{"paper scissors tie keeps Paper", []game.Move{game.Scissors, game.Paper}, game.Paper},
		{"majority beats scan order", []game.Move{game.Scissors, game.Scissors, game.Rock}, game.Scissors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mostFrequent(tt.recent); got != tt.want {
				t.Errorf("mostFrequent(%v) = %v, want %v", tt.recent, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"Adaptive", "Random"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q) error: %v", valid, err)
		}
	}
	if _, err := ParseMode("Impossible"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
}
