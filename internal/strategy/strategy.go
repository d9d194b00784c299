// Package strategy selects the computer opponent's move.
package strategy

import (
	"fmt"

	"rpsdesk/internal/game"
	"rpsdesk/internal/rng"
)

// Mode names the built-in opponent behaviours.
type Mode string

const (
	Adaptive Mode = "Adaptive"
	Random   Mode = "Random"
)

// ParseMode validates a mode name coming from the frontend.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Adaptive, Random:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown difficulty mode %q", s)
}

// CounterProbability is how often the adaptive opponent plays the
// counter to the predicted human move instead of a random throw.
const CounterProbability = 0.7

// Chooser produces an opponent move from the recent human moves.
// Implementations beyond the built-in modes (e.g. user scripts) plug
// into the engine through this interface.
type Chooser interface {
	Choose(recent []game.Move) (game.Move, error)
}

// Choose picks the opponent's move. In Random mode, or with an empty
// window, every throw is an independent uniform draw. In Adaptive mode
// the most frequent recent human move is countered with probability
// CounterProbability, otherwise the throw is uniform again.
func Choose(mode Mode, recent []game.Move, src rng.Source) game.Move {
	if mode == Random || len(recent) == 0 {
		return randomMove(src)
	}
	predicted := mostFrequent(recent)
	if rng.Chance(src, CounterProbability) {
		return game.CounterTo(predicted)
	}
	return randomMove(src)
}

func randomMove(src rng.Source) game.Move {
	return game.Moves[rng.Pick(src, len(game.Moves))]
}

// mostFrequent scans counts in the fixed Rock, Paper, Scissors order;
// on equal counts the earlier move wins, keeping prediction
// deterministic.
func mostFrequent(recent []game.Move) game.Move {
	var counts [len(game.Moves)]int
	for _, m := range recent {
		counts[m]++
	}
	best := game.Moves[0]
	for _, m := range game.Moves[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best
}
