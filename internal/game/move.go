package game

import "fmt"

// Move is one of the three throws.
type Move int

const (
	Rock Move = iota
	Paper
	Scissors
)

// Moves lists all throws in the fixed scan order used for frequency
// tie-breaking.
var Moves = [3]Move{Rock, Paper, Scissors}

var moveNames = [3]string{"Rock", "Paper", "Scissors"}

func (m Move) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Move(%d)", int(m))
	}
	return moveNames[m]
}

// Valid reports whether m is one of the three recognized throws.
func (m Move) Valid() bool {
	return m >= Rock && m <= Scissors
}

// ParseMove converts a throw name ("Rock", "Paper", "Scissors") to a Move.
func ParseMove(s string) (Move, error) {
	for i, name := range moveNames {
		if s == name {
			return Move(i), nil
		}
	}
	return 0, fmt.Errorf("unknown move %q", s)
}

// Beats returns the throw m defeats: Rock > Scissors > Paper > Rock.
func (m Move) Beats() Move {
	switch m {
	case Rock:
		return Scissors
	case Paper:
		return Rock
	default:
		return Paper
	}
}

// CounterTo returns the unique throw that defeats m.
func CounterTo(m Move) Move {
	switch m {
	case Rock:
		return Paper
	case Paper:
		return Scissors
	default:
		return Rock
	}
}

// MarshalJSON emits the throw name so frontends never see raw ordinals.
func (m Move) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid move %d", int(m))
	}
	return []byte(`"` + moveNames[m] + `"`), nil
}

func (m *Move) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("move must be a JSON string, got %s", data)
	}
	parsed, err := ParseMove(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
