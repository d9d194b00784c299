package game

import "fmt"

// Outcome classifies a round relative to the human player.
type Outcome int

const (
	Tie Outcome = iota
	Win
	Lose
)

var outcomeNames = [3]string{"Tie", "Win", "Lose"}

func (o Outcome) String() string {
	if o < Tie || o > Lose {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// ParseOutcome converts an outcome name back to its value.
func ParseOutcome(s string) (Outcome, error) {
	for i, name := range outcomeNames {
		if s == name {
			return Outcome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// Judge classifies a round. Total over all nine move pairs.
func Judge(human, opponent Move) Outcome {
	if human == opponent {
		return Tie
	}
	if human.Beats() == opponent {
		return Win
	}
	return Lose
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if o < Tie || o > Lose {
		return nil, fmt.Errorf("cannot marshal invalid outcome %d", int(o))
	}
	return []byte(`"` + outcomeNames[o] + `"`), nil
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("outcome must be a JSON string, got %s", data)
	}
	parsed, err := ParseOutcome(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
