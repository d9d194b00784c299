package scripting

import (
	"fmt"

	"rpsdesk/internal/game"
)

// Strategy adapts a script VM to the engine's chooser interface.
type Strategy struct {
	vm *VM
}

// NewStrategy compiles the script and verifies it defines pick().
func NewStrategy(source string) (*Strategy, error) {
	vm := NewVM()
	if err := vm.Execute(source); err != nil {
		return nil, err
	}
	if !vm.HasPickFunc() {
		return nil, fmt.Errorf("script must define a pick() function")
	}
	return &Strategy{vm: vm}, nil
}

// Choose runs pick() against the recent human moves and parses the
// returned throw name.
func (s *Strategy) Choose(recent []game.Move) (game.Move, error) {
	names := make([]string, len(recent))
	for i, m := range recent {
		names[i] = m.String()
	}

	out, err := s.vm.CallPick(names)
	if err != nil {
		return 0, err
	}

	move, err := game.ParseMove(out)
	if err != nil {
		return 0, fmt.Errorf("pick() returned %q: %w", out, err)
	}
	return move, nil
}

// Logs exposes the script's log buffer for display.
func (s *Strategy) Logs() []LogEntry {
	return s.vm.GetLogs()
}
