package bindings

import (
	"rpsdesk/internal/game"
	"rpsdesk/internal/match"
	"rpsdesk/internal/scripting"
	"rpsdesk/internal/strategy"
)

// Play resolves one round against the opponent. move is the human
// move name ("Rock", "Paper", "Scissors").
func (a *App) Play(move string) (match.RoundResult, error) {
	m, err := game.ParseMove(move)
	if err != nil {
		return match.RoundResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Play(m)
}

// ResetMatch discards the current match and opens a fresh one. Session
// achievements and history survive.
func (a *App) ResetMatch() match.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.ResetMatch()
	return a.engine.Snapshot()
}

// NewMatch is ResetMatch under the name the frontend menu uses.
func (a *App) NewMatch() match.Snapshot {
	return a.ResetMatch()
}

// SetBestOf changes the match length. Even values are bumped to the
// next odd number; the returned snapshot shows the value in effect.
func (a *App) SetBestOf(n int) (match.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.engine.SetBestOf(n); err != nil {
		return match.Snapshot{}, err
	}
	return a.engine.Snapshot(), nil
}

// SetDifficulty switches the opponent between "adaptive" and "random".
func (a *App) SetDifficulty(mode string) (match.Snapshot, error) {
	m, err := strategy.ParseMode(mode)
	if err != nil {
		return match.Snapshot{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.engine.SetDifficulty(m); err != nil {
		return match.Snapshot{}, err
	}
	return a.engine.Snapshot(), nil
}

// Achievements lists unlocked badges in unlock order.
func (a *App) Achievements() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Session().Achievements()
}

// SetStrategyScript installs a user script as the opponent chooser.
// The source must define pick(recent) returning a move name. Script
// logs from the compile run are returned for display.
func (a *App) SetStrategyScript(source string) ([]scripting.LogEntry, error) {
	strat, err := scripting.NewStrategy(source)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.UseScript(strat)
	return strat.Logs(), nil
}

// ClearStrategyScript removes any installed script; the configured
// difficulty mode takes over again.
func (a *App) ClearStrategyScript() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.ClearScript()
}

// ScriptActive reports whether a custom strategy script is installed.
func (a *App) ScriptActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Scripted()
}
