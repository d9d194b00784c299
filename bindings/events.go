package bindings

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"rpsdesk/internal/match"
)

// Emitter forwards engine events to the frontend over the Wails event
// bus. It is subscribed during Startup once the runtime context exists.
type Emitter struct {
	ctx context.Context
}

func (e *Emitter) emit(name string, data ...any) {
	if e.ctx == nil {
		return
	}
	runtime.EventsEmit(e.ctx, name, data...)
}

func (e *Emitter) MatchStarted(info match.MatchInfo) {
	e.emit("match:started", info)
}

func (e *Emitter) RoundApplied(info match.MatchInfo, res match.RoundResult) {
	e.emit("round:applied", res)
	for _, badge := range res.Unlocked {
		e.emit("achievement:unlocked", badge)
	}
}

func (e *Emitter) MatchConcluded(info match.MatchInfo, winner match.Winner, snap match.Snapshot) {
	e.emit("match:concluded", map[string]any{
		"winner":   winner,
		"snapshot": snap,
	})
}
