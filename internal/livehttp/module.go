package livehttp

import (
	"context"
	"fmt"

	"rpsdesk/internal/match"
)

// Module owns the loopback server and the watcher hub. It subscribes
// to the engine as an observer and relays rounds to websocket
// watchers. Construct it, subscribe it, then Startup from the app's
// OnStartup hook.
type Module struct {
	provider StateProvider
	server   *Server
	hub      *hub
	port     int
	token    string
}

// NewModule constructs the module but does not start the HTTP server.
func NewModule(provider StateProvider, port int, token string) *Module {
	return &Module{
		provider: provider,
		hub:      newHub(),
		port:     port,
		token:    token,
	}
}

// Startup starts the loopback server.
func (m *Module) Startup(ctx context.Context) error {
	m.server = NewServer(m.provider, m.hub, m.port, m.token)
	return m.server.Start()
}

// Shutdown stops the server and closes watcher connections.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}

// URL returns the base address watchers should use.
func (m *Module) URL() string {
	if m.server == nil {
		return fmt.Sprintf("http://127.0.0.1:%d", m.port)
	}
	return "http://" + m.server.Addr()
}

// TokenEnabled reports whether requests must carry X-Live-Token.
func (m *Module) TokenEnabled() bool { return m.token != "" }

// ---- match.Observer ----

type wsEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (m *Module) MatchStarted(info match.MatchInfo) {
	m.hub.broadcast(wsEvent{Type: "match_started", Data: info})
}

func (m *Module) RoundApplied(info match.MatchInfo, res match.RoundResult) {
	m.hub.broadcast(wsEvent{Type: "round", Data: map[string]any{
		"matchId": info.ID,
		"result":  res,
	}})
}

func (m *Module) MatchConcluded(info match.MatchInfo, winner match.Winner, snap match.Snapshot) {
	m.hub.broadcast(wsEvent{Type: "match_concluded", Data: map[string]any{
		"matchId":  info.ID,
		"winner":   winner,
		"snapshot": snap,
	}})
}
