// Package livehttp runs a loopback HTTP API exposing the engine
// read-only, for overlays and tooling running beside the app. It never
// mutates engine state.
package livehttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rpsdesk/internal/export"
	"rpsdesk/internal/match"
)

// StateProvider is the serialized read surface the server consumes.
// The implementation (the bindings layer) holds the lock that
// serializes engine access.
type StateProvider interface {
	Snapshot() match.Snapshot
	History() []match.RoundRecord
}

// Server is the loopback HTTP server.
type Server struct {
	provider   StateProvider
	hub        *hub
	token      string
	addr       string // e.g. "127.0.0.1:17890"
	httpServer *http.Server
}

// NewServer binds to loopback at the given port. token may be empty to
// disable auth checks.
func NewServer(provider StateProvider, h *hub, port int, token string) *Server {
	if port <= 0 {
		port = 17890
	}
	return &Server{
		provider: provider,
		hub:      h,
		token:    token,
		addr:     fmt.Sprintf("127.0.0.1:%d", port),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.addr }

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(s.checkToken)

	r.Get("/match/state", s.handleState)
	r.Get("/match/history", s.handleHistory)
	r.Get("/match/history/export.csv", s.handleExportCSV)
	r.Get("/match/watch", s.hub.handleWatch)

	return r
}

// Start begins listening in a goroutine. It returns when the socket is
// bound.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:        s.addr,
		Handler:     s.Routes(),
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: watch connections stay open.
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	go func() {
		_ = s.httpServer.Serve(ln)
	}()
	return nil
}

// Shutdown closes watch connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.hub.closeAll()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) checkToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("X-Live-Token") != s.token {
			writeJSON(w, http.StatusUnauthorized, errObj("UNAUTHORIZED", "missing or invalid X-Live-Token", ""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GET /match/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.Snapshot())
}

// GET /match/history?limit=&offset=
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.provider.History()

	offset := clampInt(qInt(r, "offset", 0), 0, len(records))
	limit := clampInt(qInt(r, "limit", 500), 1, 10000)

	page := records[offset:]
	if len(page) > limit {
		page = page[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total": len(records),
		"rows":  page,
	})
}

// GET /match/history/export.csv
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records := s.provider.History()
	if len(records) == 0 {
		writeJSON(w, http.StatusNotFound, errObj("NO_ROUNDS", "no rounds played yet", ""))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="rps_history.csv"`)
	_ = export.WriteHistory(w, records) // headers already sent on failure
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errObj(code, msg, field string) map[string]any {
	e := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
	if field != "" {
		e["error"].(map[string]any)["field"] = field
	}
	return e
}

func qInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
