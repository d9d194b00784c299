package livehttp

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"rpsdesk/internal/game"
	"rpsdesk/internal/match"
)

// stubProvider serves canned engine state.
type stubProvider struct {
	snap    match.Snapshot
	history []match.RoundRecord
}

func (p *stubProvider) Snapshot() match.Snapshot     { return p.snap }
func (p *stubProvider) History() []match.RoundRecord { return p.history }

func testProvider() *stubProvider {
	base := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)
	return &stubProvider{
		snap: match.Snapshot{
			MatchID:    "m1",
			Phase:      match.PhaseInProgress,
			BestOf:     5,
			TargetWins: 3,
			HumanScore: 1,
			Rounds:     2,
		},
		history: []match.RoundRecord{
			{ID: "r1", PlayedAt: base, Human: game.Rock, Opponent: game.Scissors, Outcome: game.Win},
			{ID: "r2", PlayedAt: base.Add(time.Second), Human: game.Rock, Opponent: game.Rock, Outcome: game.Tie},
		},
	}
}

func newTestServer(t *testing.T, token string) (*httptest.Server, *Module) {
	t.Helper()
	p := testProvider()
	m := NewModule(p, 0, token)
	s := NewServer(p, m.hub, 0, token)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts, m
}

func TestHandleState(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, err := http.Get(ts.URL + "/match/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var snap match.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.MatchID != "m1" || snap.TargetWins != 3 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestHandleHistoryPaging(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, err := http.Get(ts.URL + "/match/history?offset=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Total int                 `json:"total"`
		Rows  []match.RoundRecord `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("total = %d, want 2", body.Total)
	}
	if len(body.Rows) != 1 || body.Rows[0].ID != "r2" {
		t.Errorf("rows = %+v, want the second record only", body.Rows)
	}
}

func TestHandleExportCSV(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, err := http.Get(ts.URL + "/match/history/export.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	rows, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "time" || rows[1][1] != "Rock" {
		t.Errorf("unexpected csv content: %v", rows[:2])
	}
}

func TestTokenRequired(t *testing.T) {
	ts, _ := newTestServer(t, "sekrit")

	resp, err := http.Get(ts.URL + "/match/state")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/match/state", nil)
	req.Header.Set("X-Live-Token", "sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("with token: status = %d, want 200", resp.StatusCode)
	}
}

func TestWatchReceivesBroadcast(t *testing.T) {
	ts, mod := newTestServer(t, "")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/match/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the connection.
	deadline := time.Now().Add(time.Second)
	for {
		mod.hub.mu.Lock()
		n := len(mod.hub.clients)
		mod.hub.mu.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mod.RoundApplied(match.MatchInfo{ID: "m1"}, match.RoundResult{Streak: 1})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Type != "round" {
		t.Errorf("event type = %q, want round", event.Type)
	}
}
