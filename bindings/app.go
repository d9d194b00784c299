// Package bindings exposes the engine to the Wails frontend and is
// the single place that serializes engine access: every entry point,
// frontend call or livehttp read, goes through the App mutex.
package bindings

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"

	"rpsdesk/internal/match"
	"rpsdesk/internal/store"
)

const appConfigDirName = "rpsdesk"

// App is the Wails-bound application facade.
type App struct {
	ctx context.Context
	mu  sync.Mutex

	engine *match.Engine
	db     *store.Store
}

// New wraps an engine. The store is opened in Startup so a broken
// archive never blocks construction.
func New(engine *match.Engine) *App {
	return &App{engine: engine}
}

// Startup is called by Wails when the app starts. It opens the round
// archive under the user config dir and subscribes the archive
// recorder and the frontend event emitter to the engine.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	a.engine.Subscribe(&Emitter{ctx: ctx})

	dbPath, err := archivePath()
	if err != nil {
		log.Printf("archive disabled: %v", err)
		return
	}
	db, err := store.New(dbPath)
	if err != nil {
		log.Printf("archive disabled: open %s failed: %v", dbPath, err)
		return
	}
	a.db = db
	a.engine.Subscribe(store.NewRecorder(db))
	log.Printf("round archive at %s", dbPath)
}

// Shutdown closes the archive.
func (a *App) Shutdown(ctx context.Context) {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("archive close failed: %v", err)
		}
	}
}

func archivePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	appDir := filepath.Join(configDir, appConfigDirName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "history.db"), nil
}

// Snapshot returns the current display state. Also serves the livehttp
// module as its StateProvider.
func (a *App) Snapshot() match.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Snapshot()
}

// History returns the full session round history, oldest first.
func (a *App) History() []match.RoundRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.History()
}

// MatchHistory returns the rounds of the current match only.
func (a *App) MatchHistory() []match.RoundRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.MatchHistory()
}
