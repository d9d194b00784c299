package main

import (
	"context"
	"embed"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"rpsdesk/bindings"
	"rpsdesk/internal/livehttp"
	"rpsdesk/internal/match"
	"rpsdesk/internal/rng"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	appCtx   context.Context
	appCtxMu sync.RWMutex
)

func main() {
	log.Printf("Starting rpsdesk (Go %s)...", runtime.Version())

	// Optional .env next to the binary, for dev overrides.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	engine := match.New(match.Config{}, nil, newSource())
	app := bindings.New(engine)

	port := envInt("RPSDESK_LIVE_PORT", 17890)
	token := os.Getenv("RPSDESK_LIVE_TOKEN") // optional; empty disables auth
	liveMod := livehttp.NewModule(app, port, token)
	engine.Subscribe(liveMod)

	startup := func(ctx context.Context) {
		app.Startup(ctx)
		setAppContext(ctx)

		if err := liveMod.Startup(ctx); err != nil {
			log.Printf("live server failed to start: %v", err)
		} else {
			log.Printf("live server ready at %s (token enabled: %v)", liveMod.URL(), liveMod.TokenEnabled())
		}
	}

	beforeClose := func(ctx context.Context) (prevent bool) {
		if err := liveMod.Shutdown(ctx); err != nil {
			log.Printf("live server shutdown error: %v", err)
		}
		app.Shutdown(ctx)
		setAppContext(nil)
		return false
	}

	if err := wails.Run(&options.App{
		Title:            "Rock Paper Scissors",
		Width:            520,
		Height:           680,
		MinWidth:         420,
		MinHeight:        560,
		WindowStartState: options.Normal,
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 255},

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:     startup,
		OnBeforeClose: beforeClose,

		Menu: buildAppMenu(app),

		Bind: []interface{}{app},

		LogLevel:           logger.INFO,
		LogLevelProduction: logger.ERROR,

		EnableDefaultContextMenu: false,

		ErrorFormatter: func(err error) any {
			if err == nil {
				return nil
			}
			return err.Error()
		},

		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   "Rock Paper Scissors",
				Message: "Best-of-N rock paper scissors against an adaptive opponent.\nBuilt with Wails.",
			},
		},
		Linux: &linux.Options{
			ProgramName: "rpsdesk",
		},
	}); err != nil {
		log.Printf("Error running Wails app: %v", err)
		panic(err)
	}
}

// newSource builds the opponent's random stream. Seeds can be pinned
// via env for reproducible matches; otherwise each launch gets fresh
// entropy.
func newSource() rng.Source {
	server := os.Getenv("RPSDESK_SERVER_SEED")
	client := os.Getenv("RPSDESK_CLIENT_SEED")
	if server == "" {
		server = rng.RandomSeed()
	}
	if client == "" {
		client = rng.RandomSeed()
	}
	return rng.NewStream(server, client)
}

func envInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		var v int
		if _, err := fmt.Sscanf(s, "%d", &v); err == nil {
			return v
		}
	}
	return def
}

func buildAppMenu(app *bindings.App) *menu.Menu {
	rootMenu := menu.NewMenu()

	if runtime.GOOS == "darwin" {
		if appMenu := menu.AppMenu(); appMenu != nil {
			rootMenu.Append(appMenu)
		}
	}

	fileMenu := menu.NewMenu()
	fileMenu.AddText("New Match", keys.CmdOrCtrl("n"), func(_ *menu.CallbackData) {
		app.NewMatch()
	})
	fileMenu.AddText("Export History…", keys.CmdOrCtrl("e"), func(_ *menu.CallbackData) {
		if path, err := app.ExportCSVDialog(); err != nil {
			log.Printf("export failed: %v", err)
		} else if path != "" {
			log.Printf("history exported to %s", path)
		}
	})
	fileMenu.AddSeparator()
	fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.Quit(ctx)
		})
	})
	rootMenu.Append(menu.SubMenu("File", fileMenu))

	viewMenu := menu.NewMenu()
	viewMenu.AddText("Reload Frontend", keys.CmdOrCtrl("r"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.WindowReloadApp(ctx)
		})
	})
	rootMenu.Append(menu.SubMenu("View", viewMenu))

	return rootMenu
}

func setAppContext(ctx context.Context) {
	appCtxMu.Lock()
	defer appCtxMu.Unlock()
	appCtx = ctx
}

func withAppContext(action func(context.Context)) {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()
	if ctx == nil {
		log.Println("application context not initialised; ignoring menu action")
		return
	}
	action(ctx)
}
