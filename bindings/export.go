package bindings

import (
	"fmt"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"rpsdesk/internal/export"
)

// ExportCSV writes the session round history to path.
func (a *App) ExportCSV(path string) error {
	a.mu.Lock()
	records := a.engine.History()
	a.mu.Unlock()

	return export.SaveHistory(path, records)
}

// ExportCSVDialog asks the user where to save and writes the history
// there. Returns the chosen path, or "" if the dialog was cancelled.
func (a *App) ExportCSVDialog() (string, error) {
	if a.ctx == nil {
		return "", fmt.Errorf("runtime not ready")
	}

	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Export round history",
		DefaultFilename: fmt.Sprintf("rps_history_%s.csv", time.Now().Format("20060102_150405")),
		Filters: []runtime.FileFilter{
			{DisplayName: "CSV files (*.csv)", Pattern: "*.csv"},
		},
	})
	if err != nil || path == "" {
		return "", err
	}

	if err := a.ExportCSV(path); err != nil {
		return "", err
	}
	return path, nil
}
