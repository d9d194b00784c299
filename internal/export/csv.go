// Package export writes the round history snapshot to CSV. File
// dialogs and destinations belong to the presentation layer; this
// package only formats and writes.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"rpsdesk/internal/match"
)

// ErrNoRounds is returned when there is nothing to export yet.
var ErrNoRounds = errors.New("no rounds played yet")

// timeColumnLayout matches the history display format.
const timeColumnLayout = "15:04:05"

// header keeps the column names exports have always used.
var header = []string{"time", "user", "cpu", "result"}

// WriteHistory writes the records as CSV, header row first.
func WriteHistory(w io.Writer, records []match.RoundRecord) error {
	if len(records) == 0 {
		return ErrNoRounds
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.PlayedAt.Format(timeColumnLayout),
			rec.Human.String(),
			rec.Opponent.String(),
			rec.Outcome.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveHistory writes the records to a new file at path.
func SaveHistory(path string, records []match.RoundRecord) error {
	if len(records) == 0 {
		return ErrNoRounds
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := WriteHistory(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
