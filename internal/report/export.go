package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/toptracks/internal/catalog"
	"github.com/samber/lo"
)

// Header is the first row of every export, in column order
var Header = []string{
	"Track Name",
	"Album Name",
	"Popularity Score",
	"Release Date",
	"Genre",
	"Tempo",
	"Key",
	"Mode",
	"Loudness",
}

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Filename derives the export file name from the artist name: lowercase,
// spaces replaced by underscores, suffixed "_top_tracks.csv". Path
// separators are replaced too so the file always lands in the output
// directory.
func Filename(artist string) string {
	return strings.ToLower(filenameReplacer.Replace(artist)) + "_top_tracks.csv"
}

// WriteCSV writes the header and one row per record, in order
func WriteCSV(w io.Writer, records []catalog.Record) error {
	rows := lo.Map(records, func(r catalog.Record, _ int) []string {
		return r.Row()
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// Export writes records for artist to dir, replacing any previous export
// of the same artist. Returns the path of the file.
//
// The file is written to a temporary name and renamed into place, so a
// failed export never leaves a partial file behind.
func Export(dir, artist string, records []catalog.Record) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, Filename(artist))

	tmp, err := os.CreateTemp(dir, ".toptracks-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := WriteCSV(tmp, records); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to set export permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}

	return path, nil
}
