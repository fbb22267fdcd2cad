package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jfmyers9/toptracks/internal/history"
)

const (
	runIDWidth     = 8
	runArtistWidth = 24
	runStatusWidth = 13
)

// Runs prints one line per recorded run
func Runs(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		padToWidth("ID", runIDWidth),
		padToWidth("Date", 16),
		padToWidth("Artist", runArtistWidth),
		padToWidth("Status", runStatusWidth),
		"Tracks")

	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %s  %s  %d\n",
			padToWidth(shortID(r.ID), runIDWidth),
			r.CreatedAt.Format("2006-01-02 15:04"),
			padToWidth(r.Artist, runArtistWidth),
			padToWidth(string(r.Status), runStatusWidth),
			r.Count)
	}
}

// Run prints a recorded run with its tracks
func Run(w io.Writer, run *history.Run) {
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  Artist:  %s\n", run.Artist)
	fmt.Fprintf(w, "  Date:    %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Status:  %s\n", run.Status)
	if run.File != "" {
		fmt.Fprintf(w, "  File:    %s\n", run.File)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "  Error:   %s\n", run.Error)
	}

	if len(run.Tracks) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, t := range run.Tracks {
		fmt.Fprintf(w, "%2d. %s  %s  %s  %s\n",
			t.Position,
			padToWidth(t.Name, compactNameWidth),
			padToWidth(t.Album, compactAlbumWidth),
			padToWidth(strconv.Itoa(t.Popularity), 3),
			t.Genre)
		fmt.Fprintf(w, "    Tempo - %s, Key - %s, Mode - %s, Loudness - %s\n",
			t.Tempo, t.Key, t.Mode, t.Loudness)
	}
}

// shortID returns the first block of a run ID, enough to tell runs apart
func shortID(id string) string {
	if len(id) > runIDWidth {
		return id[:runIDWidth]
	}
	return id
}
