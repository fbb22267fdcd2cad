package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jfmyers9/toptracks/internal/catalog"
	"github.com/mattn/go-runewidth"
)

// Column widths of the compact format, in display columns
const (
	compactNameWidth  = 32
	compactAlbumWidth = 24
	compactDateWidth  = 10
)

// PrinterOptions configures a Printer
type PrinterOptions struct {
	Width   int  // Truncate values to this many display columns (0 = off)
	Compact bool // One line per track instead of a block
	Color   bool // Colorize headings when the terminal supports it
}

// Printer writes the human-readable track report
type Printer struct {
	out     io.Writer
	width   int
	compact bool

	heading *color.Color
	title   *color.Color
	success *color.Color
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer, opts PrinterOptions) *Printer {
	p := &Printer{
		out:     out,
		width:   opts.Width,
		compact: opts.Compact,
		heading: color.New(color.Bold),
		title:   color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
	}

	if !opts.Color {
		p.heading.DisableColor()
		p.title.DisableColor()
		p.success.DisableColor()
	}

	return p
}

// Header introduces the report for artist
func (p *Printer) Header(artist string, count int) {
	p.heading.Fprintf(p.out, "Top %d tracks by %s:\n", count, artist)
	if p.compact {
		fmt.Fprintf(p.out, "\n    %s  %s  %s  %s  %s\n",
			padToWidth("Track", compactNameWidth),
			padToWidth("Album", compactAlbumWidth),
			padToWidth("Pop", 3),
			padToWidth("Released", compactDateWidth),
			"Genre")
	}
}

// NoTracks reports an empty search
func (p *Printer) NoTracks(artist string) {
	fmt.Fprintf(p.out, "No tracks found for %s.\n", artist)
}

// Track prints one enriched track; index is 1-based
func (p *Printer) Track(index int, r catalog.Record) {
	if p.compact {
		p.compactTrack(index, r)
		return
	}

	fmt.Fprintln(p.out)
	p.title.Fprintf(p.out, "🎵 %d. Track Name: %s\n", index, p.fit(r.Name))
	fmt.Fprintf(p.out, "   🎤 Album Name: %s\n", p.fit(r.Album))
	fmt.Fprintf(p.out, "   🌟 Popularity Score: %d\n", r.Popularity)
	fmt.Fprintf(p.out, "   📅 Release Date: %s\n", r.ReleaseDate)
	fmt.Fprintf(p.out, "   🎧 Genre: %s\n", p.fit(r.Genre))
	fmt.Fprintf(p.out, "   🎼 Audio Features: Tempo - %s, Key - %s, Mode - %s, Loudness - %s\n",
		r.Features.Tempo, r.Features.Key, r.Features.Mode, r.Features.Loudness)
}

func (p *Printer) compactTrack(index int, r catalog.Record) {
	fmt.Fprintf(p.out, "%2d. %s  %s  %s  %s  %s\n",
		index,
		padToWidth(r.Name, compactNameWidth),
		padToWidth(r.Album, compactAlbumWidth),
		padToWidth(strconv.Itoa(r.Popularity), 3),
		padToWidth(r.ReleaseDate, compactDateWidth),
		p.fit(r.Genre))
}

// Saved confirms the export file
func (p *Printer) Saved(path string) {
	fmt.Fprintln(p.out)
	p.success.Fprintf(p.out, "✅ CSV file '%s' created successfully!\n", path)
}

// fit truncates text to the configured width, if any
func (p *Printer) fit(text string) string {
	if p.width <= 0 || runewidth.StringWidth(text) <= p.width {
		return text
	}
	return strings.TrimRight(padToWidth(text, p.width), " ")
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		// Wide runes can leave the truncated text one column short
		truncated := runewidth.Truncate(text, width-ellipsisWidth, "")
		result := truncated + ellipsis

		resultWidth := runewidth.StringWidth(result)
		if resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	} else if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text
}
