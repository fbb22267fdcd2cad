package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jfmyers9/toptracks/internal/spotifytest"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.name); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toptracks.log")

	logger := setupLogger(path, "debug")
	logger.Debug().Str("artist", "Sid Sriram").Msg("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"artist":"Sid Sriram"`) {
		t.Errorf("expected JSON log line, got %q", data)
	}
}

func TestAPILogger(t *testing.T) {
	var buf bytes.Buffer
	l := apiLogger{logger: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	l.Debugf("GET %s (attempt %d)", "search", 1)

	if !strings.Contains(buf.String(), `"message":"GET search (attempt 1)"`) {
		t.Errorf("unexpected log output %q", buf.String())
	}
}

func TestSearchCommand(t *testing.T) {
	server := spotifytest.NewServer(t, spotifytest.SidSriram())
	home := t.TempDir()
	outDir := t.TempDir()

	t.Setenv("HOME", home)
	t.Setenv("TOPTRACKS_SPOTIFY_CLIENT_ID", "test-client-id")
	t.Setenv("TOPTRACKS_SPOTIFY_CLIENT_SECRET", "test-client-secret")
	t.Setenv("TOPTRACKS_SPOTIFY_TOKEN_URL", server.TokenURL())
	t.Setenv("TOPTRACKS_SPOTIFY_API_URL", server.APIURL())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"search", "Sid", "Sriram",
		"--output-dir", outDir,
		"--no-color",
		"--env-file", filepath.Join(home, "missing.env"),
		"--log-file", filepath.Join(home, "toptracks.log"),
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if !strings.Contains(out.String(), "Top 5 tracks by Sid Sriram:") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	data, err := os.ReadFile(filepath.Join(outDir, "sid_sriram_top_tracks.csv"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 6 {
		t.Errorf("expected 6 lines in export, got %d", lines)
	}

	logs, err := os.ReadFile(filepath.Join(home, "toptracks.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(logs), "test-client-secret") || strings.Contains(string(logs), "test-client-id") {
		t.Error("credentials leaked into logs")
	}
}
