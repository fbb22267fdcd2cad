package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates an in-memory SQLite store for testing
func createTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func sampleRun() Run {
	return Run{
		Artist: "Sid Sriram",
		File:   "sid_sriram_top_tracks.csv",
		Status: StatusOK,
		Tracks: []Track{
			{Name: "Adiye", Album: "Bachelor", Popularity: 61, ReleaseDate: "2021-12-03", Genre: "filmi", Tempo: "95.012", Key: "7", Mode: "1", Loudness: "-6.743"},
			{Name: "Srivalli", Album: "Pushpa", Popularity: 66, ReleaseDate: "2021-12-17", Genre: "Genre not found", Tempo: "N/A", Key: "N/A", Mode: "N/A", Loudness: "N/A"},
		},
	}
}

func TestOpen(t *testing.T) {
	t.Run("in-memory database", func(t *testing.T) {
		store, err := Open(":memory:")
		if err != nil {
			t.Fatalf("failed to create in-memory store: %v", err)
		}
		defer func() { _ = store.Close() }()

		if store.db == nil {
			t.Error("store database is nil")
		}
	})

	t.Run("file-based database in new directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "history.db")

		store, err := Open(path)
		if err != nil {
			t.Fatalf("failed to create file-based store: %v", err)
		}
		defer func() { _ = store.Close() }()

		if _, err := store.Add(context.Background(), sampleRun()); err != nil {
			t.Fatalf("failed to add run: %v", err)
		}
	})
}

func TestAddAndGet(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	id, err := store.Add(ctx, sampleRun())
	if err != nil {
		t.Fatalf("failed to add run: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	run, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if run.Artist != "Sid Sriram" || run.Status != StatusOK || run.File != "sid_sriram_top_tracks.csv" {
		t.Errorf("unexpected run %+v", run)
	}
	if run.Count != 2 || len(run.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got count=%d tracks=%d", run.Count, len(run.Tracks))
	}
	if run.Tracks[0].Position != 1 || run.Tracks[0].Name != "Adiye" || run.Tracks[0].Key != "7" {
		t.Errorf("unexpected first track %+v", run.Tracks[0])
	}
	if run.Tracks[1].Genre != "Genre not found" || run.Tracks[1].Tempo != "N/A" {
		t.Errorf("sentinels should be stored verbatim, got %+v", run.Tracks[1])
	}
	if run.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestAddFailedRun(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	id, err := store.Add(ctx, Run{
		Artist: "Sid Sriram",
		Status: StatusAuthFailed,
		Error:  "spotify: HTTP 401: Invalid client",
	})
	if err != nil {
		t.Fatalf("failed to add run: %v", err)
	}

	run, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if run.Status != StatusAuthFailed || run.Error == "" || run.File != "" {
		t.Errorf("unexpected run %+v", run)
	}
	if len(run.Tracks) != 0 {
		t.Errorf("expected no tracks, got %d", len(run.Tracks))
	}
}

func TestGetMissing(t *testing.T) {
	store := createTestStore(t)

	if _, err := store.Get(context.Background(), "nope"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestList(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, artist := range []string{"First", "Second", "Third"} {
		run := sampleRun()
		run.Artist = artist
		run.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := store.Add(ctx, run); err != nil {
			t.Fatalf("failed to add run: %v", err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Artist != "Third" || runs[2].Artist != "First" {
		t.Errorf("expected newest first, got %s..%s", runs[0].Artist, runs[2].Artist)
	}
	if runs[0].Count != 2 || runs[0].Tracks != nil {
		t.Errorf("List should report counts without tracks, got %+v", runs[0])
	}

	runs, err = store.List(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected limit to apply, got %d runs", len(runs))
	}
}

func TestCleanup(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	old := sampleRun()
	old.CreatedAt = time.Now().Add(-60 * 24 * time.Hour)
	oldID, err := store.Add(ctx, old)
	if err != nil {
		t.Fatalf("failed to add old run: %v", err)
	}

	if _, err := store.Add(ctx, sampleRun()); err != nil {
		t.Fatalf("failed to add run: %v", err)
	}

	deleted, err := store.Cleanup(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted run, got %d", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 remaining run, got %d", count)
	}

	if _, err := store.Get(ctx, oldID); err == nil {
		t.Error("expected old run to be gone")
	}

	var orphans int
	if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_tracks WHERE run_id = ?", oldID).Scan(&orphans); err != nil {
		t.Fatalf("failed to count tracks: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected tracks to be deleted with their run, found %d", orphans)
	}
}

func TestResolve(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abc12345-0000", "abc99999-0000", "def00000-0000"} {
		run := sampleRun()
		run.ID = id
		if _, err := store.Add(ctx, run); err != nil {
			t.Fatalf("failed to add run: %v", err)
		}
	}

	tests := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{prefix: "def", want: "def00000-0000"},
		{prefix: "abc1", want: "abc12345-0000"},
		{prefix: "abc99999-0000", want: "abc99999-0000"},
		{prefix: "abc", wantErr: true},
		{prefix: "zzz", wantErr: true},
		{prefix: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := store.Resolve(ctx, tt.prefix)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Resolve(%q) expected error, got %q", tt.prefix, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q) unexpected error: %v", tt.prefix, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}
