package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jfmyers9/toptracks/internal/history"
	"github.com/jfmyers9/toptracks/internal/report"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRun   string
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded search runs",
	Long: `Show search runs recorded with 'toptracks search --history'
(or history.enabled in the config file).

Without flags the most recent runs are listed. Use --run to show the
tracks of one run; any unique prefix of its ID works. Use --prune to
delete runs older than a duration.`,
	Example: `  toptracks history
  toptracks history --run 3f2a9c1d
  toptracks history --prune 720h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list (0 = all)")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the tracks of the run with this ID")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Delete runs older than this duration")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case historyPrune > 0:
		deleted, err := store.Cleanup(ctx, historyPrune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d run(s) older than %s.\n", deleted, historyPrune)
		return nil

	case historyRun != "":
		id, err := store.Resolve(ctx, historyRun)
		if err != nil {
			return err
		}
		run, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		report.Run(out, run)
		return nil
	}

	runs, err := store.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	report.Runs(out, runs)
	return nil
}
