package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Long:  `Lists recorded runs, newest first, with their change counts and whether the baseline was committed.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs (0 = all)")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "", "output format: text, json or yaml")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured (set history.enabled = true)")
	}

	format, err := outputFormat(historyFormat)
	if err != nil {
		return err
	}

	records, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if format != domain.ReportFormatText {
		return writeView(cmd, format, render.NewRunRecordViews(records))
	}

	if len(records) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("%s  %-10s  +%d -%d ~%d  %s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Mode,
			r.Counts.Added, r.Counts.Removed, r.Counts.Modified,
			runStatus(r),
		)
		if r.Error != "" {
			cmd.Printf("    %s\n", r.Error)
		}
	}
	return nil
}

func runStatus(r *domain.RunRecord) string {
	switch {
	case r.DryRun:
		return "dry run"
	case r.Committed:
		return "committed"
	default:
		return "NOT committed"
	}
}
