package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
)

var (
	runDryRun      bool
	runFormat      string
	runFilter      string
	runDiffs       bool
	runInteractive bool
)

var runCmd = &cobra.Command{
	Use:   "run <file.xml|->",
	Short: "Compare a sanctions list with the stored baseline",
	Long: `Normalises the given consolidated list, compares it with the stored
baseline and replaces the baseline with it.

When no baseline exists the document becomes the baseline and no report
is produced. Use "-" to read the document from stdin.

If the report was computed but the new baseline could not be stored (for
example because another process replaced it first), the report is still
printed and the command exits with status 3.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "compare without replacing the baseline")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "output format: text, json or yaml")
	runCmd.Flags().StringVar(&runFilter, "filter", "", "CEL expression selecting which changes to show")
	runCmd.Flags().BoolVar(&runDiffs, "diff", false, "show a unified diff for each modified entry")
	runCmd.Flags().BoolVarP(&runInteractive, "interactive", "i", false, "browse the report in the terminal UI")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := requireStore(); err != nil {
		return err
	}

	format, err := outputFormat(runFormat)
	if err != nil {
		return err
	}

	doc, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}
	defer doc.Close()

	result, runErr := trackerService.Track(cmd.Context(), doc, driving.TrackOptions{
		DryRun: runDryRun,
		Source: args[0],
	})

	var commitErr *domain.CommitError
	if runErr != nil && !errors.As(runErr, &commitErr) {
		return fmt.Errorf("run failed: %w", runErr)
	}
	if result == nil {
		return errors.New("run produced no result")
	}

	if result.Report != nil {
		if result.Report, err = applyFilter(result.Report, runFilter); err != nil {
			return err
		}
	}

	if runInteractive && result.Report != nil {
		if err := showReport(cmd, "Run "+result.RunID, result.Report); err != nil {
			return err
		}
		return runErr
	}

	switch format {
	case domain.ReportFormatText:
		if err := render.TextRun(cmd.OutOrStdout(), result, render.TextOptions{Diffs: runDiffs}); err != nil {
			return err
		}
	default:
		if err := writeView(cmd, format, render.NewRunView(result, runErr)); err != nil {
			return err
		}
	}

	return runErr
}
