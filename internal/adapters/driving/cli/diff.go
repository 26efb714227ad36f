package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

var (
	diffFormat      string
	diffFilter      string
	diffDiffs       bool
	diffInteractive bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <old.xml> <new.xml>",
	Short: "Compare two sanctions list documents",
	Long: `Normalises two consolidated lists and reports the differences between
them. The stored baseline is neither read nor written.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "", "output format: text, json or yaml")
	diffCmd.Flags().StringVar(&diffFilter, "filter", "", "CEL expression selecting which changes to show")
	diffCmd.Flags().BoolVar(&diffDiffs, "diff", false, "show a unified diff for each modified entry")
	diffCmd.Flags().BoolVarP(&diffInteractive, "interactive", "i", false, "browse the report in the terminal UI")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	if err := requireTracker(); err != nil {
		return err
	}

	format, err := outputFormat(diffFormat)
	if err != nil {
		return err
	}

	oldDoc, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}
	defer oldDoc.Close()

	newDoc, err := openDocument(cmd, args[1])
	if err != nil {
		return err
	}
	defer newDoc.Close()

	report, err := trackerService.Compare(cmd.Context(), oldDoc, newDoc)
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	if report, err = applyFilter(report, diffFilter); err != nil {
		return err
	}

	if diffInteractive {
		return showReport(cmd, args[0]+" vs "+args[1], report)
	}

	if format == domain.ReportFormatText {
		return render.Text(cmd.OutOrStdout(), report, render.TextOptions{Diffs: diffDiffs})
	}
	return writeView(cmd, format, render.NewReportView(report))
}
