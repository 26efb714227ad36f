package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

var (
	baselineFormat  string
	baselineEntries bool
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show the stored baseline snapshot",
	Long: `Shows where the baseline is stored, its version token and how many
entries it holds. Use --entries to list them.`,
	Args: cobra.NoArgs,
	RunE: runBaseline,
}

func init() {
	baselineCmd.Flags().StringVarP(&baselineFormat, "format", "f", "", "output format: text, json or yaml")
	baselineCmd.Flags().BoolVar(&baselineEntries, "entries", false, "list every entry")
	rootCmd.AddCommand(baselineCmd)
}

// baselineView is the serialised form of the stored baseline.
type baselineView struct {
	Location string             `json:"location" yaml:"location"`
	Version  string             `json:"version" yaml:"version"`
	Count    int                `json:"count" yaml:"count"`
	Entries  []render.EntryView `json:"entries,omitempty" yaml:"entries,omitempty"`
}

func runBaseline(cmd *cobra.Command, _ []string) error {
	if err := requireStore(); err != nil {
		return err
	}
	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	format, err := outputFormat(baselineFormat)
	if err != nil {
		return err
	}

	stored, err := baselineService.Current(cmd.Context())
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Printf("No baseline stored in %s yet.\n", baselineService.Location())
		cmd.Println("The next run will establish one.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	view := baselineView{
		Location: baselineService.Location(),
		Version:  stored.Version.String(),
		Count:    len(stored.Entries),
	}
	if baselineEntries || format != domain.ReportFormatText {
		view.Entries = render.NewEntryViews(stored.Entries)
	}

	if format != domain.ReportFormatText {
		return writeView(cmd, format, view)
	}

	cmd.Printf("Location: %s\n", view.Location)
	cmd.Printf("Version:  %s\n", view.Version)
	cmd.Printf("Entries:  %d\n", view.Count)
	if baselineEntries {
		cmd.Println()
		for _, e := range view.Entries {
			cmd.Printf("  %s  %s\n", e.ReferenceNumber, e.Name)
		}
	}
	return nil
}
