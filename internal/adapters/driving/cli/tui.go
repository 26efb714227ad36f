package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/adapters/driving/tui"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// showReport opens the report viewer. Without a terminal the text report is
// printed instead.
func showReport(cmd *cobra.Command, title string, report *domain.Report) error {
	if !isTerminal() {
		logger.Warn("--interactive needs a terminal; printing the report instead")
		return render.Text(cmd.OutOrStdout(), report, render.TextOptions{})
	}

	viewer, err := tui.NewViewer(title, report)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	p := tea.NewProgram(viewer, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
