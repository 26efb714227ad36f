// Package cli implements the sanctrack command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
	"github.com/custodia-labs/sanctrack/internal/core/services"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main.
var (
	trackerService  driving.TrackerService
	baselineService driving.BaselineService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

// storeErr explains why the tracker and baseline services are missing.
var storeErr error

// Services groups the driving ports the commands use.
type Services struct {
	Tracker  driving.TrackerService
	Baseline driving.BaselineService
	History  driving.HistoryService
	Settings driving.SettingsService

	// StoreErr is set when the snapshot store could not be opened.
	// Settings commands still work; tracking commands report it.
	StoreErr error

	// Close releases store connections.
	Close func() error
}

// Bootstrap builds the services for a config directory. An empty
// directory means the default.
type Bootstrap func(ctx context.Context, configDir string) (Services, error)

var (
	bootstrap     Bootstrap
	closeServices func() error
)

// SetServices injects the application services.
func SetServices(s Services) {
	trackerService = s.Tracker
	baselineService = s.Baseline
	historyService = s.History
	settingsService = s.Settings
	storeErr = s.StoreErr
	closeServices = s.Close
}

// SetBootstrap registers the function that wires services once flags are parsed.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "sanctrack",
	Short: "Track changes to the UN consolidated sanctions list",
	Long: `sanctrack normalises the UN Security Council consolidated sanctions list,
compares it with the previously stored snapshot and reports which
individuals were added, removed or modified.

The first run stores a baseline. Every later run reports the differences
and replaces the baseline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if bootstrap == nil {
			return nil
		}
		svc, err := bootstrap(cmd.Context(), configDir)
		if err != nil {
			return err
		}
		SetServices(svc)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/.sanctrack, or $SANCTRACK_CONFIG_DIR)")
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("close services: %v", cerr)
		}
	}
	return err
}

// requireTracker returns an error when no tracker is wired.
func requireTracker() error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}
	return nil
}

// requireStore returns an error when the snapshot store could not be opened.
func requireStore() error {
	if storeErr != nil {
		return fmt.Errorf("snapshot store unavailable: %w", storeErr)
	}
	return requireTracker()
}

// outputFormat resolves the --format flag, falling back to the configured default.
func outputFormat(flag string) (domain.ReportFormat, error) {
	if flag == "" {
		flag = string(domain.ReportFormatText)
		if settingsService != nil {
			if settings, err := settingsService.Get(); err == nil {
				flag = string(settings.ReportFormat)
			}
		}
	}
	format := domain.ReportFormat(flag)
	if !format.IsValid() {
		return "", fmt.Errorf("%w: unknown format %q (use text, json or yaml)", domain.ErrInvalidInput, flag)
	}
	return format, nil
}

// applyFilter narrows a report with a CEL expression.
func applyFilter(report *domain.Report, expr string) (*domain.Report, error) {
	filter, err := services.NewReportFilter(expr)
	if err != nil {
		return nil, err
	}
	return filter.Apply(report)
}

// openDocument opens a path, or stdin for "-".
func openDocument(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return f, nil
}

// writeView renders v as JSON or YAML.
func writeView(cmd *cobra.Command, format domain.ReportFormat, v any) error {
	return render.Write(cmd.OutOrStdout(), format, v)
}

// ExitCode maps an error to a process exit status.
// 2 means the document was rejected; 3 means the baseline was not committed.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrMalformedDocument):
		return 2
	case errors.Is(err, domain.ErrBaselineNotCommitted):
		return 3
	default:
		return 1
	}
}
