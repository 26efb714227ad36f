package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure where the baseline is stored and how reports are rendered.

Settings are kept in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long: `Set a single configuration key, for example:

  sanctrack settings set store.backend github
  sanctrack settings set store.github.owner my-org

When the value of a secret key (token, DSN, URL) is omitted it is read from
the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List accepted configuration keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, key := range services.KnownKeys() {
			cmd.Println(key)
		}
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	store := settings.Store
	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s (%s)\n", store.Backend, store.Backend.Description())
	switch store.Backend {
	case domain.StoreBackendFile:
		cmd.Printf("  Path: %s\n", orDefault(store.File.Path, "~/.sanctrack/"+domain.DefaultSnapshotFile))
	case domain.StoreBackendSQLite:
		cmd.Printf("  Dir: %s\n", orDefault(store.SQLite.Dir, "~/.sanctrack/data"))
	case domain.StoreBackendGitHub:
		cmd.Printf("  Repository: %s/%s\n", store.GitHub.Owner, store.GitHub.Repo)
		cmd.Printf("  Path: %s\n", store.GitHub.Path)
		cmd.Printf("  Branch: %s\n", orDefault(store.GitHub.Branch, "(default)"))
		cmd.Printf("  Token: %s\n", maskSecret(store.GitHub.Token))
		printStatus(cmd, store.GitHub.IsConfigured())
	case domain.StoreBackendGCS:
		cmd.Printf("  Object: gs://%s/%s\n", store.GCS.Bucket, store.GCS.Object)
		if store.GCS.Endpoint != "" {
			cmd.Printf("  Endpoint: %s\n", store.GCS.Endpoint)
		}
		printStatus(cmd, store.GCS.IsConfigured())
	case domain.StoreBackendS3:
		cmd.Printf("  Object: s3://%s/%s\n", store.S3.Bucket, store.S3.Key)
		cmd.Printf("  Region: %s\n", orDefault(store.S3.Region, "(from environment)"))
		if store.S3.Endpoint != "" {
			cmd.Printf("  Endpoint: %s\n", store.S3.Endpoint)
		}
		printStatus(cmd, store.S3.IsConfigured())
	case domain.StoreBackendPostgres:
		cmd.Printf("  DSN: %s\n", maskSecret(store.Postgres.DSN))
		cmd.Printf("  Key: %s\n", store.Postgres.Key)
		printStatus(cmd, store.Postgres.IsConfigured())
	case domain.StoreBackendRedis:
		cmd.Printf("  URL: %s\n", maskSecret(store.Redis.URL))
		cmd.Printf("  Key: %s\n", store.Redis.Key)
		printStatus(cmd, store.Redis.IsConfigured())
	}
	cmd.Println()

	cmd.Println("[Report]")
	cmd.Printf("  Format: %s\n", settings.ReportFormat)
	cmd.Println()

	cmd.Println("[History]")
	if settings.HistoryEnabled {
		cmd.Println("  Enabled: yes")
	} else {
		cmd.Println("  Enabled: no")
	}
	cmd.Println()

	cmd.Println("[Metrics]")
	cmd.Printf("  Textfile: %s\n", orDefault(settings.MetricsTextfile, "(disabled)"))
	cmd.Println()

	values := settingsService.Values()
	if len(values) > 0 {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		cmd.Println("[Configured keys]")
		for _, k := range keys {
			cmd.Printf("  %s = %s\n", k, values[k])
		}
		cmd.Println()
	}

	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case services.IsSecretKey(key):
		cmd.Printf("%s: ", key)
		value = readSecret()
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if services.IsSecretKey(key) {
		cmd.Printf("%s updated\n", key)
	} else {
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// maskSecret shows only the first and last few characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// readSecret reads a value without echo when stdin is a terminal.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
