package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

// watchSettle is how long a file must stay quiet before it is processed.
var watchSettle = 500 * time.Millisecond

var watchDryRun bool

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Track sanctions lists as they appear in a directory",
	Long: `Watches a directory and runs the tracker on every *.xml file that is
created or rewritten there. Files are processed one at a time, after they
have stopped changing. A failed run is reported and watching continues.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "compare without replacing the baseline")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireStore(); err != nil {
		return err
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for *.xml files\n", dir)

	ctx := cmd.Context()
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchSettle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if path, ok := watchTarget(event); ok {
				logger.Debug("watch: %s %s", event.Op, path)
				pending[path] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now) {
				delete(pending, path)
				processWatched(cmd, path)
			}
		}
	}
}

// watchTarget returns the path of an event worth tracking.
func watchTarget(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".xml") {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// settled returns the pending paths that have been quiet long enough, sorted.
func settled(pending map[string]time.Time, now time.Time) []string {
	var ready []string
	for path, at := range pending {
		if now.Sub(at) >= watchSettle {
			ready = append(ready, path)
		}
	}
	slices.Sort(ready)
	return ready
}

// processWatched runs the tracker on one file. Failures are printed, not returned.
func processWatched(cmd *cobra.Command, path string) {
	f, err := os.Open(path)
	if err != nil {
		cmd.PrintErrf("%s: %v\n", path, err)
		return
	}
	defer f.Close()

	cmd.Printf("\n%s\n", path)

	result, err := trackerService.Track(cmd.Context(), f, driving.TrackOptions{
		DryRun: watchDryRun,
		Source: path,
	})
	if result != nil {
		if rerr := render.TextRun(cmd.OutOrStdout(), result, render.TextOptions{}); rerr != nil {
			logger.Warn("render %s: %v", path, rerr)
		}
	}
	if err != nil {
		cmd.PrintErrf("%s: %v\n", path, err)
	}
}
