package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/sanctrack/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/metrics"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage"
	"github.com/custodia-labs/sanctrack/internal/adapters/driving/cli"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
	"github.com/custodia-labs/sanctrack/internal/core/services"
	"github.com/custodia-labs/sanctrack/internal/logger"
	"github.com/custodia-labs/sanctrack/internal/normalisers/consolidated"
)

// envConfigDir overrides the default configuration directory.
const envConfigDir = "SANCTRACK_CONFIG_DIR"

// wire builds the application services for a configuration directory.
//
// A store that cannot be opened is not fatal here: settings commands must
// keep working so the user can fix the configuration. The failure is passed
// to the CLI, which reports it from every command that needs the store.
func wire(ctx context.Context, configDir string) (cli.Services, error) {
	dir, err := resolveConfigDir(configDir)
	if err != nil {
		return cli.Services{}, err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return cli.Services{}, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	normaliser := consolidated.New()

	svc := cli.Services{Settings: settingsService}

	settings, err := settingsService.Get()
	if err != nil {
		svc.Tracker = services.NewTracker(normaliser, nil)
		svc.StoreErr = err
		return svc, nil
	}

	factory := storage.NewFactory(dir)
	svc.Close = factory.Close

	var recorders []driven.RunRecorder
	if settings.HistoryEnabled {
		history, err := factory.History(settings.Store.SQLite.Dir)
		if err != nil {
			logger.Warn("Run history unavailable: %v", err)
		} else {
			historyService := services.NewHistoryService(history)
			svc.History = historyService
			recorders = append(recorders, historyService)
		}
	}
	if settings.MetricsTextfile != "" {
		recorders = append(recorders, metrics.NewRecorder(settings.MetricsTextfile))
	}

	blobs, err := factory.Open(ctx, settings.Store)
	if err != nil {
		svc.Tracker = services.NewTracker(normaliser, nil)
		svc.StoreErr = err
		return svc, nil
	}

	snapshots := services.NewSnapshotRepository(blobs)
	svc.Tracker = services.NewTracker(normaliser, snapshots, recorders...)
	svc.Baseline = snapshots
	return svc, nil
}

// resolveConfigDir applies the flag, then the environment, then ~/.sanctrack.
func resolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(envConfigDir); env != "" {
		return env, nil
	}
	return file.DefaultConfigDir()
}
