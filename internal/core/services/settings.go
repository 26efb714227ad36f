package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStoreBackend     = "store.backend"
	keyFilePath         = "store.file.path"
	keySQLiteDir        = "store.sqlite.dir"
	keyGitHubOwner      = "store.github.owner"
	keyGitHubRepo       = "store.github.repo"
	keyGitHubPath       = "store.github.path"
	keyGitHubBranch     = "store.github.branch"
	keyGitHubToken      = "store.github.token"
	keyGitHubTokenEnv   = "store.github.token_env"
	keyGitHubCommitMsg  = "store.github.commit_message"
	keyGCSBucket        = "store.gcs.bucket"
	keyGCSObject        = "store.gcs.object"
	keyGCSCredentials   = "store.gcs.credentials_file"
	keyGCSEndpoint      = "store.gcs.endpoint"
	keyS3Bucket         = "store.s3.bucket"
	keyS3Key            = "store.s3.key"
	keyS3Region         = "store.s3.region"
	keyS3Endpoint       = "store.s3.endpoint"
	keyPostgresDSN      = "store.postgres.dsn"
	keyPostgresKey      = "store.postgres.key"
	keyRedisURL         = "store.redis.url"
	keyRedisKey         = "store.redis.key"
	keyReportFormat     = "report.format"
	keyMetricsTextfile  = "metrics.textfile"
	keyHistoryEnabled   = "history.enabled"
	envBackendOverride  = "SANCTRACK_STORE_BACKEND"
	maskedSecretDisplay = "********"
)

// knownKeys lists every key Set accepts.
var knownKeys = []string{
	keyStoreBackend, keyFilePath, keySQLiteDir,
	keyGitHubOwner, keyGitHubRepo, keyGitHubPath, keyGitHubBranch,
	keyGitHubToken, keyGitHubTokenEnv, keyGitHubCommitMsg,
	keyGCSBucket, keyGCSObject, keyGCSCredentials, keyGCSEndpoint,
	keyS3Bucket, keyS3Key, keyS3Region, keyS3Endpoint,
	keyPostgresDSN, keyPostgresKey, keyRedisURL, keyRedisKey,
	keyReportFormat, keyMetricsTextfile, keyHistoryEnabled,
}

// secretKeys are masked by Values.
var secretKeys = map[string]bool{
	keyGitHubToken: true,
	keyPostgresDSN: true,
	keyRedisURL:    true,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Environment variables override the backend selection and supply the
// GitHub token when none is stored.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Store: domain.StoreSettings{
			Backend: domain.StoreBackend(s.getString(keyStoreBackend, defaults.Store.Backend.String())),
			File: domain.FileStoreSettings{
				Path: s.configStore.GetString(keyFilePath),
			},
			SQLite: domain.SQLiteStoreSettings{
				Dir: s.configStore.GetString(keySQLiteDir),
			},
			GitHub: domain.GitHubStoreSettings{
				Owner:         s.configStore.GetString(keyGitHubOwner),
				Repo:          s.configStore.GetString(keyGitHubRepo),
				Path:          s.getString(keyGitHubPath, defaults.Store.GitHub.Path),
				Branch:        s.configStore.GetString(keyGitHubBranch),
				Token:         s.configStore.GetString(keyGitHubToken),
				TokenEnv:      s.getString(keyGitHubTokenEnv, defaults.Store.GitHub.TokenEnv),
				CommitMessage: s.getString(keyGitHubCommitMsg, defaults.Store.GitHub.CommitMessage),
			},
			GCS: domain.GCSStoreSettings{
				Bucket:          s.configStore.GetString(keyGCSBucket),
				Object:          s.getString(keyGCSObject, defaults.Store.GCS.Object),
				CredentialsFile: s.configStore.GetString(keyGCSCredentials),
				Endpoint:        s.configStore.GetString(keyGCSEndpoint),
			},
			S3: domain.S3StoreSettings{
				Bucket:   s.configStore.GetString(keyS3Bucket),
				Key:      s.getString(keyS3Key, defaults.Store.S3.Key),
				Region:   s.configStore.GetString(keyS3Region),
				Endpoint: s.configStore.GetString(keyS3Endpoint),
			},
			Postgres: domain.PostgresStoreSettings{
				DSN: s.configStore.GetString(keyPostgresDSN),
				Key: s.getString(keyPostgresKey, defaults.Store.Postgres.Key),
			},
			Redis: domain.RedisStoreSettings{
				URL: s.configStore.GetString(keyRedisURL),
				Key: s.getString(keyRedisKey, defaults.Store.Redis.Key),
			},
		},
		ReportFormat:    domain.ReportFormat(s.getString(keyReportFormat, string(defaults.ReportFormat))),
		MetricsTextfile: s.configStore.GetString(keyMetricsTextfile),
		HistoryEnabled:  s.getBool(keyHistoryEnabled, defaults.HistoryEnabled),
	}

	if override := s.getenv(envBackendOverride); override != "" {
		settings.Store.Backend = domain.StoreBackend(override)
	}
	if settings.Store.GitHub.Token == "" && settings.Store.GitHub.TokenEnv != "" {
		settings.Store.GitHub.Token = s.getenv(settings.Store.GitHub.TokenEnv)
	}

	if !settings.Store.Backend.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, settings.Store.Backend)
	}
	if !settings.ReportFormat.IsValid() {
		return nil, fmt.Errorf("%w: report format %q", domain.ErrInvalidInput, settings.ReportFormat)
	}

	return settings, nil
}

// Set validates and stores a single key.
func (s *SettingsService) Set(key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch key {
	case keyStoreBackend:
		if !domain.StoreBackend(value).IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, value)
		}
	case keyReportFormat:
		if !domain.ReportFormat(value).IsValid() {
			return fmt.Errorf("%w: report format %q", domain.ErrInvalidInput, value)
		}
	case keyHistoryEnabled:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, enabled)
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Values returns every configured key with secrets masked.
func (s *SettingsService) Values() map[string]string {
	values := make(map[string]string)
	for _, key := range s.configStore.Keys() {
		val, ok := s.configStore.Get(key)
		if !ok {
			continue
		}
		display := fmt.Sprint(val)
		if secretKeys[key] && display != "" {
			display = maskedSecretDisplay
		}
		values[key] = display
	}
	return values
}

// ConfigPath returns the configuration file location.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// KnownKeys returns the accepted setting keys.
func KnownKeys() []string {
	out := make([]string, len(knownKeys))
	copy(out, knownKeys)
	return out
}

// IsSecretKey reports whether a key holds a credential.
func IsSecretKey(key string) bool {
	return secretKeys[key]
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if strings.EqualFold(k, key) {
			return k == key
		}
	}
	return false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
