package domain

const unknownDescription = "Unknown"

// StoreBackend identifies where the baseline snapshot is persisted.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendFile keeps the snapshot in a local JSON file.
	StoreBackendFile StoreBackend = "file"

	// StoreBackendMemory keeps the snapshot in process memory (tests, dry runs).
	StoreBackendMemory StoreBackend = "memory"

	// StoreBackendSQLite keeps the snapshot in the local SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendGitHub keeps the snapshot as a file in a GitHub repository.
	StoreBackendGitHub StoreBackend = "github"

	// StoreBackendGCS keeps the snapshot as a Google Cloud Storage object.
	StoreBackendGCS StoreBackend = "gcs"

	// StoreBackendS3 keeps the snapshot as an S3 (or S3-compatible) object.
	StoreBackendS3 StoreBackend = "s3"

	// StoreBackendPostgres keeps the snapshot in a PostgreSQL table.
	StoreBackendPostgres StoreBackend = "postgres"

	// StoreBackendRedis keeps the snapshot under a Redis key.
	StoreBackendRedis StoreBackend = "redis"
)

// StoreBackends lists every supported backend.
func StoreBackends() []StoreBackend {
	return []StoreBackend{
		StoreBackendFile, StoreBackendMemory, StoreBackendSQLite,
		StoreBackendGitHub, StoreBackendGCS, StoreBackendS3, StoreBackendPostgres, StoreBackendRedis,
	}
}

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	for _, known := range StoreBackends() {
		if b == known {
			return true
		}
	}
	return false
}

// IsRemote returns true if the backend talks to a network service.
func (b StoreBackend) IsRemote() bool {
	switch b {
	case StoreBackendGitHub, StoreBackendGCS, StoreBackendS3, StoreBackendPostgres, StoreBackendRedis:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StoreBackend) Description() string {
	switch b {
	case StoreBackendFile:
		return "Local JSON file"
	case StoreBackendMemory:
		return "In-memory (not persisted)"
	case StoreBackendSQLite:
		return "Local SQLite database"
	case StoreBackendGitHub:
		return "GitHub repository file"
	case StoreBackendGCS:
		return "Google Cloud Storage object"
	case StoreBackendS3:
		return "S3 object"
	case StoreBackendPostgres:
		return "PostgreSQL table"
	case StoreBackendRedis:
		return "Redis key"
	default:
		return unknownDescription
	}
}

// ReportFormat selects how reports are rendered by the CLI.
type ReportFormat string

// Available report formats.
const (
	ReportFormatText ReportFormat = "text"
	ReportFormatJSON ReportFormat = "json"
	ReportFormatYAML ReportFormat = "yaml"
)

// IsValid returns true if the format is recognised.
func (f ReportFormat) IsValid() bool {
	switch f {
	case ReportFormatText, ReportFormatJSON, ReportFormatYAML:
		return true
	default:
		return false
	}
}

// FileStoreSettings configures the file backend.
type FileStoreSettings struct {
	// Path is the snapshot file location.
	Path string
}

// SQLiteStoreSettings configures the SQLite backend.
type SQLiteStoreSettings struct {
	// Dir is the data directory holding the database file.
	Dir string
}

// GitHubStoreSettings configures the GitHub backend.
type GitHubStoreSettings struct {
	Owner  string
	Repo   string
	Path   string
	Branch string

	// Token is the access token. Resolved from TokenEnv when empty.
	Token string

	// TokenEnv names the environment variable holding the token.
	TokenEnv string

	// CommitMessage is used for every snapshot commit.
	CommitMessage string
}

// IsConfigured returns true if the repository coordinates and token are set.
func (g GitHubStoreSettings) IsConfigured() bool {
	return g.Owner != "" && g.Repo != "" && g.Path != "" && g.Token != ""
}

// GCSStoreSettings configures the Google Cloud Storage backend.
type GCSStoreSettings struct {
	Bucket string
	Object string

	// CredentialsFile is an optional service account key file.
	// Application default credentials are used when empty.
	CredentialsFile string

	// Endpoint overrides the API endpoint (emulators, tests).
	Endpoint string
}

// IsConfigured returns true if the bucket and object are set.
func (g GCSStoreSettings) IsConfigured() bool {
	return g.Bucket != "" && g.Object != ""
}

// S3StoreSettings configures the S3 backend.
type S3StoreSettings struct {
	Bucket string
	Key    string
	Region string

	// Endpoint points at an S3-compatible service (MinIO, LocalStack).
	// Path-style addressing is used when set.
	Endpoint string
}

// IsConfigured returns true if the bucket and key are set.
func (s S3StoreSettings) IsConfigured() bool {
	return s.Bucket != "" && s.Key != ""
}

// PostgresStoreSettings configures the PostgreSQL backend.
type PostgresStoreSettings struct {
	DSN string
	Key string
}

// IsConfigured returns true if a DSN is set.
func (p PostgresStoreSettings) IsConfigured() bool {
	return p.DSN != ""
}

// RedisStoreSettings configures the Redis backend.
type RedisStoreSettings struct {
	URL string
	Key string
}

// IsConfigured returns true if a URL is set.
func (r RedisStoreSettings) IsConfigured() bool {
	return r.URL != ""
}

// StoreSettings selects and configures the snapshot store.
type StoreSettings struct {
	Backend  StoreBackend
	File     FileStoreSettings
	SQLite   SQLiteStoreSettings
	GitHub   GitHubStoreSettings
	GCS      GCSStoreSettings
	S3       S3StoreSettings
	Postgres PostgresStoreSettings
	Redis    RedisStoreSettings
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Store selects where the baseline lives.
	Store StoreSettings

	// ReportFormat is the default CLI output format.
	ReportFormat ReportFormat

	// MetricsTextfile is where run metrics are written in Prometheus text
	// format. Empty disables the exporter.
	MetricsTextfile string

	// HistoryEnabled records every run in the local SQLite database.
	HistoryEnabled bool
}

// Default snapshot keys and paths.
const (
	DefaultSnapshotFile = "consolidated_previous.json"
	DefaultSnapshotKey  = "sanctrack:baseline"
	DefaultTokenEnv     = "GITHUB_TOKEN"
	DefaultCommitMsg    = "Update sanctions baseline snapshot"
)

// DefaultAppSettings returns settings with sensible defaults.
// Paths are left empty; adapters resolve them against the config directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Store: StoreSettings{
			Backend: StoreBackendFile,
			GitHub: GitHubStoreSettings{
				Path:          DefaultSnapshotFile,
				TokenEnv:      DefaultTokenEnv,
				CommitMessage: DefaultCommitMsg,
			},
			GCS:      GCSStoreSettings{Object: DefaultSnapshotFile},
			S3:       S3StoreSettings{Key: DefaultSnapshotFile},
			Postgres: PostgresStoreSettings{Key: DefaultSnapshotKey},
			Redis:    RedisStoreSettings{Key: DefaultSnapshotKey},
		},
		ReportFormat:   ReportFormatText,
		HistoryEnabled: true,
	}
}
