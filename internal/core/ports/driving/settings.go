package driving

import "github.com/custodia-labs/sanctrack/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Set updates a single configuration key after validating it.
	Set(key, value string) error

	// Values returns every explicitly configured key with its value.
	// Secret values are masked.
	Values() map[string]string

	// ConfigPath returns the configuration file location.
	ConfigPath() string
}
