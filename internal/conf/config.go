// config.go: defines the settings struct and functions to load settings from
// the configuration file and environment.
package conf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// SQLiteSettings contains settings for the SQLite backend.
type SQLiteSettings struct {
	Enabled bool   // true to use SQLite
	Path    string // path to database file
}

// MySQLSettings contains settings for the MySQL backend.
type MySQLSettings struct {
	Enabled  bool   // true to use MySQL
	Username string // MySQL database username
	Password string // MySQL database user password
	Database string // MySQL database name
	Host     string // MySQL database host
	Port     string // MySQL database port
}

// DatabaseSettings selects and configures the storage backend.
type DatabaseSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// MigrationSettings configures the batch migration driver and the dual-read
// behavior of the order table store.
type MigrationSettings struct {
	BatchSize    int    // records fetched per batch
	AutoBackfill bool   // write-through population of the order table on read miss
	LogPath      string // migration run log file, empty to disable
}

// Settings contains all application settings.
type Settings struct {
	Debug     bool // enable debug output
	Database  DatabaseSettings
	Migration MigrationSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.Mutex
)

// Load reads the configuration into a Settings struct. Missing config files
// are not an error; defaults apply.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// Setting returns the loaded settings instance, or nil before Load.
func Setting() *Settings {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	return settingsInstance
}

// ValidateSettings checks settings for configuration errors that would only
// surface later as confusing runtime failures.
func ValidateSettings(settings *Settings) error {
	if settings.Database.SQLite.Enabled && settings.Database.MySQL.Enabled {
		return errors.New("only one database backend may be enabled")
	}
	if !settings.Database.SQLite.Enabled && !settings.Database.MySQL.Enabled {
		return errors.New("no database backend enabled")
	}
	if settings.Database.SQLite.Enabled && settings.Database.SQLite.Path == "" {
		return errors.New("sqlite backend requires a database path")
	}
	if settings.Database.MySQL.Enabled && settings.Database.MySQL.Database == "" {
		return errors.New("mysql backend requires a database name")
	}
	if settings.Migration.BatchSize <= 0 {
		return fmt.Errorf("migration batch size must be positive, got %d", settings.Migration.BatchSize)
	}
	return nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/ordertables")
	viper.AddConfigPath("/etc/ordertables")

	// Set default values for each configuration parameter,
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, proceed with defaults
	}
	return nil
}
