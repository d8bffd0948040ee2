package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
	DriverRQLite   = "rqlite"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains database connection settings.
//
// When DSN is empty and the driver is pgx, the DSN is assembled from Host, Port, Name, User, Password and SSLMode.
type DatabaseConfig struct {
	Driver          string        `toml:"driver"`
	DSN             string        `toml:"dsn"`
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	Name            string        `toml:"name"`
	User            string        `toml:"user"`
	Password        string        `toml:"password"`
	SSLMode         string        `toml:"sslmode"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `toml:"query_timeout"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string  `toml:"host"`
	Port       int     `toml:"port"`
	LoginRate  float64 `toml:"login_rate"`
	LoginBurst int     `toml:"login_burst"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// ResolveConfig loads the config file at path, falling back to [DefaultConfig] when it does not exist.
//
// When required is set, for a path the user named explicitly, a missing file is an [ErrMissingConfig].
func ResolveConfig(path string, required bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if required {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
//
// A missing file is not an error. Variables already set in the environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values with TRACKRATE_* environment variables.
//
// When TRACKRATE_DB_DRIVER switches the driver and TRACKRATE_DB_DSN is unset, the DSN
// from the file is dropped; a pgx DSN is then assembled from the host, name and user.
func (c *Config) ApplyEnv() error {
	driver := c.Database.Driver
	strs := map[string]*string{
		"TRACKRATE_DB_DRIVER":   &c.Database.Driver,
		"TRACKRATE_DB_DSN":      &c.Database.DSN,
		"TRACKRATE_DB_HOST":     &c.Database.Host,
		"TRACKRATE_DB_NAME":     &c.Database.Name,
		"TRACKRATE_DB_USER":     &c.Database.User,
		"TRACKRATE_DB_PASSWORD": &c.Database.Password,
		"TRACKRATE_DB_SSLMODE":  &c.Database.SSLMode,
		"TRACKRATE_SERVER_HOST": &c.Server.Host,
		"TRACKRATE_LOG_LEVEL":   &c.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TRACKRATE_DB_PORT":     &c.Database.Port,
		"TRACKRATE_SERVER_PORT": &c.Server.Port,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
		}
		*dst = n
	}

	if _, ok := os.LookupEnv("TRACKRATE_DB_DSN"); !ok && c.Database.Driver != driver {
		c.Database.DSN = ""
	}

	return nil
}

// Validate checks the database section for a usable driver and connection target.
func (c *Config) Validate() error {
	db := c.Database
	switch db.Driver {
	case DriverSQLite, DriverRQLite:
		if db.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for driver %s", ErrInvalidConfig, db.Driver)
		}
	case DriverPostgres:
		if db.DSN != "" {
			break
		}
		var missing []string
		if db.Host == "" {
			missing = append(missing, "host")
		}
		if db.Name == "" {
			missing = append(missing, "name")
		}
		if db.User == "" {
			missing = append(missing, "user")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: database %s required for driver pgx", ErrInvalidConfig, strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, db.Driver)
	}

	if db.QueryTimeout < 0 {
		return fmt.Errorf("%w: database.query_timeout must not be negative", ErrInvalidConfig)
	}

	return nil
}

// DataSourceName returns the connection string handed to [sql.Open].
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" || d.Driver != DriverPostgres {
		return d.DSN
	}

	parts := []string{
		"host=" + quoteDSNValue(d.Host),
		"dbname=" + quoteDSNValue(d.Name),
		"user=" + quoteDSNValue(d.User),
	}
	if d.Port != 0 {
		parts = append(parts, "port="+strconv.Itoa(d.Port))
	}
	if d.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(d.Password))
	}
	if d.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteDSNValue(d.SSLMode))
	}
	return strings.Join(parts, " ")
}

// quoteDSNValue quotes a keyword/value connection string value when it contains spaces or quotes.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
