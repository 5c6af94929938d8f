package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"path/filepath"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Driver constants
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Environment constants
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Prefix is the environment variable prefix (CHIMERA_HOST, CHIMERA_SQLITE_PATH, ...).
const Prefix = "CHIMERA"

// Config is the client configuration.
type Config struct {
	Driver     string `split_words:"true" default:"mysql"`
	Host       string `split_words:"true" default:"localhost"`
	Port       int    `split_words:"true" default:"3306"`
	Database   string `split_words:"true" default:"chimera_db"`
	User       string `split_words:"true"`
	Password   string `split_words:"true"`
	SqlitePath string `split_words:"true" default:"chimera.db"`

	LogLevel    string `split_words:"true" default:"warn"`
	Environment string `split_words:"true" default:"dev"`
}

// Load reads dir/.env when present, then CHIMERA_* variables.
// Variables already set in the process environment win over .env.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return &cfg, cfg.Validate()
}

// Validate checks the closed-set settings.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unknown driver %q (valid: %s, %s)", c.Driver, DriverMySQL, DriverSQLite)
	}
	switch c.Environment {
	case EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown environment %q (valid: %s, %s)", c.Environment, EnvDev, EnvProd)
	}
	if c.Driver == DriverMySQL && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// WithCredentials returns a copy of c using the given login.
func (c Config) WithCredentials(user, password string) *Config {
	c.User = user
	c.Password = password
	return &c
}

// NeedsLogin reports whether the driver authenticates with a user and password.
func (c *Config) NeedsLogin() bool {
	return c.Driver == DriverMySQL
}

// DriverName returns the database/sql driver name.
func (c *Config) DriverName() string {
	if c.Driver == DriverSQLite {
		return "sqlite3"
	}
	return "mysql"
}

// DSN builds the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		return "file:" + c.SqlitePath + "?_foreign_keys=on"
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	// Report matched rows, so an UPDATE to the current value is not a miss.
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

// Target describes the database for display, without credentials.
func (c *Config) Target() string {
	if c.Driver == DriverSQLite {
		return "sqlite:" + c.SqlitePath
	}
	return fmt.Sprintf("mysql://%s:%d/%s", c.Host, c.Port, c.Database)
}
