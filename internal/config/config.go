package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

type Config struct {
	Database   Database   `json:"database" mapstructure:"database"`
	Generation Generation `json:"generation" mapstructure:"generation"`
	Logging    Logging    `json:"logging" mapstructure:"logging"`
}

// Database is the connection record. Name, User, Password, Host and Port
// identify the store; Provider selects the dialect.
type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Name     string `json:"name" mapstructure:"name"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	SSLMode  string `json:"sslmode,omitempty" mapstructure:"sslmode"`
}

type Generation struct {
	Sources   int   `json:"sources" mapstructure:"sources"`
	Flows     int   `json:"flows" mapstructure:"flows"`
	Analyses  int   `json:"analyses" mapstructure:"analyses"`
	TextSeed  int64 `json:"text_seed" mapstructure:"text_seed"`
	RandSeed  int64 `json:"rand_seed,omitempty" mapstructure:"rand_seed"`
	BatchSize int   `json:"batch_size,omitempty" mapstructure:"batch_size"`
}

type Logging struct {
	Level string `json:"level" mapstructure:"level"`
	Dir   string `json:"dir" mapstructure:"dir"`
}

const (
	DefaultSources  = 100
	DefaultFlows    = 200
	DefaultAnalyses = 300
	DefaultTextSeed = 42
)

var supportedProviders = []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}

// envBindings maps config keys to the variable names used by existing
// deployments of the generator.
var envBindings = map[string]string{
	"database.provider": "DB_PROVIDER",
	"database.name":     "DB_NAME",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.sslmode":  "DB_SSLMODE",
	"logging.level":     "LOG_LEVEL",
	"logging.dir":       "LOG_DIR",
}

// SetDefaults registers defaults and env bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.provider", "postgresql")
	v.SetDefault("database.name", "test_db")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("generation.sources", DefaultSources)
	v.SetDefault("generation.flows", DefaultFlows)
	v.SetDefault("generation.analyses", DefaultAnalyses)
	v.SetDefault("generation.text_seed", DefaultTextSeed)
	v.SetDefault("generation.rand_seed", 0)
	v.SetDefault("generation.batch_size", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.dir", "logs")

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Generation.TextSeed == 0 {
		cfg.Generation.TextSeed = DefaultTextSeed
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}

	if !c.Database.IsSQLite() {
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		port, err := strconv.Atoi(c.Database.Port)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid database port: %q", c.Database.Port)
		}
	}

	g := c.Generation
	if g.Sources < 0 || g.Flows < 0 || g.Analyses < 0 {
		return fmt.Errorf("record counts cannot be negative (sources=%d flows=%d analyses=%d)", g.Sources, g.Flows, g.Analyses)
	}
	if g.BatchSize < 0 {
		return fmt.Errorf("batch_size cannot be negative: %d", g.BatchSize)
	}

	return nil
}

func (d Database) IsSQLite() bool {
	return d.Provider == "sqlite" || d.Provider == "sqlite3"
}

func (d Database) IsMySQL() bool {
	return d.Provider == "mysql"
}

// URL returns the driver connection string for the configured provider.
func (d Database) URL() string {
	switch {
	case d.IsSQLite():
		return "sqlite://" + d.Name
	case d.IsMySQL():
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(d.Host, d.Port)
		mc.DBName = d.Name
		mc.ParseTime = true
		return mc.FormatDSN()
	default:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   net.JoinHostPort(d.Host, d.Port),
			Path:   "/" + d.Name,
		}
		if d.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
		}
		return u.String()
	}
}

// Redacted is URL with the password masked, for logs.
func (d Database) Redacted() string {
	masked := d
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	return masked.URL()
}
