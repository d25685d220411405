package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingRPCHost  = errors.New("rpc host is not specified")
	ErrInvalidRPCHost  = errors.New("invalid rpc host")
	ErrMissingDBConfig = errors.New("postgres connection is not specified")
	ErrInvalidDBConfig = errors.New("invalid postgres connection")
)

const (
	defaultRPCTimeout     = 30 * time.Second
	defaultEventName      = "EventTimeout"
	defaultPollInterval   = 10 * time.Second
	defaultChunkSize      = 100
	defaultMaxOpenConns   = 5
	defaultMaxIdleConns   = 3
	defaultMigrationsPath = "file://db/migrations"
	defaultDriver         = "pgx"
)

// defaultConfig is used when no config file is given, all required values come from the environment.
const defaultConfig = `
rpc:
  host: ${RPC_ENDPOINT}
postgres:
  url: ${DATABASE_URL}
`

type RPCConfig struct {
	Host    string        `yaml:"host"`
	Timeout time.Duration `yaml:"timeout"`
	ChainID string        `yaml:"chain_id"`
}

type DBConfig struct {
	Driver       string `yaml:"driver"`
	URL          string `yaml:"url"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	DB           string `yaml:"database"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	Migrations   string `yaml:"migrations"`
}

type SyncConfig struct {
	EventName    string        `yaml:"event_name"`
	PollInterval time.Duration `yaml:"poll_interval"`
	ChunkSize    uint          `yaml:"chunk_size"`
	MaxPages     uint          `yaml:"max_pages"`
}

type MetricsConfig struct {
	Host string `yaml:"host"`
}

type PresenterConfig struct {
	Host string `yaml:"host"`
}

type Config struct {
	RPC       *RPCConfig       `yaml:"rpc"`
	DBConfig  *DBConfig        `yaml:"postgres"`
	Sync      *SyncConfig      `yaml:"sync"`
	LogLevel  logrus.Level     `yaml:"log_level"`
	Metrics   *MetricsConfig   `yaml:"metrics"`
	Presenter *PresenterConfig `yaml:"presenter"`
}

// ConnString returns the explicit url when present, otherwise builds one from the separate fields.
func (cfg *DBConfig) ConnString() string {
	if cfg.URL != "" {
		return cfg.URL
	}
	if cfg.Host == "" {
		return ""
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.DB,
	}
	return u.String()
}

func (cfg *Config) init() {
	if cfg.RPC != nil && cfg.RPC.Timeout == 0 {
		cfg.RPC.Timeout = defaultRPCTimeout
	}
	if cfg.DBConfig != nil {
		if cfg.DBConfig.Driver == "" {
			cfg.DBConfig.Driver = defaultDriver
		}
		if cfg.DBConfig.MaxOpenConns == 0 {
			cfg.DBConfig.MaxOpenConns = defaultMaxOpenConns
		}
		if cfg.DBConfig.MaxIdleConns == 0 {
			cfg.DBConfig.MaxIdleConns = defaultMaxIdleConns
		}
		if cfg.DBConfig.Migrations == "" {
			cfg.DBConfig.Migrations = defaultMigrationsPath
		}
	}
	if cfg.Sync == nil {
		cfg.Sync = new(SyncConfig)
	}
	if cfg.Sync.EventName == "" {
		cfg.Sync.EventName = defaultEventName
	}
	if cfg.Sync.PollInterval == 0 {
		cfg.Sync.PollInterval = defaultPollInterval
	}
	if cfg.Sync.ChunkSize == 0 {
		cfg.Sync.ChunkSize = defaultChunkSize
	}
}

func (cfg *Config) validate() error {
	if cfg.RPC == nil || cfg.RPC.Host == "" {
		return ErrMissingRPCHost
	}
	u, err := url.Parse(cfg.RPC.Host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRPCHost, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidRPCHost, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: empty host in %q", ErrInvalidRPCHost, cfg.RPC.Host)
	}
	if cfg.DBConfig == nil || cfg.DBConfig.ConnString() == "" {
		return ErrMissingDBConfig
	}
	switch cfg.DBConfig.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("%w: unsupported driver %q", ErrInvalidDBConfig, cfg.DBConfig.Driver)
	}
	if _, err = pgx.ParseConfig(cfg.DBConfig.ConnString()); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDBConfig, err)
	}
	// migrations are applied through a url, keyword connection strings can't be used
	dbURL, err := url.Parse(cfg.DBConfig.ConnString())
	if err != nil || (dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql") {
		return fmt.Errorf("%w: postgres:// url connection string is required", ErrInvalidDBConfig)
	}
	return nil
}

func ReadConfig(blob []byte) (*Config, error) {
	cfg := &Config{
		LogLevel: logrus.InfoLevel,
	}
	if err := parseYaml(cfg, blob); err != nil {
		return nil, err
	}
	cfg.init()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ReadConfigWithEnv(blob []byte) (*Config, error) {
	return ReadConfig([]byte(os.ExpandEnv(string(blob))))
}

// ReadConfigFromFile reads the given yaml file, or the environment-only default config when path is empty.
func ReadConfigFromFile(path string) (*Config, error) {
	if path == "" {
		return ReadConfigWithEnv([]byte(defaultConfig))
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}
	return ReadConfigWithEnv(blob)
}
