package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is used when neither the config file nor the environment
// names a backend.
const DefaultAPIBaseURL = "http://127.0.0.1:8000"

// EnvAPIBaseURL overrides api.base_url when set.
const EnvAPIBaseURL = "FACTORYDASH_API_BASE_URL"

type Config struct {
	mu sync.RWMutex `yaml:"-"`

	API         APIConfig        `yaml:"api"`
	Web         WebConfig        `yaml:"web"`
	Credentials CredentialConfig `yaml:"credentials"`
	Auth        AuthConfig       `yaml:"auth"`
	Search      SearchConfig     `yaml:"search"`
	Analytics   AnalyticsConfig  `yaml:"analytics"`
	Log         LogConfig        `yaml:"log"`
	CLI         CLIConfig        `yaml:"cli"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout of zero leaves requests without a client-side deadline.
	Timeout time.Duration `yaml:"timeout"`
}

type WebConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	SessionSecret string        `yaml:"session_secret"`
	WorkspaceIdle time.Duration `yaml:"workspace_idle"`
}

type CredentialConfig struct {
	Backend  string         `yaml:"backend"` // "sqlite", "postgres", "redis" or "memory"
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	// ForceLogoutOnUnauthorized clears the stored token and sends the user to
	// the login page whenever the backend answers 401.
	ForceLogoutOnUnauthorized bool `yaml:"force_logout_on_unauthorized"`
}

type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type AnalyticsConfig struct {
	DefaultFinancialYear string `yaml:"default_financial_year"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type CLIConfig struct {
	StatePath string `yaml:"state_path"`
}

func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
		},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          8090,
			SessionSecret: "change-me-in-production",
			WorkspaceIdle: 30 * time.Minute,
		},
		Credentials: CredentialConfig{
			Backend: "sqlite",
			SQLite:  SQLiteConfig{Path: "factorydash.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "factorydash",
				User:     "factorydash",
				SSLMode:  "disable",
			},
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
		},
		Auth: AuthConfig{
			ForceLogoutOnUnauthorized: true,
		},
		Search: SearchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Analytics: AnalyticsConfig{
			DefaultFinancialYear: "2024-2025",
		},
		Log: LogConfig{
			Level: "info",
		},
		CLI: CLIConfig{
			StatePath: "factorydash-cli.db",
		},
	}
}

// Load reads the YAML file at path over Defaults. A missing file is not an
// error. The environment override for the API base URL is applied last.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		c.API.BaseURL = v
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
}

func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// APISettings returns the backend address and timeout under the read lock.
func (c *Config) APISettings() (string, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.API.BaseURL, c.API.Timeout
}

// UpdateAPI replaces the API section, used by the file watcher.
func (c *Config) UpdateAPI(api APIConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.API = api
}

