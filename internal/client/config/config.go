package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/services"
	"github.com/dmitrijs2005/useradmin/internal/client/view"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

// Config holds runtime settings for the useradmin console.
//
// Fields:
//   - APIBaseURL: root URL of the user-management backend.
//   - RequestTimeout: per-request timeout; zero keeps the transport default.
//   - SessionDir, SessionDB: where the login session is kept.
//   - PageSize: initial table page size, one of view.PageSizes.
//   - MutationMode: "confirmed" or "optimistic".
//   - LogLevel, LogBackend: logger settings.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	SessionDir     string        `env:"SESSION_DIR"`
	SessionDB      string        `env:"SESSION_DB"`
	PageSize       int           `env:"PAGE_SIZE"`
	MutationMode   string        `env:"MUTATION_MODE"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogBackend     string        `env:"LOG_BACKEND"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.RequestTimeout = 0
	c.SessionDir = ".useradmin"
	c.SessionDB = "session.db"
	c.PageSize = view.DefaultPageSize
	c.MutationMode = string(services.ModeConfirmed)
	c.LogLevel = "info"
	c.LogBackend = logging.BackendSlog
}

// Validate reports the first setting that cannot be used. LogBackend is
// lowercased in place.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute http(s) url", c.APIBaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	}
	if !view.ValidPageSize(c.PageSize) {
		return fmt.Errorf("page size %d is not one of %v", c.PageSize, view.PageSizes)
	}
	if _, err := services.ParseMode(c.MutationMode); err != nil {
		return err
	}
	if c.SessionDir == "" || c.SessionDB == "" {
		return fmt.Errorf("session dir and session db must be set")
	}
	c.LogBackend = strings.ToLower(strings.TrimSpace(c.LogBackend))
	if c.LogBackend != logging.BackendSlog && c.LogBackend != logging.BackendZap {
		return fmt.Errorf("unknown log backend %q", c.LogBackend)
	}
	return nil
}

// Load constructs a Config, applies defaults, then overlays values from a
// config file (if one is named in args), the environment and command-line
// flags. Later sources take precedence over earlier ones.
func Load(args []string, environ []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the configuration of the running process.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Environ())
}
