package devapi

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/useradmin/internal/common"
)

// Config of the development backend. Without DEVAPI_JWT_SECRET a random
// secret is generated, so tokens do not survive a restart.
type Config struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"admin"`
	Seed          bool          `env:"SEED" envDefault:"true"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogBackend    string        `env:"LOG_BACKEND" envDefault:"slog"`
}

// LoadConfig reads DEVAPI_* variables from the process environment.
func LoadConfig() (*Config, error) {
	return loadConfig(env.Options{Prefix: "DEVAPI_"})
}

func loadConfig(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// the first error makes the clearest log line
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	if cfg.JWTSecret == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
	}
	return cfg, nil
}
