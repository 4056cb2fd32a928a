package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
	"github.com/dmitrijs2005/useradmin/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Keys that are
// absent leave the current values alone. Durations use timex.Duration, so
// they can be written as "3s" or as integer nanoseconds.
type FileConfig struct {
	APIBaseURL     *string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SessionDir     *string         `json:"session_dir" yaml:"session_dir"`
	SessionDB      *string         `json:"session_db" yaml:"session_db"`
	PageSize       *int            `json:"page_size" yaml:"page_size"`
	MutationMode   *string         `json:"mutation_mode" yaml:"mutation_mode"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	LogBackend     *string         `json:"log_backend" yaml:"log_backend"`
}

// parseFile overlays cfg with the file named by -c/-config in args. Files
// ending in .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setIf(&cfg.APIBaseURL, fc.APIBaseURL)
	setIf(&cfg.SessionDir, fc.SessionDir)
	setIf(&cfg.SessionDB, fc.SessionDB)
	setIf(&cfg.PageSize, fc.PageSize)
	setIf(&cfg.MutationMode, fc.MutationMode)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogBackend, fc.LogBackend)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
