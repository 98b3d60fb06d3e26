package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajxudir/nupdate/pkg/verbose"
)

// fileConfig mirrors the YAML config file schema.
type fileConfig struct {
	Source                  *string        `yaml:"source"`
	Ceiling                 *string        `yaml:"ceiling"`
	IncludePrerelease       *bool          `yaml:"include_prerelease"`
	Exclude                 []string       `yaml:"exclude"`
	Rules                   []RuleCfg      `yaml:"rules"`
	Concurrency             *int           `yaml:"concurrency"`
	CacheTTL                *time.Duration `yaml:"cache_ttl"`
	BypassCache             *bool          `yaml:"bypass_cache"`
	CentralVersionThreshold *float64       `yaml:"central_version_threshold"`
}

// LoadFile reads one Overrides layer from a YAML config file.
//
// Parameters:
//   - path: The config file to read
//
// Returns:
//   - *Overrides: The parsed layer; nil when the file does not exist
//   - error: When the file exists but cannot be read or parsed; returns nil on success
func LoadFile(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			verbose.Debugf("Config file %s not found, skipping layer", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	verbose.Debugf("Loaded config file %s", path)

	return &Overrides{
		Source:                  cfg.Source,
		Ceiling:                 cfg.Ceiling,
		IncludePrerelease:       cfg.IncludePrerelease,
		Exclude:                 cfg.Exclude,
		Rules:                   cfg.Rules,
		Concurrency:             cfg.Concurrency,
		CacheTTL:                cfg.CacheTTL,
		BypassCache:             cfg.BypassCache,
		CentralVersionThreshold: cfg.CentralVersionThreshold,
	}, nil
}

// Environment variable names recognised by FromEnvironment.
const (
	EnvSource            = "NUPDATE_SOURCE"
	EnvCeiling           = "NUPDATE_CEILING"
	EnvIncludePrerelease = "NUPDATE_INCLUDE_PRERELEASE"
	EnvExclude           = "NUPDATE_EXCLUDE"
	EnvConcurrency       = "NUPDATE_CONCURRENCY"
	EnvCacheTTL          = "NUPDATE_CACHE_TTL"
	EnvBypassCache       = "NUPDATE_NO_CACHE"
)

// FromEnvironment reads one Overrides layer from NUPDATE_* variables.
//
// It performs the following operations:
//   - Reads string settings directly (source, ceiling)
//   - Parses boolean settings with strconv.ParseBool
//   - Splits NUPDATE_EXCLUDE on commas, trimming whitespace
//   - Silently ignores unparsable numeric/boolean/duration values
//
// Returns:
//   - *Overrides: The environment layer; fields are nil where no variable is set
func FromEnvironment() *Overrides {
	var o Overrides

	if v, ok := os.LookupEnv(EnvSource); ok && v != "" {
		o.Source = &v
	}
	if v, ok := os.LookupEnv(EnvCeiling); ok && v != "" {
		o.Ceiling = &v
	}
	if v, ok := os.LookupEnv(EnvIncludePrerelease); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			o.IncludePrerelease = &parsed
		} else {
			verbose.Debugf("Ignoring unparsable %s=%q", EnvIncludePrerelease, v)
		}
	}
	if v, ok := os.LookupEnv(EnvExclude); ok && v != "" {
		for _, pattern := range strings.Split(v, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				o.Exclude = append(o.Exclude, pattern)
			}
		}
	}
	if v, ok := os.LookupEnv(EnvConcurrency); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			o.Concurrency = &parsed
		} else {
			verbose.Debugf("Ignoring unparsable %s=%q", EnvConcurrency, v)
		}
	}
	if v, ok := os.LookupEnv(EnvCacheTTL); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			o.CacheTTL = &parsed
		} else {
			verbose.Debugf("Ignoring unparsable %s=%q", EnvCacheTTL, v)
		}
	}
	if v, ok := os.LookupEnv(EnvBypassCache); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			o.BypassCache = &parsed
		} else {
			verbose.Debugf("Ignoring unparsable %s=%q", EnvBypassCache, v)
		}
	}

	return &o
}
