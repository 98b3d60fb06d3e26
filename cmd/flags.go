package cmd

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajxudir/nupdate/pkg/config"
)

// policyFlags holds the shared flag values the scan and update commands use
// to build their top configuration layer.
//
// Fields:
//   - configPath: Explicit config file path
//   - source: Index base URL
//   - ceiling: Global ceiling name
//   - prerelease: Prerelease opt-in
//   - exclude: Comma-separated exclusion patterns
//   - concurrency: Permit-pool capacity
//   - cacheTTL: Cache lifetime
//   - noCache: Cache bypass
//   - jsonOutput: Render the report as JSON instead of a table
type policyFlags struct {
	configPath  string
	source      string
	ceiling     string
	prerelease  bool
	exclude     string
	concurrency int
	cacheTTL    time.Duration
	noCache     bool
	jsonOutput  bool
}

// register wires the shared policy flags onto a command.
//
// Parameters:
//   - cmd: The command to register flags on
func (f *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (default: .nupdate.yaml next to the manifest)")
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Package index base URL")
	cmd.Flags().StringVar(&f.ceiling, "ceiling", "", "Maximum update category: patch, minor, major")
	cmd.Flags().BoolVar(&f.prerelease, "prerelease", false, "Allow prerelease versions as update candidates")
	cmd.Flags().StringVarP(&f.exclude, "exclude", "e", "", "Package patterns to exclude (comma-separated, supports *)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Maximum simultaneous index queries")
	cmd.Flags().DurationVar(&f.cacheTTL, "cache-ttl", 0, "Lifetime of cached index responses")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Bypass the index response cache")
	cmd.Flags().BoolVarP(&f.jsonOutput, "json", "j", false, "Write the report as JSON")
}

// overrides converts the flags that were explicitly set into a config layer.
//
// Only changed flags become overrides, so unset flags never mask the file or
// environment layers below.
//
// Parameters:
//   - cmd: The command whose flag change state is consulted
//
// Returns:
//   - *config.Overrides: The flag layer
func (f *policyFlags) overrides(cmd *cobra.Command) *config.Overrides {
	layer := &config.Overrides{}
	if cmd.Flags().Changed("source") {
		layer.Source = &f.source
	}
	if cmd.Flags().Changed("ceiling") {
		layer.Ceiling = &f.ceiling
	}
	if cmd.Flags().Changed("prerelease") {
		layer.IncludePrerelease = &f.prerelease
	}
	if cmd.Flags().Changed("exclude") {
		for _, pattern := range strings.Split(f.exclude, ",") {
			if trimmed := strings.TrimSpace(pattern); trimmed != "" {
				layer.Exclude = append(layer.Exclude, trimmed)
			}
		}
	}
	if cmd.Flags().Changed("concurrency") {
		layer.Concurrency = &f.concurrency
	}
	if cmd.Flags().Changed("cache-ttl") {
		layer.CacheTTL = &f.cacheTTL
	}
	if cmd.Flags().Changed("no-cache") {
		layer.BypassCache = &f.noCache
	}
	return layer
}

// resolvePolicy merges all configuration layers for a command invocation.
//
// Layer order, lowest to highest: built-in defaults, config file, environment
// variables, CLI flags.
//
// Parameters:
//   - cmd: The command whose flags form the top layer
//   - flags: The shared flag values
//   - manifestPath: The manifest argument, used to locate the default config file
//
// Returns:
//   - config.Policy: The resolved policy
//   - error: A load or validation failure carrying the configuration exit code
func resolvePolicy(cmd *cobra.Command, flags *policyFlags, manifestPath string) (config.Policy, error) {
	configPath := flags.configPath
	if configPath == "" {
		configPath = filepath.Join(filepath.Dir(manifestPath), config.DefaultConfigFileName)
	}

	fileLayer, err := config.LoadFile(configPath)
	if err != nil {
		return config.Policy{}, err
	}

	return config.Resolve(fileLayer, config.FromEnvironment(), flags.overrides(cmd))
}
