package config

import (
	"fmt"
	"strings"

	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/policy"
	"github.com/ajxudir/nupdate/pkg/verbose"
	"github.com/ajxudir/nupdate/pkg/versioning"
)

// Resolve merges override layers onto the defaults and validates the result.
//
// Layers apply in argument order, later layers taking precedence. The usual
// call is Resolve(fileLayer, envLayer, flagLayer). Scalar fields override;
// exclusion patterns and rules accumulate across layers in layer order, so a
// file-level rule is evaluated before an equivalent flag-level rule.
//
// Parameters:
//   - layers: Override layers from lowest to highest precedence; nil layers are skipped
//
// Returns:
//   - Policy: The fully resolved policy
//   - error: An ExitError with ExitConfigError when a layer carries an invalid
//     value; returns nil on success
func Resolve(layers ...*Overrides) (Policy, error) {
	resolved := Defaults()

	for _, layer := range layers {
		if layer == nil {
			continue
		}
		if err := applyLayer(&resolved, layer); err != nil {
			return Policy{}, errors.NewExitError(errors.ExitConfigError, err)
		}
	}

	if err := validate(resolved); err != nil {
		return Policy{}, errors.NewExitError(errors.ExitConfigError, err)
	}

	verbose.Debugf("Resolved policy: source=%s ceiling=%s prerelease=%v exclude=%d rules=%d concurrency=%d",
		resolved.Source, resolved.Ceiling, resolved.IncludePrerelease,
		len(resolved.Exclude), len(resolved.Rules), resolved.Concurrency)

	return resolved, nil
}

// applyLayer applies one override layer onto the policy being resolved.
//
// Parameters:
//   - p: The policy accumulated so far (modified in place)
//   - layer: The layer to apply
//
// Returns:
//   - error: When the layer carries an unknown ceiling or invalid rule; returns nil on success
func applyLayer(p *Policy, layer *Overrides) error {
	if layer.Source != nil {
		p.Source = strings.TrimRight(*layer.Source, "/")
	}
	if layer.Ceiling != nil {
		ceiling, err := versioning.ParseCategory(*layer.Ceiling)
		if err != nil {
			return err
		}
		p.Ceiling = ceiling
	}
	if layer.IncludePrerelease != nil {
		p.IncludePrerelease = *layer.IncludePrerelease
	}
	p.Exclude = append(p.Exclude, layer.Exclude...)

	for _, raw := range layer.Rules {
		if strings.TrimSpace(raw.Pattern) == "" {
			return fmt.Errorf("rule with empty pattern")
		}
		ceiling, err := versioning.ParseCategory(raw.Ceiling)
		if err != nil {
			return fmt.Errorf("rule %q: %w", raw.Pattern, err)
		}
		p.Rules = append(p.Rules, policy.UpdateRule{Pattern: raw.Pattern, Ceiling: ceiling})
	}

	if layer.Concurrency != nil {
		p.Concurrency = *layer.Concurrency
	}
	if layer.CacheTTL != nil {
		p.CacheTTL = *layer.CacheTTL
	}
	if layer.BypassCache != nil {
		p.BypassCache = *layer.BypassCache
	}
	if layer.CentralVersionThreshold != nil {
		p.CentralVersionThreshold = *layer.CentralVersionThreshold
	}

	return nil
}

// validate checks the resolved policy for values the engine cannot run with.
//
// Parameters:
//   - p: The resolved policy
//
// Returns:
//   - error: Describing the first invalid value found; returns nil when the policy is usable
func validate(p Policy) error {
	if strings.TrimSpace(p.Source) == "" {
		return fmt.Errorf("index source URL cannot be empty")
	}
	if p.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", p.Concurrency)
	}
	if p.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative, got %s", p.CacheTTL)
	}
	if p.CentralVersionThreshold < 0 || p.CentralVersionThreshold >= 1 {
		return fmt.Errorf("central version threshold must be in [0, 1), got %g", p.CentralVersionThreshold)
	}
	return nil
}
