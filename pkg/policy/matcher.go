// Package policy narrows the classified candidate set to the updates a
// caller permits: exclusion patterns remove candidates, a global ceiling
// bounds the admitted update category, and per-package rules override the
// ceiling for individual package ids.
package policy

import (
	"regexp"
	"strings"
	"sync"
)

// patternCache memoizes compiled wildcard patterns. Rule lists are evaluated
// once per candidate, so the same pattern compiles many times per run.
var patternCache sync.Map

// Match tests whether a package id matches a pattern.
//
// If the pattern contains no wildcard character, matching is an exact
// case-insensitive string comparison. If it contains "*", the pattern is
// matched against the full package id where "*" matches zero or more
// arbitrary characters and every other character is treated literally;
// matching is case-insensitive throughout.
//
// Parameters:
//   - name: The package id to test
//   - pattern: The pattern to match against (e.g., "Microsoft.*")
//
// Returns:
//   - bool: true if name matches pattern
func Match(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.EqualFold(name, pattern)
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

// MatchAny tests whether a package id matches any of the given patterns.
//
// Parameters:
//   - name: The package id to test
//   - patterns: Patterns to match against
//
// Returns:
//   - bool: true if name matches at least one pattern
//   - string: The pattern that matched, empty if none did
func MatchAny(name string, patterns []string) (bool, string) {
	for _, pattern := range patterns {
		if Match(name, pattern) {
			return true, pattern
		}
	}
	return false, ""
}

// compilePattern converts a wildcard pattern to an anchored case-insensitive
// regular expression and caches the result.
//
// It performs the following conversions:
//   - * becomes .*  (zero or more arbitrary characters)
//   - Every other character is escaped with regexp.QuoteMeta
//   - The result is anchored with ^...$ so the pattern covers the full id
//
// Parameters:
//   - pattern: The wildcard pattern to compile
//
// Returns:
//   - *regexp.Regexp: The compiled expression
//   - error: When the generated expression fails to compile; returns nil on success
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	segments := strings.Split(pattern, "*")
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = regexp.QuoteMeta(segment)
	}

	re, err := regexp.Compile("(?i)^" + strings.Join(escaped, ".*") + "$")
	if err != nil {
		return nil, err
	}

	patternCache.Store(pattern, re)
	return re, nil
}
