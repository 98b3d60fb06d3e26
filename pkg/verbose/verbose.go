// Package verbose provides leveled debug logging for diagnostic output.
package verbose

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logging levels from least to most detailed output.
const (
	// LevelOff disables all verbose output.
	LevelOff = iota

	// LevelDebug enables debug messages (flow, decisions, counts).
	LevelDebug

	// LevelTrace enables trace messages (full payloads, raw version lists).
	LevelTrace
)

var (
	mu     sync.RWMutex
	level  int
	writer io.Writer = os.Stderr
)

// Enable turns on verbose logging at debug level.
func Enable() {
	SetLevel(LevelDebug)
}

// Disable turns off all verbose logging.
func Disable() {
	SetLevel(LevelOff)
}

// SetLevel sets the verbose logging level.
//
// Parameters:
//   - l: The level to set (LevelOff, LevelDebug, or LevelTrace)
func SetLevel(l int) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if debug or trace output is enabled
func IsEnabled() bool {
	return currentLevel() >= LevelDebug
}

// IsTrace returns whether trace-level logging is currently enabled.
//
// Returns:
//   - bool: true if trace output is enabled
func IsTrace() bool {
	return currentLevel() >= LevelTrace
}

// SetWriter sets the output writer for verbose messages.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		writer = w
	}
}

// currentLevel returns the active level with proper locking for internal use.
//
// Returns:
//   - int: The currently configured logging level
func currentLevel() int {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// getWriter returns the current writer with proper locking for internal use.
//
// Returns:
//   - io.Writer: The currently configured output writer
func getWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}

// Printf prints a formatted debug message if verbose logging is enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Printf(format string, args ...any) {
	Debugf(format, args...)
}

// Debugf prints a formatted message with [DEBUG] prefix at debug level or above.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Debugf(format string, args ...any) {
	if currentLevel() >= LevelDebug {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Infof prints a formatted message with [INFO] prefix at debug level or above.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Infof(format string, args ...any) {
	if currentLevel() >= LevelDebug {
		_, _ = fmt.Fprintf(getWriter(), "[INFO] "+format+"\n", args...)
	}
}

// Tracef prints a formatted message with [TRACE] prefix at trace level.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Tracef(format string, args ...any) {
	if currentLevel() >= LevelTrace {
		_, _ = fmt.Fprintf(getWriter(), "[TRACE] "+format+"\n", args...)
	}
}

// PackageExcluded logs why a package was filtered out of the candidate set.
//
// Parameters:
//   - name: The package id that was excluded
//   - reason: Human-readable explanation (matched pattern, ceiling, etc.)
func PackageExcluded(name, reason string) {
	Debugf("Package %s excluded: %s", name, reason)
}

// VersionSelected logs which candidate version was chosen for a package.
//
// Parameters:
//   - pkg: The package id
//   - current: The currently declared version
//   - target: The selected candidate version
//   - reason: Why this version was selected
func VersionSelected(pkg, current, target, reason string) {
	Debugf("Version selected for %s: %s -> %s (%s)", pkg, current, target, reason)
}
