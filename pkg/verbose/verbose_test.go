package verbose

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLevels tests level gating of the logging functions.
//
// It verifies that:
//   - Nothing is emitted when logging is off
//   - Debug and info lines appear at the debug level
//   - Trace lines require the trace level
//   - Disable restores silence
func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	t.Cleanup(Disable)

	t.Run("off by default", func(t *testing.T) {
		Disable()
		buf.Reset()
		Debugf("hidden %d", 1)
		Infof("hidden %d", 2)
		Tracef("hidden %d", 3)
		assert.Empty(t, buf.String())
		assert.False(t, IsEnabled())
	})

	t.Run("debug level", func(t *testing.T) {
		Enable()
		buf.Reset()
		Debugf("visible %s", "debug")
		Infof("visible %s", "info")
		Tracef("hidden %s", "trace")

		out := buf.String()
		assert.Contains(t, out, "[DEBUG] visible debug")
		assert.Contains(t, out, "[INFO] visible info")
		assert.NotContains(t, out, "trace")
		assert.True(t, IsEnabled())
		assert.False(t, IsTrace())
	})

	t.Run("trace level", func(t *testing.T) {
		SetLevel(LevelTrace)
		buf.Reset()
		Tracef("visible %s", "trace")
		assert.Contains(t, buf.String(), "[TRACE] visible trace")
		assert.True(t, IsTrace())
	})
}

// TestDomainHelpers tests the PackageExcluded and VersionSelected helpers.
//
// It verifies that:
//   - Both helpers include the package name and reason in their output
func TestDomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	Enable()
	t.Cleanup(Disable)

	PackageExcluded("Newtonsoft.Json", "matched pattern Newtonsoft.*")
	VersionSelected("Serilog", "2.10.0", "2.12.0", "latest stable")

	out := buf.String()
	assert.Contains(t, out, "Newtonsoft.Json")
	assert.Contains(t, out, "matched pattern Newtonsoft.*")
	assert.Contains(t, out, "2.10.0")
	assert.Contains(t, out, "2.12.0")
}
