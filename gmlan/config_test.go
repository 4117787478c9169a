package gmlan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	assert.Equal(t, 4, cfg.AddressingScheme)
	require.NotNil(t, cfg.Timings)
	assert.Equal(t, time.Second, cfg.Timings.ReplyTimeout())
	assert.NotNil(t, cfg.Logger)
}

func TestConfigRejectsBadScheme(t *testing.T) {
	for _, scheme := range []int{-1, 0, 3, 5, 8} {
		cfg := Config{AddressingScheme: scheme}
		cfg.applyDefaults()
		assert.Equal(t, 4, cfg.AddressingScheme, "scheme %d must fall back", scheme)
	}
	for _, scheme := range []int{1, 2, 4} {
		cfg := Config{AddressingScheme: scheme}
		cfg.applyDefaults()
		assert.Equal(t, scheme, cfg.AddressingScheme)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmdiag.yaml")
	content := `
addressing_scheme: 2
verbose: true
reply_timeout: 750ms
keep_alive_period: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.AddressingScheme)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 750*time.Millisecond, cfg.Timings.ReplyTimeout())
	assert.Equal(t, 5*time.Second, cfg.Timings.KeepAlivePeriod())
	// Unset durations keep their defaults.
	assert.Equal(t, 50*time.Millisecond, cfg.Timings.InterStepDelay())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmdiag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addressing_scheme: 2\n"), 0o644))

	t.Setenv(envAddressingScheme, "1")
	t.Setenv(envReplyTimeout, "250ms")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.AddressingScheme)
	assert.Equal(t, 250*time.Millisecond, cfg.Timings.ReplyTimeout())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestClientFallsBackToConfiguredTimeout(t *testing.T) {
	c := testClient(1)
	assert.Equal(t, c.cfg.Timings.ReplyTimeout(), c.replyTimeout(0))
	assert.Equal(t, c.cfg.Timings.ReplyTimeout(), c.replyTimeout(-time.Second))
	assert.Equal(t, 5*time.Millisecond, c.replyTimeout(5*time.Millisecond))
}

func TestNormalizeRetries(t *testing.T) {
	assert.Equal(t, 0, normalizeRetries(0))
	assert.Equal(t, 3, normalizeRetries(3))
	assert.Equal(t, 3, normalizeRetries(-3))
}
