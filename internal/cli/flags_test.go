package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	f, err := Init(nil)
	require.NoError(t, err)
	assert.Equal(t, ":5050", f.Address)
	assert.Equal(t, VendorOpenAI, f.Vendor)
	assert.Equal(t, "classic", f.Tools)
	assert.Equal(t, "assistant", f.Persona)
	assert.Equal(t, "exact", f.MealMatch)
	assert.Equal(t, StoreMemory, f.Store)
	assert.Equal(t, SessionsFsdb, f.Sessions)
	assert.Equal(t, 60*time.Second, f.LLMTimeout)
	assert.Equal(t, "primary", f.CalendarID)
	assert.Equal(t, "echo", f.VoiceName)
	assert.Empty(t, f.Config)
}

func TestInitRejectsUnknownFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Init([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestConfigFileFillsUnsetFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vendor: anthropic
model: claude-test
tools: full
llmTimeout: 15s
seed: true
address: ":9000"
`), 0o644))

	f, err := Init([]string{"--config", path, "--address=:7000", "-m", "gpt-override"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", f.Vendor)
	assert.Equal(t, "full", f.Tools)
	assert.Equal(t, 15*time.Second, f.LLMTimeout)
	assert.True(t, f.Seed)
	assert.Equal(t, ":7000", f.Address)
	assert.Equal(t, "gpt-override", f.Model)
}

func TestDefaultConfigPathIsDiscovered(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "breya")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("persona: companion\n"), 0o644))

	f, err := Init(nil)
	require.NoError(t, err)
	assert.Equal(t, "companion", f.Persona)
}

func TestMissingConfigFileIsAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Init([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestUsedFlags(t *testing.T) {
	used := usedFlags([]string{"--vendor", "dryrun", "--debug=2", "-m", "x", "--", "--seed"})
	assert.Equal(t, map[string]bool{"vendor": true, "debug": true, "m": true}, used)
}
