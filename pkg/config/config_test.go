package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "numseek.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
template: abc3333
search:
  url: https://voice.example.com/signup
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc3333", cfg.Template)
	assert.False(t, cfg.ExcludeFour)
	assert.Equal(t, "http://127.0.0.1:50325", cfg.Daemon.BaseURL)
	assert.Equal(t, 600*time.Millisecond, cfg.Daemon.MinInterval.Std())
	assert.Equal(t, 150*time.Millisecond, cfg.Search.TypingDelay.Std())
	assert.Equal(t, 3*time.Second, cfg.Search.SettleWait.Std())
	assert.Equal(t, ".numseek/state", cfg.StateDir)
	assert.NotEmpty(t, cfg.Search.SearchBoxName)
	assert.NotEmpty(t, cfg.Search.NoResultsMarker)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
template: aaaabbb
exclude_four: true
daemon:
  base_url: http://127.0.0.1:60000
  min_interval: 1s
search:
  url: https://voice.example.com/signup
  search_box_name: Number search
  no_results_marker: Nothing matched
  typing_delay: 80ms
  settle_wait: 5s
state_dir: /tmp/numseek
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.ExcludeFour)
	assert.Equal(t, "http://127.0.0.1:60000", cfg.Daemon.BaseURL)
	assert.Equal(t, time.Second, cfg.Daemon.MinInterval.Std())
	assert.Equal(t, "Number search", cfg.Search.SearchBoxName)
	assert.Equal(t, "Nothing matched", cfg.Search.NoResultsMarker)
	assert.Equal(t, 80*time.Millisecond, cfg.Search.TypingDelay.Std())
	assert.Equal(t, 5*time.Second, cfg.Search.SettleWait.Std())
	assert.Equal(t, "/tmp/numseek", cfg.StateDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
template: abc3333
search:
  url: https://voice.example.com/signup
  typing_delay: fast
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		path := writeConfig(t, `
search:
  url: https://voice.example.com/signup
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template")
	})

	t.Run("missing search url", func(t *testing.T) {
		path := writeConfig(t, `template: abc3333`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search.url")
	})
}
