package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":8742", cfg.Addr)
	assert.Equal(t, "solara", cfg.LiveTag)
	assert.False(t, cfg.UnsafeExecute, "execution must default to off")
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := `
title: My Docs
addr: ":9000"
unsafe_execute: true
highlight_style: monokai
rate_limit:
  enabled: false
ignore:
  - "drafts/*"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "My Docs", cfg.Title)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.True(t, cfg.UnsafeExecute)
	assert.Equal(t, "monokai", cfg.HighlightStyle)
	assert.False(t, cfg.RateLimit.Enabled)

	// Unset fields keep defaults.
	assert.Equal(t, "solara", cfg.LiveTag)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
}

func TestLoadPartialFileKeepsRemainingDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("addr: \":9100\"\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, "solara preview", cfg.Title)
	assert.Equal(t, "github", cfg.HighlightStyle)
}

func TestLoadBackfillsExplicitlyEmptyFields(t *testing.T) {
	dir := t.TempDir()
	content := "title: \"\"\naddr: \"\"\nlive_tag: \"\"\nhighlight_style: \"\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "solara preview", cfg.Title)
	assert.Equal(t, ":8742", cfg.Addr)
	assert.Equal(t, "solara", cfg.LiveTag)
	assert.Equal(t, "github", cfg.HighlightStyle)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("title: [unclosed"), 0644))
	_, err := Load(dir)
	require.Error(t, err)
}

func TestIgnored(t *testing.T) {
	cfg := Default()
	cfg.Ignore = []string{"drafts/*", "*.draft.md"}

	assert.True(t, cfg.Ignored("drafts/wip.md"))
	assert.True(t, cfg.Ignored("notes/idea.draft.md"))
	assert.False(t, cfg.Ignored("guide.md"))
}
