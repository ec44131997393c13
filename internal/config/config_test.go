package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	cfg := s.Config()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Suggest.EnableExtensionCompletions)
	assert.False(t, cfg.Suggest.DevMode)
	assert.True(t, cfg.Paths.Enabled)
	assert.Equal(t, []string{"/"}, cfg.Paths.Triggers)
	assert.Equal(t, false, s.GetValue("suggest.dev_mode"))
	assert.Empty(t, s.Path())
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yml",
			content: `
suggest:
  enable_extension_completions: true
words:
  git:
    - value: checkout
      description: Switch branches
tools:
  - command: kubectl
    protocol: cobra
    triggers: ["-"]
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
[suggest]
enable_extension_completions = true

[[words.git]]
value = "checkout"
description = "Switch branches"

[[tools]]
command = "kubectl"
protocol = "cobra"
triggers = ["-"]
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{
  "suggest": {"enable_extension_completions": true},
  "words": {"git": [{"value": "checkout", "description": "Switch branches"}]},
  "tools": [{"command": "kubectl", "protocol": "cobra", "triggers": ["-"]}]
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			s, err := Load(path)
			require.NoError(t, err)

			cfg := s.Config()
			assert.True(t, cfg.Suggest.EnableExtensionCompletions)
			assert.True(t, s.Bool("suggest.enable_extension_completions"))
			assert.True(t, cfg.Paths.Enabled, "defaults survive")
			require.Len(t, cfg.Words["git"], 1)
			assert.Equal(t, Word{Value: "checkout", Description: "Switch branches"}, cfg.Words["git"][0])
			require.Len(t, cfg.Tools, 1)
			assert.Equal(t, "kubectl", cfg.Tools[0].Command)
			assert.Equal(t, []string{"-"}, cfg.Tools[0].Triggers)
			assert.Equal(t, path, s.Path())
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "config.ini", "x=1"))
	assert.Equal(t, derrors.CodeConfiguration, derrors.CodeOf(err))

	_, err = Load(writeConfig(t, "config.yml", "suggest: [unclosed"))
	var ce *derrors.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Path, "config.yml")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadBytes(t *testing.T) {
	s, err := LoadBytes([]byte("suggest:\n  dev_mode: true\n"), ".yml")
	require.NoError(t, err)
	assert.Equal(t, true, s.GetValue("suggest.dev_mode"))
	assert.Equal(t, "info", s.String("log_level"))

	_, err = LoadBytes([]byte("{}"), ".xml")
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	s, err := LoadBytes(Sample(), ".yml")
	require.NoError(t, err)

	cfg := s.Config()
	assert.True(t, cfg.Suggest.EnableExtensionCompletions)
	assert.NotEmpty(t, cfg.Words)
	assert.NotEmpty(t, cfg.Tools)
	assert.True(t, Check(cfg).Valid)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "termsuggest"), dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	dir, err = DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "termsuggest"), dir)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "config.yaml"), FindConfigFile(dir))
}

func TestParserFor(t *testing.T) {
	for _, name := range []string{"a.yml", "a.YAML", "a.toml", "a.json"} {
		_, err := ParserFor(name)
		assert.NoError(t, err, name)
	}
	_, err := ParserFor("a.conf")
	assert.Error(t, err)
}
