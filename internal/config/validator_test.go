package config

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
)

func fields(r *ValidationResult) []string {
	var out []string
	for _, e := range r.Errors {
		out = append(out, e.Field)
	}
	return out
}

func TestCheck_Valid(t *testing.T) {
	cfg := &Config{
		LogLevel: "debug",
		Paths:    Paths{Enabled: true, Triggers: []string{"/"}},
		Words:    map[string][]Word{"git*": {{Value: "{{ .CWD | base }}"}}},
		Tools: []Tool{
			{Command: "kubectl", Protocol: "cobra", Shells: []string{"bash", "zsh"}, Timeout: "2s"},
		},
	}

	result := Check(cfg)
	assert.True(t, result.Valid, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestCheck_Problems(t *testing.T) {
	cfg := &Config{
		LogLevel: "loud",
		Paths:    Paths{Triggers: []string{""}},
		Words: map[string][]Word{
			"[git": {{Value: "x"}},
			"make": {{Value: " "}, {Value: "{{ .CWD "}},
		},
		Tools: []Tool{
			{Command: "", Protocol: "cobra"},
			{Command: "kubectl", Protocol: "bash-script", Shells: []string{"tcsh"}, Timeout: "soon", Triggers: []string{""}},
			{Command: "kubectl", Protocol: "cobra"},
		},
	}

	result := Check(cfg)
	assert.False(t, result.Valid)
	got := fields(result)
	for _, want := range []string{
		"log_level",
		"paths/triggers",
		"words/[git",
		"words/make/0",
		"words/make/1",
		"tools/0/command",
		"tools/1/protocol",
		"tools/1/shells",
		"tools/1/timeout",
		"tools/1/triggers",
		"tools/2/command",
	} {
		assert.Contains(t, got, want)
	}
}

func TestValidate_File(t *testing.T) {
	path := writeConfig(t, "config.yml", "tools:\n  - command: helm\n    protocol: rpc\n")
	result, err := Validate(path)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"tools/0/protocol"}, fields(result))

	broken := writeConfig(t, "config.yml", "tools: [")
	result, err = Validate(broken)
	require.NoError(t, err)
	assert.Equal(t, []string{"syntax"}, fields(result))

	_, err = Validate(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, derrors.CodeNotFound, derrors.CodeOf(err))
}

func TestSchema(t *testing.T) {
	raw, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, schemaDraft, doc["$schema"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"log_level", "suggest", "paths", "words", "tools"} {
		assert.Contains(t, props, key)
	}
}

func TestValidateWithSchema(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		valid   bool
	}{
		{name: "valid yaml", path: "c.yml", content: "suggest:\n  dev_mode: true\ntools:\n  - command: kubectl\n    protocol: cobra\n", valid: true},
		{name: "empty yaml", path: "c.yaml", content: "", valid: true},
		{name: "unknown key", path: "c.yml", content: "aliases:\n  k: kubectl\n", valid: false},
		{name: "bad protocol", path: "c.json", content: `{"tools": [{"command": "k", "protocol": "rpc"}]}`, valid: false},
		{name: "missing command", path: "c.json", content: `{"tools": [{"protocol": "env"}]}`, valid: false},
		{name: "valid toml", path: "c.toml", content: "log_level = \"warn\"\n[[words.git]]\nvalue = \"status\"\n", valid: true},
		{name: "yaml syntax", path: "c.yml", content: "tools: [", valid: false},
		{name: "json syntax", path: "c.json", content: "{", valid: false},
		{name: "toml syntax", path: "c.toml", content: "[[", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateWithSchema(tt.path, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.Errors)
		})
	}

	_, err := ValidateWithSchema("c.ini", nil)
	assert.Error(t, err)
}

func TestValidateWithSchema_Sample(t *testing.T) {
	result, err := ValidateWithSchema("config.yml", Sample())
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Errors)
}

func TestWhen_Validate(t *testing.T) {
	valid := []When{
		{File: "go.mod"},
		{File: "go.mod", Var: "GOPATH"},
		{Any: []When{{File: "compose.yml"}, {File: "docker-compose.yml"}}},
		{All: []When{{Command: "docker"}, {Any: []When{{Dir: ".docker"}, {Var: "DOCKER_HOST"}}}}},
	}
	for _, w := range valid {
		assert.NoError(t, w.Validate(), "%+v", w)
	}

	for _, tc := range []struct {
		when When
		want string
	}{
		{When{}, "at least one condition"},
		{When{File: "x", All: []When{{Var: "Y"}}}, "cannot mix"},
		{When{All: []When{{Var: "A"}}, Any: []When{{Var: "B"}}}, "both 'all' and 'any'"},
		{When{Any: []When{{Var: "A"}, {}}}, "any[1]: when block"},
	} {
		assert.ErrorContains(t, tc.when.Validate(), tc.want)
	}
}

func TestCheck_When(t *testing.T) {
	cfg := &Config{
		Words: map[string][]Word{"make": {{Value: "test", When: &When{}}}},
		Tools: []Tool{{Command: "terraform", Protocol: "env", When: &When{Dir: ".terraform", Any: []When{{Var: "TF"}}}}},
	}
	got := fields(Check(cfg))
	assert.Contains(t, got, "words/make/0/when")
	assert.Contains(t, got, "tools/0/when")
}

func TestValidateWithSchema_When(t *testing.T) {
	content := "words:\n  go:\n    - value: test\n      when:\n        any:\n          - file: go.mod\n          - var: GOPATH\n"
	result, err := ValidateWithSchema("c.yml", []byte(content))
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Errors)

	result, err = ValidateWithSchema("c.yml", []byte("tools:\n  - command: tf\n    protocol: env\n    when:\n      exists: x\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}
