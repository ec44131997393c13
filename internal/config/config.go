// Package config loads termsuggest settings and provider definitions.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
)

//go:embed defaults/defaults.yml
var defaultsYAML []byte

//go:embed defaults/sample.yml
var sampleYAML []byte

// AppName names the configuration directory.
const AppName = "termsuggest"

// SupportedConfigNames lists config file names in order of preference.
var SupportedConfigNames = []string{
	"config.yml",
	"config.yaml",
	"config.toml",
	"config.json",
}

// Word is a static completion candidate.
type Word struct {
	Value       string `koanf:"value" json:"value" jsonschema:"minLength=1,description=Completion text (Go template with sprig functions)"`
	Description string `koanf:"description" json:"description,omitempty" jsonschema:"description=Detail shown next to the candidate"`
	When        *When  `koanf:"when" json:"when,omitempty" jsonschema:"description=Only offer the word when this condition holds"`
}

// When is a condition evaluated against the working directory and the
// environment. Atomic fields set together must all hold; all and any
// combine nested conditions and cannot be mixed with atomic fields.
type When struct {
	File    string `koanf:"file" json:"file,omitempty" jsonschema:"description=File that must exist (relative paths resolve against the working directory)"`
	Dir     string `koanf:"dir" json:"dir,omitempty" jsonschema:"description=Directory that must exist"`
	Var     string `koanf:"var" json:"var,omitempty" jsonschema:"description=Environment variable that must be set and non-empty"`
	Command string `koanf:"command" json:"command,omitempty" jsonschema:"description=Command that must be found in PATH"`
	All     []When `koanf:"all" json:"all,omitempty" jsonschema:"description=Every nested condition must hold"`
	Any     []When `koanf:"any" json:"any,omitempty" jsonschema:"description=At least one nested condition must hold"`
}

// AtomicCount returns how many of file, dir, var and command are set.
func (w *When) AtomicCount() int {
	n := 0
	for _, v := range []string{w.File, w.Dir, w.Var, w.Command} {
		if v != "" {
			n++
		}
	}
	return n
}

// Validate checks the structure of w and its nested conditions.
func (w *When) Validate() error {
	atomic := w.AtomicCount()
	composite := 0
	if len(w.All) > 0 {
		composite++
	}
	if len(w.Any) > 0 {
		composite++
	}

	switch {
	case atomic == 0 && composite == 0:
		return fmt.Errorf("when block must specify at least one condition")
	case atomic > 0 && composite > 0:
		return fmt.Errorf("cannot mix atomic conditions (file, dir, var, command) with composite conditions (all, any) at the same level")
	case composite > 1:
		return fmt.Errorf("cannot have both 'all' and 'any' at the same level")
	}

	for i := range w.All {
		if err := w.All[i].Validate(); err != nil {
			return fmt.Errorf("all[%d]: %w", i, err)
		}
	}
	for i := range w.Any {
		if err := w.Any[i].Validate(); err != nil {
			return fmt.Errorf("any[%d]: %w", i, err)
		}
	}
	return nil
}

// Tool describes an external command queried for its own completions.
type Tool struct {
	Command  string   `koanf:"command" json:"command" jsonschema:"minLength=1,description=Command name as typed on the command line"`
	Protocol string   `koanf:"protocol" json:"protocol" jsonschema:"enum=cobra,enum=urfave,enum=env,description=Completion protocol spoken by the command"`
	Triggers []string `koanf:"triggers" json:"triggers,omitempty" jsonschema:"description=Characters that invoke the tool on typing"`
	Shells   []string `koanf:"shells" json:"shells,omitempty" jsonschema:"description=Shells the tool is offered in (default depends on protocol)"`
	Timeout  string   `koanf:"timeout" json:"timeout,omitempty" jsonschema:"description=Per-request timeout such as 2s (default 3s)"`
	When     *When    `koanf:"when" json:"when,omitempty" jsonschema:"description=Only query the tool when this condition holds"`
}

// Suggest holds the settings read by the completion service.
type Suggest struct {
	EnableExtensionCompletions bool `koanf:"enable_extension_completions" json:"enable_extension_completions,omitempty" jsonschema:"description=Enable providers outside the builtin namespace,default=false"`
	DevMode                    bool `koanf:"dev_mode" json:"dev_mode,omitempty" jsonschema:"description=Prefix item details with the provider id,default=false"`
}

// Paths configures the builtin path provider.
type Paths struct {
	Enabled  bool     `koanf:"enabled" json:"enabled,omitempty" jsonschema:"default=true"`
	Triggers []string `koanf:"triggers" json:"triggers,omitempty"`
}

// Config is the decoded configuration.
type Config struct {
	LogLevel string            `koanf:"log_level" json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,description=Log level"`
	Suggest  Suggest           `koanf:"suggest" json:"suggest,omitempty"`
	Paths    Paths             `koanf:"paths" json:"paths,omitempty"`
	Words    map[string][]Word `koanf:"words" json:"words,omitempty" jsonschema:"description=Word lists keyed by command glob"`
	Tools    []Tool            `koanf:"tools" json:"tools,omitempty"`
}

// Settings is a loaded configuration. It satisfies
// completion.Configuration.
type Settings struct {
	k    *koanf.Koanf
	path string
	cfg  *Config
}

// DefaultDir returns $XDG_CONFIG_HOME/termsuggest, falling back to
// ~/.config/termsuggest.
func DefaultDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName), nil
}

// FindConfigFile returns the first supported config file in dir, or an
// empty string.
func FindConfigFile(dir string) string {
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ParserFor picks the koanf parser matching the file extension.
func ParserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}

// Load reads path over the built-in defaults. An empty path yields the
// defaults alone.
func Load(path string) (*Settings, error) {
	k, err := defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		parser, err := ParserFor(path)
		if err != nil {
			return nil, derrors.NewConfigurationError(path, "cannot load config", err)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, derrors.NewConfigurationError(path, "failed to load config", err)
		}
	}

	return newSettings(k, path)
}

// LoadBytes reads an in-memory document over the defaults. format is a
// file extension such as ".yml".
func LoadBytes(data []byte, format string) (*Settings, error) {
	k, err := defaults()
	if err != nil {
		return nil, err
	}

	parser, err := ParserFor("config" + format)
	if err != nil {
		return nil, derrors.NewConfigurationError("", "cannot load config", err)
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, derrors.NewConfigurationError("", "failed to parse config", err)
	}

	return newSettings(k, "")
}

// Sample returns the annotated configuration written by `termsuggest init`.
func Sample() []byte {
	return append([]byte(nil), sampleYAML...)
}

func defaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return k, nil
}

func newSettings(k *koanf.Koanf, path string) (*Settings, error) {
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, derrors.NewConfigurationError(path, "failed to decode config", err)
	}
	return &Settings{k: k, path: path, cfg: cfg}, nil
}

// GetValue returns the raw value stored under a dotted key.
func (s *Settings) GetValue(key string) any {
	return s.k.Get(key)
}

// Bool returns the boolean stored under key.
func (s *Settings) Bool(key string) bool {
	return s.k.Bool(key)
}

// String returns the string stored under key.
func (s *Settings) String(key string) string {
	return s.k.String(key)
}

// Config returns the decoded configuration.
func (s *Settings) Config() *Config {
	return s.cfg
}

// Path returns the file the settings were loaded from, if any.
func (s *Settings) Path() string {
	return s.path
}

// Keys lists every dotted key with a value.
func (s *Settings) Keys() []string {
	return s.k.Keys()
}
