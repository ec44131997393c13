package config

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

// Protocols lists the tool protocols a configuration may name.
var Protocols = []string{"cobra", "urfave", "env"}

// Validate loads path and runs the semantic checks schema validation
// cannot express.
func Validate(path string) (*ValidationResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, derrors.NewNotFoundError(path, "config file not found: "+path)
	}

	settings, err := Load(path)
	if err != nil {
		result := newResult()
		result.add("syntax", "Failed to parse config: %v", err)
		return result, nil
	}
	return Check(settings.Config()), nil
}

// Check runs the semantic checks on a decoded configuration.
func Check(cfg *Config) *ValidationResult {
	result := newResult()

	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
			result.add("log_level", "Unknown log level %q", cfg.LogLevel)
		}
	}

	checkTriggers(result, "paths/triggers", cfg.Paths.Triggers)

	for pattern, words := range cfg.Words {
		field := "words/" + pattern
		if !doublestar.ValidatePattern(pattern) {
			result.add(field, "Invalid command pattern %q", pattern)
		}
		for i, w := range words {
			if strings.TrimSpace(w.Value) == "" {
				result.add(fmt.Sprintf("%s/%d", field, i), "Word value is empty")
				continue
			}
			if _, err := ParseWordTemplate(w.Value); err != nil {
				result.add(fmt.Sprintf("%s/%d", field, i), "Invalid template: %v", err)
			}
			checkWhen(result, fmt.Sprintf("%s/%d/when", field, i), w.When)
		}
	}

	seen := map[string]int{}
	for i, tool := range cfg.Tools {
		field := fmt.Sprintf("tools/%d", i)
		if strings.TrimSpace(tool.Command) == "" {
			result.add(field+"/command", "Tool command is empty")
		} else if prev, dup := seen[tool.Command]; dup {
			result.add(field+"/command", "Tool %q is already defined at tools/%d", tool.Command, prev)
		} else {
			seen[tool.Command] = i
		}

		if !knownProtocol(tool.Protocol) {
			result.add(field+"/protocol", "Unknown protocol %q (expected one of %s)", tool.Protocol, strings.Join(Protocols, ", "))
		}
		for _, name := range tool.Shells {
			if _, err := shell.Parse(name); err != nil {
				result.add(field+"/shells", "Unknown shell %q", name)
			}
		}
		if tool.Timeout != "" {
			if d, err := time.ParseDuration(tool.Timeout); err != nil || d <= 0 {
				result.add(field+"/timeout", "Invalid timeout %q", tool.Timeout)
			}
		}
		checkTriggers(result, field+"/triggers", tool.Triggers)
		checkWhen(result, field+"/when", tool.When)
	}

	return result
}

// ParseWordTemplate parses a word value as a text template with the sprig
// function set.
func ParseWordTemplate(value string) (*template.Template, error) {
	return template.New("word").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(value)
}

func checkTriggers(result *ValidationResult, field string, triggers []string) {
	for _, t := range triggers {
		if t == "" {
			result.add(field, "Trigger characters must not be empty")
		}
	}
}

func checkWhen(result *ValidationResult, field string, when *When) {
	if when == nil {
		return
	}
	if err := when.Validate(); err != nil {
		result.add(field, "Invalid condition: %v", err)
	}
}

func knownProtocol(name string) bool {
	for _, p := range Protocols {
		if p == name {
			return true
		}
	}
	return false
}
