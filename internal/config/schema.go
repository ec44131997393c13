package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const schemaDraft = "http://json-schema.org/draft-07/schema#"

// ValidationError is one problem found in a configuration document.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult collects the problems found in a document.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true, Errors: []ValidationError{}}
}

func (r *ValidationResult) add(field, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Schema reflects the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := r.Reflect(&Config{})
	s.Version = schemaDraft
	s.Title = "termsuggest configuration"

	return json.MarshalIndent(s, "", "  ")
}

// ValidateWithSchema checks a document against Schema. The format is taken
// from the file extension of path.
func ValidateWithSchema(path string, content []byte) (*ValidationResult, error) {
	result := newResult()

	var data any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			result.add("syntax", "Invalid YAML syntax: %v", err)
			return result, nil
		}
	case ".json":
		if err := json.Unmarshal(content, &data); err != nil {
			result.add("syntax", "Invalid JSON syntax: %v", err)
			return result, nil
		}
	case ".toml":
		m, err := toml.Parser().Unmarshal(content)
		if err != nil {
			result.add("syntax", "Invalid TOML syntax: %v", err)
			return result, nil
		}
		data = m
	default:
		return nil, fmt.Errorf("unsupported file format %q", ext)
	}
	if data == nil {
		data = map[string]any{}
	}

	schema, err := Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	for _, e := range res.Errors() {
		result.add(e.Field(), "%s", e.Description())
	}

	return result, nil
}
