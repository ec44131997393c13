package shell

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed templates/hook/bash.tmpl
var bashHookTemplate string

//go:embed templates/hook/zsh.tmpl
var zshHookTemplate string

// HookShells lists the shells that have an integration script.
var HookShells = []Type{Bash, Zsh}

// Hook renders the integration script that wires the shell's completion
// system to `binary complete`.
func Hook(t Type, binary string) (string, error) {
	var src string
	switch t {
	case Bash:
		src = bashHookTemplate
	case Zsh:
		src = zshHookTemplate
	default:
		return "", fmt.Errorf("no integration available for %s", t)
	}

	tmpl, err := template.New(string(t)).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse %s hook template: %w", t, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Binary string }{Binary: binary}); err != nil {
		return "", fmt.Errorf("render %s hook: %w", t, err)
	}
	return buf.String(), nil
}
