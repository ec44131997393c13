// Package shell describes the shells termsuggest completes for and how the
// current one is detected.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Type identifies a shell.
type Type string

// Known shell types.
const (
	Bash       Type = "bash"
	Zsh        Type = "zsh"
	Fish       Type = "fish"
	Pwsh       Type = "pwsh"
	PowerShell Type = "powershell"
)

// Auto asks Detect to inspect the environment.
const Auto = "auto"

// All lists every known shell type.
var All = []Type{Bash, Zsh, Fish, Pwsh, PowerShell}

// Parse converts a shell name into a Type.
func Parse(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range All {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown shell %q", name)
}

// Detect returns the shell named by flag, or the shell inferred from the
// environment when flag is "auto" or empty. Bash is the fallback.
func Detect(flag string) Type {
	if flag != "" && flag != Auto {
		if t, err := Parse(flag); err == nil {
			return t
		}
	}

	sh := filepath.Base(os.Getenv("SHELL"))
	switch {
	case strings.Contains(sh, "zsh"):
		return Zsh
	case strings.Contains(sh, "fish"):
		return Fish
	case strings.Contains(sh, "bash"):
		return Bash
	}

	if psModulePath := os.Getenv("PSModulePath"); psModulePath != "" {
		if strings.Contains(psModulePath, "pwsh") {
			return Pwsh
		}
		return PowerShell
	}

	return Bash
}

// Contains reports whether t is in types. An empty set contains every shell.
func Contains(types []Type, t Type) bool {
	return len(types) == 0 || lo.Contains(types, t)
}
