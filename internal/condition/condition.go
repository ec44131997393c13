// Package condition evaluates the when blocks that gate configured words
// and tools.
package condition

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Condition is a test against the working directory and environment.
type Condition interface {
	Evaluate(env Env) (bool, error)
	String() string
}

// Env provides the environment for condition evaluation
type Env struct {
	Fs         afero.Fs
	WorkingDir string
	// LookupEnv defaults to os.LookupEnv
	LookupEnv func(string) (string, bool)
	// LookPath defaults to exec.LookPath
	LookPath func(string) (string, error)
}

func (env Env) lookupEnv(key string) (string, bool) {
	if env.LookupEnv != nil {
		return env.LookupEnv(key)
	}
	return os.LookupEnv(key)
}

func (env Env) lookPath(name string) (string, error) {
	if env.LookPath != nil {
		return env.LookPath(name)
	}
	return exec.LookPath(name)
}

func (env Env) fs() afero.Fs {
	if env.Fs == nil {
		return afero.NewOsFs()
	}
	return env.Fs
}

// resolve expands variables in path and joins relative paths to the
// working directory
func (env Env) resolve(path string) string {
	expanded := os.Expand(path, func(key string) string {
		v, _ := env.lookupEnv(key)
		return v
	})
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(env.WorkingDir, expanded)
}

func (env Env) stat(path string) (os.FileInfo, bool, error) {
	info, err := env.fs().Stat(env.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to check '%s': %w", path, err)
	}
	return info, true, nil
}

// FileCondition tests if a regular file exists
type FileCondition struct {
	Path string
}

// Evaluate implements Condition
func (c FileCondition) Evaluate(env Env) (bool, error) {
	info, ok, err := env.stat(c.Path)
	if err != nil || !ok {
		return false, err
	}
	return !info.IsDir(), nil
}

func (c FileCondition) String() string { return "file " + c.Path }

// DirCondition tests if a directory exists
type DirCondition struct {
	Path string
}

// Evaluate implements Condition
func (c DirCondition) Evaluate(env Env) (bool, error) {
	info, ok, err := env.stat(c.Path)
	if err != nil || !ok {
		return false, err
	}
	return info.IsDir(), nil
}

func (c DirCondition) String() string { return "dir " + c.Path }

// VarCondition tests if an environment variable is set and non-empty
type VarCondition struct {
	Name string
}

// Evaluate implements Condition
func (c VarCondition) Evaluate(env Env) (bool, error) {
	v, ok := env.lookupEnv(c.Name)
	return ok && v != "", nil
}

func (c VarCondition) String() string { return "var " + c.Name }

// CommandCondition tests if a command exists in PATH
type CommandCondition struct {
	Name string
}

// Evaluate implements Condition
func (c CommandCondition) Evaluate(env Env) (bool, error) {
	_, err := env.lookPath(c.Name)
	return err == nil, nil
}

func (c CommandCondition) String() string { return "command " + c.Name }

// AllCondition holds when every sub-condition holds (AND logic)
type AllCondition struct {
	Conditions []Condition
}

// Evaluate implements Condition. It stops at the first unmet condition.
func (c AllCondition) Evaluate(env Env) (bool, error) {
	for _, cond := range c.Conditions {
		ok, err := cond.Evaluate(env)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (c AllCondition) String() string { return join("all", c.Conditions) }

// AnyCondition holds when at least one sub-condition holds (OR logic)
type AnyCondition struct {
	Conditions []Condition
}

// Evaluate implements Condition. It stops at the first met condition.
func (c AnyCondition) Evaluate(env Env) (bool, error) {
	for _, cond := range c.Conditions {
		ok, err := cond.Evaluate(env)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (c AnyCondition) String() string { return join("any", c.Conditions) }

func join(op string, conditions []Condition) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.String()
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}
