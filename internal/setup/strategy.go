package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Comment marks the line added to RC files
const Comment = "# termsuggest"

// InstallStrategy defines the interface for different hook installation strategies
type InstallStrategy interface {
	// Install installs the hook using the strategy
	Install() error
	// Uninstall removes the hook
	Uninstall() error
	// IsInstalled checks if the hook is currently installed
	IsInstalled() bool
	// NeedsUpdate checks if the installed hook differs from the current one
	NeedsUpdate() bool
	// Message describes the last operation
	Message() string
	// RCFile returns the RC file path
	RCFile() string
}

// SelectInstallStrategy prefers a drop-in file when the RC file already
// sources a drop-in directory, and falls back to an external hook file.
func SelectInstallStrategy(env Env) (InstallStrategy, error) {
	dropIn, err := NewDropInStrategy(env)
	if err != nil {
		return nil, err
	}
	if dropIn.IsSupported() {
		return dropIn, nil
	}
	return NewExternalHookStrategy(env)
}

func allStrategies(env Env) ([]InstallStrategy, error) {
	dropIn, err := NewDropInStrategy(env)
	if err != nil {
		return nil, err
	}
	external, err := NewExternalHookStrategy(env)
	if err != nil {
		return nil, err
	}
	return []InstallStrategy{dropIn, external}, nil
}

// DropInStrategy writes the hook into the shell's rc.d directory
type DropInStrategy struct {
	env        Env
	dropInFile string
	rcFile     string
	message    string
}

// NewDropInStrategy creates a new drop-in strategy
func NewDropInStrategy(env Env) (*DropInStrategy, error) {
	rcFile, err := env.RCFile()
	if err != nil {
		return nil, err
	}
	return &DropInStrategy{
		env:        env,
		dropInFile: filepath.Join(env.dropInDir(), "termsuggest.sh"),
		rcFile:     rcFile,
	}, nil
}

// IsSupported checks if the RC file sources the drop-in directory
func (s *DropInStrategy) IsSupported() bool {
	data, err := afero.ReadFile(s.env.Fs, s.rcFile)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), filepath.Base(s.env.dropInDir()))
}

// Install writes the drop-in file
func (s *DropInStrategy) Install() error {
	if err := s.env.Fs.MkdirAll(filepath.Dir(s.dropInFile), 0755); err != nil {
		return fmt.Errorf("failed to create drop-in directory: %w", err)
	}
	if err := atomicWrite(s.env.Fs, s.dropInFile, []byte(s.env.Hook)); err != nil {
		return fmt.Errorf("failed to create drop-in file: %w", err)
	}
	s.message = fmt.Sprintf("✓ Hook installed to %s\n✓ No modification to %s needed!", s.dropInFile, s.rcFile)
	return nil
}

// Uninstall removes the drop-in file
func (s *DropInStrategy) Uninstall() error {
	if err := s.env.Fs.Remove(s.dropInFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove drop-in file: %w", err)
	}
	s.message = fmt.Sprintf("✓ Removed %s", s.dropInFile)
	return nil
}

// IsInstalled checks if the drop-in file exists
func (s *DropInStrategy) IsInstalled() bool {
	ok, _ := afero.Exists(s.env.Fs, s.dropInFile)
	return ok
}

// NeedsUpdate compares the drop-in file with the current hook
func (s *DropInStrategy) NeedsUpdate() bool {
	return contentDiffers(s.env.Fs, s.dropInFile, s.env.Hook)
}

// Message returns a user-friendly message
func (s *DropInStrategy) Message() string { return s.message }

// RCFile returns the RC file path
func (s *DropInStrategy) RCFile() string { return s.rcFile }

// ExternalHookStrategy writes the hook to a file under the config
// directory and sources it from the RC file
type ExternalHookStrategy struct {
	env      Env
	hookPath string
	rcFile   string
	message  string
}

// NewExternalHookStrategy creates a new external hook strategy
func NewExternalHookStrategy(env Env) (*ExternalHookStrategy, error) {
	rcFile, err := env.RCFile()
	if err != nil {
		return nil, err
	}
	return &ExternalHookStrategy{env: env, hookPath: env.hookFile(), rcFile: rcFile}, nil
}

func (s *ExternalHookStrategy) sourceLine() string {
	return fmt.Sprintf("[ -f %s ] && source %s", s.hookPath, s.hookPath)
}

// Install writes the hook file and adds one source line to the RC file
func (s *ExternalHookStrategy) Install() error {
	if err := s.env.Fs.MkdirAll(filepath.Dir(s.hookPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicWrite(s.env.Fs, s.hookPath, []byte(s.env.Hook)); err != nil {
		return fmt.Errorf("failed to create hook file: %w", err)
	}

	data, err := afero.ReadFile(s.env.Fs, s.rcFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read RC file: %w", err)
	}
	content := string(data)

	if strings.Contains(content, s.sourceLine()) {
		s.message = fmt.Sprintf("✓ Hook file updated at %s\n✓ RC file already configured", s.hookPath)
		return nil
	}

	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += fmt.Sprintf("\n%s\n%s\n", Comment, s.sourceLine())

	if err := atomicWrite(s.env.Fs, s.rcFile, []byte(content)); err != nil {
		return fmt.Errorf("failed to update RC file: %w", err)
	}

	s.message = fmt.Sprintf("✓ Hook created at %s\n✓ Added single line to %s", s.hookPath, s.rcFile)
	return nil
}

// Uninstall removes the hook file and its source line
func (s *ExternalHookStrategy) Uninstall() error {
	if err := s.env.Fs.Remove(s.hookPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove hook file: %w", err)
	}

	data, err := afero.ReadFile(s.env.Fs, s.rcFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.message = "✓ Nothing to uninstall"
			return nil
		}
		return fmt.Errorf("failed to read RC file: %w", err)
	}

	if err := atomicWrite(s.env.Fs, s.rcFile, []byte(removeSourceLine(string(data), s.hookPath))); err != nil {
		return fmt.Errorf("failed to update RC file: %w", err)
	}

	s.message = fmt.Sprintf("✓ Removed hook file: %s\n✓ Removed line from %s", s.hookPath, s.rcFile)
	return nil
}

// IsInstalled checks that the hook file exists and the RC file sources it
func (s *ExternalHookStrategy) IsInstalled() bool {
	if ok, _ := afero.Exists(s.env.Fs, s.hookPath); !ok {
		return false
	}
	data, err := afero.ReadFile(s.env.Fs, s.rcFile)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), s.hookPath)
}

// NeedsUpdate compares the hook file with the current hook
func (s *ExternalHookStrategy) NeedsUpdate() bool {
	return contentDiffers(s.env.Fs, s.hookPath, s.env.Hook)
}

// Message returns a user-friendly message
func (s *ExternalHookStrategy) Message() string { return s.message }

// RCFile returns the RC file path
func (s *ExternalHookStrategy) RCFile() string { return s.rcFile }
