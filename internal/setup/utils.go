package setup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// atomicWrite writes data to a file atomically using a temporary file
func atomicWrite(fs afero.Fs, filename string, data []byte) error {
	const perm = 0644
	tmpFile, err := afero.TempFile(fs, filepath.Dir(filename), ".termsuggest-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	// Clean up temp file if something goes wrong
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := fs.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

func contentDiffers(fs afero.Fs, path, expected string) bool {
	current, err := afero.ReadFile(fs, path)
	if err != nil {
		return true
	}
	return string(current) != expected
}

// removeSourceLine drops the marker comment and the line sourcing hookPath
func removeSourceLine(content, hookPath string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	skipNext := false

	for _, line := range lines {
		if strings.TrimSpace(line) == Comment {
			skipNext = true
			continue
		}
		if skipNext && strings.Contains(line, hookPath) {
			skipNext = false
			continue
		}
		skipNext = false
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
