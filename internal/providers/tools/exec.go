package tools

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
)

const (
	// DefaultTimeout bounds a single completion command.
	DefaultTimeout = 3 * time.Second
	// MaxOutputSize caps the output read from a completion command (1MB).
	MaxOutputSize = 1024 * 1024
)

// runFunc executes name with args. A nil env inherits the process
// environment.
type runFunc func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if env != nil {
		cmd.Env = env
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, derrors.NewExecutionError(name, "failed to open completion output", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, derrors.NewExecutionError(name, "completion command failed", err)
	}

	output, readErr := io.ReadAll(io.LimitReader(stdout, MaxOutputSize))
	if readErr == nil {
		// Drain the rest so the command does not block on a full pipe.
		_, readErr = io.Copy(io.Discard, stdout)
	}
	err = cmd.Wait()
	if err == nil {
		err = readErr
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, derrors.NewExecutionError(name, "completion command timed out", err)
		}
		return nil, derrors.NewExecutionError(name, "completion command failed", err)
	}
	return output, nil
}

type suggestion struct {
	value       string
	description string
}

// parseLines reads one suggestion per non-empty line. With descriptions,
// a tab separates the value from its description.
func parseLines(output []byte, descriptions bool) []suggestion {
	var out []suggestion

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		s := suggestion{value: line}
		if descriptions {
			if value, desc, ok := strings.Cut(line, "\t"); ok {
				s.value = strings.TrimSpace(value)
				s.description = strings.TrimSpace(desc)
			}
		}
		out = append(out, s)
	}
	return out
}
