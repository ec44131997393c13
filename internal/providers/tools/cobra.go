package tools

import (
	"context"
	"strconv"
	"strings"
)

// Cobra shell completion directives, as emitted by spf13/cobra's
// __complete command.
const (
	ShellCompDirectiveError         = 1
	ShellCompDirectiveNoSpace       = 2
	ShellCompDirectiveNoFileComp    = 4
	ShellCompDirectiveFilterFileExt = 8
	ShellCompDirectiveFilterDirs    = 16
	ShellCompDirectiveKeepOrder     = 32
)

// completeCobra runs `tool __complete args...`.
func completeCobra(ctx context.Context, run runFunc, tool string, args []string) ([]suggestion, int, error) {
	output, err := run(ctx, nil, tool, append([]string{"__complete"}, args...)...)
	if err != nil {
		return nil, 0, err
	}
	suggestions, directive := parseCobraOutput(output)
	return suggestions, directive, nil
}

// parseCobraOutput splits `value\tdescription` lines from the trailing
// `:<directive>` line. Cobra's debug footer is dropped.
func parseCobraOutput(output []byte) ([]suggestion, int) {
	var kept []string
	directive := 0

	for _, line := range strings.Split(string(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if d, err := strconv.Atoi(strings.TrimPrefix(trimmed, ":")); err == nil {
				directive = d
			}
			continue
		}
		if strings.Contains(trimmed, "Completion ended") || strings.Contains(trimmed, "ShellCompDirective") {
			continue
		}
		kept = append(kept, line)
	}

	return parseLines([]byte(strings.Join(kept, "\n")), true), directive
}
