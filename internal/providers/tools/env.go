package tools

import (
	"context"
	"os"
	"strconv"
)

// completeEnv runs the tool with COMP_LINE and COMP_POINT set, the bash
// `complete -C` protocol used by terraform, consul, vault and nomad.
func completeEnv(ctx context.Context, run runFunc, tool, line string) ([]suggestion, error) {
	env := append(os.Environ(),
		"COMP_LINE="+line,
		"COMP_POINT="+strconv.Itoa(len(line)),
	)
	output, err := run(ctx, env, tool)
	if err != nil {
		return nil, err
	}
	return parseLines(output, false), nil
}
