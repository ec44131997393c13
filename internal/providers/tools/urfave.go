package tools

import "context"

// completeUrfave runs `tool args... --generate-shell-completion`, the
// protocol of urfave/cli applications. The current word is passed along.
func completeUrfave(ctx context.Context, run runFunc, tool string, args []string) ([]suggestion, error) {
	cmdArgs := append(append([]string{}, args...), "--generate-shell-completion")
	output, err := run(ctx, nil, tool, cmdArgs...)
	if err != nil {
		return nil, err
	}
	return parseLines(output, false), nil
}
