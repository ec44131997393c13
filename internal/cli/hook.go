package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

// Hook prints the shell integration script. binary is the command the
// script calls back into.
func Hook(shellName, binary string, stdout io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}

	script, err := shell.Hook(shell.Detect(shellName), binary)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(stdout, script)
	return err
}
