package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidStep   = errors.New("invalid build step")
	ErrInvalidRecipe = errors.New("invalid recipe")
)

// CommandError reports an external command that exited unsuccessfully.
// ExitCode is -1 when the process could not be started or was killed.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	cmd := strings.TrimSpace(e.Name + " " + firstArgs(e.Args, 3))
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exit status %d", cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the exit status a process should terminate with for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return 1
}

func firstArgs(args []string, n int) string {
	if len(args) <= n {
		return strings.Join(args, " ")
	}
	return strings.Join(args[:n], " ") + " ..."
}
