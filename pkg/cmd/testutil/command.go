package testutil

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// Result holds what a command printed
type Result struct {
	Stdout string
	Stderr string
}

// RunCommand executes a command below a test root command, capturing its
// output. The command's Before hook runs as usual.
func RunCommand(t *testing.T, command *cli.Command, args ...string) (Result, error) {
	t.Helper()

	return RunCommandWithInput(context.Background(), t, command, nil, args...)
}

// RunCommandWithInput executes a command with a custom context and standard
// input
func RunCommandWithInput(ctx context.Context, t *testing.T, command *cli.Command, stdin io.Reader, args ...string) (Result, error) {
	t.Helper()

	if stdin == nil {
		stdin = strings.NewReader("")
	}

	var stdout, stderr bytes.Buffer
	app := &cli.Command{
		Name:      "test",
		Commands:  []*cli.Command{command},
		Reader:    stdin,
		Writer:    &stdout,
		ErrWriter: &stderr,
	}

	// Prepend command name to args
	fullArgs := append([]string{"test", command.Name}, args...)

	err := app.Run(ctx, fullArgs)
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, err
}
