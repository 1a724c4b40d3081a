// Package process runs platform commands and streams their output to a
// console.
package process

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/cleverage/tools/pkg/console"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const maxLineSize = 1024 * 1024

// Command is an external program invoked with extra arguments.
//
// Both streams are forwarded line by line as plain text, standard error to
// the status stream of the output. Text the program styled as an error (see
// the platform console's decorated output) is forwarded in <error> tags so an
// ErrorCheckOutput records it.
type Command struct {
	// Argv is the program followed by its fixed arguments
	Argv []string

	// Dir is the working directory; empty means the current one
	Dir string

	// Env is appended to the current environment
	Env []string
}

// Run executes the command with args appended and returns its exit code. A
// non-zero exit code is not an error; failing to start the program or to
// forward its output is.
func (c *Command) Run(ctx context.Context, args []string, out console.Output) (int, error) {
	if len(c.Argv) == 0 {
		return -1, errors.New("no command configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	argv := append(append([]string{}, c.Argv[1:]...), args...)
	cmd := exec.CommandContext(ctx, c.Argv[0], argv...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, errors.Wrap(err, "failed to open stdout")
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, errors.Wrap(err, "failed to open stderr")
	}

	if err := cmd.Start(); err != nil {
		return -1, errors.Wrapf(err, "failed to start %s", c.Argv[0])
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	forward := func(r io.Reader, w console.Output) func() error {
		return func() error {
			var decoder styleDecoder

			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

			for scanner.Scan() {
				line := decoder.decode(scanner.Text())

				mu.Lock()
				err := w.Writeln(line)
				mu.Unlock()

				if err != nil {
					// stop the program, its output can't be delivered
					cancel()
					_, _ = io.Copy(io.Discard, r)
					return err
				}
			}

			return errors.Wrap(scanner.Err(), "failed to read command output")
		}
	}

	g.Go(forward(stdout, out))
	g.Go(forward(stderr, console.StatusOutput(out)))

	forwardErr := g.Wait()
	waitErr := cmd.Wait()

	if forwardErr != nil {
		return -1, forwardErr
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}

		return -1, errors.Wrapf(waitErr, "failed to run %s", c.Argv[0])
	}

	return 0, nil
}
