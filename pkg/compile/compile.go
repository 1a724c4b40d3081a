// Package compile runs the platform's DI compilation and fails when it
// printed any error, whatever its exit code.
//
// The platform's compile command reports some failures only as error lines
// while still exiting with status 0. SafeRun routes the command's output
// through a console.ErrorCheckOutput and turns recorded errors into a
// *console.AggregateError.
package compile

import (
	"context"
	"slices"

	"github.com/cleverage/tools/pkg/console"
	"github.com/cleverage/tools/pkg/process"
	"github.com/pkg/errors"
)

const ansiOption = "--ansi"

type (
	// Delegate runs the actual compile command.
	Delegate interface {
		Run(ctx context.Context, args []string, out console.Output) (int, error)
	}

	// DelegateFunc adapts a function to a Delegate.
	DelegateFunc func(ctx context.Context, args []string, out console.Output) (int, error)
)

func (f DelegateFunc) Run(ctx context.Context, args []string, out console.Output) (int, error) {
	return f(ctx, args, out)
}

// NewProcessDelegate returns a delegate executing argv in dir.
//
// The command runs with --ansi so the platform console decorates its error
// lines, which the process output decoder turns back into <error> tags.
// Undecorated output carries no error markers.
func NewProcessDelegate(argv []string, dir string) Delegate {
	if !slices.Contains(argv, ansiOption) {
		argv = append(slices.Clone(argv), ansiOption)
	}

	return &process.Command{Argv: argv, Dir: dir}
}

// SafeRun runs the delegate with args passed through unchanged.
//
// It fails with a *console.AggregateError listing every distinct error line
// the delegate printed, or with an exit code error when the delegate exited
// non-zero without printing errors.
func SafeRun(ctx context.Context, d Delegate, args []string, out console.Output) error {
	checker := console.NewErrorCheckOutput(out)

	code, err := d.Run(ctx, args, checker)
	if err != nil {
		return err
	}

	if msgs := checker.ErrorMessages(); len(msgs) > 0 {
		return &console.AggregateError{Messages: msgs}
	}

	if code != 0 {
		return errors.Errorf("compile command exited with code %d", code)
	}

	return nil
}
