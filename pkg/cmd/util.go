package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cleverage/tools/pkg/console"
	"github.com/urfave/cli/v3"
)

type (
	// outputOptions carries the global output flags down to the commands.
	outputOptions struct {
		verbosity console.Verbosity

		// decorated overrides terminal detection when set
		decorated *bool
	}

	outputOptionsKey struct{}
)

func withOutputOptions(ctx context.Context, opts outputOptions) context.Context {
	return context.WithValue(ctx, outputOptionsKey{}, opts)
}

func (o outputOptions) logLevel() slog.Level {
	switch {
	case o.verbosity == console.VerbosityQuiet:
		return slog.LevelError
	case o.verbosity >= console.VerbosityDebug:
		return slog.LevelDebug
	case o.verbosity >= console.VerbosityVerbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// newOutput creates the console for a command, writing to the root command's
// writers and honouring the global output flags.
func newOutput(ctx context.Context, cmd *cli.Command) *console.Console {
	out := console.NewConsoleOutput(stdout(cmd), stderr(cmd))

	if opts, ok := ctx.Value(outputOptionsKey{}).(outputOptions); ok {
		out.SetVerbosity(opts.verbosity)
		if opts.decorated != nil {
			out.SetDecorated(*opts.decorated)
		}
	}

	return out
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}

	return os.Stdin
}
