package console

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Verbosity levels, ordered from least to most output.
const (
	VerbosityQuiet Verbosity = iota
	VerbosityNormal
	VerbosityVerbose
	VerbosityVeryVerbose
	VerbosityDebug
)

type (
	// Verbosity controls how much a command prints.
	Verbosity int

	// Output is a console sink. Messages are formatted by the sink's Formatter
	// before being written.
	Output interface {
		// Write writes messages, each followed by a newline when newline is set.
		Write(newline bool, messages ...string) error
		// Writeln writes messages, each followed by a newline.
		Writeln(messages ...string) error

		SetVerbosity(Verbosity)
		Verbosity() Verbosity
		IsQuiet() bool
		IsVerbose() bool
		IsVeryVerbose() bool
		IsDebug() bool

		SetDecorated(bool)
		IsDecorated() bool

		SetFormatter(Formatter)
		Formatter() Formatter
	}

	// ConsoleOutput is an Output with a separate stream for diagnostics.
	ConsoleOutput interface {
		Output
		ErrorOutput() Output
	}

	// StreamOutput writes formatted messages to an io.Writer.
	StreamOutput struct {
		w         io.Writer
		verbosity Verbosity
		formatter Formatter
	}

	// Console pairs a standard and an error StreamOutput.
	Console struct {
		*StreamOutput
		stderr *StreamOutput
	}
)

// NewStreamOutput creates an output writing to w at normal verbosity.
func NewStreamOutput(w io.Writer, decorated bool) *StreamOutput {
	return &StreamOutput{
		w:         w,
		verbosity: VerbosityNormal,
		formatter: NewFormatter(decorated),
	}
}

func (o *StreamOutput) Write(newline bool, messages ...string) error {
	if o.verbosity == VerbosityQuiet {
		return nil
	}

	for _, msg := range messages {
		msg = o.formatter.Format(msg)
		if newline {
			msg += "\n"
		}

		if _, err := io.WriteString(o.w, msg); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}

	return nil
}

func (o *StreamOutput) Writeln(messages ...string) error {
	return o.Write(true, messages...)
}

// Writer returns the underlying writer.
func (o *StreamOutput) Writer() io.Writer { return o.w }
func (o *StreamOutput) SetVerbosity(v Verbosity) { o.verbosity = v }
func (o *StreamOutput) Verbosity() Verbosity { return o.verbosity }
func (o *StreamOutput) IsQuiet() bool { return o.verbosity == VerbosityQuiet }
func (o *StreamOutput) IsVerbose() bool { return o.verbosity >= VerbosityVerbose }
func (o *StreamOutput) IsVeryVerbose() bool { return o.verbosity >= VerbosityVeryVerbose }
func (o *StreamOutput) IsDebug() bool { return o.verbosity >= VerbosityDebug }
func (o *StreamOutput) SetDecorated(decorated bool) { o.formatter.SetDecorated(decorated) }
func (o *StreamOutput) IsDecorated() bool { return o.formatter.IsDecorated() }
func (o *StreamOutput) SetFormatter(f Formatter) { o.formatter = f }
func (o *StreamOutput) Formatter() Formatter { return o.formatter }

// NewConsoleOutput creates split outputs over stdout and stderr. Each stream
// is decorated when it is attached to a terminal and NO_COLOR is unset.
func NewConsoleOutput(stdout, stderr io.Writer) *Console {
	return &Console{
		StreamOutput: NewStreamOutput(stdout, IsTerminal(stdout)),
		stderr:       NewStreamOutput(stderr, IsTerminal(stderr)),
	}
}

// ErrorOutput returns the diagnostics stream.
func (c *Console) ErrorOutput() Output {
	return c.stderr
}

func (c *Console) SetVerbosity(v Verbosity) {
	c.StreamOutput.SetVerbosity(v)
	c.stderr.SetVerbosity(v)
}

func (c *Console) SetDecorated(decorated bool) {
	c.StreamOutput.SetDecorated(decorated)
	c.stderr.SetDecorated(decorated)
}

func (c *Console) SetFormatter(f Formatter) {
	c.StreamOutput.SetFormatter(f)
	c.stderr.SetFormatter(f)
}

// StatusOutput returns the stream meant for human readable status lines: the
// error stream of a ConsoleOutput, or out itself.
func StatusOutput(out Output) Output {
	if co, ok := out.(ConsoleOutput); ok {
		return co.ErrorOutput()
	}

	return out
}

// IsTerminal reports whether w is a terminal that should receive styles.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
