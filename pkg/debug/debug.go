// Package debug dumps values and call stacks to the console or to log files.
//
// Output is laid out by a format string whose placeholders are:
//
//	%t  current time, RFC 3339
//	%c  calling function with its file and line
//	%l  label
//	%m  memory obtained from the system, in bytes
//	%M  memory obtained from the system, in MB
//	%d  dump content
//	%%  a literal percent sign
//
// Unknown placeholders are left untouched.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/cleverage/tools/pkg/consts"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

var placeholderPattern = regexp.MustCompile(`%(.)`)

// Dumper renders dumps and backtraces.
type Dumper struct {
	// Format lays out Dump and DumpToFile output
	Format string

	// BacktraceFormat lays out Backtrace and BacktraceToFile output
	BacktraceFormat string

	// OutputDir holds the files written by DumpToFile and BacktraceToFile
	OutputDir string

	// MaxDepth bounds nested values; zero means unbounded
	MaxDepth int

	// Out receives Dump and Backtrace output
	Out io.Writer

	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

// Dump writes value to Out, preceded by a newline.
//
// Example:
//
//	d := &debug.Dumper{Format: consts.DebugFormatDump, MaxDepth: 8, Out: os.Stdout}
//	_ = d.Dump(cfg, "config")
func (d *Dumper) Dump(value any, label string) error {
	return d.print(d.render(d.Format, caller(2), label, d.content(value)))
}

// DumpToFile appends value to file in OutputDir.
func (d *Dumper) DumpToFile(value any, file, label string) error {
	return d.append(file, d.render(d.Format, caller(2), label, d.content(value)))
}

// Backtrace writes the current call stack to Out, preceded by a newline.
func (d *Dumper) Backtrace(label string) error {
	return d.print(d.render(d.BacktraceFormat, caller(2), label, backtrace(2)))
}

// BacktraceToFile appends the current call stack to file in OutputDir.
func (d *Dumper) BacktraceToFile(file, label string) error {
	return d.append(file, d.render(d.BacktraceFormat, caller(2), label, backtrace(2)))
}

func (d *Dumper) print(output string) error {
	if _, err := io.WriteString(d.Out, "\n"+output); err != nil {
		return errors.Wrap(err, "failed to write dump")
	}

	return nil
}

func (d *Dumper) append(file, output string) error {
	if err := os.MkdirAll(d.OutputDir, consts.ModeDir); err != nil {
		return errors.Wrapf(err, "failed to create %s", d.OutputDir)
	}

	path := filepath.Join(d.OutputDir, file)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.WriteString(f, output+"\n"); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}

func (d *Dumper) render(format, context, label, content string) string {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	vars := map[string]string{
		"t": now().Format(time.RFC3339),
		"c": context,
		"l": label,
		"m": fmt.Sprintf("%d B", mem.Sys),
		"M": fmt.Sprintf("%.2f MB", float64(mem.Sys)/1024/1024),
		"d": content,
		"%": "%",
	}

	return placeholderPattern.ReplaceAllStringFunc(format, func(match string) string {
		if v, ok := vars[match[1:]]; ok {
			return v
		}
		return match
	})
}

func (d *Dumper) content(value any) string {
	cfg := spew.ConfigState{
		Indent:                  "    ",
		MaxDepth:                d.MaxDepth,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}

	return strings.TrimSuffix(cfg.Sdump(value), "\n")
}

// caller describes the function skip frames above its own caller.
func caller(skip int) string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return "{Unknown Context}"
	}

	frame, _ := runtime.CallersFrames(pcs[:n]).Next()
	return fmt.Sprintf("%s [line %d] %s()", frame.File, frame.Line, filepath.Base(frame.Function))
}

func backtrace(skip int) string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for i := 0; ; i++ {
		frame, more := frames.Next()
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "#%d %s(%d): %s()", i, frame.File, frame.Line, filepath.Base(frame.Function))

		if !more {
			break
		}
	}

	return b.String()
}
