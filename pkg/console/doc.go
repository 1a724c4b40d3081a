// Package console provides the output sinks used by every command.
//
// Messages may carry inline style tags such as <error>, <info>, <comment> and
// <question>. A StreamOutput renders them with lipgloss styles when decorated
// and strips them otherwise. Literal text that could be mistaken for a tag is
// protected with Escape.
//
// ErrorCheckOutput decorates any Output and records every message containing
// an <error> tag, which lets callers fail an operation whose only signal of
// failure is what it printed.
//
// Example:
//
//	out := console.NewConsoleOutput(os.Stdout, os.Stderr)
//	checker := console.NewErrorCheckOutput(out)
//
//	_ = checker.Writeln("<info>Compiling...</info>")
//	_ = checker.Writeln("<error>Class Foo does not exist</error>")
//
//	fmt.Println(checker.ErrorMessages()) // [Class Foo does not exist]
package console
