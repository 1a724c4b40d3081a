package console

import (
	"slices"
	"strings"
)

type (
	// ErrorCheckOutput forwards every call to the wrapped Output and records
	// the trimmed plain text of each message containing an <error> tag.
	// Escaped tags count and are stripped like live ones.
	//
	// Recorded messages are unique and kept in first-seen order. When
	// exception on error is enabled, a write carrying error messages fails
	// with an *AggregateError and nothing is forwarded.
	ErrorCheckOutput struct {
		Output

		exceptionOnError bool
		errorMessages    []string
	}

	// AggregateError reports error lines written to an ErrorCheckOutput.
	AggregateError struct {
		Messages []string
	}
)

// NewErrorCheckOutput wraps out.
func NewErrorCheckOutput(out Output) *ErrorCheckOutput {
	return &ErrorCheckOutput{Output: out}
}

func (o *ErrorCheckOutput) Write(newline bool, messages ...string) error {
	if err := o.check(messages); err != nil {
		return err
	}

	return o.Output.Write(newline, messages...)
}

func (o *ErrorCheckOutput) Writeln(messages ...string) error {
	if err := o.check(messages); err != nil {
		return err
	}

	return o.Output.Writeln(messages...)
}

// SetExceptionOnError makes writes carrying error messages fail.
func (o *ErrorCheckOutput) SetExceptionOnError(enabled bool) {
	o.exceptionOnError = enabled
}

// ExceptionOnError reports whether writes carrying error messages fail.
func (o *ErrorCheckOutput) ExceptionOnError() bool {
	return o.exceptionOnError
}

// ErrorMessages returns the recorded error messages.
func (o *ErrorCheckOutput) ErrorMessages() []string {
	return slices.Clone(o.errorMessages)
}

// ResetErrorMessages forgets every recorded error message.
func (o *ErrorCheckOutput) ResetErrorMessages() {
	o.errorMessages = nil
}

func (o *ErrorCheckOutput) check(messages []string) error {
	var found []string
	for _, msg := range messages {
		if strings.Contains(msg, errorTag) {
			found = append(found, strings.TrimSpace(StripTags(strings.ReplaceAll(msg, `\<`, "<"))))
		}
	}

	if len(found) == 0 {
		return nil
	}

	if o.exceptionOnError {
		return &AggregateError{Messages: found}
	}

	for _, msg := range found {
		if !slices.Contains(o.errorMessages, msg) {
			o.errorMessages = append(o.errorMessages, msg)
		}
	}

	return nil
}

func (e *AggregateError) Error() string {
	return strings.Join(e.Messages, "\n")
}
