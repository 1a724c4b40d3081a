package process

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/cleverage/tools/pkg/console"
)

// SGR sequences the platform console emits around <error> text when its
// output is decorated (white on red, then default colors).
const (
	errorStyleStart = "\x1b[37;41m"
	errorStyleEnd   = "\x1b[39;49m"
)

// styleDecoder turns decorated lines back into console markup. Error styled
// spans become <error> tags, every other escape sequence is dropped and the
// remaining text is escaped. A span may continue over several lines.
type styleDecoder struct {
	inError bool
}

func (d *styleDecoder) decode(line string) string {
	var b strings.Builder

	for line != "" {
		marker := errorStyleStart
		if d.inError {
			marker = errorStyleEnd
		}

		segment, rest, found := strings.Cut(line, marker)
		if d.inError {
			b.WriteString(errorMarkup(plain(segment)))
		} else {
			b.WriteString(plain(segment))
		}

		if !found {
			break
		}

		d.inError = !d.inError
		line = rest
	}

	return b.String()
}

func plain(s string) string {
	return console.Escape(ansi.Strip(s))
}

// errorMarkup tags text, leaving the block padding outside of the tags.
func errorMarkup(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}

	start := strings.Index(text, trimmed)
	return text[:start] + "<error>" + trimmed + "</error>" + text[start+len(trimmed):]
}
