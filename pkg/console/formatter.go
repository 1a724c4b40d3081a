package console

import (
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const errorTag = "<error>"

var tagPattern = regexp.MustCompile(`^<(/?)([a-z][a-z0-9_=;-]*)?>`)

type (
	// Formatter turns tagged messages into terminal text.
	Formatter interface {
		Format(message string) string
		SetDecorated(bool)
		IsDecorated() bool
	}

	// StyleFormatter renders the <error>, <info>, <comment> and <question>
	// tags with lipgloss styles. Unknown tags are left untouched.
	StyleFormatter struct {
		decorated bool
		styles    map[string]lipgloss.Style
	}
)

// NewFormatter creates a StyleFormatter with the default styles.
func NewFormatter(decorated bool) *StyleFormatter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)

	style := func() lipgloss.Style {
		return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	}

	return &StyleFormatter{
		decorated: decorated,
		styles: map[string]lipgloss.Style{
			"error":    style().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")),
			"info":     style().Foreground(lipgloss.Color("2")),
			"comment":  style().Foreground(lipgloss.Color("3")),
			"question": style().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")),
		},
	}
}

// SetStyle registers or replaces the style used for a tag.
func (f *StyleFormatter) SetStyle(tag string, style lipgloss.Style) {
	f.styles[tag] = style.TabWidth(lipgloss.NoTabConversion)
}

func (f *StyleFormatter) SetDecorated(decorated bool) { f.decorated = decorated }
func (f *StyleFormatter) IsDecorated() bool { return f.decorated }

// Format replaces known tags with their styles, or drops them when the
// formatter isn't decorated. Escaped brackets are unescaped.
func (f *StyleFormatter) Format(message string) string {
	var (
		out   strings.Builder
		text  strings.Builder
		stack []string
	)

	flush := func() {
		if text.Len() == 0 {
			return
		}

		s := text.String()
		text.Reset()

		if f.decorated && len(stack) > 0 {
			s = f.render(stack[len(stack)-1], s)
		}
		out.WriteString(s)
	}

	for i := 0; i < len(message); {
		if isEscaped(message, i) {
			text.WriteByte('<')
			i += 2
			continue
		}

		if message[i] == '<' {
			if m := tagPattern.FindStringSubmatch(message[i:]); m != nil {
				closing, name := m[1] == "/", m[2]

				switch {
				case closing:
					if idx := f.openIndex(stack, name); idx >= 0 {
						flush()
						stack = stack[:idx]
						i += len(m[0])
						continue
					}
				case name != "":
					if _, ok := f.styles[name]; ok {
						flush()
						stack = append(stack, name)
						i += len(m[0])
						continue
					}
				}
			}
		}

		text.WriteByte(message[i])
		i++
	}

	flush()
	return out.String()
}

// openIndex returns the stack position of the tag closed by name, or -1.
// An anonymous closing tag (</>) closes the innermost one.
func (f *StyleFormatter) openIndex(stack []string, name string) int {
	if len(stack) == 0 {
		return -1
	}

	if name == "" {
		return len(stack) - 1
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}

	return -1
}

// render styles each line on its own so lipgloss doesn't pad lines to a
// common width.
func (f *StyleFormatter) render(tag, s string) string {
	style := f.styles[tag]

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// Escape protects literal text from being read as tags.
func Escape(text string) string {
	return strings.ReplaceAll(text, "<", `\<`)
}

// StripTags removes every tag from message and unescapes escaped brackets,
// yielding the plain text a user would read.
func StripTags(message string) string {
	var out strings.Builder

	for i := 0; i < len(message); {
		if isEscaped(message, i) {
			out.WriteByte('<')
			i += 2
			continue
		}

		if message[i] == '<' {
			if m := tagPattern.FindString(message[i:]); m != "" {
				i += len(m)
				continue
			}
		}

		out.WriteByte(message[i])
		i++
	}

	return out.String()
}

func isEscaped(s string, i int) bool {
	return s[i] == '\\' && i+1 < len(s) && s[i+1] == '<'
}
