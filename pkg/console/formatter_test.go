package console_test

import (
	"testing"

	. "github.com/cleverage/tools/pkg/console"
	"github.com/stretchr/testify/require"
)

func TestStyleFormatter_Undecorated(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"plain", "Compiling...", "Compiling..."},
		{"known tag", "<info>Done.</info>", "Done."},
		{"anonymous close", "<comment>note</> after", "note after"},
		{"nested", "<error>failed <info>here</info> now</error>", "failed here now"},
		{"unknown tag kept", "value <unknown>", "value <unknown>"},
		{"unmatched close kept", "a </info> b", "a </info> b"},
		{"escaped", Escape("<error>literal</error>"), "<error>literal</error>"},
		{"comparison", "a < b", "a < b"},
		{"tabs preserved", "<info>a\tb</info>", "a\tb"},
	}

	f := NewFormatter(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, f.Format(tt.message))
		})
	}
}

func TestStyleFormatter_Decorated(t *testing.T) {
	f := NewFormatter(true)
	require.True(t, f.IsDecorated())

	out := f.Format("<info>Done.</info> plain")
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "Done.")
	require.Contains(t, out, " plain")
	require.NotContains(t, out, "<info>")

	// multi-line content is styled line by line without padding
	out = f.Format("<error>a\nlonger line</error>")
	require.NotContains(t, out, "a \n")

	f.SetDecorated(false)
	require.Equal(t, "Done.", f.Format("<info>Done.</info>"))
}

func TestStripTags(t *testing.T) {
	require.Equal(t, "Class Foo does not exist", StripTags("<error>Class Foo does not exist</error>"))
	require.Equal(t, "x  y", StripTags("x <unknown> y"))
	require.Equal(t, "<b>", StripTags(Escape("<b>")))
	require.Equal(t, "1 < 2", StripTags("1 < 2"))
}

func TestEscape(t *testing.T) {
	require.Equal(t, `\<error>`, Escape("<error>"))
	require.Equal(t, `a\\<b`, Escape(`a\<b`))
	require.Equal(t, `a\<b`, NewFormatter(false).Format(Escape(`a\<b`)))
}
