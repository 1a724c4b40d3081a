package console_test

import (
	"bytes"
	"testing"

	. "github.com/cleverage/tools/pkg/console"
	"github.com/stretchr/testify/require"
)

func TestStreamOutput(t *testing.T) {
	t.Run("write", func(t *testing.T) {
		var buf bytes.Buffer
		out := NewStreamOutput(&buf, false)

		require.NoError(t, out.Write(false, "a", "b"))
		require.NoError(t, out.Writeln("<info>c</info>", "d"))
		require.Equal(t, "abc\nd\n", buf.String())
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		out := NewStreamOutput(&buf, false)
		out.SetVerbosity(VerbosityQuiet)

		require.NoError(t, out.Writeln("hidden"))
		require.Empty(t, buf.String())
		require.True(t, out.IsQuiet())
	})

	t.Run("verbosity", func(t *testing.T) {
		out := NewStreamOutput(&bytes.Buffer{}, false)
		require.Equal(t, VerbosityNormal, out.Verbosity())
		require.False(t, out.IsVerbose())

		out.SetVerbosity(VerbosityVeryVerbose)
		require.True(t, out.IsVerbose())
		require.True(t, out.IsVeryVerbose())
		require.False(t, out.IsDebug())

		out.SetVerbosity(VerbosityDebug)
		require.True(t, out.IsDebug())
	})

	t.Run("decoration", func(t *testing.T) {
		var buf bytes.Buffer
		out := NewStreamOutput(&buf, false)
		require.False(t, out.IsDecorated())

		out.SetDecorated(true)
		require.True(t, out.IsDecorated())
		require.True(t, out.Formatter().IsDecorated())

		f := NewFormatter(false)
		out.SetFormatter(f)
		require.Same(t, f, out.Formatter())
	})
}

func TestConsole(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := NewConsoleOutput(&stdout, &stderr)

	// buffers are never terminals
	require.False(t, out.IsDecorated())
	require.False(t, out.ErrorOutput().IsDecorated())

	require.NoError(t, out.Writeln("data"))
	require.NoError(t, out.ErrorOutput().Writeln("<comment>status</comment>"))
	require.Equal(t, "data\n", stdout.String())
	require.Equal(t, "status\n", stderr.String())

	out.SetVerbosity(VerbosityVerbose)
	require.True(t, out.ErrorOutput().IsVerbose())

	out.SetDecorated(true)
	require.True(t, out.ErrorOutput().IsDecorated())

	require.Same(t, out.ErrorOutput(), StatusOutput(out))

	plain := NewStreamOutput(&stdout, false)
	require.Same(t, plain, StatusOutput(plain))
}
