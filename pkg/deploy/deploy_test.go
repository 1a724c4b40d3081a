package deploy_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cleverage/tools/pkg/consts"
	. "github.com/cleverage/tools/pkg/deploy"
	"github.com/stretchr/testify/require"
)

// layout returns a parent directory and a platform root inside it.
func layout(t *testing.T) (string, string) {
	t.Helper()

	parent := t.TempDir()
	root := filepath.Join(parent, "current")
	require.NoError(t, os.Mkdir(root, consts.ModeDir))

	return parent, root
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), consts.ModeFile))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestReader(t *testing.T) {
	mtime := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	t.Run("root files", func(t *testing.T) {
		parent, root := layout(t)
		writeFile(t, filepath.Join(root, "VERSION"), " 1.4.2\n", mtime)
		writeFile(t, filepath.Join(root, "REVISION"), "abc123\n", mtime.Add(time.Hour))
		writeFile(t, filepath.Join(parent, "VERSION"), "0.0.1", mtime)

		r := NewReader(root)

		v, ok := r.Version()
		require.True(t, ok)
		require.Equal(t, "1.4.2", v)

		rev, ok := r.Revision()
		require.True(t, ok)
		require.Equal(t, "abc123", rev)

		d, ok := r.Date()
		require.True(t, ok)
		require.Equal(t, mtime, d)

		require.Equal(t, Info{Version: "1.4.2", Revision: "abc123", Date: "2024-03-05T14:07:09+00:00"}, r.API())
		require.Equal(t, Info{Version: "1.4.2", Revision: "abc123", Date: "2024-03-05 14:07:09"}, r.Banner())
	})

	t.Run("parent fallback", func(t *testing.T) {
		parent, root := layout(t)
		writeFile(t, filepath.Join(parent, "REVISION"), "def456", mtime)

		r := NewReader(root)

		_, ok := r.Version()
		require.False(t, ok)

		rev, ok := r.Revision()
		require.True(t, ok)
		require.Equal(t, "def456", rev)

		// the date falls back to REVISION when no VERSION exists
		d, ok := r.Date()
		require.True(t, ok)
		require.Equal(t, mtime, d)
	})

	t.Run("nothing deployed", func(t *testing.T) {
		_, root := layout(t)
		r := NewReader(root)

		_, ok := r.Date()
		require.False(t, ok)

		require.Equal(t, Info{Version: "<unknown>", Revision: "<unknown>", Date: "<unknown>"}, r.API())
		require.Equal(t, Info{Version: "(unknown)", Revision: "(unknown)", Date: "(unknown)"}, r.Banner())

		data, err := json.Marshal(r.Raw())
		require.NoError(t, err)
		require.JSONEq(t, `{"version":null,"revision":null,"date":null}`, string(data))
	})

	t.Run("directories are ignored", func(t *testing.T) {
		_, root := layout(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "VERSION"), consts.ModeDir))

		_, ok := NewReader(root).Version()
		require.False(t, ok)
	})

	t.Run("raw", func(t *testing.T) {
		_, root := layout(t)
		writeFile(t, filepath.Join(root, "VERSION"), "2.0.0", mtime)

		data, err := json.Marshal(NewReader(root).Raw())
		require.NoError(t, err)
		require.JSONEq(t, `{"version":"2.0.0","revision":null,"date":"2024-03-05T14:07:09Z"}`, string(data))
	})
}
