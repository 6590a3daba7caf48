package attrs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testTree struct {
	root    string
	index   string
	cssDir  string
	style   string
	symlink string
}

// newTestTree creates
//
//	index.html
//	css/style.css
//	dangling -> missing
func newTestTree(t *testing.T) testTree {
	root := t.TempDir()
	tree := testTree{
		root:    root,
		index:   filepath.Join(root, "index.html"),
		cssDir:  filepath.Join(root, "css"),
		style:   filepath.Join(root, "css", "style.css"),
		symlink: filepath.Join(root, "dangling"),
	}
	require.NoError(t, os.Mkdir(tree.cssDir, 0o755))
	require.NoError(t, os.WriteFile(tree.index, []byte("<html></html>\n"), 0o644))
	require.NoError(t, os.WriteFile(tree.style, []byte("body {}\n"), 0o644))
	for _, path := range []string{tree.index, tree.style} {
		require.NoError(t, os.Chmod(path, 0o644))
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), tree.symlink))
	return tree
}

func newObservedLogger() (logr.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zapr.NewLogger(zap.New(core)), logs
}

func requireLstat(t *testing.T, path string) fileStat {
	st, err := lstat(path)
	require.NoError(t, err)
	return st
}
