package querystring_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vshn/sitefs/querystring"
)

func TestTruncatedName(t *testing.T) {
	tests := map[string]struct {
		givenName    string
		expectedName string
		expectFound  bool
	}{
		"GivenPlainName_ThenKeepName": {
			givenName:    "style.css",
			expectedName: "style.css",
		},
		"GivenQueryString_ThenStripQueryString": {
			givenName:    "fontawesome-webfont.woff?v=4.2",
			expectedName: "fontawesome-webfont.woff",
			expectFound:  true,
		},
		"GivenTwoQuestionMarks_ThenCutAtFirst": {
			givenName:    "a.js?x=1?y=2",
			expectedName: "a.js",
			expectFound:  true,
		},
		"GivenOnlyQueryString_ThenReturnEmptyName": {
			givenName:   "?ver=5",
			expectFound: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			actual, found := querystring.TruncatedName(tt.givenName)
			assert.Equal(t, tt.expectedName, actual)
			assert.Equal(t, tt.expectFound, found)
		})
	}
}

func TestCleaner_Clean(t *testing.T) {
	tests := map[string]struct {
		givenFiles     map[string]string
		expectedFiles  map[string]string
		expectedResult querystring.Result
	}{
		"GivenNoQueryStrings_ThenNothingChanges": {
			givenFiles:    map[string]string{"index.html": "index", "css/style.css": "style"},
			expectedFiles: map[string]string{"index.html": "index", "css/style.css": "style"},
		},
		"GivenQueryStringInSubfolder_ThenRename": {
			givenFiles:     map[string]string{"wp-content/themes/salient/css/fonts/fontawesome-webfont.woff?v=4.2": "font"},
			expectedFiles:  map[string]string{"wp-content/themes/salient/css/fonts/fontawesome-webfont.woff": "font"},
			expectedResult: querystring.Result{Renamed: 1},
		},
		"GivenExistingTarget_ThenRemoveQueryStringVariant": {
			givenFiles:     map[string]string{"app.js": "current", "app.js?ver=1": "stale"},
			expectedFiles:  map[string]string{"app.js": "current"},
			expectedResult: querystring.Result{Removed: 1},
		},
		"GivenTwoVariants_ThenRenameFirstAndRemoveSecond": {
			givenFiles:     map[string]string{"app.js?ver=1": "one", "app.js?ver=2": "two"},
			expectedFiles:  map[string]string{"app.js": "one"},
			expectedResult: querystring.Result{Renamed: 1, Removed: 1},
		},
		"GivenOnlyQueryString_ThenSkipFile": {
			givenFiles:     map[string]string{"?v=1": "nameless"},
			expectedFiles:  map[string]string{"?v=1": "nameless"},
			expectedResult: querystring.Result{Skipped: 1},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tt.givenFiles)

			result, err := querystring.NewCleaner(zapr.NewLogger(zaptest.NewLogger(t))).Clean(root)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedResult, result)
			assert.Equal(t, tt.expectedFiles, readFiles(t, root))
		})
	}
}

func TestCleaner_Clean_LeavesDirectoriesAndSymlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir?x=1"), 0o755))
	require.NoError(t, os.Symlink("nowhere", filepath.Join(root, "link?x=1")))

	result, err := querystring.NewCleaner(zapr.NewLogger(zaptest.NewLogger(t))).Clean(root)
	require.NoError(t, err)

	assert.Equal(t, querystring.Result{}, result)
	assert.DirExists(t, filepath.Join(root, "dir?x=1"))
	_, err = os.Lstat(filepath.Join(root, "link?x=1"))
	assert.NoError(t, err)
}

func TestCleaner_Clean_GivenNonRegularTarget_ThenFail(t *testing.T) {
	tests := map[string]struct {
		givenTarget func(t *testing.T, path string)
	}{
		"GivenDirectory": {
			givenTarget: func(t *testing.T, path string) {
				require.NoError(t, os.Mkdir(path, 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(path, "f.woff"), []byte("f"), 0o644))
			},
		},
		"GivenSymlink": {
			givenTarget: func(t *testing.T, path string) {
				require.NoError(t, os.Symlink("elsewhere", path))
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			tt.givenTarget(t, filepath.Join(root, "fonts"))
			writeFiles(t, root, map[string]string{"fonts?v=1": "css"})

			_, err := querystring.NewCleaner(zapr.NewLogger(zaptest.NewLogger(t))).Clean(root)
			assert.ErrorIs(t, err, querystring.ErrTargetNotRegular)

			content, err := os.ReadFile(filepath.Join(root, "fonts?v=1"))
			require.NoError(t, err)
			assert.Equal(t, "css", string(content))
			_, err = os.Lstat(filepath.Join(root, "fonts"))
			assert.NoError(t, err)
		})
	}
}

func TestCleaner_Clean_NoQuestionMarkLeft(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.css?v=1":           "a",
		"b.css":               "b",
		"b.css?v=2":           "b2",
		"fonts/f.woff?v=4.2":  "f",
		"fonts/f.woff2?v=4.2": "f2",
		"js/x/y/z.js?ver=9":   "z",
	})

	_, err := querystring.NewCleaner(zapr.NewLogger(zaptest.NewLogger(t))).Clean(root)
	require.NoError(t, err)

	for path := range readFiles(t, root) {
		assert.NotContains(t, path, "?")
	}
}

func TestCleaner_Clean_MissingRoot(t *testing.T) {
	_, err := querystring.NewCleaner(zapr.NewLogger(zaptest.NewLogger(t))).Clean(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFiles(t *testing.T, root string) map[string]string {
	files := map[string]string{}
	require.NoError(t, filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return files
}
