package scan

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcore/sproutcore-sub001/internal/ir"
	"github.com/sproutcore/sproutcore-sub001/internal/testutil"
)

func relPaths(files []ir.SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.ToSlash(f.RelativePath)
	}
	return out
}

func TestScan_DepthFirstLexicalOrder(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"core.js":           "",
		"a.js":              "",
		"views/list.js":     "",
		"views/sub/cell.js": "",
		"models/item.js":    "",
	})

	res, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a.js",
		"core.js",
		"models/item.js",
		"views/list.js",
		"views/sub/cell.js",
	}, relPaths(res.Scripts))
}

func TestScan_LoadsRawTextAndCanonicalPath(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"core.js": "var SC = {};"})

	res, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)
	require.Len(t, res.Scripts, 1)

	f := res.Scripts[0]
	assert.Equal(t, "var SC = {};", f.RawText)
	assert.Equal(t, ".js", f.Extension)
	assert.True(t, filepath.IsAbs(f.AbsolutePath))
	assert.Equal(t, f.AbsolutePath, f.Identity())
}

func TestScan_ExcludedDirectorySkipsSubtree(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"app.js":                "",
		"fixtures/data.js":      "",
		"fixtures/deep/more.js": "",
		"views/fixtures/x.js":   "",
	})

	res, err := Scan(Options{Roots: []string{root}, ExcludeDirs: []string{"fixtures"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js"}, relPaths(res.Scripts))
	assert.True(t, res.IsExcluded(filepath.Join(root, "fixtures", "deep", "more.js")))
	assert.True(t, res.IsExcluded(filepath.Join(root, "views", "fixtures")))
	assert.False(t, res.IsExcluded(filepath.Join(root, "app.js")))
}

func TestScan_RootIsNeverExcluded(t *testing.T) {
	parent := testutil.WriteTree(t, map[string]string{"tests/a.js": ""})

	res, err := Scan(Options{
		Roots:       []string{filepath.Join(parent, "tests")},
		ExcludeDirs: []string{"tests"},
	})
	require.NoError(t, err)
	assert.Len(t, res.Scripts, 1)
}

func TestScan_ExcludeFilesGlob(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"app.js":      "",
		"app_test.js": "",
	})

	res, err := Scan(Options{Roots: []string{root}, ExcludeFiles: []string{"*_test.js"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js"}, relPaths(res.Scripts))
	assert.True(t, res.IsExcluded(filepath.Join(root, "app_test.js")))
}

func TestScan_BadGlobIsScanError(t *testing.T) {
	root := t.TempDir()

	_, err := Scan(Options{Roots: []string{root}, ExcludeFiles: []string{"[unclosed"}})
	require.Error(t, err)
	assert.True(t, IsScanError(err))
}

func TestScan_DirFilter(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"en.lproj/strings.js": "",
		"fr.lproj/strings.js": "",
	})

	res, err := Scan(Options{
		Roots:     []string{root},
		DirFilter: func(name string) bool { return name != "fr.lproj" },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"en.lproj/strings.js"}, relPaths(res.Scripts))
}

func TestScan_SeparatesResources(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"app.js":          "",
		"style/theme.css": "body {}",
		"README.md":       "ignored",
	})

	res, err := Scan(Options{Roots: []string{root}, ResourceExtensions: []string{".css"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js"}, relPaths(res.Scripts))
	require.Len(t, res.Resources, 1)
	assert.Equal(t, "style/theme.css", filepath.ToSlash(res.Resources[0].RelativePath))
	assert.Equal(t, "body {}", res.Resources[0].RawText)
}

func TestScan_SkipPaths(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"app.js":        "",
		"sc_imports.js": "import './app.js';",
	})

	res, err := Scan(Options{Roots: []string{root}, SkipPaths: []string{filepath.Join(root, "sc_imports.js")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js"}, relPaths(res.Scripts))
}

func TestScan_MultipleRootsDeduplicate(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"lib/a.js": "",
		"b.js":     "",
	})

	res, err := Scan(Options{Roots: []string{filepath.Join(root, "lib"), root}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.js", "b.js"}, relPaths(res.Scripts))
}

func TestScan_RecordsDirectories(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"widgets/": "",
	})

	res, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)
	assert.Contains(t, res.Dirs, filepath.Join(root, "widgets"))
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(Options{Roots: []string{filepath.Join(t.TempDir(), "nope")}})
	require.Error(t, err)

	var scanErr *Error
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "stat", scanErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_RootIsFile(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"a.js": ""})

	_, err := Scan(Options{Roots: []string{filepath.Join(root, "a.js")}})
	require.Error(t, err)
	assert.True(t, IsScanError(err))
}

func TestScan_UnreadableFileIsFatal(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := testutil.WriteTree(t, map[string]string{"a.js": "", "b.js": ""})
	require.NoError(t, os.Chmod(filepath.Join(root, "b.js"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "b.js"), 0o644) })

	_, err := Scan(Options{Roots: []string{root}})
	require.Error(t, err)

	var scanErr *Error
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "read", scanErr.Op)
}
