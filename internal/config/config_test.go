package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	dir := t.TempDir()
	content := `
directive: require
manifest:
  aggregate_import: sproutcore
modes:
  production:
    exclude_dirs: [fixtures, sandbox]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "require", cfg.Directive)
	assert.Equal(t, "sproutcore", cfg.Manifest.AggregateImport)
	assert.Equal(t, "sc_imports.js", cfg.Manifest.Filename, "unset sibling keeps its default")
	assert.Equal(t, []string{"fixtures", "sandbox"}, cfg.Modes.Production.ExcludeDirs)
	assert.Equal(t, []string{"*_test.js"}, cfg.Modes.Production.ExcludeFiles)
	assert.Equal(t, Default().Modes.Development, cfg.Modes.Development)
	assert.Equal(t, ".js", cfg.Extension)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_RejectsUnknownKey(t *testing.T) {
	_, err := Parse([]byte("directiv: sc_require\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestParse_RejectsBadExtension(t *testing.T) {
	_, err := Parse([]byte("extension: js\n"))
	require.Error(t, err)
}

func TestParse_RejectsBadDirectiveToken(t *testing.T) {
	_, err := Parse([]byte("directive: \"sc-require\"\n"))
	require.Error(t, err)
}

func TestParse_RejectsWrongType(t *testing.T) {
	_, err := Parse([]byte("strict_directives: \"yes\"\n"))
	require.Error(t, err)
}

func TestParse_RejectsUnknownMode(t *testing.T) {
	_, err := Parse([]byte("modes:\n  staging:\n    exclude_dirs: [x]\n"))
	require.Error(t, err)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("directive: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestLoad_WrapsErrorWithPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("bogus: 1\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, filepath.Join(dir, FileName), cfgErr.Path)
}

func TestModes_Rule(t *testing.T) {
	m := Default().Modes

	rule, ok := m.Rule("production")
	require.True(t, ok)
	assert.Contains(t, rule.ExcludeDirs, "fixtures")

	rule, ok = m.Rule("development")
	require.True(t, ok)
	assert.Contains(t, rule.ExcludeDirs, "tests")
	assert.NotContains(t, rule.ExcludeDirs, "fixtures")

	_, ok = m.Rule("staging")
	assert.False(t, ok)
}
