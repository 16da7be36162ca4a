package manifest

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/sequencer"
	"github.com/sproutcore/sproutcore-sub001/internal/testutil"
)

// application is a small SproutCore-style app with locales, fixtures,
// tests, a debug folder and a stale manifest from an earlier build.
var application = map[string]string{
	"core.js":               "var App = {};",
	"module_info.js":        "",
	"main.js":               "sc_require('views/main_view');",
	"en.lproj/strings.js":   "",
	"en.lproj/main_page.js": "sc_require('views/main_view');",
	"fr.lproj/strings.js":   "",
	"views/main_view.js":    "sc_require('views/base');",
	"views/base.js":         "sc_require('fixtures/items');",
	"models/item.js":        "sc_require('core');",
	"models/item_test.js":   "sc_require('models/item');",
	"fixtures/items.js":     "sc_require('models/item');",
	"tests/item_test.js":    "sc_require('models/item');",
	"debug/inspector.js":    "",
	"resources/app.css":     "body {}",
	"sc_imports.js":         "sc_require('ghost');\nimport './stale.js';",
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestEmit_Production(t *testing.T) {
	root := testutil.WriteTree(t, application)

	plan, err := Emit(Options{Root: root, Mode: Production, Config: config.Default(), Logger: quiet()})
	require.NoError(t, err)

	data, err := os.ReadFile(testutil.Path(root, "sc_imports.js"))
	require.NoError(t, err)
	assert.Equal(t, plan.Render(), data)
	golden(t).Assert(t, "production", data)
}

func TestEmit_ProductionNeverIncludesFixtures(t *testing.T) {
	root := testutil.WriteTree(t, application)

	plan, err := Build(Options{Root: root, Mode: Production, Config: config.Default(), Logger: quiet()})
	require.NoError(t, err)

	for _, rel := range plan.RelativePaths() {
		assert.NotContains(t, rel, "fixtures/")
		assert.NotContains(t, rel, "tests/")
		assert.NotContains(t, rel, "debug/")
		assert.NotContains(t, rel, "_test.js")
	}
	require.Len(t, plan.Dropped, 1)
	assert.Equal(t, "fixtures/items", plan.Dropped[0].Raw)
}

func TestBuild_Development(t *testing.T) {
	root := testutil.WriteTree(t, application)

	plan, err := Build(Options{Root: root, Config: config.Default(), Logger: quiet()})
	require.NoError(t, err)

	assert.Equal(t, Development, plan.Mode)
	assert.Equal(t, []string{
		"./core.js",
		"./module_info.js",
		"./en.lproj/strings.js",
		"./debug/inspector.js",
		"./models/item.js",
		"./fixtures/items.js",
		"./views/base.js",
		"./views/main_view.js",
		"./en.lproj/main_page.js",
		"./main.js",
	}, plan.RelativePaths())
	assert.Empty(t, plan.Dropped)
}

func TestBuild_TestModeKeepsTests(t *testing.T) {
	root := testutil.WriteTree(t, application)

	plan, err := Build(Options{Root: root, Mode: Test, Config: config.Default(), Logger: quiet()})
	require.NoError(t, err)

	paths := plan.RelativePaths()
	assert.Contains(t, paths, "./tests/item_test.js")
	assert.Contains(t, paths, "./models/item_test.js")
	assert.Less(t, indexOf(paths, "./models/item.js"), indexOf(paths, "./tests/item_test.js"))
}

func TestBuild_LocaleSelection(t *testing.T) {
	root := testutil.WriteTree(t, application)

	tests := []struct {
		locale  string
		wantDir string
		want    string
		absent  string
	}{
		{locale: "", wantDir: "en.lproj", want: "./en.lproj/strings.js", absent: "./fr.lproj/strings.js"},
		{locale: "fr", wantDir: "fr.lproj", want: "./fr.lproj/strings.js", absent: "./en.lproj/strings.js"},
		{locale: "fr-CA", wantDir: "fr.lproj", want: "./fr.lproj/strings.js", absent: "./en.lproj/main_page.js"},
		{locale: "de", wantDir: "", want: "./core.js", absent: "./en.lproj/strings.js"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			plan, err := Build(Options{Root: root, Mode: Production, Locale: tt.locale, Config: config.Default(), Logger: quiet()})
			require.NoError(t, err)

			paths := plan.RelativePaths()
			assert.Equal(t, tt.wantDir, plan.LocaleDir)
			assert.Contains(t, paths, tt.want)
			assert.NotContains(t, paths, tt.absent)
		})
	}
}

func TestBuild_LocaleStringsLeadPageFilesTrail(t *testing.T) {
	root := testutil.WriteTree(t, application)

	plan, err := Build(Options{Root: root, Mode: Production, Locale: "fr", Config: config.Default(), Logger: quiet()})
	require.NoError(t, err)

	paths := plan.RelativePaths()
	assert.Equal(t, []string{"./core.js", "./module_info.js", "./fr.lproj/strings.js"}, paths[:3])
	assert.Equal(t, "./main.js", paths[len(paths)-1])
	assert.Equal(t, language.French, plan.Locale)
}

func TestBuild_ConfigFromRoot(t *testing.T) {
	root := testutil.WriteTree(t, application)
	testutil.AddFiles(t, root, map[string]string{
		"scload.yaml": "manifest:\n  filename: imports.js\n  aggregate_import: sproutcore\nresources: []\n",
	})
	// The old manifest is only skipped under its configured name.
	require.NoError(t, os.Remove(testutil.Path(root, "sc_imports.js")))

	plan, err := Emit(Options{Root: root, Mode: Production, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, testutil.Path(root, "imports.js"), plan.Path)

	data, err := os.ReadFile(plan.Path)
	require.NoError(t, err)
	golden(t).Assert(t, "aggregate", data)
}

func TestBuild_Errors(t *testing.T) {
	root := testutil.WriteTree(t, application)

	_, err := Build(Options{Root: root, Mode: "staging", Config: config.Default(), Logger: quiet()})
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = Build(Options{Root: root, Locale: "not a locale", Config: config.Default(), Logger: quiet()})
	assert.ErrorContains(t, err, "invalid locale")

	bad := testutil.WriteTree(t, map[string]string{"scload.yaml": "modes:\n  staging: {}\n"})
	_, err = Build(Options{Root: bad, Logger: quiet()})
	var cfgErr *config.Error
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuild_SequencingErrors(t *testing.T) {
	cyclic := testutil.WriteTree(t, map[string]string{
		"a.js": "sc_require('b');",
		"b.js": "sc_require('a');",
	})
	_, err := Build(Options{Root: cyclic, Config: config.Default(), Logger: quiet()})
	assert.True(t, sequencer.IsCycleError(err))

	missing := testutil.WriteTree(t, map[string]string{"a.js": "sc_require('nowhere');"})
	_, err = Build(Options{Root: missing, Config: config.Default(), Logger: quiet()})
	assert.True(t, sequencer.IsMissingDependency(err))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": Development, "development": Development, "test": Test, "production": Production} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("Production")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseLocale(t *testing.T) {
	tag, err := ParseLocale("")
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)

	tag, err = ParseLocale("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", tag.String())
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
