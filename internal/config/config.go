package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/sproutcore/sproutcore-sub001/internal/ir"
)

// FileName is the project config file looked up in a root directory.
const FileName = "scload.yaml"

//go:embed schema.cue
var schemaSource string

// Config holds the naming conventions and exclusion rules of a project.
type Config struct {
	Extension        string   `yaml:"extension" json:"extension"`
	Directive        string   `yaml:"directive" json:"directive"`
	StrictDirectives bool     `yaml:"strict_directives" json:"strict_directives"`
	Bootstrap        string   `yaml:"bootstrap" json:"bootstrap"`
	Metadata         string   `yaml:"metadata" json:"metadata"`
	Main             string   `yaml:"main" json:"main"`
	PageSuffix       string   `yaml:"page_suffix" json:"page_suffix"`
	LocaleSuffix     string   `yaml:"locale_suffix" json:"locale_suffix"`
	Resources        []string `yaml:"resources" json:"resources"`
	Manifest         Manifest `yaml:"manifest" json:"manifest"`
	Modes            Modes    `yaml:"modes" json:"modes"`
	Runtime          Runtime  `yaml:"runtime" json:"runtime"`
}

// Manifest configures the generated import manifest.
type Manifest struct {
	Filename        string `yaml:"filename" json:"filename"`
	AggregateImport string `yaml:"aggregate_import" json:"aggregate_import"`
}

// ModeRule lists what a build mode leaves out of the scan.
type ModeRule struct {
	ExcludeDirs  []string `yaml:"exclude_dirs" json:"exclude_dirs"`
	ExcludeFiles []string `yaml:"exclude_files" json:"exclude_files"` // globs on the base name
}

// Modes holds one rule per build mode.
type Modes struct {
	Development ModeRule `yaml:"development" json:"development"`
	Test        ModeRule `yaml:"test" json:"test"`
	Production  ModeRule `yaml:"production" json:"production"`
}

// Rule returns the rule for a mode name.
func (m Modes) Rule(name string) (ModeRule, bool) {
	switch name {
	case "development":
		return m.Development, true
	case "test":
		return m.Test, true
	case "production":
		return m.Production, true
	default:
		return ModeRule{}, false
	}
}

// Runtime configures standalone execution.
type Runtime struct {
	ExcludeDirs []string `yaml:"exclude_dirs" json:"exclude_dirs"`
	Host        Host     `yaml:"host" json:"host"`
}

// Host describes the platform reported to scripts through navigator.
type Host struct {
	Platform string `yaml:"platform" json:"platform"`
	Version  string `yaml:"version" json:"version"`
	Language string `yaml:"language" json:"language"`
}

// Default returns the built-in conventions.
func Default() *Config {
	return &Config{
		Extension:    ir.DefaultExtension,
		Directive:    "sc_require",
		Bootstrap:    "core.js",
		Metadata:     "module_info.js",
		Main:         "main.js",
		PageSuffix:   "_page.js",
		LocaleSuffix: ".lproj",
		Resources:    []string{".css"},
		Manifest: Manifest{
			Filename: "sc_imports.js",
		},
		Modes: Modes{
			Development: ModeRule{
				ExcludeDirs:  []string{".git", "node_modules", "tests"},
				ExcludeFiles: []string{"*_test.js"},
			},
			Test: ModeRule{
				ExcludeDirs: []string{".git", "node_modules"},
			},
			Production: ModeRule{
				ExcludeDirs:  []string{".git", "node_modules", "tests", "fixtures", "debug"},
				ExcludeFiles: []string{"*_test.js"},
			},
		},
		Runtime: Runtime{
			ExcludeDirs: []string{".git", "node_modules", "tests", "fixtures"},
			Host: Host{
				Platform: "scload",
				Version:  ir.Version,
				Language: "en-US",
			},
		},
	}
}

// Error reports an invalid config file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads FileName from dir. A missing file yields Default().
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse validates data against the schema and decodes it over Default().
func Parse(data []byte) (*Config, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

// validate unifies the raw document with the #Config definition. The
// definition is closed, so unknown keys fail here too.
func validate(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	value := def.Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
