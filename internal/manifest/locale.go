package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is given.
var DefaultLocale = language.English

// ErrInvalidLocale is returned by ParseLocale for tags that do not parse.
var ErrInvalidLocale = errors.New("invalid locale")

// ParseLocale validates a BCP-47 tag. The empty string means DefaultLocale.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return DefaultLocale, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %w", ErrInvalidLocale, s, err)
	}
	return tag, nil
}

// localeDir picks the directory name serving tag below root: the exact
// tag first, then its base language. It returns "" when neither exists.
func localeDir(root string, tag language.Tag, suffix string) string {
	candidates := []string{tag.String() + suffix}
	if base, _ := tag.Base(); base.String() != tag.String() {
		candidates = append(candidates, base.String()+suffix)
	}
	for _, name := range candidates {
		if info, err := os.Stat(filepath.Join(root, name)); err == nil && info.IsDir() {
			return name
		}
	}
	return ""
}

// localeFilter keeps every directory except locale directories other
// than active.
func localeFilter(active, suffix string) func(name string) bool {
	return func(name string) bool {
		if !strings.HasSuffix(name, suffix) {
			return true
		}
		return name == active
	}
}
