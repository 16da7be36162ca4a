// Package extract finds dependency directives in raw script text.
//
// Only one shape is recognized: the directive token immediately followed by
// a parenthesized, single- or double-quoted literal on one line, e.g.
//
//	sc_require('views/list');
//
// This is a pattern match over the text, not a parse. Directives inside
// block comments are ignored. Call-like uses of the token whose argument is
// anything else (a variable, a concatenation, an escaped or multi-line
// string) are reported as Diagnostics instead of being guessed at.
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sproutcore/sproutcore-sub001/internal/ir"
)

// Diagnostic flags a directive the extractor refused to interpret.
type Diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Message, d.Text)
}

// MalformedDirectiveError is returned in strict mode when any directive
// could not be interpreted.
type MalformedDirectiveError struct {
	Diagnostics []Diagnostic
}

func (e *MalformedDirectiveError) Error() string {
	if len(e.Diagnostics) == 1 {
		return "malformed directive: " + e.Diagnostics[0].String()
	}
	return fmt.Sprintf("%d malformed directives, first: %s", len(e.Diagnostics), e.Diagnostics[0].String())
}

// Result is what one file declares.
type Result struct {
	Refs        []ir.Ref
	Diagnostics []Diagnostic
}

// Extractor recognizes one directive token.
type Extractor struct {
	directive string
	extension string
	strict    bool

	valid *regexp.Regexp // token('literal')
	call  *regexp.Regexp // token( with anything after
}

// New creates an extractor for directive. Extension-less references get
// extension appended. In strict mode Extract fails on the first file with
// diagnostics.
func New(directive, extension string, strict bool) *Extractor {
	if extension == "" {
		extension = ir.DefaultExtension
	}
	token := `(?:^|[^\w$.])` + regexp.QuoteMeta(directive) + `\s*\(`
	return &Extractor{
		directive: directive,
		extension: extension,
		strict:    strict,
		valid:     regexp.MustCompile(token + `\s*(?:'([^'\\\n]*)'|"([^"\\\n]*)")\s*\)`),
		call:      regexp.MustCompile(token),
	}
}

// Directive returns the recognized token.
func (x *Extractor) Directive() string {
	return x.directive
}

// Extension returns the default script extension.
func (x *Extractor) Extension() string {
	return x.extension
}

// Extract returns the references declared in text, in source order.
// file is used for diagnostics only. References resolve against base when
// it is non-empty, otherwise against callerDir.
func (x *Extractor) Extract(file, text, callerDir, base string) (Result, error) {
	var res Result
	visible := stripBlockComments(text)

	for i, line := range strings.Split(visible, "\n") {
		calls := x.call.FindAllStringIndex(line, -1)
		if len(calls) == 0 {
			continue
		}
		matches := x.valid.FindAllStringSubmatch(line, -1)
		for _, m := range matches {
			arg := m[1]
			if arg == "" {
				arg = m[2]
			}
			if arg == "" {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					File: file, Line: i + 1, Text: strings.TrimSpace(line),
					Message: "empty reference",
				})
				continue
			}
			res.Refs = append(res.Refs, x.Normalize(arg, callerDir, base))
		}
		if len(calls) > len(matches) {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				File: file, Line: i + 1, Text: strings.TrimSpace(line),
				Message: fmt.Sprintf("%s argument is not a single quoted literal", x.directive),
			})
		}
	}

	if x.strict && len(res.Diagnostics) > 0 {
		return res, &MalformedDirectiveError{Diagnostics: res.Diagnostics}
	}
	return res, nil
}

// Normalize turns a raw directive argument into a Ref. A trailing
// separator keeps it a folder reference; otherwise the default extension
// is appended when missing.
func (x *Extractor) Normalize(raw, callerDir, base string) ir.Ref {
	resolved := Resolve(raw, callerDir, base)
	if ir.IsFolder(raw) {
		return ir.Ref{Raw: raw, Target: ir.FolderIdentity(resolved), Folder: true}
	}
	return ir.Ref{Raw: raw, Target: ir.Identity(resolved, x.extension)}
}

// Resolve joins raw onto base, or onto callerDir when base is empty.
// Absolute references are kept. No extension is appended.
func Resolve(raw, callerDir, base string) string {
	p := filepath.FromSlash(raw)
	if filepath.IsAbs(p) {
		return ir.Identity(p, "")
	}
	dir := callerDir
	if base != "" {
		dir = base
	}
	return ir.Identity(filepath.Join(dir, p), "")
}

// stripBlockComments blanks out /* ... */ regions, keeping newlines so line
// numbers survive.
func stripBlockComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inComment := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case !inComment && c == '/' && i+1 < len(text) && text[i+1] == '*':
			inComment = true
			b.WriteString("  ")
			i++
		case inComment && c == '*' && i+1 < len(text) && text[i+1] == '/':
			inComment = false
			b.WriteString("  ")
			i++
		case inComment && c != '\n':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
