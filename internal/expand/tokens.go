// Package expand implements the token/parameter expansion engine
// (spec.md §4.4): display-mode and execution-mode substitution of %-token
// specifiers drawn from a selection, and the singular/plural dispatch
// rule that decides whether an execution-mode template renders once or
// once per selected entry.
package expand

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fma-project/fma-go/internal/selection"
)

// SpecKind classifies a %-specifier as singular (refers to the first
// entry only) or plural (enumerates the whole selection).
type SpecKind int

const (
	KindSingular SpecKind = iota
	KindPlural
)

// Tokens is the memoized view of a selection that the expander consults;
// spec.md §4.6 builds exactly one Tokens value per menu-request.
type Tokens struct {
	entries []selection.Info
}

// NewTokens builds a Tokens value from the resolved selection.
func NewTokens(entries []selection.Info) *Tokens {
	return &Tokens{entries: entries}
}

// Count returns the number of entries in the selection (%c).
func (t *Tokens) Count() int {
	return len(t.entries)
}

func (t *Tokens) at(i int) *selection.Info {
	if i < 0 || i >= len(t.entries) {
		return nil
	}
	return &t.entries[i]
}

func (t *Tokens) first() *selection.Info {
	return t.at(0)
}

type spec struct {
	kind  SpecKind
	quote bool // whether execution mode shell-quotes the substituted value
}

var specTable = map[byte]spec{
	'b': {KindSingular, true},
	'B': {KindPlural, true},
	'c': {KindPlural, false},
	'd': {KindSingular, true},
	'D': {KindPlural, true},
	'f': {KindSingular, true},
	'F': {KindPlural, true},
	'h': {KindSingular, false},
	'm': {KindSingular, false},
	'M': {KindPlural, false},
	'n': {KindSingular, false},
	'p': {KindSingular, false},
	's': {KindSingular, false},
	'u': {KindSingular, true},
	'U': {KindPlural, true},
	'w': {KindSingular, true},
	'W': {KindPlural, true},
	'x': {KindSingular, false},
	'X': {KindPlural, false},
}

// ClassifyFirstSpecifier scans template for the first %-specifier that
// refers to the selection (skipping %% literals and unknown sequences,
// neither of which "refers to the selection") and returns its kind. If
// none is found, it returns KindPlural, matching the "render once" default
// for templates with no selection reference at all.
func ClassifyFirstSpecifier(template string) SpecKind {
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			continue
		}
		next := template[i+1]
		if next == '%' {
			i++ // %% is a literal percent; never affects classification
			continue
		}
		if s, ok := specTable[next]; ok {
			return s.kind
		}
		i++ // unknown %X sequence: passed through, doesn't classify
	}
	return KindPlural
}

func basenameWithoutExt(basename string) string {
	ext := filepath.Ext(basename)
	return strings.TrimSuffix(basename, ext)
}

func extension(basename string) string {
	ext := filepath.Ext(basename)
	return strings.TrimPrefix(ext, ".")
}

// singularValue resolves a singular specifier against the entry at index
// focus (the "current" entry — entries[0] unless a per-entry dispatch is
// under way).
func singularValue(c byte, t *Tokens, focus int) string {
	e := t.at(focus)
	if e == nil {
		if c == 'c' {
			return strconv.Itoa(t.Count())
		}
		return ""
	}
	switch c {
	case 'b':
		return e.Basename
	case 'd':
		return e.Dirname
	case 'f':
		return e.Path
	case 'h':
		return e.Host
	case 'm':
		return e.MimeType
	case 'n':
		return e.User
	case 'p':
		return e.Port
	case 's':
		return e.Scheme
	case 'u':
		return e.URI
	case 'w':
		return basenameWithoutExt(e.Basename)
	case 'x':
		return extension(e.Basename)
	default:
		return ""
	}
}

// pluralValues resolves a plural specifier across the whole selection.
func pluralValues(c byte, t *Tokens) []string {
	if c == 'c' {
		return nil // %c never enumerates; handled by count, not a list
	}
	out := make([]string, len(t.entries))
	for i := range t.entries {
		e := &t.entries[i]
		switch c {
		case 'B':
			out[i] = e.Basename
		case 'D':
			out[i] = e.Dirname
		case 'F':
			out[i] = e.Path
		case 'M':
			out[i] = e.MimeType
		case 'U':
			out[i] = e.URI
		case 'W':
			out[i] = basenameWithoutExt(e.Basename)
		case 'X':
			out[i] = extension(e.Basename)
		}
	}
	return out
}
