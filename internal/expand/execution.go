package expand

import (
	"strconv"
	"strings"
)

// shellQuote wraps s in single quotes for POSIX sh, rewriting each
// embedded single quote as a closing quote, a backslash-escaped quote
// and a reopening quote.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ExpandOnce renders template once, with singular specifiers resolved
// against tokens.entries[focus] and plural specifiers enumerating the
// entire selection, shell-quoting whatever spec.md §9 calls out as
// path/basename-ish (see specTable's quote flag).
func ExpandOnce(template string, tokens *Tokens, focus int) string {
	var b []byte
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			b = append(b, c)
			continue
		}
		next := template[i+1]
		i++
		if next == '%' {
			b = append(b, '%')
			continue
		}
		if next == 'c' {
			b = append(b, []byte(strconv.Itoa(tokens.Count()))...)
			continue
		}
		s, ok := specTable[next]
		if !ok {
			b = append(b, '%', next)
			continue
		}
		if s.kind == KindSingular {
			v := singularValue(next, tokens, focus)
			if s.quote {
				v = shellQuote(v)
			}
			b = append(b, []byte(v)...)
			continue
		}
		values := pluralValues(next, tokens)
		if s.quote {
			for i := range values {
				values[i] = shellQuote(values[i])
			}
		}
		b = append(b, []byte(strings.Join(values, " "))...)
	}
	return string(b)
}

// ClassifyCommand determines the singular/plural dispatch kind for an
// activation, per spec.md §4.4: "If the first specifier in `parameters`
// (or `path`) that refers to the selection is singular...". `parameters`
// is scanned first since it is where a selection reference is normally
// written; if it contains none, `path` is consulted.
func ClassifyCommand(parameters, path string) SpecKind {
	if hasSelectionReference(parameters) {
		return ClassifyFirstSpecifier(parameters)
	}
	return ClassifyFirstSpecifier(path)
}

func hasSelectionReference(template string) bool {
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			continue
		}
		next := template[i+1]
		if next == '%' {
			i++
			continue
		}
		if _, ok := specTable[next]; ok {
			return true
		}
		i++
	}
	return false
}

// RenderCommand applies ClassifyCommand's dispatch decision to render the
// full command once per selected entry (singular dispatch) or exactly
// once against the whole selection (plural dispatch / no reference),
// rendering workingDir/path/parameters together per invocation so that a
// per-entry dispatch keeps all three fields focused on the same entry.
type Rendered struct {
	WorkingDir string
	Path       string
	Parameters string
}

func RenderCommand(workingDir, path, parameters string, tokens *Tokens) []Rendered {
	if ClassifyCommand(parameters, path) == KindSingular && tokens.Count() > 0 {
		out := make([]Rendered, tokens.Count())
		for i := range tokens.entries {
			out[i] = Rendered{
				WorkingDir: ExpandOnce(workingDir, tokens, i),
				Path:       ExpandOnce(path, tokens, i),
				Parameters: ExpandOnce(parameters, tokens, i),
			}
		}
		return out
	}
	return []Rendered{{
		WorkingDir: ExpandOnce(workingDir, tokens, 0),
		Path:       ExpandOnce(path, tokens, 0),
		Parameters: ExpandOnce(parameters, tokens, 0),
	}}
}
