package expand

import "strconv"

// lowerSpec maps a plural specifier letter to its singular counterpart
// (e.g. 'B' -> 'b'). Only ever called with letters already confirmed to
// be in specTable with KindPlural, all of which have an ASCII-case
// singular twin.
func lowerSpec(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// ExpandDisplay substitutes %-specifiers for label/tooltip/icon/
// toolbar_label fields. Per spec.md §4.4 display mode is "singular form
// only" — even specifiers classified plural for execution purposes
// resolve against the first entry, with no shell quoting. %c still
// reports the true selection count.
func ExpandDisplay(template string, tokens *Tokens) string {
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
		if s, ok := specTable[next]; ok {
			// Display mode never enumerates: a plural specifier resolves
			// via its singular counterpart against the first entry (%B
			// behaves like %b, %D like %d, and so on).
			c := next
			if s.kind == KindPlural {
				c = lowerSpec(next)
			}
			b = append(b, []byte(singularValue(c, tokens, 0))...)
			continue
		}
		// Unknown sequence: passed through unchanged.
		b = append(b, '%', next)
	}
	return string(b)
}
