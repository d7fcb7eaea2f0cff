package rewrite

import (
	"regexp"
	"strings"
)

// asyncResultRe matches the return type annotation that must follow the
// parameter list for a declaration to be handler-shaped.
var asyncResultRe = regexp.MustCompile(`^\s*:\s*Promise\s*<\s*unknown\s*>`)

// paramsArgRe matches the second parameter up to the start of its type text.
var paramsArgRe = regexp.MustCompile(`^\s*params\s*:\s*`)

// matchDeclarations scans file text for handler-shaped method declarations
// whose params type is not already the canonical untyped form. Matching is
// structural over raw text: the introducer tokens must appear in order with
// arbitrary whitespace between them, and spans are resolved by balancing
// nested delimiters rather than by pattern alone. Declarations whose body
// cannot be located are still returned, with BodyOpen/BodyEnd set to -1.
func matchDeclarations(text, clientType, prefix string) []Declaration {
	introRe := regexp.MustCompile(`public\s+async\s+(` + regexp.QuoteMeta(prefix) + `\w+)\s*\(`)
	clientArgRe := regexp.MustCompile(`^client\s*:\s*` + regexp.QuoteMeta(clientType) + `$`)

	var decls []Declaration
	for _, m := range introRe.FindAllStringSubmatchIndex(text, -1) {
		openParen := m[1] - 1 // introducer pattern ends at '('
		closeParen := matchDelim(text, openParen)
		if closeParen < 0 {
			continue
		}

		args := text[openParen+1 : closeParen]
		commas := topLevelCommas(args)
		if len(commas) != 1 {
			continue
		}
		if !clientArgRe.MatchString(strings.TrimSpace(args[:commas[0]])) {
			continue
		}

		second := args[commas[0]+1:]
		pm := paramsArgRe.FindStringIndex(second)
		if pm == nil {
			continue
		}
		typeStart := openParen + 1 + commas[0] + 1 + pm[1]
		typeEnd := closeParen
		for typeEnd > typeStart && isSpace(text[typeEnd-1]) {
			typeEnd--
		}
		if typeEnd == typeStart {
			continue
		}
		paramType := text[typeStart:typeEnd]
		if stripSpace(paramType) == stripSpace(CanonicalType) {
			continue // already canonical
		}

		rm := asyncResultRe.FindStringIndex(text[closeParen+1:])
		if rm == nil {
			continue
		}

		d := Declaration{
			Method:    text[m[2]:m[3]],
			ParamType: paramType,
			Start:     m[0],
			TypeStart: typeStart,
			TypeEnd:   typeEnd,
			HeaderEnd: closeParen + 1 + rm[1],
			BodyOpen:  -1,
			BodyEnd:   -1,
		}

		i := d.HeaderEnd
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		if i < len(text) && text[i] == '{' {
			if end := matchDelim(text, i); end >= 0 {
				d.BodyOpen = i
				d.BodyEnd = end + 1
			}
		}

		decls = append(decls, d)
	}
	return decls
}

// matchDelim returns the index of the delimiter closing the one at open, or
// -1 when the text ends first. String and template literals and comments
// are skipped so delimiters inside them do not affect the balance.
func matchDelim(text string, open int) int {
	var closing byte
	switch text[open] {
	case '(':
		closing = ')'
	case '{':
		closing = '}'
	case '[':
		closing = ']'
	default:
		return -1
	}
	opening := text[open]

	depth := 0
	i := open
	for i < len(text) {
		switch c := text[i]; c {
		case '\'', '"', '`':
			i = skipStringLiteral(text, i)
		case '/':
			if next := skipComment(text, i); next > i {
				i = next
			} else {
				i++
			}
		case opening:
			depth++
			i++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
			i++
		default:
			i++
		}
	}
	return -1
}

// topLevelCommas returns the offsets of commas in s at nesting depth zero,
// counting (), {}, [] and generic <> pairs. The '>' of an arrow (=>) does
// not close an angle pair.
func topLevelCommas(s string) []int {
	var out []int
	depth, angle := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'', '"', '`':
			i = skipStringLiteral(s, i) - 1
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '<':
			angle++
		case '>':
			if angle > 0 && s[i-1] != '=' {
				angle--
			}
		case ',':
			if depth == 0 && angle == 0 {
				out = append(out, i)
			}
		}
	}
	return out
}

// skipStringLiteral advances past the string or template literal starting
// at i and returns the index just after its closing quote.
func skipStringLiteral(text string, i int) int {
	quote := text[i]
	i++
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return i
}

// skipComment advances past a // or /* comment starting at i, or returns i
// unchanged when i does not start a comment.
func skipComment(text string, i int) int {
	if i+1 >= len(text) || text[i] != '/' {
		return i
	}
	switch text[i+1] {
	case '/':
		for i < len(text) && text[i] != '\n' {
			i++
		}
		return i
	case '*':
		end := strings.Index(text[i+2:], "*/")
		if end < 0 {
			return len(text)
		}
		return i + 2 + end + 2
	}
	return i
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(text string, offset int) string {
	ls := strings.LastIndexByte(text[:offset], '\n') + 1
	i := ls
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return text[ls:i]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
