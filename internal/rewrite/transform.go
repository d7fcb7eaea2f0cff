package rewrite

import (
	"errors"
	"regexp"
	"strings"
)

// errNoInsertionPoint means a matched declaration has no body opening brace
// to insert the narrowing statement after. The declaration is skipped
// atomically: neither its header nor its body is touched.
var errNoInsertionPoint = errors.New("no insertion point in method body")

// callSiteRe matches collaborator calls that pass the raw parameter
// wholesale, e.g. client.updateComment(params).
var callSiteRe = regexp.MustCompile(`\bclient\.(\w+)\(\s*params\s*\)`)

// fixDeclaration applies the full transform to one declaration: the header
// parameter type becomes CanonicalType, the rule's narrowing statement is
// inserted as the very first body statement (before any existing statement,
// including a leading try block), and in-body references to the raw
// parameter are repaired to the rule's bindings. Edits never cross the
// declaration's body span. The input text is not mutated.
func fixDeclaration(text string, d Declaration, r Rule) (string, Fix, error) {
	if d.BodyOpen < 0 || d.BodyEnd <= d.BodyOpen {
		return text, Fix{}, errNoInsertionPoint
	}

	body := repairReferences(text[d.BodyOpen+1 : d.BodyEnd-1], r)
	indent := lineIndent(text, d.Start) + "  "

	var b strings.Builder
	b.Grow(len(text) + 64)
	b.WriteString(text[:d.TypeStart])
	b.WriteString(CanonicalType)
	b.WriteString(text[d.TypeEnd : d.BodyOpen+1])
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(r.Render(d.ParamType))
	b.WriteString(body)
	b.WriteString(text[d.BodyEnd-1:])

	fix := Fix{
		Method:   d.Method,
		FromType: strings.TrimSpace(d.ParamType),
		Rule:     r.Name,
		Bindings: r.Bindings(),
	}
	return b.String(), fix, nil
}

// repairReferences rewrites raw-parameter accesses inside one method body.
// Sub-field accesses consumed by the rule become bare binding references
// (params.id -> id); wholesale collaborator call-sites are redirected to
// the aggregate binding when the rule introduces one.
func repairReferences(body string, r Rule) string {
	for _, f := range r.Fields {
		re := regexp.MustCompile(`\bparams\.` + regexp.QuoteMeta(f) + `\b`)
		body = re.ReplaceAllString(body, f)
	}
	if r.Aggregate != "" {
		body = callSiteRe.ReplaceAllString(body, "client.$1("+r.Aggregate+")")
	}
	return body
}
