package rewrite

import "strings"

// Rule pairs a recognizable declared-type fragment with the narrowing
// statement it renders. Rules are evaluated in order, most specific first;
// the final entry has an empty Fragment and acts as the catch-all.
type Rule struct {
	Name      string   `json:"name" yaml:"name"`
	Fragment  string   `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Fields    []string `json:"fields,omitempty" yaml:"fields,omitempty"`       // destructured bindings
	Aggregate string   `json:"aggregate,omitempty" yaml:"aggregate,omitempty"` // aggregate binding
}

// Rules is the built-in assertion rule table. It is fixed configuration:
// constructed once, never mutated at runtime, not user-supplied.
var Rules = []Rule{
	{
		Name:      "update_comment_request",
		Fragment:  "UpdateCommentRequest & { id: number }",
		Aggregate: "typedParams",
	},
	{
		Name:      "update_media_request",
		Fragment:  "UpdateMediaRequest & { id: number }",
		Aggregate: "typedParams",
	},
	{
		Name:      "upload_media_request",
		Fragment:  "UploadMediaRequest & { file_path: string }",
		Aggregate: "typedParams",
	},
	{
		Name:     "id_force_object",
		Fragment: "{ id: number; force?: boolean }",
		Fields:   []string{"id", "force"},
	},
	{
		Name:     "id_object",
		Fragment: "{ id: number }",
		Fields:   []string{"id"},
	},
	{
		Name:      "create_comment_request",
		Fragment:  "CreateCommentRequest",
		Aggregate: "typedParams",
	},
	{
		Name:      "comment_query_params",
		Fragment:  "CommentQueryParams",
		Aggregate: "typedParams",
	},
	{
		Name:      "generic",
		Aggregate: "typedParams",
	},
}

// SelectRule returns the first rule whose fragment occurs in paramType.
// Matching ignores whitespace so formatting differences in the source do
// not change rule selection. The terminal catch-all always matches.
func SelectRule(paramType string) Rule {
	return selectRule(Rules, paramType)
}

func selectRule(rules []Rule, paramType string) Rule {
	needle := stripSpace(paramType)
	for _, r := range rules {
		if r.Fragment == "" || strings.Contains(needle, stripSpace(r.Fragment)) {
			return r
		}
	}
	return rules[len(rules)-1]
}

// Render returns the narrowing statement for a declaration whose parameter
// was declared as paramType. The catch-all casts to the declared type
// verbatim; specific rules cast to their fragment text.
func (r Rule) Render(paramType string) string {
	castType := r.Fragment
	if castType == "" {
		castType = strings.TrimSpace(paramType)
	}
	if len(r.Fields) > 0 {
		return "const { " + strings.Join(r.Fields, ", ") + " } = params as " + castType + ";"
	}
	return "const " + r.Aggregate + " = params as " + castType + ";"
}

// Bindings returns the names the rendered statement introduces.
func (r Rule) Bindings() []string {
	names := make([]string, 0, len(r.Fields)+1)
	names = append(names, r.Fields...)
	if r.Aggregate != "" {
		names = append(names, r.Aggregate)
	}
	return names
}

// stripSpace removes all whitespace from s.
func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
