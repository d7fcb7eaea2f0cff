package rewrite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectRule(t *testing.T) {
	tests := []struct {
		name      string
		paramType string
		wantRule  string
	}{
		{"update comment intersection", "UpdateCommentRequest & { id: number }", "update_comment_request"},
		{"update media intersection wins over bare id object", "UpdateMediaRequest & { id: number }", "update_media_request"},
		{"upload media intersection", "UploadMediaRequest & { file_path: string }", "upload_media_request"},
		{"id and force object", "{ id: number; force?: boolean }", "id_force_object"},
		{"id object", "{ id: number }", "id_object"},
		{"create comment request", "CreateCommentRequest", "create_comment_request"},
		{"comment query params", "CommentQueryParams", "comment_query_params"},
		{"unrecognized type falls back to generic", "SomeCustomType", "generic"},
		{"whitespace does not change selection", "{id:number;force?:boolean}", "id_force_object"},
		{"multiline layout does not change selection", "UpdateCommentRequest &\n      { id: number }", "update_comment_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectRule(tt.paramType)
			if got.Name != tt.wantRule {
				t.Errorf("SelectRule(%q) = %q, want %q", tt.paramType, got.Name, tt.wantRule)
			}
		})
	}
}

func TestSelectRule_Deterministic(t *testing.T) {
	paramType := "UpdateMediaRequest & { id: number }"
	first := SelectRule(paramType)
	firstStmt := first.Render(paramType)

	for i := 0; i < 100; i++ {
		r := SelectRule(paramType)
		if r.Name != first.Name {
			t.Fatalf("run %d selected %q, first run selected %q", i, r.Name, first.Name)
		}
		if stmt := r.Render(paramType); stmt != firstStmt {
			t.Fatalf("run %d rendered %q, first run rendered %q", i, stmt, firstStmt)
		}
	}
}

func TestRule_Render(t *testing.T) {
	tests := []struct {
		name      string
		paramType string
		want      string
	}{
		{
			name:      "destructure renders fragment cast",
			paramType: "{ id: number; force?: boolean }",
			want:      "const { id, force } = params as { id: number; force?: boolean };",
		},
		{
			name:      "single field destructure",
			paramType: "{ id: number }",
			want:      "const { id } = params as { id: number };",
		},
		{
			name:      "aggregate renders fragment cast",
			paramType: "CreateCommentRequest",
			want:      "const typedParams = params as CreateCommentRequest;",
		},
		{
			name:      "generic casts declared type verbatim",
			paramType: "  SomeCustomType  ",
			want:      "const typedParams = params as SomeCustomType;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SelectRule(tt.paramType)
			if got := r.Render(tt.paramType); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRule_Bindings(t *testing.T) {
	tests := []struct {
		paramType string
		want      []string
	}{
		{"{ id: number; force?: boolean }", []string{"id", "force"}},
		{"{ id: number }", []string{"id"}},
		{"CreateCommentRequest", []string{"typedParams"}},
		{"SomethingUnknown", []string{"typedParams"}},
	}

	for _, tt := range tests {
		got := SelectRule(tt.paramType).Bindings()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Bindings(%q) mismatch (-want +got):\n%s", tt.paramType, diff)
		}
	}
}

func TestRules_TerminalCatchAll(t *testing.T) {
	last := Rules[len(Rules)-1]
	if last.Fragment != "" {
		t.Errorf("last rule must be the catch-all, got fragment %q", last.Fragment)
	}
	if last.Aggregate == "" {
		t.Error("catch-all must bind an aggregate name")
	}
	for _, r := range Rules[:len(Rules)-1] {
		if r.Fragment == "" {
			t.Errorf("rule %q has no fragment but is not last", r.Name)
		}
	}
}
