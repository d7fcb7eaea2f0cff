// Package rewrite normalizes TypeScript tool handler signatures.
// It locates handler-shaped method declarations, rewrites their parameter
// type to the canonical untyped form, inserts a type-narrowing statement at
// the top of each method body, and repairs in-body parameter references.
package rewrite

import "time"

// CanonicalType is the untyped parameter form all handlers are normalized to.
const CanonicalType = "Record<string, unknown>"

// FileState describes the terminal state of a processed file.
type FileState string

const (
	// FileUnchanged means no qualifying declaration was found, or the
	// pipeline output was byte-identical to the input.
	FileUnchanged FileState = "unchanged"
	// FileRewritten means the file content changed and was persisted
	// (or would have been, in dry-run mode).
	FileRewritten FileState = "rewritten"
	// FileFailed means the file could not be read or written back.
	FileFailed FileState = "failed"
)

// Declaration is a handler-shaped method declaration located in file text.
// All offsets are byte offsets into the text it was matched against; a
// Declaration is transient and invalidated by any edit before its spans.
type Declaration struct {
	Method    string // method name, e.g. "handleGet"
	ParamType string // raw declared type of the params argument
	Start     int    // offset of the "public" introducer
	TypeStart int    // span of the params type annotation
	TypeEnd   int
	HeaderEnd int // offset just past the async-result return type
	BodyOpen  int // offset of the body-opening '{', -1 when absent
	BodyEnd   int // offset just past the matching '}', -1 when unbalanced
}

// Fix records one normalized declaration.
type Fix struct {
	Method   string   `json:"method"`
	FromType string   `json:"fromType"`
	Rule     string   `json:"rule"`
	Bindings []string `json:"bindings"`
}

// FileResult is the outcome for a single file.
type FileResult struct {
	Path    string    `json:"path"`
	State   FileState `json:"state"`
	Fixes   []Fix     `json:"fixes,omitempty"`
	Skipped []string  `json:"skipped,omitempty"` // methods left untouched (no insertion point)
	Error   string    `json:"error,omitempty"`
}

// RunSummary provides aggregate statistics for a run.
type RunSummary struct {
	FilesScanned        int `json:"filesScanned"`
	FilesRewritten      int `json:"filesRewritten"`
	FilesFailed         int `json:"filesFailed"`
	DeclarationsFixed   int `json:"declarationsFixed"`
	DeclarationsSkipped int `json:"declarationsSkipped"`
}

// Options configures a rewrite run.
type Options struct {
	Dir          string   `json:"dir"`
	Extension    string   `json:"extension"`
	Recursive    bool     `json:"recursive"`
	Exclude      []string `json:"exclude,omitempty"`
	ClientType   string   `json:"clientType"`
	MethodPrefix string   `json:"methodPrefix"`
	DryRun       bool     `json:"dryRun,omitempty"`
}

// withDefaults fills unset fields with the built-in defaults.
func (o Options) withDefaults() Options {
	if o.Extension == "" {
		o.Extension = ".ts"
	}
	if o.ClientType == "" {
		o.ClientType = "WordPressClient"
	}
	if o.MethodPrefix == "" {
		o.MethodPrefix = "handle"
	}
	return o
}

// RunResult contains the complete outcome of one rewrite run.
type RunResult struct {
	RunID     string       `json:"runId"`
	Dir       string       `json:"dir"`
	StartedAt time.Time    `json:"startedAt"`
	Duration  string       `json:"duration"`
	Options   Options      `json:"options"`
	Files     []FileResult `json:"files"`
	Summary   RunSummary   `json:"summary"`
}
