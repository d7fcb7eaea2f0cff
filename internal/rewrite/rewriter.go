package rewrite

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"handlerfix/internal/slogutil"
)

// skipDirNames are directories never descended into during recursive runs.
var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// Rewriter runs the signature normalization pipeline over a file set.
type Rewriter struct {
	logger *slog.Logger
	rules  []Rule
}

// New creates a Rewriter. A nil logger discards all output.
func New(logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Rewriter{logger: logger, rules: Rules}
}

// Run processes every candidate file under opts.Dir sequentially. Files are
// read once and written back only when the pipeline output differs from the
// input. Per-file and per-declaration failures are reported and skipped;
// only an inaccessible target directory aborts the run.
func (rw *Rewriter) Run(opts Options) (*RunResult, error) {
	start := time.Now()
	opts = opts.withDefaults()

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("target directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("target directory: %s is not a directory", opts.Dir)
	}

	files, err := rw.findFiles(opts)
	if err != nil {
		return nil, fmt.Errorf("enumerate files: %w", err)
	}

	result := &RunResult{
		RunID:     uuid.New().String(),
		Dir:       opts.Dir,
		StartedAt: start,
		Options:   opts,
	}

	for _, path := range files {
		result.Files = append(result.Files, rw.processFile(path, opts))
	}

	for _, fr := range result.Files {
		result.Summary.FilesScanned++
		switch fr.State {
		case FileRewritten:
			result.Summary.FilesRewritten++
		case FileFailed:
			result.Summary.FilesFailed++
		}
		result.Summary.DeclarationsFixed += len(fr.Fixes)
		result.Summary.DeclarationsSkipped += len(fr.Skipped)
	}

	result.Duration = time.Since(start).String()
	return result, nil
}

// processFile runs the per-file pipeline: read, rewrite, write-iff-changed.
func (rw *Rewriter) processFile(path string, opts Options) FileResult {
	rel, err := filepath.Rel(opts.Dir, path)
	if err != nil || rel == "" {
		rel = path
	}
	fr := FileResult{Path: rel}

	rw.logger.Info("Processing " + rel)

	data, err := os.ReadFile(path)
	if err != nil {
		rw.logger.Warn("Failed to read file", "file", rel, "error", err)
		fr.State = FileFailed
		fr.Error = err.Error()
		return fr
	}

	content := string(data)
	newContent, fixes, skipped := rw.RewriteFile(content, opts)
	fr.Fixes = fixes
	fr.Skipped = skipped

	if newContent == content {
		fr.State = FileUnchanged
		return fr
	}

	fr.State = FileRewritten
	if opts.DryRun {
		rw.logger.Info("Would update "+rel, "fixes", len(fixes))
		return fr
	}

	mode := fs.FileMode(0644)
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode()
	}
	if err := os.WriteFile(path, []byte(newContent), mode); err != nil {
		rw.logger.Warn("Failed to write file", "file", rel, "error", err)
		fr.State = FileFailed
		fr.Error = err.Error()
		return fr
	}

	rw.logger.Info("Updated "+rel, "fixes", len(fixes))
	return fr
}

// RewriteFile applies the pipeline to one file's text and returns the new
// text, the fixes applied, and the methods skipped because no insertion
// point could be located. The transform is idempotent: canonicalized
// declarations no longer match, so applying the result again is a no-op.
func (rw *Rewriter) RewriteFile(content string, opts Options) (string, []Fix, []string) {
	opts = opts.withDefaults()

	var fixes []Fix
	var skipped []string
	numSkipped := 0

	// One declaration per iteration: every edit invalidates the remaining
	// spans, so the file is rescanned after each fix. Fixed declarations
	// become canonical and drop out of the match set; skipped ones stay in
	// place, so the first numSkipped matches are always the skipped ones.
	for {
		decls := matchDeclarations(content, opts.ClientType, opts.MethodPrefix)
		if numSkipped >= len(decls) {
			break
		}
		next := decls[numSkipped]

		rule := selectRule(rw.rules, next.ParamType)
		newContent, fix, err := fixDeclaration(content, next, rule)
		if err != nil || newContent == content {
			if err == nil {
				err = errNoInsertionPoint
			}
			rw.logger.Warn("Skipping "+next.Method, "error", err)
			skipped = append(skipped, next.Method)
			numSkipped++
			continue
		}

		rw.logger.Info("Fixing "+next.Method, "paramType", fix.FromType, "rule", rule.Name)
		content = newContent
		fixes = append(fixes, fix)
	}

	return content, fixes, skipped
}

// findFiles enumerates candidate files. The default traversal is the flat
// directory listing; Recursive walks the tree with the usual skip-list.
func (rw *Rewriter) findFiles(opts Options) ([]string, error) {
	if !opts.Recursive {
		entries, err := os.ReadDir(opts.Dir)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if rw.isCandidate(e.Name(), e.Name(), opts) {
				files = append(files, filepath.Join(opts.Dir, e.Name()))
			}
		}
		return files, nil
	}

	var files []string
	err := filepath.Walk(opts.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip inaccessible
		}
		if info.IsDir() {
			if skipDirNames[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(opts.Dir, path)
		if relErr != nil {
			rel = info.Name()
		}
		if rw.isCandidate(info.Name(), rel, opts) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// isCandidate reports whether a file passes the extension filter and no
// exclude glob matches its name or relative path.
func (rw *Rewriter) isCandidate(name, rel string, opts Options) bool {
	if filepath.Ext(name) != opts.Extension {
		return false
	}
	for _, pattern := range opts.Exclude {
		if m, _ := filepath.Match(pattern, name); m {
			return false
		}
		if m, _ := filepath.Match(pattern, rel); m {
			return false
		}
	}
	return true
}
