package diff

import (
	"strings"

	"github.com/bkyoung/diff-annotate/internal/domain"
)

// Index records, per file, the set of new-revision line numbers that
// were added or modified by a diff. Built once per run, read-only after.
type Index struct {
	files map[string]map[int]struct{}
}

// NewIndex builds an index from a parsed change set. Binary files and
// files without a new-side path (deletions) contribute nothing.
func NewIndex(d domain.Diff) *Index {
	idx := &Index{files: make(map[string]map[int]struct{}, len(d.Files))}
	for _, file := range d.Files {
		if file.Path == "" || file.IsBinary {
			continue
		}
		for _, line := range ParseFile(file.Patch).AddedLines() {
			idx.record(file.Path, line)
		}
	}
	return idx
}

// FileHasChange reports whether the diff added or modified the given
// new-revision line of the given file. O(1).
func (idx *Index) FileHasChange(path string, line int) bool {
	lines, ok := idx.files[path]
	if !ok {
		return false
	}
	_, ok = lines[line]
	return ok
}

func (idx *Index) record(path string, line int) {
	lines, ok := idx.files[path]
	if !ok {
		lines = make(map[int]struct{})
		idx.files[path] = lines
	}
	lines[line] = struct{}{}
}

// ParseUnified splits the concatenated unified diff of a whole pull
// request into per-file diffs. The current file is set by a "+++ b/path"
// marker and cleared by any file-header line, so hunks are never
// attributed to the wrong file. Deleted files ("+++ /dev/null") keep an
// empty new-side path. "---"/"+++" markers are only headers between
// hunks: inside a hunk body they are ordinary removed/added lines
// (a deletion of "-- x" or an addition of "++ x").
func ParseUnified(text string) domain.Diff {
	var d domain.Diff
	var file *domain.FileDiff
	var patch strings.Builder
	inHunk := false

	flush := func() {
		if file != nil {
			file.Patch = patch.String()
			if file.IsBinary {
				file.Patch = ""
			}
			d.Files = append(d.Files, *file)
		}
		file = nil
		patch.Reset()
	}

	for _, raw := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(raw, "diff --git"):
			flush()
			inHunk = false
			file = &domain.FileDiff{Status: domain.FileStatusModified}
		case strings.HasPrefix(raw, "--- ") && !inHunk:
			if file == nil {
				file = &domain.FileDiff{Status: domain.FileStatusModified}
			}
			if strings.TrimPrefix(raw, "--- ") == "/dev/null" {
				file.Status = domain.FileStatusAdded
			}
		case strings.HasPrefix(raw, "+++ ") && !inHunk:
			if file == nil {
				file = &domain.FileDiff{Status: domain.FileStatusModified}
			}
			target := strings.TrimPrefix(raw, "+++ ")
			if target == "/dev/null" {
				file.Status = domain.FileStatusDeleted
				file.Path = ""
			} else {
				file.Path = strings.TrimPrefix(target, "b/")
			}
		case strings.HasPrefix(raw, "Binary files "), strings.HasPrefix(raw, "GIT binary patch"):
			if file != nil {
				file.IsBinary = true
			}
		default:
			if strings.HasPrefix(raw, "@@") {
				inHunk = true
			}
			if file != nil {
				patch.WriteString(raw)
				patch.WriteByte('\n')
			}
		}
	}
	flush()

	return d
}
