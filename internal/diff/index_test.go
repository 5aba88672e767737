package diff_test

import (
	"testing"

	"github.com/bkyoung/diff-annotate/internal/diff"
	"github.com/bkyoung/diff-annotate/internal/domain"
)

const prDiff = `diff --git a/lib/main.dart b/lib/main.dart
index 83db48f..bf269f4 100644
--- a/lib/main.dart
+++ b/lib/main.dart
@@ -5,3 +5,4 @@ void main() {
 context
+import 'dart:io';
 context
+var unused = 1;
diff --git a/lib/other.dart b/lib/other.dart
index 83db48f..bf269f4 100644
--- a/lib/other.dart
+++ b/lib/other.dart
@@ -1,2 +1,2 @@
-old
+new
 ctx
`

func TestParseUnified_SplitsPerFile(t *testing.T) {
	d := diff.ParseUnified(prDiff)

	if len(d.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(d.Files))
	}
	if d.Files[0].Path != "lib/main.dart" {
		t.Errorf("expected lib/main.dart, got %q", d.Files[0].Path)
	}
	if d.Files[1].Path != "lib/other.dart" {
		t.Errorf("expected lib/other.dart, got %q", d.Files[1].Path)
	}
}

func TestParseUnified_DeletedFile(t *testing.T) {
	text := `diff --git a/gone.dart b/gone.dart
--- a/gone.dart
+++ /dev/null
@@ -1,2 +0,0 @@
-line one
-line two
`

	d := diff.ParseUnified(text)

	if len(d.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(d.Files))
	}
	if d.Files[0].Status != domain.FileStatusDeleted {
		t.Errorf("expected deleted status, got %q", d.Files[0].Status)
	}
	if d.Files[0].Path != "" {
		t.Errorf("deleted file must keep an empty new-side path, got %q", d.Files[0].Path)
	}
}

func TestParseUnified_AddedFile(t *testing.T) {
	text := `diff --git a/fresh.dart b/fresh.dart
--- /dev/null
+++ b/fresh.dart
@@ -0,0 +1,2 @@
+one
+two
`

	d := diff.ParseUnified(text)

	if len(d.Files) != 1 || d.Files[0].Status != domain.FileStatusAdded {
		t.Fatalf("expected one added file, got %+v", d.Files)
	}

	idx := diff.NewIndex(d)
	if !idx.FileHasChange("fresh.dart", 1) || !idx.FileHasChange("fresh.dart", 2) {
		t.Error("all lines of a new file are additions")
	}
}

func TestIndex_FileHasChange(t *testing.T) {
	idx := diff.NewIndex(diff.ParseUnified(prDiff))

	tests := []struct {
		path string
		line int
		want bool
	}{
		{"lib/main.dart", 6, true},  // first addition
		{"lib/main.dart", 8, true},  // second addition
		{"lib/main.dart", 5, false}, // context
		{"lib/main.dart", 7, false}, // context
		{"lib/other.dart", 1, true}, // replacement
		{"lib/other.dart", 2, false},
		{"lib/absent.dart", 1, false}, // file not in diff at all
	}

	for _, tt := range tests {
		if got := idx.FileHasChange(tt.path, tt.line); got != tt.want {
			t.Errorf("FileHasChange(%q, %d) = %v, want %v", tt.path, tt.line, got, tt.want)
		}
	}
}

func TestIndex_RenameWithoutContent(t *testing.T) {
	text := `diff --git a/old_name.dart b/new_name.dart
similarity index 100%
rename from old_name.dart
rename to new_name.dart
`

	idx := diff.NewIndex(diff.ParseUnified(text))

	if idx.FileHasChange("new_name.dart", 1) || idx.FileHasChange("old_name.dart", 1) {
		t.Error("a rename with no hunks contributes no touched lines")
	}
}

func TestIndex_BinaryFile(t *testing.T) {
	text := `diff --git a/logo.png b/logo.png
--- a/logo.png
+++ b/logo.png
Binary files a/logo.png and b/logo.png differ
`

	idx := diff.NewIndex(diff.ParseUnified(text))

	if idx.FileHasChange("logo.png", 1) {
		t.Error("binary files contribute no touched lines")
	}
}

func TestIndex_FromFileDiffs(t *testing.T) {
	d := domain.Diff{Files: []domain.FileDiff{{
		Path:   "pkg/server.go",
		Status: domain.FileStatusModified,
		Patch: `@@ -40,3 +40,4 @@
 ctx
+added
 ctx
`,
	}}}

	idx := diff.NewIndex(d)

	if !idx.FileHasChange("pkg/server.go", 41) {
		t.Error("expected line 41 to be an addition")
	}
	if idx.FileHasChange("pkg/server.go", 40) {
		t.Error("line 40 is context")
	}
}

func TestParseUnified_HunkLinesResemblingHeaders(t *testing.T) {
	text := `diff --git a/tool/gen.dart b/tool/gen.dart
index 83db48f..bf269f4 100644
--- a/tool/gen.dart
+++ b/tool/gen.dart
@@ -3,3 +3,4 @@
 context
+++ concatenated marker
--- removed separator
+trailing addition
 context
`

	d := diff.ParseUnified(text)

	if len(d.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(d.Files))
	}
	if d.Files[0].Path != "tool/gen.dart" {
		t.Errorf("hunk body line reset the file path: got %q", d.Files[0].Path)
	}

	idx := diff.NewIndex(d)
	if !idx.FileHasChange("tool/gen.dart", 4) {
		t.Error("expected line 4 to be an addition")
	}
	if !idx.FileHasChange("tool/gen.dart", 5) {
		t.Error("expected line 5 to be an addition")
	}
}
