package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/diff-annotate/internal/analyzer"
	"github.com/bkyoung/diff-annotate/internal/domain"
)

func TestParseText(t *testing.T) {
	raw := `Analyzing project...
  [warning] unused_import (lib/main.dart:10:3)
  [error] The method 'foo' isn't defined (lib/src/app.dart:42:17)
  [info] Prefer const with constant constructors (lib/widgets.dart:7:5)
3 issues found.
`

	parser := analyzer.NewParser("")
	findings := parser.ParseText(raw)

	require.Len(t, findings, 3)
	assert.Equal(t, domain.Finding{
		Severity: "warning",
		Message:  "unused_import",
		File:     "lib/main.dart",
		Line:     10,
		Column:   3,
	}, findings[0])
	assert.Equal(t, "error", findings[1].Severity)
	assert.Equal(t, "The method 'foo' isn't defined", findings[1].Message)
	assert.Equal(t, 42, findings[1].Line)
	assert.Equal(t, "info", findings[2].Severity)
}

func TestParseText_IgnoresNonMatchingLines(t *testing.T) {
	raw := `random noise
[fatal] not a known severity (a.dart:1:1)
[warning] missing location
`

	findings := analyzer.NewParser("").ParseText(raw)

	assert.Empty(t, findings)
}

func TestParseText_StripsWorkingDirectory(t *testing.T) {
	parser := analyzer.NewParser("/home/runner/work/app")

	findings := parser.ParseText("[warning] unused_import (/home/runner/work/app/lib/main.dart:10:3)")

	require.Len(t, findings, 1)
	assert.Equal(t, "lib/main.dart", findings[0].File)
}

func TestParseText_NormalizesBackslashPaths(t *testing.T) {
	parser := analyzer.NewParser(`C:\runner\work\app`)

	findings := parser.ParseText(`[error] oops (C:\runner\work\app\lib\main.dart:3:1)`)

	require.Len(t, findings, 1)
	assert.Equal(t, "lib/main.dart", findings[0].File)
}

func TestParseDiagnostics(t *testing.T) {
	raw := `{
  "version": 1,
  "diagnostics": [
    {
      "code": "unused_import",
      "severity": "WARNING",
      "problemMessage": "Unused import: 'dart:io'.",
      "location": {
        "file": "/work/app/lib/main.dart",
        "range": {"start": {"offset": 7, "line": 1, "column": 8}, "end": {"offset": 16, "line": 1, "column": 17}}
      }
    },
    {
      "severity": "HINT",
      "problemMessage": "unknown severity is dropped",
      "location": {"file": "/work/app/lib/a.dart", "range": {"start": {"line": 2, "column": 1}}}
    }
  ]
}`

	parser := analyzer.NewParser("/work/app")
	findings := parser.ParseDiagnostics(raw)

	require.Len(t, findings, 1)
	assert.Equal(t, domain.Finding{
		Severity: "warning",
		Message:  "Unused import: 'dart:io'.",
		File:     "lib/main.dart",
		Line:     1,
		Column:   8,
	}, findings[0])
}

func TestParseDiagnostics_MalformedJSON(t *testing.T) {
	parser := analyzer.NewParser("")

	assert.Empty(t, parser.ParseDiagnostics("{not json"))
	assert.Empty(t, parser.ParseDiagnostics(""))
	assert.Empty(t, parser.ParseDiagnostics(`{"version": 1}`))
}

func TestParse_SniffsFormat(t *testing.T) {
	parser := analyzer.NewParser("")

	jsonFindings := parser.Parse(`{"diagnostics":[{"severity":"error","message":"boom","location":{"file":"lib/a.dart","range":{"start":{"line":3,"column":4}}}}]}`)
	require.Len(t, jsonFindings, 1)
	assert.Equal(t, "boom", jsonFindings[0].Message)

	textFindings := parser.Parse("[info] tidy this up (lib/b.dart:9:1)")
	require.Len(t, textFindings, 1)
	assert.Equal(t, "lib/b.dart", textFindings[0].File)
}

func TestParse_PinnedFormat(t *testing.T) {
	jsonPayload := `{"diagnostics":[{"severity":"error","message":"boom","location":{"file":"lib/a.dart","range":{"start":{"line":3,"column":4}}}}]}`

	parser := analyzer.NewParser("")
	parser.SetFormat(analyzer.FormatText)
	assert.Empty(t, parser.Parse(jsonPayload), "text mode must not fall back to JSON")

	parser.SetFormat(analyzer.FormatJSON)
	assert.Len(t, parser.Parse(jsonPayload), 1)
	assert.Empty(t, parser.Parse("[info] tidy this up (lib/b.dart:9:1)"), "json mode must not fall back to text")
}
