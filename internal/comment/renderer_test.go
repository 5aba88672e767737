package comment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/diff-annotate/internal/comment"
	"github.com/bkyoung/diff-annotate/internal/domain"
)

func located(severity, message, file string, line int) domain.LocatedFinding {
	return domain.LocatedFinding{
		Finding:    domain.Finding{Severity: severity, Message: message, File: file, Line: line},
		TargetLine: line,
	}
}

func TestBuildLineComments_GroupsByFileAndLine(t *testing.T) {
	comments := comment.BuildLineComments([]domain.LocatedFinding{
		located("warning", "unused_import", "lib/main.dart", 10),
		located("error", "undefined_method", "lib/main.dart", 10),
		located("info", "prefer_const", "lib/other.dart", 3),
	})

	require.Len(t, comments, 2)

	first := comments[0]
	assert.Equal(t, "lib/main.dart", first.Path)
	assert.Equal(t, 10, first.Line)
	assert.Contains(t, first.Body, "<tr><td>⚠</td><td>unused_import</td></tr>")
	assert.Contains(t, first.Body, "<tr><td>❌</td><td>undefined_method</td></tr>")
	// Rows keep grouping order.
	assert.Less(t,
		strings.Index(first.Body, "unused_import"),
		strings.Index(first.Body, "undefined_method"))

	second := comments[1]
	assert.Equal(t, "lib/other.dart", second.Path)
	assert.Contains(t, second.Body, "<tr><td>ℹ</td><td>prefer_const</td></tr>")
}

func TestBuildLineComments_BodyShape(t *testing.T) {
	comments := comment.BuildLineComments([]domain.LocatedFinding{
		located("warning", "unused_import", "lib/main.dart", 10),
	})

	require.Len(t, comments, 1)
	body := comments[0].Body
	assert.True(t, strings.HasPrefix(body, "<table>"))
	assert.True(t, strings.HasSuffix(body, comment.InlineMarker))
	assert.True(t, comment.IsGenerated(body, comment.InlineMarker))
	assert.False(t, comment.IsGenerated(body, comment.SummaryMarker))
}

func TestBuildLineComments_EscapesHTML(t *testing.T) {
	comments := comment.BuildLineComments([]domain.LocatedFinding{
		located("error", "dangerous <script> here", "lib/main.dart", 1),
	})

	require.Len(t, comments, 1)
	assert.Contains(t, comments[0].Body, "dangerous &lt;script&gt; here")
	assert.NotContains(t, comments[0].Body, "<script>")
}

func TestBuildLineComments_MessageChangeChangesBody(t *testing.T) {
	a := comment.BuildLineComments([]domain.LocatedFinding{
		located("warning", "unused_import", "lib/main.dart", 10),
	})
	b := comment.BuildLineComments([]domain.LocatedFinding{
		located("warning", "unused_imports", "lib/main.dart", 10),
	})

	assert.NotEqual(t, a[0].Body, b[0].Body)
}

func TestBuildSummary(t *testing.T) {
	body := comment.BuildSummary([]domain.Finding{
		{Severity: "warning", Message: "unused_import", File: "lib/main.dart", Line: 10},
		{Severity: "error", Message: "undefined_method", File: "lib/app.dart", Line: 4},
	})

	assert.Contains(t, body, "<tr><th>Severity</th><th>File</th><th>Line</th><th>Message</th></tr>")
	assert.Contains(t, body, "<tr><td>⚠ Warning</td><td>lib/main.dart</td><td>10</td><td>unused_import</td></tr>")
	assert.Contains(t, body, "<tr><td>❌ Error</td><td>lib/app.dart</td><td>4</td><td>undefined_method</td></tr>")
	assert.True(t, strings.HasSuffix(body, comment.SummaryMarker))
}

func TestBuildSummary_EmptyInput(t *testing.T) {
	assert.Empty(t, comment.BuildSummary(nil))
}

func TestBuildLimitNotice(t *testing.T) {
	body := comment.BuildLimitNotice(15, 10)

	assert.Contains(t, body, "15 issues")
	assert.Contains(t, body, "limit of 10")
	assert.True(t, strings.HasSuffix(body, comment.LimitMarker))
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, "ℹ", comment.Glyph("info"))
	assert.Equal(t, "⚠", comment.Glyph("warning"))
	assert.Equal(t, "❌", comment.Glyph("error"))
	assert.Empty(t, comment.Glyph("hint"))
}
