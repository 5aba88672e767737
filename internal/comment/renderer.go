// Package comment renders findings into the HTML comment bodies posted
// to the pull request, and owns the marker strings used to recognize
// machine-generated comments on later runs.
package comment

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/diff-annotate/internal/domain"
)

// Markers identify each comment category across runs. Every generated
// body ends with exactly one of them.
const (
	// InlineMarker tags per-line review comments.
	InlineMarker = "<!-- diff-annotate:inline -->"

	// SummaryMarker tags the conversation-level out-of-diff summary.
	SummaryMarker = "<!-- diff-annotate:summary -->"

	// LimitMarker tags the too-many-issues notice.
	LimitMarker = "<!-- diff-annotate:limit -->"
)

// severityGlyphs is the fixed severity-to-glyph mapping used in comment
// tables.
var severityGlyphs = map[string]string{
	domain.SeverityInfo:    "ℹ",
	domain.SeverityWarning: "⚠",
	domain.SeverityError:   "❌",
}

var severityTitle = cases.Title(language.English)

// Glyph returns the table glyph for a severity level.
func Glyph(severity string) string {
	return severityGlyphs[severity]
}

// IsGenerated reports whether a comment body carries the given marker,
// i.e. whether this tool produced it on an earlier run.
func IsGenerated(body, marker string) bool {
	return strings.Contains(body, marker)
}

// BuildLineComments groups in-diff findings by (file, line) and renders
// one comment per group: a table with one row per finding, rows in the
// order the findings were grouped. Group order follows first appearance.
func BuildLineComments(located []domain.LocatedFinding) []domain.Comment {
	type key struct {
		path string
		line int
	}

	groups := make(map[key][]domain.LocatedFinding)
	var order []key
	for _, finding := range located {
		k := key{path: finding.File, line: finding.TargetLine}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], finding)
	}

	comments := make([]domain.Comment, 0, len(order))
	for _, k := range order {
		var b strings.Builder
		b.WriteString("<table>\n")
		for _, finding := range groups[k] {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n",
				Glyph(finding.Severity), html.EscapeString(finding.Message))
		}
		b.WriteString("</table>\n\n")
		b.WriteString(InlineMarker)

		comments = append(comments, domain.Comment{
			Path: k.path,
			Line: k.line,
			Body: b.String(),
		})
	}
	return comments
}

// BuildSummary renders the conversation-level table for findings outside
// the diff. Returns the empty string when there is nothing to report.
func BuildSummary(outOfDiff []domain.Finding) string {
	if len(outOfDiff) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Issues reported outside the changed lines of this pull request:\n\n")
	b.WriteString("<table>\n")
	b.WriteString("<tr><th>Severity</th><th>File</th><th>Line</th><th>Message</th></tr>\n")
	for _, finding := range outOfDiff {
		fmt.Fprintf(&b, "<tr><td>%s %s</td><td>%s</td><td>%d</td><td>%s</td></tr>\n",
			Glyph(finding.Severity),
			severityTitle.String(finding.Severity),
			html.EscapeString(finding.File),
			finding.Line,
			html.EscapeString(finding.Message))
	}
	b.WriteString("</table>\n\n")
	b.WriteString(SummaryMarker)
	return b.String()
}

// BuildLimitNotice renders the notice posted instead of inline comments
// when the finding count exceeds the configured ceiling.
func BuildLimitNotice(total, ceiling int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The analyzer reported %d issues, more than the configured limit of %d.\n", total, ceiling)
	b.WriteString("Inline annotation was skipped for this run; reduce the issue count to re-enable it.\n\n")
	b.WriteString(LimitMarker)
	return b.String()
}
