// Package locate intersects analyzer findings with the pull-request
// diff, splitting them into findings that can carry an inline review
// comment and findings that can only appear in the run summary.
package locate

import (
	"github.com/bkyoung/diff-annotate/internal/diff"
	"github.com/bkyoung/diff-annotate/internal/domain"
)

// Result is the outcome of locating findings against a diff index.
type Result struct {
	// InDiff are findings on lines the diff added or modified,
	// annotated with their target line on the new revision.
	InDiff []domain.LocatedFinding

	// OutOfDiff are findings on lines the diff did not touch.
	OutOfDiff []domain.Finding
}

// Split routes each finding by whether its (file, line) pair was touched
// by the diff. Ordering within each group follows the input order.
//
// The target line of an in-diff finding is the finding's own line
// number: with the line schema the new-revision line number is the
// addressable coordinate, so no second diff traversal is needed.
func Split(findings []domain.Finding, idx *diff.Index) Result {
	var result Result
	for _, finding := range findings {
		if idx.FileHasChange(finding.File, finding.Line) {
			result.InDiff = append(result.InDiff, domain.LocatedFinding{
				Finding:    finding,
				TargetLine: finding.Line,
			})
			continue
		}
		result.OutOfDiff = append(result.OutOfDiff, finding)
	}
	return result
}
