// Package reconcile computes the minimal create/delete plan that turns
// the remote review-comment set into the desired one.
//
// There is no update operation: the comment store exposes create and
// delete as primitives, so any change to a comment body shows up as one
// delete plus one add.
package reconcile

import "github.com/bkyoung/diff-annotate/internal/domain"

// Plan is the reconciliation outcome. ToAdd and ToDelete touch disjoint
// comments, so their relative application order does not matter.
type Plan struct {
	ToAdd    []domain.Comment
	ToDelete []domain.RemoteComment
}

// Empty reports whether the plan requires no mutations.
func (p Plan) Empty() bool {
	return len(p.ToAdd) == 0 && len(p.ToDelete) == 0
}

// Comments diffs desired against remote using structural equality:
// a desired comment with no structurally equal remote counterpart is
// added, a remote comment with no structurally equal desired counterpart
// is deleted. Both inputs must come from a single snapshot of remote
// state. O(|desired|·|remote|), fine for per-PR comment counts.
func Comments(desired []domain.Comment, remote []domain.RemoteComment) Plan {
	var plan Plan

	for _, want := range desired {
		if !anyRemoteEqual(remote, want) {
			plan.ToAdd = append(plan.ToAdd, want)
		}
	}

	for _, have := range remote {
		if !anyDesiredEqual(desired, have.Comment) {
			plan.ToDelete = append(plan.ToDelete, have)
		}
	}

	return plan
}

func anyRemoteEqual(remote []domain.RemoteComment, c domain.Comment) bool {
	for _, have := range remote {
		if have.Comment.Equal(c) {
			return true
		}
	}
	return false
}

func anyDesiredEqual(desired []domain.Comment, c domain.Comment) bool {
	for _, want := range desired {
		if want.Equal(c) {
			return true
		}
	}
	return false
}
