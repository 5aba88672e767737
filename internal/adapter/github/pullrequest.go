package github

import (
	"context"
	"fmt"

	"github.com/bkyoung/diff-annotate/internal/diff"
	"github.com/bkyoung/diff-annotate/internal/domain"
)

// PullRequest binds the client to one pull request, implementing the
// comment-store and diff-source ports of the annotate pipeline.
type PullRequest struct {
	client *Client
	owner  string
	repo   string
	number int

	// headSHA is resolved lazily on the first review-comment create
	// and reused for the rest of the run.
	headSHA string
}

// PullRequest returns a binding for one pull request.
func (c *Client) PullRequest(owner, repo string, number int) *PullRequest {
	return &PullRequest{client: c, owner: owner, repo: repo, number: number}
}

// FetchDiff retrieves the pull request's unified diff and splits it
// into per-file diffs.
func (pr *PullRequest) FetchDiff(ctx context.Context) (domain.Diff, error) {
	text, err := pr.client.FetchDiff(ctx, pr.owner, pr.repo, pr.number)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("fetch diff for #%d: %w", pr.number, err)
	}
	return diff.ParseUnified(text), nil
}

// ListIssueComments lists the conversation-level comments.
func (pr *PullRequest) ListIssueComments(ctx context.Context) ([]domain.IssueComment, error) {
	return pr.client.ListIssueComments(ctx, pr.owner, pr.repo, pr.number)
}

// CreateIssueComment posts a conversation-level comment.
func (pr *PullRequest) CreateIssueComment(ctx context.Context, body string) error {
	return pr.client.CreateIssueComment(ctx, pr.owner, pr.repo, pr.number, body)
}

// DeleteIssueComment removes a conversation-level comment.
func (pr *PullRequest) DeleteIssueComment(ctx context.Context, commentID int64) error {
	return pr.client.DeleteIssueComment(ctx, pr.owner, pr.repo, commentID)
}

// ListReviewComments lists the inline review comments.
func (pr *PullRequest) ListReviewComments(ctx context.Context) ([]domain.RemoteComment, error) {
	return pr.client.ListReviewComments(ctx, pr.owner, pr.repo, pr.number)
}

// CreateReviewComment posts an inline review comment against the pull
// request's head commit.
func (pr *PullRequest) CreateReviewComment(ctx context.Context, comment domain.Comment) error {
	if pr.headSHA == "" {
		head, err := pr.client.GetPullRequest(ctx, pr.owner, pr.repo, pr.number)
		if err != nil {
			return fmt.Errorf("resolve head commit for #%d: %w", pr.number, err)
		}
		pr.headSHA = head.SHA
	}
	return pr.client.CreateReviewComment(ctx, pr.owner, pr.repo, pr.number, pr.headSHA, comment)
}

// DeleteReviewComment removes an inline review comment.
func (pr *PullRequest) DeleteReviewComment(ctx context.Context, commentID int64) error {
	return pr.client.DeleteReviewComment(ctx, pr.owner, pr.repo, commentID)
}
