// Package annotate orchestrates one run of the analyzer-to-comments
// pipeline: parse the analyzer logs, index the pull-request diff,
// locate findings, and reconcile the desired comment set against the
// remote one.
package annotate

import (
	"context"
	"fmt"
	"time"

	"github.com/bkyoung/diff-annotate/internal/analyzer"
	"github.com/bkyoung/diff-annotate/internal/comment"
	"github.com/bkyoung/diff-annotate/internal/diff"
	"github.com/bkyoung/diff-annotate/internal/domain"
	"github.com/bkyoung/diff-annotate/internal/locate"
	"github.com/bkyoung/diff-annotate/internal/reconcile"
	"github.com/bkyoung/diff-annotate/internal/store"
)

// LogSource reads raw analyzer output.
type LogSource interface {
	ReadLog(path string) (string, error)
}

// DiffSource retrieves the change set under review.
type DiffSource interface {
	FetchDiff(ctx context.Context) (domain.Diff, error)
}

// CommentStore is the external system holding the pull request's
// comments. Every mutation is independently fallible.
type CommentStore interface {
	ListIssueComments(ctx context.Context) ([]domain.IssueComment, error)
	CreateIssueComment(ctx context.Context, body string) error
	DeleteIssueComment(ctx context.Context, commentID int64) error

	ListReviewComments(ctx context.Context) ([]domain.RemoteComment, error)
	CreateReviewComment(ctx context.Context, c domain.Comment) error
	DeleteReviewComment(ctx context.Context, commentID int64) error
}

// Logger receives pipeline progress and recoverable problems.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// RunStore persists run summaries. Optional.
type RunStore interface {
	SaveRun(ctx context.Context, run store.Run) error
}

// Dependencies captures the collaborators of the annotator.
type Dependencies struct {
	Logs     LogSource
	Diffs    DiffSource
	Comments CommentStore
	Logger   Logger
	Runs     RunStore
	Parser   *analyzer.Parser
}

// Config holds the per-run settings.
type Config struct {
	// LogPaths are the analyzer log files, parsed in order.
	LogPaths []string

	// MaxFindings is the ceiling above which inline annotation is
	// skipped entirely. Zero disables the ceiling.
	MaxFindings int

	// DryRun computes the full plan but performs no mutations.
	DryRun bool

	// Repository and PullNumber identify the run in the history store.
	Repository string
	PullNumber int
}

// Annotator runs the pipeline.
type Annotator struct {
	deps Dependencies
	cfg  Config
}

// New creates an Annotator with the given collaborators and settings.
func New(deps Dependencies, cfg Config) *Annotator {
	return &Annotator{deps: deps, cfg: cfg}
}

// Result summarizes one run.
type Result struct {
	TotalFindings int
	InDiff        int
	OutOfDiff     int

	// ToAdd and ToDelete are the planned mutation counts; Added and
	// Deleted count the ones that actually succeeded.
	ToAdd    int
	ToDelete int
	Added    int
	Deleted  int

	// Limited is set when the finding count exceeded the ceiling and
	// the run short-circuited.
	Limited bool

	SummaryPosted bool
}

// Run executes the pipeline once. Failures in stages that produce data
// required downstream (reading logs, fetching the diff, listing
// comments) abort the run; per-comment mutation failures are logged and
// skipped so independent comments are still attempted.
func (a *Annotator) Run(ctx context.Context) (Result, error) {
	var result Result
	started := time.Now()

	// One snapshot of conversation-level comments serves both purges.
	issueComments, err := a.deps.Comments.ListIssueComments(ctx)
	if err != nil {
		return result, fmt.Errorf("list comments: %w", err)
	}

	// The previous ceiling notice goes away before the count check, so
	// it never lingers once the issue count drops back under threshold.
	a.purgeIssueComments(ctx, issueComments, comment.LimitMarker)

	findings, err := a.parseFindings()
	if err != nil {
		return result, err
	}
	result.TotalFindings = len(findings)

	if a.cfg.MaxFindings > 0 && len(findings) > a.cfg.MaxFindings {
		result.Limited = true
		a.logInfo(ctx, "finding count exceeds ceiling, skipping inline annotation", map[string]interface{}{
			"findings": len(findings),
			"ceiling":  a.cfg.MaxFindings,
		})
		a.createIssueComment(ctx, comment.BuildLimitNotice(len(findings), a.cfg.MaxFindings))
		a.saveRun(ctx, started, result)
		return result, nil
	}

	// The out-of-diff summary is always replaced, never diffed.
	a.purgeIssueComments(ctx, issueComments, comment.SummaryMarker)

	changeSet, err := a.deps.Diffs.FetchDiff(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch diff: %w", err)
	}

	located := locate.Split(findings, diff.NewIndex(changeSet))
	result.InDiff = len(located.InDiff)
	result.OutOfDiff = len(located.OutOfDiff)

	desired := comment.BuildLineComments(located.InDiff)

	remote, err := a.deps.Comments.ListReviewComments(ctx)
	if err != nil {
		return result, fmt.Errorf("list review comments: %w", err)
	}
	ours := generatedOnly(remote)

	plan := reconcile.Comments(desired, ours)
	result.ToAdd = len(plan.ToAdd)
	result.ToDelete = len(plan.ToDelete)

	a.logInfo(ctx, "reconciliation plan computed", map[string]interface{}{
		"desired":  len(desired),
		"existing": len(ours),
		"toAdd":    len(plan.ToAdd),
		"toDelete": len(plan.ToDelete),
	})

	result.Added, result.Deleted = a.applyPlan(ctx, plan)

	if summary := comment.BuildSummary(located.OutOfDiff); summary != "" {
		result.SummaryPosted = a.createIssueComment(ctx, summary)
	}

	a.saveRun(ctx, started, result)
	return result, nil
}

// parseFindings reads and parses every configured log source,
// concatenating findings in source order.
func (a *Annotator) parseFindings() ([]domain.Finding, error) {
	var findings []domain.Finding
	for _, path := range a.cfg.LogPaths {
		raw, err := a.deps.Logs.ReadLog(path)
		if err != nil {
			return nil, fmt.Errorf("read log %s: %w", path, err)
		}
		findings = append(findings, a.deps.Parser.Parse(raw)...)
	}
	return findings, nil
}

// applyPlan performs the planned mutations. Deletions and additions
// touch disjoint comments, so the order between them is free; failures
// are logged and skipped.
func (a *Annotator) applyPlan(ctx context.Context, plan reconcile.Plan) (added, deleted int) {
	for _, stale := range plan.ToDelete {
		if a.cfg.DryRun {
			a.logInfo(ctx, "dry run: would delete review comment", map[string]interface{}{
				"id": stale.ID, "path": stale.Path, "line": stale.Line,
			})
			continue
		}
		if err := a.deps.Comments.DeleteReviewComment(ctx, stale.ID); err != nil {
			a.logWarning(ctx, "failed to delete review comment", map[string]interface{}{
				"id": stale.ID, "error": err.Error(),
			})
			continue
		}
		deleted++
	}

	for _, want := range plan.ToAdd {
		if a.cfg.DryRun {
			a.logInfo(ctx, "dry run: would create review comment", map[string]interface{}{
				"path": want.Path, "line": want.Line,
			})
			continue
		}
		if err := a.deps.Comments.CreateReviewComment(ctx, want); err != nil {
			a.logWarning(ctx, "failed to create review comment", map[string]interface{}{
				"path": want.Path, "line": want.Line, "error": err.Error(),
			})
			continue
		}
		added++
	}

	return added, deleted
}

// purgeIssueComments deletes every comment in the snapshot carrying the
// given marker.
func (a *Annotator) purgeIssueComments(ctx context.Context, comments []domain.IssueComment, marker string) {
	for _, c := range comments {
		if !comment.IsGenerated(c.Body, marker) {
			continue
		}
		if a.cfg.DryRun {
			a.logInfo(ctx, "dry run: would delete comment", map[string]interface{}{"id": c.ID})
			continue
		}
		if err := a.deps.Comments.DeleteIssueComment(ctx, c.ID); err != nil {
			a.logWarning(ctx, "failed to delete comment", map[string]interface{}{
				"id": c.ID, "error": err.Error(),
			})
		}
	}
}

// createIssueComment posts a conversation-level comment, reporting
// whether it succeeded.
func (a *Annotator) createIssueComment(ctx context.Context, body string) bool {
	if a.cfg.DryRun {
		a.logInfo(ctx, "dry run: would create comment", nil)
		return false
	}
	if err := a.deps.Comments.CreateIssueComment(ctx, body); err != nil {
		a.logWarning(ctx, "failed to create comment", map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

func (a *Annotator) saveRun(ctx context.Context, started time.Time, result Result) {
	if a.deps.Runs == nil || a.cfg.DryRun {
		return
	}
	run := store.Run{
		RunID:           store.GenerateRunID(started, a.cfg.Repository, a.cfg.PullNumber),
		Timestamp:       started,
		Repository:      a.cfg.Repository,
		PullNumber:      a.cfg.PullNumber,
		TotalFindings:   result.TotalFindings,
		InDiff:          result.InDiff,
		OutOfDiff:       result.OutOfDiff,
		CommentsAdded:   result.Added,
		CommentsDeleted: result.Deleted,
		Limited:         result.Limited,
	}
	if err := a.deps.Runs.SaveRun(ctx, run); err != nil {
		a.logWarning(ctx, "failed to save run history", map[string]interface{}{"error": err.Error()})
	}
}

// generatedOnly filters the remote snapshot down to comments this tool
// produced; human review comments never participate in reconciliation.
func generatedOnly(remote []domain.RemoteComment) []domain.RemoteComment {
	var ours []domain.RemoteComment
	for _, c := range remote {
		if comment.IsGenerated(c.Body, comment.InlineMarker) {
			ours = append(ours, c)
		}
	}
	return ours
}

func (a *Annotator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if a.deps.Logger != nil {
		a.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func (a *Annotator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if a.deps.Logger != nil {
		a.deps.Logger.LogWarning(ctx, message, fields)
	}
}
