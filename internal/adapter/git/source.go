// Package git implements the diff-source port against a local
// repository checkout: the change set comes from a base..target diff
// instead of the pull request's API diff. Comments still address the
// pull request named on the command line.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/bkyoung/diff-annotate/internal/domain"
)

// Source computes the diff between two refs of a local repository.
type Source struct {
	repoDir   string
	baseRef   string
	targetRef string
}

// NewSource constructs a diff source for the provided repository
// directory and ref pair.
func NewSource(repoDir, baseRef, targetRef string) *Source {
	return &Source{repoDir: repoDir, baseRef: baseRef, targetRef: targetRef}
}

// FetchDiff computes the base..target patch with go-git and splits it
// into per-file diffs with go-gitdiff. An empty target ref resolves to
// the checked-out branch.
func (s *Source) FetchDiff(ctx context.Context) (domain.Diff, error) {
	repo, err := goGit.PlainOpenWithOptions(s.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return domain.Diff{}, fmt.Errorf("open repo: %w", err)
	}

	targetRef := s.targetRef
	if targetRef == "" {
		branch, err := s.CurrentBranch(ctx)
		if err != nil {
			return domain.Diff{}, fmt.Errorf("detect target branch: %w", err)
		}
		targetRef = branch
	}

	baseCommit, err := resolveCommit(repo, s.baseRef)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("resolve base ref: %w", err)
	}
	targetCommit, err := resolveCommit(repo, targetRef)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("resolve target ref: %w", err)
	}

	patch, err := baseCommit.PatchContext(ctx, targetCommit)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("compute patch: %w", err)
	}

	files, _, err := gitdiff.Parse(strings.NewReader(patch.String()))
	if err != nil {
		return domain.Diff{}, fmt.Errorf("parse patch: %w", err)
	}

	d := domain.Diff{Files: make([]domain.FileDiff, 0, len(files))}
	for _, file := range files {
		d.Files = append(d.Files, convertFile(file))
	}
	return d, nil
}

// CurrentBranch returns the name of the checked-out branch.
func (s *Source) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := goGit.PlainOpenWithOptions(s.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	name := head.Name()
	if name.IsBranch() {
		return name.Short(), nil
	}
	return "", fmt.Errorf("detached HEAD")
}

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}

// convertFile maps a parsed go-gitdiff file onto the domain change set,
// reassembling the hunk text the diff index consumes.
func convertFile(file *gitdiff.File) domain.FileDiff {
	fd := domain.FileDiff{
		Path:     file.NewName,
		OldPath:  file.OldName,
		IsBinary: file.IsBinary,
	}

	switch {
	case file.IsNew:
		fd.Status = domain.FileStatusAdded
	case file.IsDelete:
		fd.Status = domain.FileStatusDeleted
		fd.Path = ""
	case file.IsRename:
		fd.Status = domain.FileStatusRenamed
	default:
		fd.Status = domain.FileStatusModified
	}

	if file.IsBinary {
		return fd
	}

	var patch strings.Builder
	for _, frag := range file.TextFragments {
		patch.WriteString(frag.Header())
		patch.WriteByte('\n')
		for _, line := range frag.Lines {
			patch.WriteString(line.String())
		}
	}
	fd.Patch = patch.String()

	return fd
}
