package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkyoung/diff-annotate/internal/usecase/annotate"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// RunRequest carries the resolved settings for one annotation run.
type RunRequest struct {
	Owner      string
	Repo       string
	PullNumber int

	Logs        []string
	MaxFindings int

	// Local switches the diff source from the GitHub API to the local
	// repository, diffing BaseRef against TargetRef.
	Local     bool
	BaseRef   string
	TargetRef string

	DryRun bool
}

// Annotator defines the dependency required to run the run command.
type Annotator interface {
	Annotate(ctx context.Context, req RunRequest) (annotate.Result, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Defaults holds fallback values from config for flags the user omits.
type Defaults struct {
	Owner       string
	Repo        string
	PullNumber  int
	Logs        []string
	MaxFindings int
	BaseRef     string
	TargetRef   string
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Annotator Annotator
	Args      Arguments
	Defaults  Defaults
	Version   string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "da",
		Short: "Annotate pull requests with static-analysis findings",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(runCommand(deps.Annotator, deps.Defaults))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func runCommand(annotator Annotator, defaults Defaults) *cobra.Command {
	var owner string
	var repo string
	var pullNumber int
	var logs []string
	var maxFindings int
	var local bool
	var baseRef string
	var targetRef string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Parse analyzer logs and reconcile pull request comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if owner == "" || repo == "" {
				return fmt.Errorf("--owner and --repo are required")
			}
			if pullNumber <= 0 {
				return fmt.Errorf("--pr must be a positive integer")
			}
			if len(logs) == 0 {
				return fmt.Errorf("no analyzer logs configured; pass --log or set analyzer.logs")
			}

			result, err := annotator.Annotate(ctx, RunRequest{
				Owner:       owner,
				Repo:        repo,
				PullNumber:  pullNumber,
				Logs:        logs,
				MaxFindings: resolveMaxFindings(cmd, maxFindings, defaults.MaxFindings),
				Local:       local,
				BaseRef:     baseRef,
				TargetRef:   targetRef,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Limited {
				_, _ = fmt.Fprintf(out, "findings=%d exceed ceiling, posted notice only\n", result.TotalFindings)
				return nil
			}
			_, _ = fmt.Fprintf(out, "findings=%d inDiff=%d outOfDiff=%d added=%d deleted=%d\n",
				result.TotalFindings, result.InDiff, result.OutOfDiff, result.Added, result.Deleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", defaults.Owner, "GitHub repository owner")
	cmd.Flags().StringVar(&repo, "repo", defaults.Repo, "GitHub repository name")
	cmd.Flags().IntVar(&pullNumber, "pr", defaults.PullNumber, "Pull request number")
	cmd.Flags().StringSliceVar(&logs, "log", defaults.Logs, "Analyzer log file (repeatable)")
	cmd.Flags().IntVar(&maxFindings, "max-findings", 0, "Finding ceiling before skipping inline comments (0 uses config default)")
	cmd.Flags().BoolVar(&local, "local", false, "Diff the local repository instead of fetching the PR diff")
	cmd.Flags().StringVar(&baseRef, "base", defaults.BaseRef, "Base reference for --local diffs")
	cmd.Flags().StringVar(&targetRef, "target", defaults.TargetRef, "Target reference for --local diffs (default: the checked-out branch)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and print the plan without mutating comments")

	return cmd
}

// resolveMaxFindings returns the CLI value if the flag was explicitly
// set, otherwise the config default.
func resolveMaxFindings(cmd *cobra.Command, cliValue, configDefault int) int {
	if !cmd.Flags().Changed("max-findings") {
		return configDefault
	}
	if cliValue < 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: negative value %d for --max-findings, using config default %d\n", cliValue, configDefault)
		return configDefault
	}
	return cliValue
}
