package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/bkyoung/diff-annotate/internal/adapter/cli"
	"github.com/bkyoung/diff-annotate/internal/adapter/git"
	githubadapter "github.com/bkyoung/diff-annotate/internal/adapter/github"
	"github.com/bkyoung/diff-annotate/internal/adapter/httpx"
	"github.com/bkyoung/diff-annotate/internal/adapter/logfile"
	"github.com/bkyoung/diff-annotate/internal/adapter/observability"
	"github.com/bkyoung/diff-annotate/internal/adapter/store/sqlite"
	"github.com/bkyoung/diff-annotate/internal/analyzer"
	"github.com/bkyoung/diff-annotate/internal/config"
	"github.com/bkyoung/diff-annotate/internal/usecase/annotate"
	"github.com/bkyoung/diff-annotate/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "da",
		EnvPrefix:   "DA",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	httpLogger := buildLogger(cfg.Observability.Logging)

	var pipelineLogger annotate.Logger
	if httpLogger != nil {
		pipelineLogger = observability.NewPipelineLogger(httpLogger)
	}

	runner := &appRunner{
		cfg:        cfg,
		httpLogger: httpLogger,
		logger:     pipelineLogger,
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Annotator: runner,
		Defaults: cli.Defaults{
			Owner:       cfg.GitHub.Owner,
			Repo:        cfg.GitHub.Repo,
			PullNumber:  cfg.GitHub.PullNumber,
			Logs:        cfg.Analyzer.Logs,
			MaxFindings: cfg.Comments.MaxFindings,
			BaseRef:     cfg.Git.BaseRef,
			TargetRef:   cfg.Git.TargetRef,
		},
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// appRunner assembles the adapters for one annotation run.
type appRunner struct {
	cfg        config.Config
	httpLogger httpx.Logger
	logger     annotate.Logger
}

func (r *appRunner) Annotate(ctx context.Context, req cli.RunRequest) (annotate.Result, error) {
	token := r.cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return annotate.Result{}, fmt.Errorf("github token not configured; set github.token or GITHUB_TOKEN")
	}

	client := githubadapter.NewClient(token)
	if r.cfg.GitHub.BaseURL != "" {
		client.SetBaseURL(r.cfg.GitHub.BaseURL)
	}
	if timeout, err := time.ParseDuration(r.cfg.HTTP.Timeout); err == nil && timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.SetRetryConfig(retryConfig(r.cfg.HTTP))
	if r.httpLogger != nil {
		client.SetLogger(r.httpLogger)
	}

	pull := client.PullRequest(req.Owner, req.Repo, req.PullNumber)

	var diffSource annotate.DiffSource = pull
	if req.Local {
		repoDir := r.cfg.Git.RepositoryDir
		if repoDir == "" {
			repoDir = "."
		}
		diffSource = git.NewSource(repoDir, req.BaseRef, req.TargetRef)
	}

	var runs annotate.RunStore
	if r.cfg.Store.Enabled {
		if err := os.MkdirAll(filepath.Dir(r.cfg.Store.Path), 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else if runStore, err := sqlite.NewStore(r.cfg.Store.Path); err != nil {
			log.Printf("warning: failed to initialize store: %v", err)
		} else {
			defer runStore.Close()
			runs = runStore
		}
	}

	parser := analyzer.NewParser(r.cfg.Analyzer.WorkingDir)
	if r.cfg.Analyzer.Format != "" {
		parser.SetFormat(r.cfg.Analyzer.Format)
	}

	annotator := annotate.New(annotate.Dependencies{
		Logs:     logfile.NewReader(""),
		Diffs:    diffSource,
		Comments: pull,
		Logger:   r.logger,
		Runs:     runs,
		Parser:   parser,
	}, annotate.Config{
		LogPaths:    req.Logs,
		MaxFindings: req.MaxFindings,
		DryRun:      req.DryRun,
		Repository:  req.Owner + "/" + req.Repo,
		PullNumber:  req.PullNumber,
	})

	return annotator.Run(ctx)
}

// buildLogger creates the structured logger, or nil when logging is
// disabled. An unset format follows terminal detection: human on a TTY,
// JSON otherwise.
func buildLogger(cfg config.LoggingConfig) httpx.Logger {
	if !cfg.Enabled {
		return nil
	}

	format := httpx.LogFormatJSON
	if cfg.Format != "" {
		format = httpx.ParseFormat(cfg.Format)
	} else if term.IsTerminal(int(os.Stderr.Fd())) {
		format = httpx.LogFormatHuman
	}

	return httpx.NewDefaultLogger(httpx.ParseLevel(cfg.Level), format)
}

func retryConfig(cfg config.HTTPConfig) httpx.RetryConfig {
	conf := httpx.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		conf.MaxRetries = cfg.MaxRetries
	}
	if d, err := time.ParseDuration(cfg.InitialBackoff); err == nil && d > 0 {
		conf.InitialBackoff = d
	}
	if d, err := time.ParseDuration(cfg.MaxBackoff); err == nil && d > 0 {
		conf.MaxBackoff = d
	}
	if cfg.BackoffMultiplier > 0 {
		conf.Multiplier = cfg.BackoffMultiplier
	}
	return conf
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "da"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ cli.Annotator = (*appRunner)(nil)
var _ annotate.LogSource = (*logfile.Reader)(nil)
var _ annotate.DiffSource = (*githubadapter.PullRequest)(nil)
var _ annotate.DiffSource = (*git.Source)(nil)
var _ annotate.CommentStore = (*githubadapter.PullRequest)(nil)
var _ annotate.RunStore = (*sqlite.Store)(nil)
