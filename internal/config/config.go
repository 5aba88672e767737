package config

// Config represents the full application configuration.
type Config struct {
	GitHub        GitHubConfig        `yaml:"github"`
	Analyzer      AnalyzerConfig      `yaml:"analyzer"`
	Comments      CommentsConfig      `yaml:"comments"`
	Git           GitConfig           `yaml:"git"`
	HTTP          HTTPConfig          `yaml:"http"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitHubConfig identifies the pull request to annotate and how to
// authenticate against the API.
type GitHubConfig struct {
	Token      string `yaml:"token"`
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	PullNumber int    `yaml:"pullNumber"`

	// BaseURL overrides the API endpoint, for GitHub Enterprise.
	BaseURL string `yaml:"baseURL"`
}

// AnalyzerConfig configures log ingestion.
type AnalyzerConfig struct {
	// Logs are the analyzer output files, parsed in order.
	Logs []string `yaml:"logs"`

	// WorkingDir is the prefix stripped from absolute finding paths so
	// they match repository-relative diff paths.
	WorkingDir string `yaml:"workingDir"`

	// Format selects the log format: "auto", "text", or "json".
	Format string `yaml:"format"`
}

// CommentsConfig tunes comment synthesis.
type CommentsConfig struct {
	// MaxFindings is the ceiling above which inline annotation is
	// skipped in favour of a single notice. Zero disables the ceiling.
	MaxFindings int `yaml:"maxFindings"`
}

// GitConfig configures the local-diff mode.
type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
	BaseRef       string `yaml:"baseRef"`
	TargetRef     string `yaml:"targetRef"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// StoreConfig configures the run-history store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, error
	Format  string `yaml:"format"` // json, human
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.GitHub = chooseGitHub(base.GitHub, overlay.GitHub)
	result.Analyzer = chooseAnalyzer(base.Analyzer, overlay.Analyzer)
	result.Comments = chooseComments(base.Comments, overlay.Comments)
	result.Git = chooseGit(base.Git, overlay.Git)
	result.HTTP = chooseHTTP(base.HTTP, overlay.HTTP)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseGitHub(base, overlay GitHubConfig) GitHubConfig {
	result := base
	if overlay.Token != "" {
		result.Token = overlay.Token
	}
	if overlay.Owner != "" {
		result.Owner = overlay.Owner
	}
	if overlay.Repo != "" {
		result.Repo = overlay.Repo
	}
	if overlay.PullNumber != 0 {
		result.PullNumber = overlay.PullNumber
	}
	if overlay.BaseURL != "" {
		result.BaseURL = overlay.BaseURL
	}
	return result
}

func chooseAnalyzer(base, overlay AnalyzerConfig) AnalyzerConfig {
	result := base
	if len(overlay.Logs) > 0 {
		result.Logs = overlay.Logs
	}
	if overlay.WorkingDir != "" {
		result.WorkingDir = overlay.WorkingDir
	}
	if overlay.Format != "" {
		result.Format = overlay.Format
	}
	return result
}

func chooseComments(base, overlay CommentsConfig) CommentsConfig {
	if overlay.MaxFindings != 0 {
		return overlay
	}
	return base
}

func chooseGit(base, overlay GitConfig) GitConfig {
	result := base
	if overlay.RepositoryDir != "" {
		result.RepositoryDir = overlay.RepositoryDir
	}
	if overlay.BaseRef != "" {
		result.BaseRef = overlay.BaseRef
	}
	if overlay.TargetRef != "" {
		result.TargetRef = overlay.TargetRef
	}
	return result
}

func chooseHTTP(base, overlay HTTPConfig) HTTPConfig {
	if overlay.Timeout != "" || overlay.MaxRetries != 0 || overlay.InitialBackoff != "" || overlay.MaxBackoff != "" || overlay.BackoffMultiplier != 0 {
		return overlay
	}
	return base
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base
	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	return result
}
