package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the YAML configuration file consulted before
// environment variables.
const DefaultConfigFile = "config.yaml"

// Providers selectable via the provider setting.
const (
	ProviderDreamina = "dreamina"
	ProviderOpenAI   = "openai"
)

// Config holds all configuration values for a run.
type Config struct {
	// Generation service
	BaseURL  string // API origin for the dreamina provider and credit probe
	Provider string // "dreamina" or "openai"
	Model    string // model identifier sent with generation requests

	// OpenAI-compatible provider (used when Provider == "openai")
	OpenAIAPIKey  string
	OpenAIBaseURL string // empty uses the SDK default
	OpenAIModel   string // empty uses the SDK default

	// Inputs
	AccountsDir string // directory of account credential files
	PromptsFile string // .txt, .csv, .tsv or .pdf prompt source

	// Output
	OutputRoot string // artifact root; per-account subdirectories created below

	// Request shape
	AspectRatio    string // service ratio key, e.g. "16:9"
	Width          int    // derived from AspectRatio unless set explicitly
	Height         int
	ImageCount     int     // images requested per prompt
	NegativePrompt string  // omitted from requests when empty
	SampleStrength float64 // 0..1

	// Credit accounting
	CostPerGeneration    int // fixed units per prompt, independent of ImageCount
	MaxPromptsPerAccount int // 0 = no cap
	RepeatEachPrompt     int // duplicate each prompt N times at load
	StaticQuota          int // >0 switches to the fixed-quota oracle

	// Timeouts and retry
	RequestTimeout  time.Duration
	DownloadTimeout time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration

	// Ledger and logging
	LedgerPath string // empty disables the sqlite run ledger
	LogFile    string
	DevMode    bool
}

// fileConfig mirrors Config with YAML keys. Values present in the file
// overlay the defaults; environment variables overlay both.
type fileConfig struct {
	BaseURL              string  `yaml:"base_url"`
	Provider             string  `yaml:"provider"`
	Model                string  `yaml:"model"`
	OpenAIAPIKey         string  `yaml:"openai_api_key"`
	OpenAIBaseURL        string  `yaml:"openai_base_url"`
	OpenAIModel          string  `yaml:"openai_model"`
	AccountsDir          string  `yaml:"accounts_dir"`
	PromptsFile          string  `yaml:"prompts_file"`
	OutputRoot           string  `yaml:"output_root"`
	AspectRatio          string  `yaml:"aspect_ratio"`
	Width                int     `yaml:"width"`
	Height               int     `yaml:"height"`
	ImageCount           int     `yaml:"image_count"`
	NegativePrompt       string  `yaml:"negative_prompt"`
	SampleStrength       float64 `yaml:"sample_strength"`
	CostPerGeneration    int     `yaml:"cost_per_generation"`
	MaxPromptsPerAccount int     `yaml:"max_prompts_per_account"`
	RepeatEachPrompt     int     `yaml:"repeat_each_prompt"`
	StaticQuota          int     `yaml:"static_quota"`
	RequestTimeoutSecs   int     `yaml:"request_timeout_seconds"`
	DownloadTimeoutSecs  int     `yaml:"download_timeout_seconds"`
	MaxRetries           int     `yaml:"max_retries"`
	RetryBaseDelaySecs   int     `yaml:"retry_base_delay_seconds"`
	LedgerPath           string  `yaml:"ledger_path"`
	LogFile              string  `yaml:"log_file"`
	DevMode              bool    `yaml:"dev_mode"`
}

// defaultFileConfig returns the built-in defaults before any overlay.
func defaultFileConfig() fileConfig {
	return fileConfig{
		BaseURL:             "https://api.dreamina.com",
		Provider:            ProviderDreamina,
		Model:               "jimeng-3.0",
		AccountsDir:         "accounts",
		PromptsFile:         "prompts.txt",
		OutputRoot:          "output",
		AspectRatio:         "16:9",
		ImageCount:          4,
		SampleStrength:      0.5,
		CostPerGeneration:   5,
		RepeatEachPrompt:    1,
		RequestTimeoutSecs:  300,
		DownloadTimeoutSecs: 60,
		MaxRetries:          3,
		RetryBaseDelaySecs:  1,
		LogFile:             "dreamina.log",
	}
}

// LoadConfig resolves configuration from DefaultConfigFile (when present)
// overlaid by environment variables, then validates it. A missing config
// file is not an error; a malformed one is.
func LoadConfig() (*Config, error) {
	return LoadConfigFromFile(DefaultConfigFile)
}

// LoadConfigFromFile is LoadConfig with an explicit YAML path, used by
// tests and by a -config flag.
func LoadConfigFromFile(path string) (*Config, error) {
	fc := defaultFileConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, ErrConfigFileInvalid(path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, ErrConfigFileInvalid(path, err)
	}

	overlayEnv(&fc)

	cfg := &Config{
		BaseURL:              strings.TrimRight(fc.BaseURL, "/"),
		Provider:             strings.ToLower(strings.TrimSpace(fc.Provider)),
		Model:                fc.Model,
		OpenAIAPIKey:         fc.OpenAIAPIKey,
		OpenAIBaseURL:        fc.OpenAIBaseURL,
		OpenAIModel:          fc.OpenAIModel,
		AccountsDir:          fc.AccountsDir,
		PromptsFile:          fc.PromptsFile,
		OutputRoot:           fc.OutputRoot,
		AspectRatio:          strings.TrimSpace(fc.AspectRatio),
		Width:                fc.Width,
		Height:               fc.Height,
		ImageCount:           fc.ImageCount,
		NegativePrompt:       fc.NegativePrompt,
		SampleStrength:       fc.SampleStrength,
		CostPerGeneration:    fc.CostPerGeneration,
		MaxPromptsPerAccount: fc.MaxPromptsPerAccount,
		RepeatEachPrompt:     fc.RepeatEachPrompt,
		StaticQuota:          fc.StaticQuota,
		RequestTimeout:       time.Duration(fc.RequestTimeoutSecs) * time.Second,
		DownloadTimeout:      time.Duration(fc.DownloadTimeoutSecs) * time.Second,
		MaxRetries:           fc.MaxRetries,
		RetryBaseDelay:       time.Duration(fc.RetryBaseDelaySecs) * time.Second,
		LedgerPath:           fc.LedgerPath,
		LogFile:              fc.LogFile,
		DevMode:              fc.DevMode,
	}

	problems := cfg.resolveDimensions()
	problems = append(problems, cfg.validate()...)
	if len(problems) > 0 {
		return nil, fmt.Errorf("core: invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// overlayEnv applies environment variable overrides on top of the file
// values.
func overlayEnv(fc *fileConfig) {
	fc.BaseURL = GetEnvOrDefault("DREAMINA_BASE_URL", fc.BaseURL)
	fc.Provider = GetEnvOrDefault("PROVIDER", fc.Provider)
	fc.Model = GetEnvOrDefault("MODEL", fc.Model)
	fc.OpenAIAPIKey = GetEnvOrDefault("OPENAI_API_KEY", fc.OpenAIAPIKey)
	fc.OpenAIBaseURL = GetEnvOrDefault("OPENAI_BASE_URL", fc.OpenAIBaseURL)
	fc.OpenAIModel = GetEnvOrDefault("OPENAI_MODEL", fc.OpenAIModel)
	fc.AccountsDir = GetEnvOrDefault("ACCOUNTS_DIR", fc.AccountsDir)
	fc.PromptsFile = GetEnvOrDefault("PROMPTS_FILE", fc.PromptsFile)
	fc.OutputRoot = GetEnvOrDefault("OUTPUT_ROOT", fc.OutputRoot)
	fc.AspectRatio = GetEnvOrDefault("ASPECT_RATIO", fc.AspectRatio)
	fc.Width = ParseIntEnv("WIDTH", fc.Width)
	fc.Height = ParseIntEnv("HEIGHT", fc.Height)
	fc.ImageCount = ParseIntEnv("IMAGE_COUNT", fc.ImageCount)
	fc.NegativePrompt = GetEnvOrDefault("NEGATIVE_PROMPT", fc.NegativePrompt)
	fc.SampleStrength = ParseFloat64Env("SAMPLE_STRENGTH", fc.SampleStrength)
	fc.CostPerGeneration = ParseIntEnv("COST_PER_GENERATION", fc.CostPerGeneration)
	fc.MaxPromptsPerAccount = ParseIntEnv("MAX_PROMPTS_PER_ACCOUNT", fc.MaxPromptsPerAccount)
	fc.RepeatEachPrompt = ParseIntEnv("REPEAT_EACH_PROMPT", fc.RepeatEachPrompt)
	fc.StaticQuota = ParseIntEnv("STATIC_QUOTA", fc.StaticQuota)
	fc.RequestTimeoutSecs = ParseIntEnv("REQUEST_TIMEOUT_SECONDS", fc.RequestTimeoutSecs)
	fc.DownloadTimeoutSecs = ParseIntEnv("DOWNLOAD_TIMEOUT_SECONDS", fc.DownloadTimeoutSecs)
	fc.MaxRetries = ParseIntEnv("MAX_RETRIES", fc.MaxRetries)
	fc.RetryBaseDelaySecs = ParseIntEnv("RETRY_BASE_DELAY_SECONDS", fc.RetryBaseDelaySecs)
	fc.LedgerPath = GetEnvOrDefault("LEDGER_PATH", fc.LedgerPath)
	fc.LogFile = GetEnvOrDefault("LOG_FILE", fc.LogFile)
	fc.DevMode = ParseBoolEnv("DEV_MODE", fc.DevMode)
}

// resolveDimensions fills Width/Height from the aspect ratio table unless
// both were set explicitly. Returns problems for the aggregate report.
func (c *Config) resolveDimensions() []string {
	if c.Width > 0 && c.Height > 0 {
		return nil
	}
	if c.Width > 0 || c.Height > 0 {
		return []string{"width and height must be set together"}
	}

	w, h, ok := DimensionsForRatio(c.AspectRatio)
	if !ok {
		return []string{fmt.Sprintf("unsupported aspect_ratio %q (supported: %s) and no explicit width/height",
			c.AspectRatio, strings.Join(SupportedRatios(), ", "))}
	}
	c.Width, c.Height = w, h
	return nil
}

// validate collects every problem instead of failing on the first, so a
// misconfigured run reports all of them at once.
func (c *Config) validate() []string {
	var problems []string

	if c.BaseURL == "" {
		problems = append(problems, "base_url must not be empty")
	}
	if c.Provider != ProviderDreamina && c.Provider != ProviderOpenAI {
		problems = append(problems, fmt.Sprintf("provider must be %q or %q, got %q", ProviderDreamina, ProviderOpenAI, c.Provider))
	}
	if c.Provider == ProviderOpenAI && c.OpenAIAPIKey == "" {
		problems = append(problems, "openai provider requires openai_api_key")
	}
	if c.Provider == ProviderDreamina && c.Model == "" {
		problems = append(problems, "model must not be empty")
	}
	if c.AccountsDir == "" {
		problems = append(problems, "accounts_dir must not be empty")
	}
	if c.PromptsFile == "" {
		problems = append(problems, "prompts_file must not be empty")
	}
	if c.OutputRoot == "" {
		problems = append(problems, "output_root must not be empty")
	}
	if c.ImageCount < 1 {
		problems = append(problems, fmt.Sprintf("image_count must be at least 1, got %d", c.ImageCount))
	}
	if c.CostPerGeneration < 1 {
		problems = append(problems, fmt.Sprintf("cost_per_generation must be at least 1, got %d", c.CostPerGeneration))
	}
	if c.SampleStrength < 0 || c.SampleStrength > 1 {
		problems = append(problems, fmt.Sprintf("sample_strength must be within [0, 1], got %.2f", c.SampleStrength))
	}
	if c.MaxPromptsPerAccount < 0 {
		problems = append(problems, fmt.Sprintf("max_prompts_per_account must not be negative, got %d", c.MaxPromptsPerAccount))
	}
	if c.RepeatEachPrompt < 1 {
		problems = append(problems, fmt.Sprintf("repeat_each_prompt must be at least 1, got %d", c.RepeatEachPrompt))
	}
	if c.StaticQuota < 0 {
		problems = append(problems, fmt.Sprintf("static_quota must not be negative, got %d", c.StaticQuota))
	}
	if c.MaxRetries < 1 {
		problems = append(problems, fmt.Sprintf("max_retries must be at least 1, got %d", c.MaxRetries))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout_seconds must be positive")
	}
	if c.DownloadTimeout <= 0 {
		problems = append(problems, "download_timeout_seconds must be positive")
	}
	if c.RetryBaseDelay < 0 {
		problems = append(problems, "retry_base_delay_seconds must not be negative")
	}
	if c.LogFile == "" {
		problems = append(problems, "log_file must not be empty")
	}

	return problems
}

// UsesStaticOracle reports whether the run probes credits from
// configuration instead of the service.
func (c *Config) UsesStaticOracle() bool {
	return c.StaticQuota > 0
}

// LedgerEnabled reports whether the sqlite run ledger is configured.
func (c *Config) LedgerEnabled() bool {
	return c.LedgerPath != ""
}
