// Command dreamina runs a bulk image generation batch across a directory
// of accounts, spending each account's remaining credits before moving to
// the next.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/LinkuDev/dreamina/account"
	"github.com/LinkuDev/dreamina/core"
	"github.com/LinkuDev/dreamina/core/validation"
	"github.com/LinkuDev/dreamina/credits"
	"github.com/LinkuDev/dreamina/db"
	"github.com/LinkuDev/dreamina/imagegen"
	"github.com/LinkuDev/dreamina/logging"
	"github.com/LinkuDev/dreamina/metrics"
	"github.com/LinkuDev/dreamina/prompts"
	"github.com/LinkuDev/dreamina/scheduler"
	"github.com/LinkuDev/dreamina/shutdown"
)

func main() {
	os.Exit(run())
}

// run wires the pipeline and returns the process exit code. Separate from
// main so deferred cleanups run before os.Exit.
func run() int {
	configPath := flag.String("config", core.DefaultConfigFile, "path to the YAML configuration file")
	flag.Parse()

	// Load .env before the config overlay reads the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	cfg, err := core.LoadConfigFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return core.ExitCodeError
	}

	logger, err := logging.NewLogger(cfg.DevMode, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer func() {
		_ = logger.Sync()
	}()

	if exitCode := runPreflight(cfg, *configPath, logger); exitCode != core.ExitCodeSuccess {
		return exitCode
	}

	runID := uuid.New().String()
	log := logger.With(zap.String(logging.FieldRunID, runID))
	log.Info("Configuration loaded",
		zap.String("version", core.VersionInfo()),
		zap.String("provider", cfg.Provider),
		zap.String("base_url", cfg.BaseURL),
		zap.String("accounts_dir", cfg.AccountsDir),
		zap.String("prompts_file", cfg.PromptsFile),
		zap.String("output_root", cfg.OutputRoot),
		zap.String("aspect_ratio", cfg.AspectRatio),
		zap.Int("image_count", cfg.ImageCount),
		zap.Int("cost_per_generation", cfg.CostPerGeneration),
		zap.Int("max_prompts_per_account", cfg.MaxPromptsPerAccount),
		zap.Bool("static_oracle", cfg.UsesStaticOracle()),
		zap.Bool("ledger", cfg.LedgerEnabled()),
		zap.Bool("dev_mode", cfg.DevMode),
	)

	accounts, err := account.LoadAccounts(cfg.AccountsDir, logger)
	if err != nil {
		log.Error("Cannot load accounts", zap.Error(err))
		return core.ExitCodeError
	}

	promptList, err := prompts.Load(cfg.PromptsFile, cfg.RepeatEachPrompt)
	if err != nil {
		log.Error("Cannot load prompts", zap.Error(err))
		return core.ExitCodeError
	}
	log.Info("Inputs loaded",
		zap.Int("accounts", len(accounts)),
		zap.Int("prompts", len(promptList)),
	)

	oracle, err := buildOracle(cfg, logger)
	if err != nil {
		log.Error("Cannot build credit oracle", zap.Error(err))
		return core.ExitCodeError
	}

	executor, err := buildExecutor(cfg, logger)
	if err != nil {
		log.Error("Cannot build executor", zap.Error(err))
		return core.ExitCodeError
	}

	manager, err := shutdown.NewManager(logger)
	if err != nil {
		log.Error("Cannot build shutdown manager", zap.Error(err))
		return core.ExitCodeError
	}
	manager.Start()

	ledger := openLedger(manager.Context(), cfg, log)
	if ledger != nil {
		manager.Register("ledger-close", 30, func(context.Context) error {
			return ledger.Close()
		})
	}
	manager.Register("temp-sweep", 40, shutdown.SweepTempArtifacts(logger, cfg.OutputRoot))

	store := metrics.NewStore(metrics.StoreConfig{RunID: runID}, time.Now())

	sched, err := scheduler.New(oracle, executor, logger, scheduler.Config{
		RunID:                runID,
		CostPerGeneration:    cfg.CostPerGeneration,
		MaxPromptsPerAccount: cfg.MaxPromptsPerAccount,
	})
	if err != nil {
		log.Error("Cannot build scheduler", zap.Error(err))
		return core.ExitCodeError
	}
	sched.WithMetrics(store).
		WithLedger(ledger).
		WithReporter(scheduler.NewReporter(cfg.OutputRoot))

	summary, runErr := sched.Run(manager.Context(), accounts, promptList)

	snapshot := store.Snapshot()
	log.Info("Final metrics",
		zap.Int64("attempted", snapshot.TotalAttempted),
		zap.Int64("succeeded", snapshot.TotalSucceeded),
		zap.Int64("failed", snapshot.TotalFailed),
		zap.Int64("images_requested", snapshot.ImagesRequested),
		zap.Int64("images_downloaded", snapshot.ImagesDownloaded),
		zap.Int("accounts", len(snapshot.ByAccount)),
	)

	if err := manager.Shutdown(); err != nil {
		log.Warn("Cleanup finished with errors", zap.Error(err))
	}

	// Partial completion still exits zero; only interruption and startup
	// failures are non-zero.
	exitCode := core.ExitCodeSuccess
	if sig := manager.Signal(); sig != nil {
		exitCode = shutdown.ExitCode(sig)
	} else if runErr != nil {
		exitCode = core.ExitCodeError
	}
	log.Info("Exiting",
		zap.Int("processed", summary.Processed),
		zap.Int("exit_code", exitCode),
		zap.String("outcome", core.ExitCodeName(exitCode)),
	)
	return exitCode
}

// runPreflight executes the local startup checks and logs every failure.
func runPreflight(cfg *core.Config, configPath string, logger *logging.Logger) int {
	result := validation.NewPreflightSuite(cfg).
		WithConfigPath(configPath).
		Run()

	if !result.Success {
		logger.Error("Preflight failed",
			zap.Int("passed", result.PassedSteps),
			zap.Int("failed", result.FailedSteps),
			zap.Duration("duration", result.Duration),
		)
		for _, step := range result.Steps {
			if step.Status == validation.StepFailed {
				logger.Error("Preflight step failed",
					zap.String("step", step.Name),
					zap.String("message", step.Message),
					zap.Error(step.Error),
				)
			}
		}
		return core.ExitCodeError
	}

	logger.Info("Preflight passed",
		zap.Int("checks", result.PassedSteps),
		zap.Duration("duration", result.Duration),
	)
	return core.ExitCodeSuccess
}

// buildOracle picks the credit oracle: a fixed per-account quota when
// static_quota is set, the service balance endpoint otherwise.
func buildOracle(cfg *core.Config, logger *logging.Logger) (credits.Oracle, error) {
	if cfg.UsesStaticOracle() {
		return credits.NewStaticOracle(cfg.StaticQuota), nil
	}
	return credits.NewHTTPOracle(credits.HTTPOracleConfig{
		BaseURL: cfg.BaseURL,
	}, logger)
}

// buildExecutor assembles the generation backend, the downloader, and the
// executor that runs one prompt end to end.
func buildExecutor(cfg *core.Config, logger *logging.Logger) (*imagegen.Executor, error) {
	var provider imagegen.Provider
	var err error
	switch cfg.Provider {
	case core.ProviderOpenAI:
		provider, err = imagegen.NewOpenAIProvider(cfg)
	default:
		provider, err = imagegen.NewDreaminaProvider(cfg)
	}
	if err != nil {
		return nil, err
	}

	downloader, err := imagegen.NewDownloader(cfg)
	if err != nil {
		return nil, err
	}

	return imagegen.NewExecutor(provider, downloader, logger, imagegen.ExecutorConfig{
		OutputRoot:     cfg.OutputRoot,
		RatioLabel:     imagegen.RatioLabel(cfg.AspectRatio),
		Width:          cfg.Width,
		Height:         cfg.Height,
		ImageCount:     cfg.ImageCount,
		NegativePrompt: cfg.NegativePrompt,
		SampleStrength: cfg.SampleStrength,
	})
}

// openLedger opens the run ledger and prunes aged rows. A ledger problem
// disables the audit trail, never the run.
func openLedger(ctx context.Context, cfg *core.Config, log *logging.Logger) *db.Ledger {
	if !cfg.LedgerEnabled() {
		return nil
	}

	ledger, err := db.Open(cfg.LedgerPath)
	if err != nil {
		log.Warn("Ledger unavailable, run continues without audit rows",
			zap.String("path", cfg.LedgerPath),
			zap.Error(err),
		)
		return nil
	}

	result, err := ledger.Prune(ctx, db.DefaultRetentionDays)
	if err != nil {
		log.Warn("Ledger prune failed", zap.Error(err))
	} else if result.TotalDeleted() > 0 {
		log.Info("Pruned aged ledger rows",
			zap.Int64("runs", result.RunsDeleted),
			zap.Int64("attempts", result.AttemptsDeleted),
			zap.Duration("duration", result.Duration),
		)
	}

	return ledger
}
