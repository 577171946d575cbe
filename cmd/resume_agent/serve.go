package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-agent/internal/analysis"
	"github.com/jonathan/resume-agent/internal/config"
	"github.com/jonathan/resume-agent/internal/llm"
	"github.com/jonathan/resume-agent/internal/pointers"
	"github.com/jonathan/resume-agent/internal/rendering"
	"github.com/jonathan/resume-agent/internal/rewriting"
	"github.com/jonathan/resume-agent/internal/screening"
	"github.com/jonathan/resume-agent/internal/server"
	"github.com/jonathan/resume-agent/internal/status"
	"github.com/jonathan/resume-agent/internal/storage"
	"github.com/jonathan/resume-agent/internal/validation"
	"github.com/jonathan/resume-agent/internal/workflow"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for submitting job postings and polling run status.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()
	engine, statuses, client, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	srv := server.New(server.Config{Port: cfg.Port}, statuses, engine)
	return srv.Start()
}

// resolveConfig loads the config file if given, overlays environment
// variables, and fills remaining gaps with defaults.
func resolveConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg.MergeWithDefaults(defaultConfig()), nil
}

func defaultConfig() config.Config {
	retries := workflow.DefaultMaxRetries
	return config.Config{
		Port:                8080,
		PointerBank:         "pointers.md",
		Template:            "templates/resume.txt",
		OutputDir:           "output",
		UploadDir:           "uploads",
		MaxRetries:          &retries,
		CoverageThreshold:   validation.DefaultCoverageThreshold,
		StageTimeoutSeconds: int(workflow.DefaultStageTimeout / time.Second),
	}
}

// buildEngine wires the status store, LLM client, and all workflow stages
// from the resolved configuration. The caller owns closing the returned
// client.
func buildEngine(ctx context.Context, cfg config.Config) (*workflow.Engine, *status.Service, llm.Client, error) {
	var store status.Store
	if cfg.DatabaseURL != "" {
		pg, err := status.ConnectPG(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = pg
	} else {
		log.Printf("DATABASE_URL not set, statuses will not survive restarts")
		store = status.NewMemoryStore()
	}
	statuses := status.NewService(store)

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		statuses.Close()
		return nil, nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var source pointers.Source
	if cfg.PointerBankURL != "" {
		source = pointers.NewHTTPSource(cfg.PointerBankURL, 30*time.Second)
	} else {
		source = pointers.NewFileSource(cfg.PointerBank)
	}

	maxRetries := -1
	if cfg.MaxRetries != nil {
		maxRetries = *cfg.MaxRetries
	}

	engine := workflow.NewEngine(
		statuses,
		screening.NewClassifier(client, cfg.BlockerPhrases),
		source,
		analysis.NewAnalyzer(client),
		rewriting.NewRewriter(client),
		validation.NewValidator(client, cfg.CoverageThreshold),
		rendering.NewTemplateRenderer(cfg.Template, cfg.OutputDir),
		storage.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL),
		workflow.Config{
			MaxRetries:   maxRetries,
			StageTimeout: time.Duration(cfg.StageTimeoutSeconds) * time.Second,
		},
	)
	return engine, statuses, client, nil
}
