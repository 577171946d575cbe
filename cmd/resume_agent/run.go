package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-agent/internal/fetch"
	"github.com/jonathan/resume-agent/internal/observability"
	"github.com/jonathan/resume-agent/internal/types"
	"github.com/jonathan/resume-agent/internal/workflow"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one tailoring workflow end-to-end",
	Long: `Runs the full workflow for a single job posting: screening -> pointer loading -> analysis -> rewrite/validate loop -> rendering -> upload.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runWorkflowCmd,
}

var (
	runConfigPath  string
	runJob         string
	runJobURL      string
	runTitle       string
	runCompany     string
	runPointerBank string
	runTemplate    string
	runOutputDir   string
	runUseBrowser  bool
	runVerbose     bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	runCommand.Flags().StringVar(&runTitle, "title", "", "Job title hint (optional, extracted from the posting if omitted)")
	runCommand.Flags().StringVar(&runCompany, "company", "", "Company name hint (optional)")
	runCommand.Flags().StringVarP(&runPointerBank, "pointer-bank", "p", "", "Path to pointer bank markdown file")
	runCommand.Flags().StringVarP(&runTemplate, "template", "t", "", "Path to resume template")
	runCommand.Flags().StringVar(&runOutputDir, "output-dir", "", "Directory for rendered documents")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

func runWorkflowCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(runConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pointer-bank") {
		cfg.PointerBank = runPointerBank
		cfg.PointerBankURL = ""
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = runTemplate
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}

	if runJob == "" && runJobURL == "" {
		return fmt.Errorf("either --job or --job-url is required")
	}
	if runJob != "" && runJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	jobDescription, err := loadJobDescription(ctx, cfg.UseBrowser)
	if err != nil {
		return err
	}

	engine, statuses, client, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()
	defer statuses.Close()

	result, err := engine.Run(ctx, workflow.Request{
		JobDescription: jobDescription,
		JobURL:         runJobURL,
		Title:          runTitle,
		Company:        runCompany,
	})
	if err != nil {
		return err
	}

	printRunResult(result)
	if result.State.Status == types.StatusFailed {
		return fmt.Errorf("workflow failed at step %s", result.State.CurrentStep)
	}
	return nil
}

func loadJobDescription(ctx context.Context, useBrowser bool) (string, error) {
	if runJob != "" {
		data, err := os.ReadFile(runJob)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(data), nil
	}

	opts := fetch.DefaultOptions()
	opts.AllowBrowser = useBrowser
	text, err := fetch.JobDescription(ctx, runJobURL, opts)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job posting: %w", err)
	}
	return text, nil
}

func printRunResult(result *workflow.RunResult) {
	state := result.State

	fmt.Printf("Status ID: %s\n", result.StatusID)
	fmt.Printf("Status:    %s\n", state.Status)
	fmt.Printf("Step:      %s\n", state.CurrentStep)

	if state.ValidationResult != nil {
		fmt.Printf("Coverage:  %.2f\n", state.ValidationResult.KeywordCoverageScore)
	}
	if state.ResumeURL != "" {
		fmt.Printf("Resume:    %s\n", state.ResumeURL)
	}

	if runVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintJobMetadata(state.JobMetadata)
		printer.PrintRequirements(state.AnalyzedRequirements)
		printer.PrintRewrittenBullets(state.RewrittenBullets)
		printer.PrintValidationResult(state.ValidationResult)
		printer.PrintStepHistory(state.StepHistory)
	}
	for _, stepErr := range state.Errors {
		fmt.Fprintf(os.Stderr, "Warning [%s]: %s\n", stepErr.Step, stepErr.Message)
	}
}
