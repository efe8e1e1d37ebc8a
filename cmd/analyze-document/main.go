package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taxdefense-backend/config"
	"taxdefense-backend/llm"
	"taxdefense-backend/logger"
	"taxdefense-backend/models"
	"taxdefense-backend/service"
	"taxdefense-backend/storage"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type options struct {
	processID     string
	assessmentRef string
	taxpayerName  string
	fineAmount    string
	logLevel      string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "analyze-document <file>",
		Short:         "Analyze a tax-defense document and print the result as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.processID, "process-id", "", "Process ID (defaults to the file name)")
	cmd.Flags().StringVar(&opts.assessmentRef, "assessment", "", "Tax assessment reference")
	cmd.Flags().StringVar(&opts.taxpayerName, "taxpayer", "", "Taxpayer name")
	cmd.Flags().StringVar(&opts.fineAmount, "fine", "0", "Fine amount in BRL")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")
	return cmd
}

func run(ctx context.Context, path string, opts options) error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.SetDefault(logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(opts.logLevel),
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}))

	fine, err := decimal.NewFromString(opts.fineAmount)
	if err != nil {
		return fmt.Errorf("invalid --fine: %w", err)
	}
	if fine.IsNegative() {
		return fmt.Errorf("invalid --fine: must not be negative")
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	documents, err := storage.NewLocalStorage(dir)
	if err != nil {
		return err
	}
	text, err := storage.ReadText(ctx, documents, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	processID := opts.processID
	if processID == "" {
		processID = strings.TrimSuffix(name, filepath.Ext(name))
	}

	var client llm.Client
	if cfg.LLM.APIKey() != "" {
		client, err = llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			return err
		}
	}

	analysisService := service.NewAnalysisService(
		service.AnalysisWithLLMClient(client),
		service.AnalysisWithAPIKey(cfg.LLM.APIKey()),
		service.AnalysisWithModel(cfg.LLM.Model()),
	)

	result, err := analysisService.Analyze(ctx, service.AnalyzeRequest{
		Submission: models.CaseSubmission{
			ProcessID:     processID,
			DocumentText:  text,
			AssessmentRef: opts.assessmentRef,
			TaxpayerName:  opts.taxpayerName,
			FineAmount:    fine,
		},
	})
	if err != nil {
		return err
	}
	if result.Truncated {
		fmt.Fprintln(os.Stderr, "warning: document truncated before analysis")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Analysis)
}
