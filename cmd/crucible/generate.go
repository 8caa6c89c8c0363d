package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/crucible/internal/drafts"
	"github.com/amishk599/crucible/internal/llm"
	"github.com/amishk599/crucible/internal/vault"
)

var jobPath string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a resume and cover letter for a job posting",
	Long: "Reads the job posting at JOB_PATH (or --job), fills the packaged resume and cover letter " +
		"templates with the configured LLM, and writes both drafts to 02_Jobs/Generated.",
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&jobPath, "job", "j", "", "job posting markdown file (default: JOB_PATH)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if jobPath == "" {
		jobPath = cfg.JobPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adapter := llm.NewAdapter(cfg.LLM, logger)
	defer adapter.Close()

	res, err := drafts.New(vault.New(cfg.VaultPath), adapter, logger).Run(ctx, jobPath)
	if err != nil {
		logger.Error("generate failed", "error", err)
		adapter.Close()
		stop()
		os.Exit(1)
	}

	fmt.Printf("Resume:       %s\nCover letter: %s\n", res.ResumePath, res.CoverLetterPath)
	return nil
}
