package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/crucible/internal/classifier"
	"github.com/amishk599/crucible/internal/llm"
	"github.com/amishk599/crucible/internal/model"
	"github.com/amishk599/crucible/internal/vault"
)

var dryRun bool

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify every note in the inbox",
	Long: "Sends the inbox notes to the configured LLM in one request and moves each note into " +
		"<category>/<topic>/, updating the topic's Index.md. If the request fails, every note " +
		"is moved to 00_Inbox/_failed and the command exits 1.",
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "ask the LLM and print the plan without touching the vault")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", "vault", cfg.VaultPath, "provider", cfg.LLM.Provider, "notifier", cfg.Notification.Type)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adapter := llm.NewAdapter(cfg.LLM, logger)
	defer adapter.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)

	c := classifier.New(vault.New(cfg.VaultPath), adapter, n, logger)
	c.SetDryRun(dryRun)
	if dryRun {
		logger.Info("dry-run mode enabled, the vault will not be modified")
	}

	report, err := c.Run(ctx)
	if dryRun {
		printPlan(report)
	}
	if err != nil {
		logger.Error("classify failed", "error", err)
		adapter.Close()
		stop()
		os.Exit(1)
	}
	return nil
}

func printPlan(r model.RunReport) {
	if r.Scanned == 0 {
		fmt.Println("Inbox is empty.")
		return
	}
	fmt.Printf("Plan for %d inbox notes:\n", r.Scanned)
	for _, p := range r.Placed {
		fmt.Printf("  place       %s -> %s\n", p.Source, p.Destination)
	}
	for _, q := range r.Quarantined {
		fmt.Printf("  quarantine  %s\n", q)
	}
	if r.Ignored > 0 {
		fmt.Printf("  %d provider entries ignored\n", r.Ignored)
	}
}
