package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/crucible/internal/review"
	"github.com/amishk599/crucible/internal/vault"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse topic folders and their notes (TUI)",
	Long:  "Shows a picker of every topic folder with an Index.md, then a split view of its notes.",
	RunE:  runReviewCmd,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReviewCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	layout := vault.New(cfg.VaultPath)
	for {
		topics, err := review.RunLoader("Scanning vault", func(ctx context.Context) ([]vault.Topic, error) {
			return layout.Topics()
		})
		if err != nil {
			fmt.Printf("Scan error: %v\n", err)
			return nil
		}
		if len(topics) == 0 {
			fmt.Println("No topic folders with an Index.md yet. Run `crucible classify` first.")
			return nil
		}

		choice, err := review.RunTopicPicker(topics)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}

		quit, err := review.RunReviewTUI(topics[choice])
		if err != nil {
			fmt.Printf("Review error: %v\n", err)
			return nil
		}
		if quit {
			return nil
		}
	}
}
