package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/crucible/internal/vault"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vault folder layout",
	Long:  "Creates every folder crucible expects under VAULT_PATH. Existing folders are left alone.",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	results, err := vault.New(cfg.VaultPath).Init()
	for _, r := range results {
		state := "exists "
		if r.Created {
			state = "created"
		}
		fmt.Printf("  %s  %s\n", state, r.Dir)
	}
	if err != nil {
		logger.Error("init failed", "error", err)
		os.Exit(1)
	}
	return nil
}
