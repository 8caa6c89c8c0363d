package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/crucible/internal/config"
	"github.com/amishk599/crucible/internal/model"
	"github.com/amishk599/crucible/internal/notifier"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "crucible",
	Short: "Inbox classifier and job draft generator for a PARA vault",
	Long: "Crucible sorts the notes in a vault's inbox into PARA category folders with an LLM, " +
		"and drafts a resume and cover letter from a job posting.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CRUCIBLE_CONFIG env var, else environment only)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CRUCIBLE_CONFIG env var > no file.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("CRUCIBLE_CONFIG")
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}
