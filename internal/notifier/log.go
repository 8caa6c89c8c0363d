package notifier

import (
	"log/slog"

	"github.com/amishk599/crucible/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes run reports to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each report via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs one line per placed note, one per quarantined note, and a
// summary line. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(report model.RunReport) error {
	for _, p := range report.Placed {
		n.logger.Info("placed", "run_id", report.RunID, "source", p.Source, "category", p.Category, "topic", p.Topic, "destination", p.Destination)
	}
	for _, q := range report.Quarantined {
		n.logger.Info("quarantined", "run_id", report.RunID, "source", q)
	}

	args := []any{
		"run_id", report.RunID,
		"scanned", report.Scanned,
		"placed", len(report.Placed),
		"quarantined", len(report.Quarantined),
		"ignored", report.Ignored,
	}
	if report.DryRun {
		args = append(args, "dry_run", true)
	}
	if report.Err != nil {
		n.logger.Error("classification run failed", append(args, "error", report.Err)...)
		return nil
	}
	n.logger.Info("classification run", args...)
	return nil
}
