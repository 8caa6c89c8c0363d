// Package classifier sorts inbox notes into the vault's category folders with
// a single LLM request per run.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/amishk599/crucible/internal/model"
	"github.com/amishk599/crucible/internal/schemas"
	"github.com/amishk599/crucible/internal/vault"
)

// maxContentChars caps how much of each note is sent to the provider.
const maxContentChars = 4000

// ErrClassificationFailed is returned when the provider call failed and the
// whole batch was quarantined.
var ErrClassificationFailed = errors.New("classification failed")

// ErrInterrupted is returned when the run was cancelled during the provider
// call. No note is moved in that case.
var ErrInterrupted = errors.New("classification interrupted")

// Classifier runs one inbox batch: scan, prompt, classify, apply.
type Classifier struct {
	vault    vault.Layout
	caller   model.JSONCaller
	notifier model.Notifier
	logger   *slog.Logger
	dryRun   bool
}

// New creates a classifier wired with all its dependencies.
func New(layout vault.Layout, caller model.JSONCaller, notifier model.Notifier, logger *slog.Logger) *Classifier {
	return &Classifier{
		vault:    layout,
		caller:   caller,
		notifier: notifier,
		logger:   logger,
	}
}

// SetDryRun makes Run stop after planning: the provider is still asked, but
// nothing in the vault is moved, written or quarantined.
func (c *Classifier) SetDryRun(v bool) {
	c.dryRun = v
}

// Run processes the inbox as one batch. An empty inbox is a successful no-op.
// When the provider call fails every scanned note still on disk is moved to the
// failed folder and the returned error wraps ErrClassificationFailed.
func (c *Classifier) Run(ctx context.Context) (model.RunReport, error) {
	report := model.RunReport{RunID: uuid.NewString(), DryRun: c.dryRun}
	logger := c.logger.With("run_id", report.RunID)

	items, err := c.vault.ScanInbox()
	if err != nil {
		return report, err
	}
	report.Scanned = len(items)
	if len(items) == 0 {
		logger.Info("no inbox items to classify")
		return report, nil
	}
	logger.Info("classifying inbox", "items", len(items))

	prompt, err := BuildPrompt(items)
	if err != nil {
		return report, err
	}

	result, err := c.classify(ctx, prompt)
	if err != nil && (ctx.Err() != nil || errors.Is(err, context.Canceled)) {
		report.Err = err
		logger.Warn("classification interrupted, inbox left untouched", "error", err)
		return report, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	if err != nil {
		report.Err = err
		if !c.dryRun {
			quarantined, qerr := c.quarantineAll(items)
			report.Quarantined = quarantined
			if qerr != nil {
				err = errors.Join(err, qerr)
			}
		}
		logger.Error("classification failed", "error", err, "quarantined", len(report.Quarantined))
		c.notify(logger, report)
		return report, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}

	actions, ignored := Plan(items, result)
	report.Ignored = ignored

	if c.dryRun {
		for _, a := range actions {
			c.record(&report, a, c.destination(a))
		}
		logger.Info("dry run complete", "placed", len(report.Placed), "quarantined", len(report.Quarantined), "ignored", ignored)
		return report, nil
	}

	if err := c.apply(logger, actions, &report); err != nil {
		report.Err = err
		logger.Error("applying classification failed", "error", err)
		c.notify(logger, report)
		return report, err
	}

	logger.Info("classification complete", "placed", len(report.Placed), "quarantined", len(report.Quarantined), "ignored", ignored)
	c.notify(logger, report)
	return report, nil
}

func (c *Classifier) classify(ctx context.Context, prompt string) (model.Classification, error) {
	var result model.Classification

	raw, err := c.caller.Call(ctx, prompt)
	if err != nil {
		return result, err
	}
	if err := schemas.Validate(schemas.Classification, raw); err != nil {
		return result, err
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("%w: decode classification: %v", model.ErrProviderData, err)
	}
	return result, nil
}

// quarantineAll moves every scanned note that still exists into the failed
// folder. It keeps going after a failed move and reports all errors together.
func (c *Classifier) quarantineAll(items []model.InboxItem) ([]string, error) {
	var (
		moved []string
		errs  []error
	)
	for _, it := range items {
		src := filepath.FromSlash(it.Path)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if _, err := c.vault.MoveToFailed(src); err != nil {
			errs = append(errs, err)
			continue
		}
		moved = append(moved, it.Path)
	}
	return moved, errors.Join(errs...)
}

func (c *Classifier) apply(logger *slog.Logger, actions []Action, report *model.RunReport) error {
	for _, a := range actions {
		src := filepath.FromSlash(a.Item.Path)

		switch a.Kind {
		case ActionQuarantine:
			target, overwrote, err := c.vault.RenameToFailed(src)
			if err != nil {
				return err
			}
			if overwrote {
				logger.Warn("invalid category replaced a quarantined file of the same name", "path", a.Item.Path, "target", target)
			}
			logger.Info("invalid category, quarantined", "path", a.Item.Path, "category", a.RawCategory)
			c.record(report, a, target)

		case ActionPlace:
			dir := c.vault.TopicDir(a.Category, a.Topic)
			dest, err := vault.Place(src, vault.WithSummary(a.Item.Content, a.Summary), dir)
			if err != nil {
				return err
			}
			if err := vault.UpdateIndex(dir, filepath.Base(dest)); err != nil {
				return err
			}
			logger.Info("note placed", "path", a.Item.Path, "category", a.Category, "topic", a.Topic)
			c.record(report, a, dest)
		}
	}
	return nil
}

// destination is where an action will put its note.
func (c *Classifier) destination(a Action) string {
	name := filepath.Base(filepath.FromSlash(a.Item.Path))
	if a.Kind == ActionQuarantine {
		return filepath.Join(c.vault.Failed(), name)
	}
	return filepath.Join(c.vault.TopicDir(a.Category, a.Topic), name)
}

func (c *Classifier) record(report *model.RunReport, a Action, dest string) {
	if a.Kind == ActionQuarantine {
		report.Quarantined = append(report.Quarantined, a.Item.Path)
		return
	}
	report.Placed = append(report.Placed, model.Placement{
		Source:      a.Item.Path,
		Destination: filepath.ToSlash(dest),
		Category:    a.Category,
		Topic:       a.Topic,
	})
}

func (c *Classifier) notify(logger *slog.Logger, report model.RunReport) {
	if c.notifier == nil || c.dryRun {
		return
	}
	if err := c.notifier.Notify(report); err != nil {
		logger.Warn("run report notification failed", "error", err)
	}
}

type promptItem struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// BuildPrompt renders the batch instruction with a JSON payload holding each
// note's path and at most the first 4000 characters of its content.
func BuildPrompt(items []model.InboxItem) (string, error) {
	payload := make([]promptItem, 0, len(items))
	for _, it := range items {
		payload = append(payload, promptItem{
			Path:    it.Path,
			Content: truncateRunes(it.Content, maxContentChars),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("marshal prompt payload: %w", err)
	}

	categories := make([]string, 0, len(model.Categories))
	for _, cat := range model.Categories {
		categories = append(categories, string(cat))
	}

	var out bytes.Buffer
	if err := classifyTemplate.Execute(&out, struct {
		Categories string
		Payload    string
	}{
		Categories: strings.Join(categories, "|"),
		Payload:    strings.TrimSpace(buf.String()),
	}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out.String(), nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
