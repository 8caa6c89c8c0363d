package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/crucible/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// maxListed caps how many notes are spelled out per section of a message.
const maxListed = 10

// SlackNotifier posts run reports to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each report to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the report as a single Block Kit message. Reports that
// neither moved a note nor failed are not sent.
func (s *SlackNotifier) Notify(report model.RunReport) error {
	if len(report.Placed) == 0 && len(report.Quarantined) == 0 && report.Err == nil {
		return nil
	}

	body, err := json.Marshal(buildPayload(report))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack message sent", "run_id", report.RunID, "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent", "run_id", report.RunID)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a sample run report to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	return n.Notify(model.RunReport{
		RunID:   uuid.NewString(),
		Scanned: 2,
		Placed: []model.Placement{{
			Source:      "00_Inbox/test-note.md",
			Destination: "03_Resources/Crucible/test-note.md",
			Category:    model.CategoryResources,
			Topic:       "Crucible",
		}},
		Quarantined: []string{"00_Inbox/unreadable.md"},
	})
}

func buildPayload(r model.RunReport) slackPayload {
	title := "📥 Inbox classified"
	if r.Err != nil {
		title = "⚠️ Inbox classification failed"
	}
	if r.DryRun {
		title += " (dry run)"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Scanned:*\n" + strconv.Itoa(r.Scanned)},
				{Type: "mrkdwn", Text: "*Placed:*\n" + strconv.Itoa(len(r.Placed))},
				{Type: "mrkdwn", Text: "*Quarantined:*\n" + strconv.Itoa(len(r.Quarantined))},
				{Type: "mrkdwn", Text: "*Ignored:*\n" + strconv.Itoa(r.Ignored)},
			},
		},
	}

	if r.Err != nil {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Error:*\n```" + r.Err.Error() + "```"},
		})
	}

	if len(r.Placed) > 0 {
		lines := make([]string, 0, len(r.Placed))
		for _, p := range r.Placed {
			lines = append(lines, fmt.Sprintf("• `%s` → *%s* / %s", baseName(p.Source), p.Category, p.Topic))
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Placed*\n" + listText(lines)},
		})
	}

	if len(r.Quarantined) > 0 {
		lines := make([]string, 0, len(r.Quarantined))
		for _, q := range r.Quarantined {
			lines = append(lines, "• `"+baseName(q)+"`")
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Quarantined*\n" + listText(lines)},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: "run " + r.RunID}},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}

func listText(lines []string) string {
	if len(lines) <= maxListed {
		return strings.Join(lines, "\n")
	}
	more := len(lines) - maxListed
	return strings.Join(lines[:maxListed], "\n") + fmt.Sprintf("\n…and %d more", more)
}

// baseName works on the slash-normalized paths carried by reports.
func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
