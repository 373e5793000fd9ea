package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Notifier delivers triggered alerts to an external channel.
type Notifier interface {
	Notify(alerts []Alert) error
}

// slackNotifier posts the alert digest to a Slack incoming webhook.
type slackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Notifier that sends alerts to the given Slack
// webhook URL.
func NewSlackNotifier(webhookURL string) Notifier {
	return &slackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// conditionLabels maps the alert engine's condition keys to the short labels
// shown in the channel.
var conditionLabels = map[string]string{
	"item_overdue":         "Deadline missed",
	"deadline_approaching": "Deadline approaching",
	"item_stale":           "No recent activity",
	"too_many_open_items":  "Open item backlog",
}

// notifySeverityOrder is the rendering order: a missed deadline is the first
// thing the channel sees.
var notifySeverityOrder = []AlertSeverity{SeverityHigh, SeverityMedium, SeverityLow}

// Notify posts the alerts as one digest message. It returns nil without
// making a request if the alerts slice is empty.
func (s *slackNotifier) Notify(alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(s.buildMessage(alerts))
	if err != nil {
		return fmt.Errorf("marshaling slack message: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// buildMessage renders a header, a one-line severity summary, and one
// section per severity with the grouped alerts as a bullet list.
func (s *slackNotifier) buildMessage(alerts []Alert) slackMessage {
	bySeverity := make(map[AlertSeverity][]Alert)
	for _, alert := range alerts {
		bySeverity[alert.Severity] = append(bySeverity[alert.Severity], alert)
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "Documentation deadlines and follow-ups"},
		},
		{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: summaryLine(alerts)}},
		},
	}

	for _, severity := range notifySeverityOrder {
		group := bySeverity[severity]
		if len(group) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s *%s*", severityEmoji(severity), strings.ToUpper(string(severity)))
		for _, alert := range group {
			fmt.Fprintf(&b, "\n• %s: %s", conditionLabel(alert.Condition), alert.Message)
		}
		blocks = append(blocks,
			slackBlock{Type: "divider"},
			slackBlock{Type: "section", Text: &slackText{Type: "mrkdwn", Text: b.String()}},
		)
	}

	return slackMessage{Blocks: blocks}
}

func conditionLabel(condition string) string {
	if label, ok := conditionLabels[condition]; ok {
		return label
	}
	return condition
}

func summaryLine(alerts []Alert) string {
	counts := make(map[AlertSeverity]int)
	for _, alert := range alerts {
		counts[alert.Severity]++
	}
	return fmt.Sprintf("%d alert(s): %d high, %d medium, %d low · %s",
		len(alerts),
		counts[SeverityHigh], counts[SeverityMedium], counts[SeverityLow],
		alerts[0].TriggeredAt.Format("2006-01-02 15:04 UTC"),
	)
}

func severityEmoji(severity AlertSeverity) string {
	switch severity {
	case SeverityHigh:
		return "\U0001f534"
	case SeverityMedium:
		return "\U0001f7e1"
	case SeverityLow:
		return "\U0001f535"
	default:
		return "❓"
	}
}
