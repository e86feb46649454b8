package escalation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type SlackNotifier struct {
	SlackWebhookURL string
}

var _ Notifier = (*SlackNotifier)(nil)

type SlackWebhookBody struct {
	Text string `json:"text"`
}

func (n *SlackNotifier) SendAlert(ctx context.Context, alert *Alert) error {
	msg := fmt.Sprintf("⚠️ Content Risk Alert (%s) ⚠️\n", strings.ToUpper(string(alert.Severity)))
	msg += fmt.Sprintf("`%s` risk score %.1f/100\n", alert.AccountID, alert.RiskScore)
	msg += alert.Description + "\n"
	if len(alert.Details.Flags) > 0 {
		msg += fmt.Sprintf("Flags: `%s`\n", strings.Join(alert.Details.Flags, ", "))
	}
	if alert.Details.TextPreview != "" {
		msg += fmt.Sprintf("> %s\n", alert.Details.TextPreview)
	}
	return n.sendSlackMsg(ctx, msg)
}

// Sends a simple slack message to a channel via "incoming webhook".
//
// The slack incoming webhook must be already configured in the slack workplace.
func (n *SlackNotifier) sendSlackMsg(ctx context.Context, msg string) error {
	body, err := json.Marshal(SlackWebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.SlackWebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	client := http.DefaultClient
	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != 200 || buf.String() != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}
