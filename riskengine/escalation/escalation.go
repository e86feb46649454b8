// Package escalation turns crossed risk thresholds into durable alerts and
// audit log entries.
package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agamordechai/active-fence-assignment/riskengine/countstore"
	"github.com/agamordechai/active-fence-assignment/riskengine/scorer"
)

// number of alert notifications the engine can send per day, for all accounts
// combined (circuit breaker). Alerts themselves are never dropped; only the
// outbound notification is skipped once the quota is exhausted.
var QuotaAlertNotifyDay = 200

const previewMaxLen = 200

const AlertTypeMonitoredContent = "monitored_account_content"

// Engine decides whether a score crossing a threshold becomes an alert, at
// what severity, and records one audit entry per account scan.
type Engine struct {
	Logger                *slog.Logger
	Counters              countstore.CountStore
	Notifier              Notifier
	HighRiskThreshold     float64
	CriticalRiskThreshold float64
}

func NewEngine(logger *slog.Logger, counters countstore.CountStore, notifier Notifier) *Engine {
	return &Engine{
		Logger:                logger,
		Counters:              counters,
		Notifier:              notifier,
		HighRiskThreshold:     50,
		CriticalRiskThreshold: 70,
	}
}

// EvaluateItem produces an alert when an item score is at or above the
// high-risk threshold, severity critical at or above the critical threshold.
// Returns nil below the threshold. The alert is always created in status
// "new" with a text preview, the score's flags, and a detection timestamp.
func (e *Engine) EvaluateItem(ctx context.Context, accountID, contentID, text string, score scorer.RiskScore) *Alert {
	if score.RiskScore < e.HighRiskThreshold {
		return nil
	}

	severity := SeverityHigh
	if score.RiskScore >= e.CriticalRiskThreshold {
		severity = SeverityCritical
	}

	alert := &Alert{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		ContentID:   contentID,
		AlertType:   AlertTypeMonitoredContent,
		Severity:    severity,
		RiskScore:   score.RiskScore,
		Description: fmt.Sprintf("High-risk content detected from monitored account %s", accountID),
		Details: AlertDetails{
			TextPreview: textPreview(text),
			RiskLevel:   score.RiskLevel,
			Flags:       score.Flags,
			DetectedAt:  time.Now().UTC(),
		},
		Status:    StatusNew,
		CreatedAt: time.Now().UTC(),
	}

	alertCreatedCount.WithLabelValues(string(severity)).Inc()
	e.Logger.Warn("alert created",
		"account", accountID,
		"content", contentID,
		"severity", severity,
		"riskScore", score.RiskScore,
	)

	// only critical alerts page out; high alerts wait for the review queue
	if severity == SeverityCritical {
		e.notify(ctx, alert)
	}
	return alert
}

// LogScan records one audit entry for an account scan. Called exactly once
// per scan, unconditionally: clean scans and upstream errors still produce an
// entry.
func (e *Engine) LogScan(ctx context.Context, accountID, activityType string, itemsScanned, highRiskItems, alertsGenerated int, maxRiskScore float64, status ScanStatus) ScanLogEntry {
	entry := ScanLogEntry{
		ID:                uuid.New().String(),
		AccountID:         accountID,
		ActivityType:      activityType,
		Description:       fmt.Sprintf("%s for account %s", activityType, accountID),
		ItemsScanned:      itemsScanned,
		HighRiskItemCount: highRiskItems,
		AlertsGenerated:   alertsGenerated,
		MaxRiskScore:      maxRiskScore,
		Status:            status,
		CreatedAt:         time.Now().UTC(),
	}

	scanCount.WithLabelValues(activityType, string(status)).Inc()
	if err := e.Counters.Increment(ctx, "scan", activityType); err != nil {
		e.Logger.Error("incrementing scan counter", "err", err)
	}

	e.Logger.Info("account scan logged",
		"account", accountID,
		"activityType", activityType,
		"itemsScanned", itemsScanned,
		"highRiskItems", highRiskItems,
		"alertsGenerated", alertsGenerated,
		"status", status,
	)
	return entry
}

func (e *Engine) notify(ctx context.Context, alert *Alert) {
	if e.Notifier == nil {
		return
	}
	c, err := e.Counters.GetCount(ctx, "quota", "alert-notify", countstore.PeriodDay)
	if err != nil {
		e.Logger.Error("reading notification quota", "err", err)
		return
	}
	if c >= QuotaAlertNotifyDay {
		e.Logger.Warn("CIRCUIT BREAKER: alert notifications", "account", alert.AccountID)
		return
	}
	if err := e.Counters.Increment(ctx, "quota", "alert-notify"); err != nil {
		e.Logger.Error("incrementing notification quota", "err", err)
	}
	if err := e.Notifier.SendAlert(ctx, alert); err != nil {
		e.Logger.Error("sending alert notification", "err", err, "account", alert.AccountID)
	}
}

func textPreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewMaxLen {
		return text
	}
	return string(runes[:previewMaxLen]) + "..."
}
