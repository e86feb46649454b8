package escalation

import (
	"time"

	"github.com/agamordechai/active-fence-assignment/riskengine/scorer"
)

type AlertSeverity string

const (
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus tracks the review lifecycle of an alert. The engine only ever
// creates alerts in StatusNew; all later transitions belong to the external
// review workflow.
type AlertStatus string

const (
	StatusNew       AlertStatus = "new"
	StatusReviewed  AlertStatus = "reviewed"
	StatusDismissed AlertStatus = "dismissed"
	StatusEscalated AlertStatus = "escalated"
)

type ScanStatus string

const (
	ScanSuccess   ScanStatus = "success"
	ScanNoContent ScanStatus = "no_content"
	ScanError     ScanStatus = "error"
)

// AlertDetails carries the evidence attached to an alert for human review.
type AlertDetails struct {
	TextPreview string           `json:"text_preview"`
	RiskLevel   scorer.RiskLevel `json:"risk_level"`
	Flags       []string         `json:"flags"`
	DetectedAt  time.Time        `json:"detected_at"`
}

// Alert is a durable record that an item or account crossed a risk threshold.
type Alert struct {
	ID          string        `json:"id"`
	AccountID   string        `json:"account_id"`
	ContentID   string        `json:"content_id,omitempty"`
	AlertType   string        `json:"alert_type"`
	Severity    AlertSeverity `json:"severity"`
	RiskScore   float64       `json:"risk_score"`
	Description string        `json:"description"`
	Details     AlertDetails  `json:"details"`
	Status      AlertStatus   `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ScanLogEntry is the append-only audit record for one account scan. Exactly
// one entry is produced per scan invocation, even when nothing interesting was
// found or the scan failed upstream.
type ScanLogEntry struct {
	ID                string     `json:"id"`
	AccountID         string     `json:"account_id"`
	ActivityType      string     `json:"activity_type"`
	Description       string     `json:"description"`
	ItemsScanned      int        `json:"items_scanned"`
	HighRiskItemCount int        `json:"high_risk_item_count"`
	AlertsGenerated   int        `json:"alerts_generated"`
	MaxRiskScore      float64    `json:"max_risk_score"`
	Status            ScanStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
}
