package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/agamordechai/active-fence-assignment/riskengine/enrich"
	"github.com/agamordechai/active-fence-assignment/riskengine/escalation"
	"github.com/agamordechai/active-fence-assignment/riskengine/scorer"
)

// ScanResult is the outcome of scanning one account's content window.
type ScanResult struct {
	AccountID    string
	Status       escalation.ScanStatus
	ItemsScanned int
	HighRisk     int
	MaxRiskScore float64
	Profile      scorer.RiskProfile
	Account      *enrich.EnrichedAccount
	Alerts       []*escalation.Alert
	LogEntry     escalation.ScanLogEntry
}

// MonitoringSummary reports one monitoring run over all flagged accounts.
type MonitoringSummary struct {
	StartedAt        time.Time
	CompletedAt      time.Time
	AccountsScanned  int
	AlertsGenerated  int
	HighRiskAccounts int
	Errors           int
}

// ScanAccount fetches, enriches, aggregates and escalates one account.
// Exactly one scan log entry is emitted per call, on every path: success,
// empty history, upstream fetch error, or a panic during scoring.
func (p *Pipeline) ScanAccount(ctx context.Context, accountID, activityType string) *ScanResult {
	logger := p.Logger.With("account", accountID, "activityType", activityType)
	start := time.Now()
	res := &ScanResult{AccountID: accountID, Status: escalation.ScanSuccess}

	defer func() {
		// similar to an HTTP server, recover any panics from scoring so one
		// poisoned account cannot take down the batch
		if r := recover(); r != nil {
			logger.Error("scan execution exception", "err", r)
			res.Status = escalation.ScanError
		}

		res.LogEntry = p.Escalation.LogScan(ctx, accountID, activityType,
			res.ItemsScanned, res.HighRisk, len(res.Alerts), res.MaxRiskScore, res.Status)
		if err := p.Store.CreateScanLog(ctx, res.LogEntry); err != nil {
			logger.Error("persisting scan log", "err", err)
		}
		scanDuration.Observe(time.Since(start).Seconds())
	}()

	history, err := p.Source.FetchAccountHistory(ctx, accountID, p.Config.AccountHistoryLimit)
	if err != nil {
		logger.Error("fetching account history", "err", err)
		res.Status = escalation.ScanError
		return res
	}
	if history.Empty() {
		logger.Info("no content found for account")
		res.Status = escalation.ScanNoContent
		return res
	}

	enriched := p.Enricher.Enrich(history)
	res.Account = enriched
	res.ItemsScanned = len(enriched.Texts)

	res.Profile = p.Aggregator.Aggregate(accountID, enriched.Texts)
	res.MaxRiskScore = res.Profile.OverallRiskScore
	res.HighRisk = res.Profile.HighRiskItemCount

	// per-item escalation: each item crossing the threshold becomes an alert
	for i, text := range enriched.Texts {
		score := p.Scorer.Score(text)
		alert := p.Escalation.EvaluateItem(ctx, accountID, enriched.TextRefs[i], text, score)
		if alert == nil {
			continue
		}
		res.Alerts = append(res.Alerts, alert)
		if err := p.Store.CreateAlert(ctx, alert); err != nil {
			// never silently dropped: the alert stays in the result and the
			// failed write is recorded here
			logger.Error("persisting alert", "err", err, "alert", alert.ID, "severity", alert.Severity)
		}
	}

	p.markScanned(ctx, accountID)
	logger.Info("account scan complete",
		"itemsScanned", res.ItemsScanned,
		"highRiskItems", res.HighRisk,
		"alerts", len(res.Alerts),
		"riskScore", res.Profile.OverallRiskScore,
	)
	return res
}

// RunMonitoring scans every account currently flagged for monitoring. Scans
// run one task per account; Config.Workers > 1 fans out across accounts but
// never within one, so audit entries stay exactly-once per account.
func (p *Pipeline) RunMonitoring(ctx context.Context) (*MonitoringSummary, error) {
	summary := &MonitoringSummary{StartedAt: time.Now().UTC()}

	monitored, err := p.Store.MonitoredAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(monitored) == 0 {
		p.Logger.Info("no accounts currently flagged for monitoring")
		summary.CompletedAt = time.Now().UTC()
		return summary, nil
	}
	p.Logger.Info("starting monitoring run", "accounts", len(monitored))

	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	results := make(chan *ScanResult)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for accountID := range jobs {
				results <- p.ScanAccount(ctx, accountID, ActivityDailyScan)
			}
		}()
	}
	go func() {
		for _, acct := range monitored {
			jobs <- acct.AccountID
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for res := range results {
		summary.AccountsScanned++
		summary.AlertsGenerated += len(res.Alerts)
		if res.Status == escalation.ScanError {
			summary.Errors++
		}
		if res.MaxRiskScore >= p.Config.HighRiskThreshold {
			summary.HighRiskAccounts++
		}
	}

	summary.CompletedAt = time.Now().UTC()
	p.Logger.Info("monitoring run complete",
		"accountsScanned", summary.AccountsScanned,
		"alertsGenerated", summary.AlertsGenerated,
		"highRiskAccounts", summary.HighRiskAccounts,
		"errors", summary.Errors,
		"duration", summary.CompletedAt.Sub(summary.StartedAt).Round(time.Millisecond),
	)
	return summary, nil
}
