// Package pipeline sequences the scan: content source -> scorer -> candidate
// selection -> history enrichment -> account aggregation -> escalation ->
// persistence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/agamordechai/active-fence-assignment/riskengine/cachestore"
	"github.com/agamordechai/active-fence-assignment/riskengine/content"
	"github.com/agamordechai/active-fence-assignment/riskengine/enrich"
	"github.com/agamordechai/active-fence-assignment/riskengine/escalation"
	"github.com/agamordechai/active-fence-assignment/riskengine/scorer"
	"github.com/agamordechai/active-fence-assignment/riskengine/selection"
	"github.com/agamordechai/active-fence-assignment/riskengine/store"
)

const (
	ActivityDiscoveryScan = "discovery_scan"
	ActivityDailyScan     = "daily_scan"
)

// cachestore namespace for enrichment dedupe
const scannedCacheName = "scanned-account"

// Persister is the narrow view of the review API the pipeline writes to.
// Implemented by *store.Client; tests substitute a fake.
type Persister interface {
	Health(ctx context.Context) error
	SendItems(ctx context.Context, items []store.ScoredItemRecord) (*store.BulkResult, error)
	SendAccounts(ctx context.Context, accounts []store.AccountRecord) (*store.BulkResult, error)
	CreateAlert(ctx context.Context, alert *escalation.Alert) error
	CreateScanLog(ctx context.Context, entry escalation.ScanLogEntry) error
	MonitoredAccounts(ctx context.Context) ([]store.MonitoredAccount, error)
	SetMonitored(ctx context.Context, accountID string, monitored bool) error
}

var _ Persister = (*store.Client)(nil)

type Config struct {
	Sources             []string
	PostsPerSource      int
	SearchTerms         []string
	PostsPerSearch      int
	EnrichmentBudget    int
	AccountHistoryLimit int
	HighRiskThreshold   float64
	Workers             int
}

func DefaultConfig() Config {
	return Config{
		PostsPerSource:      25,
		PostsPerSearch:      25,
		EnrichmentBudget:    20,
		AccountHistoryLimit: 100,
		HighRiskThreshold:   scorer.DefaultHighRiskThreshold,
		Workers:             1,
	}
}

// Pipeline owns one fully wired scan path. All fields must be non-nil except
// Cache, which may be omitted to disable enrichment dedupe.
type Pipeline struct {
	Logger     *slog.Logger
	Source     content.Source
	Store      Persister
	Scorer     *scorer.Scorer
	Aggregator *scorer.Aggregator
	Selector   *selection.Selector
	Escalation *escalation.Engine
	Enricher   *enrich.Enricher
	Cache      cachestore.CacheStore
	Config     Config
}

// DiscoveryResult summarizes one discovery pass.
type DiscoveryResult struct {
	PostsCollected   int
	ItemsFlagged     int
	HighRiskItems    int
	CandidatesPicked int
	AccountsScored   int
	AlertsGenerated  int
	RiskDistribution map[scorer.RiskLevel]int
}

// RunDiscovery performs one full discovery pass: collect posts from the
// configured sources and search terms, score them, select authors for
// enrichment within the budget, scan each selected account, and persist the
// results. Persistence failures are logged, never fatal.
func (p *Pipeline) RunDiscovery(ctx context.Context) (*DiscoveryResult, error) {
	start := time.Now()
	p.Logger.Info("starting discovery pass", "sources", len(p.Config.Sources), "searchTerms", len(p.Config.SearchTerms))

	posts, err := p.collectPosts(ctx)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("collected posts", "count", len(posts))

	// score every item; only items with a positive score move on
	var flagged []store.ScoredItemRecord
	var scoredItems []selection.ScoredItem
	highRisk := 0
	for _, post := range posts {
		score := p.Scorer.ScorePost(post.Title, post.Body)
		itemsScoredCount.Inc()
		if score.RiskScore <= 0 {
			continue
		}
		flagged = append(flagged, store.ScoredItemRecord{
			Post:     post,
			Risk:     score,
			ScoredAt: time.Now().UTC(),
		})
		scoredItems = append(scoredItems, selection.ScoredItem{Author: post.Author, RiskScore: score.RiskScore})
		if score.RiskScore >= p.Config.HighRiskThreshold {
			highRisk++
		}
	}
	p.Logger.Info("scored posts", "flagged", len(flagged), "highRisk", highRisk)

	candidates := p.Selector.SelectCandidates(scoredItems, p.Config.EnrichmentBudget)
	p.Logger.Info("selected enrichment candidates", "count", len(candidates), "budget", p.Config.EnrichmentBudget)

	result := &DiscoveryResult{
		PostsCollected:   len(posts),
		ItemsFlagged:     len(flagged),
		HighRiskItems:    highRisk,
		CandidatesPicked: len(candidates),
		RiskDistribution: map[scorer.RiskLevel]int{},
	}

	var accounts []store.AccountRecord
	for _, accountID := range candidates {
		if p.recentlyScanned(ctx, accountID) {
			p.Logger.Debug("skipping recently scanned account", "account", accountID)
			continue
		}
		scan := p.ScanAccount(ctx, accountID, ActivityDiscoveryScan)
		result.AlertsGenerated += len(scan.Alerts)
		if scan.Status != escalation.ScanSuccess || scan.Account == nil {
			continue
		}
		if scan.Profile.OverallRiskScore <= 0 {
			continue
		}
		accounts = append(accounts, store.AccountRecord{
			AccountID:     accountID,
			Profile:       scan.Profile,
			Activity:      scan.Account.Activity,
			Sources:       scan.Account.Sources,
			ProfileStatus: scan.Account.ProfileStatus,
			ScoredAt:      time.Now().UTC(),
		})
		result.RiskDistribution[scan.Profile.RiskLevel]++

		// accounts crossing the high-risk line get flagged for the daily
		// monitoring scan
		if scan.Profile.RiskLevel == scorer.LevelHigh || scan.Profile.RiskLevel == scorer.LevelCritical {
			if err := p.Store.SetMonitored(ctx, accountID, true); err != nil {
				p.Logger.Error("flagging account for monitoring", "err", err, "account", accountID)
			}
		}
	}
	result.AccountsScored = len(accounts)

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Profile.OverallRiskScore > accounts[j].Profile.OverallRiskScore
	})

	p.persistBatch(ctx, flagged, accounts)
	p.logSummary(result, accounts)
	discoveryDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

func (p *Pipeline) collectPosts(ctx context.Context) ([]content.Post, error) {
	var posts []content.Post
	seen := map[string]bool{}

	for _, source := range p.Config.Sources {
		batch, err := p.Source.ListPosts(ctx, source, p.Config.PostsPerSource)
		if err != nil {
			// a single unreachable source does not abort the pass
			p.Logger.Error("listing posts", "err", err, "source", source)
			continue
		}
		for _, post := range batch {
			if !seen[post.ID] {
				seen[post.ID] = true
				posts = append(posts, post)
			}
		}
	}
	for _, term := range p.Config.SearchTerms {
		batch, err := p.Source.SearchPosts(ctx, term, p.Config.PostsPerSearch)
		if err != nil {
			p.Logger.Error("searching posts", "err", err, "query", term)
			continue
		}
		fresh := 0
		for _, post := range batch {
			if !seen[post.ID] {
				seen[post.ID] = true
				posts = append(posts, post)
				fresh++
			}
		}
		p.Logger.Info("search results", "query", term, "found", len(batch), "new", fresh)
	}

	if len(posts) == 0 && len(p.Config.Sources) > 0 {
		return nil, fmt.Errorf("no posts collected from any source")
	}
	return posts, nil
}

func (p *Pipeline) recentlyScanned(ctx context.Context, accountID string) bool {
	if p.Cache == nil {
		return false
	}
	v, err := p.Cache.Get(ctx, scannedCacheName, accountID)
	if err != nil {
		p.Logger.Error("reading scan cache", "err", err, "account", accountID)
		return false
	}
	return v != ""
}

func (p *Pipeline) markScanned(ctx context.Context, accountID string) {
	if p.Cache == nil {
		return
	}
	if err := p.Cache.Set(ctx, scannedCacheName, accountID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		p.Logger.Error("writing scan cache", "err", err, "account", accountID)
	}
}

func (p *Pipeline) persistBatch(ctx context.Context, items []store.ScoredItemRecord, accounts []store.AccountRecord) {
	if err := p.Store.Health(ctx); err != nil {
		p.Logger.Warn("store health check failed, skipping batch export", "err", err)
		return
	}
	if len(items) > 0 {
		res, err := p.Store.SendItems(ctx, items)
		if err != nil {
			p.Logger.Error("persisting scored items", "err", err, "count", len(items))
		} else {
			p.Logger.Info("persisted scored items", "created", res.Created, "skipped", res.Skipped, "errors", res.Errors)
		}
	}
	if len(accounts) > 0 {
		res, err := p.Store.SendAccounts(ctx, accounts)
		if err != nil {
			p.Logger.Error("persisting account profiles", "err", err, "count", len(accounts))
		} else {
			p.Logger.Info("persisted account profiles", "created", res.Created, "skipped", res.Skipped, "errors", res.Errors)
		}
	}
}

func (p *Pipeline) logSummary(result *DiscoveryResult, accounts []store.AccountRecord) {
	p.Logger.Info("discovery pass summary",
		"postsCollected", result.PostsCollected,
		"itemsFlagged", result.ItemsFlagged,
		"highRiskItems", result.HighRiskItems,
		"accountsScored", result.AccountsScored,
		"alertsGenerated", result.AlertsGenerated,
	)
	top := accounts
	if len(top) > 5 {
		top = top[:5]
	}
	for i, acct := range top {
		p.Logger.Info("top risk account",
			"rank", i+1,
			"account", acct.AccountID,
			"riskScore", acct.Profile.OverallRiskScore,
			"riskLevel", acct.Profile.RiskLevel,
		)
	}
}
