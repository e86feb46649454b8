package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "github.com/urfave/cli/v2"

	"github.com/agamordechai/active-fence-assignment/riskengine/cachestore"
	"github.com/agamordechai/active-fence-assignment/riskengine/content"
	"github.com/agamordechai/active-fence-assignment/riskengine/countstore"
	"github.com/agamordechai/active-fence-assignment/riskengine/enrich"
	"github.com/agamordechai/active-fence-assignment/riskengine/escalation"
	"github.com/agamordechai/active-fence-assignment/riskengine/lexicon"
	"github.com/agamordechai/active-fence-assignment/riskengine/pipeline"
	"github.com/agamordechai/active-fence-assignment/riskengine/scorer"
	"github.com/agamordechai/active-fence-assignment/riskengine/selection"
	"github.com/agamordechai/active-fence-assignment/riskengine/store"
)

type Config struct {
	Logger                *slog.Logger
	LexiconPath           string
	APIHost               string
	ContentHost           string
	RedisURL              string
	SlackWebhookURL       string
	ContentRateLimit      float64
	HighRiskThreshold     float64
	CriticalRiskThreshold float64
	EnrichmentBudget      int
	AccountHistoryLimit   int
	ScanWorkers           int
	Sources               []string
	SearchTerms           []string
	PostsPerSource        int
}

func configFromFlags(cctx *cli.Context, logger *slog.Logger) Config {
	return Config{
		Logger:                logger,
		LexiconPath:           cctx.String("lexicon-path"),
		APIHost:               cctx.String("api-host"),
		ContentHost:           cctx.String("content-host"),
		RedisURL:              cctx.String("redis-url"),
		SlackWebhookURL:       cctx.String("slack-webhook-url"),
		ContentRateLimit:      cctx.Float64("content-rate-limit"),
		HighRiskThreshold:     cctx.Float64("high-risk-threshold"),
		CriticalRiskThreshold: cctx.Float64("critical-risk-threshold"),
		EnrichmentBudget:      cctx.Int("enrichment-budget"),
		AccountHistoryLimit:   cctx.Int("account-history-limit"),
		ScanWorkers:           cctx.Int("scan-workers"),
		Sources:               cctx.StringSlice("source"),
		SearchTerms:           cctx.StringSlice("search-term"),
		PostsPerSource:        cctx.Int("posts-per-source"),
	}
}

type Server struct {
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	lex, err := lexicon.LoadFromFileJSON(config.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("initializing lexicon: %w", err)
	}
	logger.Info("loaded lexicon",
		"path", config.LexiconPath,
		"source", lex.Source,
		"hateKeywords", lexicon.KeywordCount(lex.HateKeywords),
		"violenceKeywords", lexicon.KeywordCount(lex.ViolenceKeywords),
		"slurPatterns", len(lex.SlurPatterns),
	)

	var counters countstore.CountStore
	var cache cachestore.CacheStore
	if config.RedisURL != "" {
		cnt, err := countstore.NewRedisCountStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %w", err)
		}
		counters = cnt

		csh, err := cachestore.NewRedisCacheStore(config.RedisURL, 12*time.Hour)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %w", err)
		}
		cache = csh
	} else {
		counters = countstore.NewMemCountStore()
		cache = cachestore.NewMemCacheStore(5_000, 12*time.Hour)
	}

	var notifier escalation.Notifier
	if config.SlackWebhookURL != "" {
		logger.Info("configuring slack alert notifications")
		notifier = &escalation.SlackNotifier{SlackWebhookURL: config.SlackWebhookURL}
	}

	sc := scorer.NewScorer(lex)
	agg := scorer.NewAggregator(sc)
	agg.HighRiskThreshold = config.HighRiskThreshold

	esc := escalation.NewEngine(logger, counters, notifier)
	esc.HighRiskThreshold = config.HighRiskThreshold
	esc.CriticalRiskThreshold = config.CriticalRiskThreshold

	pipelineCfg := pipeline.DefaultConfig()
	pipelineCfg.Sources = config.Sources
	pipelineCfg.SearchTerms = config.SearchTerms
	pipelineCfg.PostsPerSource = config.PostsPerSource
	pipelineCfg.EnrichmentBudget = config.EnrichmentBudget
	pipelineCfg.AccountHistoryLimit = config.AccountHistoryLimit
	pipelineCfg.HighRiskThreshold = config.HighRiskThreshold
	pipelineCfg.Workers = config.ScanWorkers

	p := &pipeline.Pipeline{
		Logger:     logger,
		Source:     content.NewRedditClient(config.ContentHost, config.ContentRateLimit),
		Store:      store.NewClient(config.APIHost),
		Scorer:     sc,
		Aggregator: agg,
		Selector:   selection.NewSelector(config.HighRiskThreshold),
		Escalation: esc,
		Enricher:   enrich.NewEnricher(),
		Cache:      cache,
		Config:     pipelineCfg,
	}

	return &Server{
		logger:   logger,
		pipeline: p,
	}, nil
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

// RunMonitorLoop scans all flagged accounts immediately and then once per
// interval, until the context is cancelled.
func (s *Server) RunMonitorLoop(ctx context.Context, interval time.Duration) error {
	s.logger.Info("starting monitor loop", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.pipeline.RunMonitoring(ctx); err != nil {
			// a failed run is logged and retried on the next tick
			s.logger.Error("monitoring run failed", "err", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			s.logger.Info("shutting down monitor loop")
			return nil
		}
	}
}
