package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "redwatch",
		Usage:   "content risk scoring and escalation daemon",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "lexicon-path",
			Usage:   "path to the curated lexicon JSON file",
			Value:   "data/lexicon.json",
			EnvVars: []string{"REDWATCH_LEXICON_PATH"},
		},
		&cli.StringFlag{
			Name:    "api-host",
			Usage:   "scheme, hostname, and port of the review API",
			Value:   "http://localhost:8000",
			EnvVars: []string{"REDWATCH_API_HOST"},
		},
		&cli.StringFlag{
			Name:    "content-host",
			Usage:   "scheme, hostname, and port of the content source",
			Value:   "https://www.reddit.com",
			EnvVars: []string{"REDWATCH_CONTENT_HOST"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for counters and scan cache; in-memory stores are used when empty",
			EnvVars: []string{"REDWATCH_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "incoming webhook URL for alert notifications",
			EnvVars: []string{"REDWATCH_SLACK_WEBHOOK_URL"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"REDWATCH_METRICS_LISTEN"},
		},
		&cli.Float64Flag{
			Name:    "content-rate-limit",
			Usage:   "max requests per second to the content source",
			Value:   0.5,
			EnvVars: []string{"REDWATCH_CONTENT_RATE_LIMIT"},
		},
		&cli.Float64Flag{
			Name:    "high-risk-threshold",
			Usage:   "item/account score at which content counts as high-risk",
			Value:   50,
			EnvVars: []string{"REDWATCH_HIGH_RISK_THRESHOLD"},
		},
		&cli.Float64Flag{
			Name:    "critical-risk-threshold",
			Usage:   "item score at which alerts escalate to critical severity",
			Value:   70,
			EnvVars: []string{"REDWATCH_CRITICAL_RISK_THRESHOLD"},
		},
		&cli.IntFlag{
			Name:    "enrichment-budget",
			Usage:   "max accounts selected per discovery pass for history enrichment",
			Value:   20,
			EnvVars: []string{"REDWATCH_ENRICHMENT_BUDGET"},
		},
		&cli.IntFlag{
			Name:    "account-history-limit",
			Usage:   "max posts/comments fetched per account history window",
			Value:   100,
			EnvVars: []string{"REDWATCH_ACCOUNT_HISTORY_LIMIT"},
		},
		&cli.IntFlag{
			Name:    "scan-workers",
			Usage:   "number of concurrent account scans (one scan task per account)",
			Value:   1,
			EnvVars: []string{"REDWATCH_SCAN_WORKERS"},
		},
		&cli.StringSliceFlag{
			Name:    "source",
			Usage:   "content source (subreddit/channel) for the discovery pass; repeatable",
			Value:   cli.NewStringSlice("news", "politics", "unpopularopinion"),
			EnvVars: []string{"REDWATCH_SOURCES"},
		},
		&cli.StringSliceFlag{
			Name:    "search-term",
			Usage:   "search query for the discovery pass; repeatable",
			EnvVars: []string{"REDWATCH_SEARCH_TERMS"},
		},
		&cli.IntFlag{
			Name:    "posts-per-source",
			Usage:   "posts fetched per source per discovery pass",
			Value:   25,
			EnvVars: []string{"REDWATCH_POSTS_PER_SOURCE"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		discoverCmd,
		scanAccountCmd,
	}

	return app.Run(args)
}

func configLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// Enable OTLP HTTP exporter when OTEL_EXPORTER_OTLP_ENDPOINT is set.
// For relevant environment variables:
// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlptrace#readme-environment-variables
func setupOTEL(ctx context.Context) func() {
	ep := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if ep == "" {
		return func() {}
	}
	slog.Info("setting up trace exporter", "endpoint", ep)
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		log.Fatal("failed to create trace exporter", "error", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("redwatch"),
			attribute.String("env", os.Getenv("ENVIRONMENT")),
			attribute.Int64("ID", 1),
		)),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := exp.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown trace exporter", "error", err)
		}
	}
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the monitoring daemon (periodic scan of flagged accounts)",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:    "scan-interval",
			Usage:   "time between monitoring runs",
			Value:   24 * time.Hour,
			EnvVars: []string{"REDWATCH_SCAN_INTERVAL"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		logger := configLogger()
		shutdown := setupOTEL(ctx)
		defer shutdown()

		srv, err := NewServer(configFromFlags(cctx, logger))
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		return srv.RunMonitorLoop(ctx, cctx.Duration("scan-interval"))
	},
}

var discoverCmd = &cli.Command{
	Name:  "discover",
	Usage: "run one discovery pass over the configured sources and exit",
	Action: func(cctx *cli.Context) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		logger := configLogger()
		shutdown := setupOTEL(ctx)
		defer shutdown()

		srv, err := NewServer(configFromFlags(cctx, logger))
		if err != nil {
			return err
		}
		_, err = srv.pipeline.RunDiscovery(ctx)
		return err
	},
}

var scanAccountCmd = &cli.Command{
	Name:      "scan-account",
	Usage:     "scan a single account and exit",
	ArgsUsage: "<account-id>",
	Action: func(cctx *cli.Context) error {
		accountID := cctx.Args().First()
		if accountID == "" {
			return fmt.Errorf("expected account ID as argument")
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		logger := configLogger()

		srv, err := NewServer(configFromFlags(cctx, logger))
		if err != nil {
			return err
		}
		res := srv.pipeline.ScanAccount(ctx, accountID, "manual_scan")
		logger.Info("scan result",
			"account", res.AccountID,
			"status", res.Status,
			"itemsScanned", res.ItemsScanned,
			"alerts", len(res.Alerts),
			"riskScore", res.Profile.OverallRiskScore,
			"riskLevel", res.Profile.RiskLevel,
		)
		return nil
	},
}
