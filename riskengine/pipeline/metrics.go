package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var itemsScoredCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "riskengine_items_scored",
	Help: "Number of content items scored",
})

var scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "riskengine_account_scan_duration_sec",
	Help: "Total duration of a single account scan",
})

var discoveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "riskengine_discovery_pass_duration_sec",
	Help: "Total duration of a discovery pass",
})
