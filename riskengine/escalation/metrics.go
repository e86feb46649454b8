package escalation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var alertCreatedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "riskengine_alerts_created",
	Help: "Number of alerts created",
}, []string{"severity"})

var scanCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "riskengine_account_scans",
	Help: "Number of account scans logged",
}, []string{"type", "status"})
