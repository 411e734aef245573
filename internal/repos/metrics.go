package repos

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

//nolint:gochecknoglobals // registered once with the default registry
var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gitpilot",
		Subsystem: "repos",
		Name:      "operations_total",
		Help:      "Workflow operations by name and result.",
	}, []string{"operation", "result"})

	mergesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gitpilot",
		Subsystem: "repos",
		Name:      "merges_total",
		Help:      "Merges by final state.",
	}, []string{"state"})
)

func observe(operation string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}
