package scaffold

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // registered once with the default registry
var ignoreFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gitpilot",
	Subsystem: "scaffold",
	Name:      "ignore_files_total",
	Help:      "Ignore files written by origin.",
}, []string{"origin"})
