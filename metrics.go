package apifault

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var translationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "apifault_translations_total",
		Help: "Total number of errors translated into responses",
	},
	[]string{"category", "status"},
)
