package radio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rc = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "radio_registry_radio_count",
		Help: "The number of radios in the registry.",
	})

	pttg = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "radio_registry_ptt_active",
		Help: "Set to 1 while push-to-talk is active.",
	})

	mc = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radio_registry_mutation_count",
		Help: "The number of applied registry mutations (per operation).",
	}, []string{"operation"})

	dfc = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radio_registry_duplicate_frequency_count",
		Help: "The number of rejected add operations for an already present frequency.",
	})
)

func radioCountGauge() prometheus.Gauge {
	return rc
}

func pttGauge() prometheus.Gauge {
	return pttg
}

func mutationCounter(op string) prometheus.Counter {
	return mc.With(prometheus.Labels{"operation": op})
}

func duplicateFrequencyCounter() prometheus.Counter {
	return dfc
}
