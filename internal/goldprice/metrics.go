package goldprice

import "github.com/prometheus/client_golang/prometheus"

const (
	cacheHit    = "hit"
	cacheMiss   = "miss"
	cacheBypass = "bypass"
)

type Metrics struct {
	Resolutions      *prometheus.CounterVec
	StrategyFailures *prometheus.CounterVec
	LivePricePerGram prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goldprice_resolutions_total",
				Help: "Gold price resolutions by source and cache outcome",
			},
			[]string{"source", "cache"},
		),
		StrategyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goldprice_strategy_failures_total",
				Help: "Failed live price fetches by strategy",
			},
			[]string{"strategy"},
		),
		LivePricePerGram: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "goldprice_live_price_per_gram",
			Help: "Last live gold price per gram in USD",
		}),
	}

	reg.MustRegister(m.Resolutions, m.StrategyFailures, m.LivePricePerGram)
	return m
}

func (m *Metrics) resolved(src Source, cache string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(string(src), cache).Inc()
}

func (m *Metrics) failed(strategy string) {
	if m == nil {
		return
	}
	m.StrategyFailures.WithLabelValues(strategy).Inc()
}

func (m *Metrics) live(perGram float64) {
	if m == nil {
		return
	}
	m.LivePricePerGram.Set(perGram)
}
