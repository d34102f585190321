package meter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ineyio/askimage"
)

// PromMeter exports session events as Prometheus metrics.
type PromMeter struct {
	admitted prometheus.Counter
	rejected *prometheus.CounterVec
	tokens   prometheus.Counter

	minuteRequestsPct prometheus.Gauge
	dailyRequestsPct  prometheus.Gauge
	minuteTokensPct   prometheus.Gauge
	dailyTokensPct    prometheus.Gauge
}

var _ askimage.Meter = (*PromMeter)(nil)

// NewPromMeter creates a PromMeter and registers its collectors with reg.
// If reg is nil, the default registerer is used.
func NewPromMeter(reg prometheus.Registerer) *PromMeter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PromMeter{
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "askimage",
			Name:      "requests_admitted_total",
			Help:      "Total number of admitted requests",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "askimage",
			Name:      "requests_rejected_total",
			Help:      "Total number of rejected requests",
		}, []string{"reason"}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "askimage",
			Name:      "tokens_recorded_total",
			Help:      "Total tokens recorded against the session",
		}),
		minuteRequestsPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "askimage",
			Name:      "minute_requests_pct",
			Help:      "Per-minute request usage as percent of the cap",
		}),
		dailyRequestsPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "askimage",
			Name:      "daily_requests_pct",
			Help:      "Daily request usage as percent of the cap",
		}),
		minuteTokensPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "askimage",
			Name:      "minute_tokens_pct",
			Help:      "Per-minute token usage as percent of the cap",
		}),
		dailyTokensPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "askimage",
			Name:      "daily_tokens_pct",
			Help:      "Daily token usage as percent of the cap",
		}),
	}

	reg.MustRegister(m.admitted, m.rejected, m.tokens,
		m.minuteRequestsPct, m.dailyRequestsPct, m.minuteTokensPct, m.dailyTokensPct)

	return m
}

func (m *PromMeter) OnAdmit(e askimage.AdmitEvent) {
	if e.Admitted {
		m.admitted.Inc()
		return
	}
	m.rejected.WithLabelValues(e.Reason).Inc()
}

func (m *PromMeter) OnRecord(e askimage.RecordEvent) {
	m.tokens.Add(float64(e.Tokens))

	m.minuteRequestsPct.Set(e.Report.MinuteRequestsPct)
	m.dailyRequestsPct.Set(e.Report.DailyRequestsPct)
	m.minuteTokensPct.Set(e.Report.MinuteTokensPct)
	m.dailyTokensPct.Set(e.Report.DailyTokensPct)
}
