// Package metrics exports http:BL lookup statistics to Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bryannolen/httpbl/httpbl"
)

// Lookup outcomes.
const (
	OutcomeListed = "listed"
	OutcomeFailed = "failed"
	OutcomeError  = "error"
)

// Lookups counts http:BL lookups. It implements httpbl.Observer.
type Lookups struct {
	total    *prometheus.CounterVec
	visitors *prometheus.CounterVec
	duration prometheus.Histogram
}

// New creates the lookup metrics and registers them with reg.
func New(reg prometheus.Registerer) (*Lookups, error) {
	l := &Lookups{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "httpbl_lookups_total",
			Help: "Total http:BL lookups by outcome",
		}, []string{"outcome"}),
		visitors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "httpbl_visitors_total",
			Help: "Listed visitors by class",
		}, []string{"class"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "httpbl_lookup_duration_seconds",
			Help:    "Time spent on http:BL lookups",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{l.total, l.visitors, l.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// ObserveLookup implements httpbl.Observer. Resolution failures, which
// include unlisted addresses, count as "failed"; any other error counts as
// "error".
func (l *Lookups) ObserveLookup(v httpbl.Visitor, err error, elapsed time.Duration) {
	l.duration.Observe(elapsed.Seconds())

	var resErr *httpbl.ResolutionError
	switch {
	case err == nil:
		l.total.WithLabelValues(OutcomeListed).Inc()
		l.visitors.WithLabelValues(v.Class.String()).Inc()
	case errors.As(err, &resErr):
		l.total.WithLabelValues(OutcomeFailed).Inc()
	default:
		l.total.WithLabelValues(OutcomeError).Inc()
	}
}
