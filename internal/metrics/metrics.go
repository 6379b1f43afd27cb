package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Claim results recorded by ObserveClaim.
const (
	ClaimMatched     = "matched"
	ClaimUnavailable = "unavailable"
	ClaimError       = "error"
)

// Metrics records workflow counters. A nil *Metrics discards observations.
type Metrics struct {
	claims   *prometheus.CounterVec
	listings prometheus.Counter
}

// New registers the HarvestHub counters on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	claims := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "harvesthub",
		Name:      "claims_total",
		Help:      "Claim attempts by result.",
	}, []string{"result"})
	listings := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "harvesthub",
		Name:      "listings_created_total",
		Help:      "Food listings created.",
	})
	reg.MustRegister(claims, listings)
	return &Metrics{
		claims:   claims,
		listings: listings,
	}
}

// ObserveClaim counts a claim attempt with the given result.
func (m *Metrics) ObserveClaim(result string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(result).Inc()
}

// IncListingsCreated counts a newly created listing.
func (m *Metrics) IncListingsCreated() {
	if m == nil {
		return
	}
	m.listings.Inc()
}
