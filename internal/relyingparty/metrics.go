package relyingparty

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alumnet_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"result"})

	// Decremented on logout and when an expired session is observed and
	// reaped; sessions evicted by a store TTL without a later lookup are
	// not counted down until the next scrape path touches them.
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alumnet_active_sessions",
		Help: "Authenticated sessions tracked by this process",
	})

	accessDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alumnet_access_denied_total",
		Help: "Requests refused by the access policy",
	}, []string{"resource"})
)
