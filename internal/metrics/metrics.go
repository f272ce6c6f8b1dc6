package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ClaimsStaked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actionstore_claims_staked_total",
		Help: "claims staked, by backend.",
	}, []string{"backend"})

	ActionsClaimed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actionstore_actions_claimed_total",
		Help: "actions reserved by claims, by backend.",
	}, []string{"backend"})

	ActionsMigrated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actionstore_actions_migrated_total",
		Help: "actions pulled from the legacy backend, by result.",
	}, []string{"result"})

	StorageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actionstore_storage_errors_total",
		Help: "failed storage operations, by backend and operation.",
	}, []string{"backend", "operation"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "actionstore_http_request_duration_seconds",
		Help:    "admin api latency, by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Register adds every collector to r
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		ClaimsStaked, ActionsClaimed, ActionsMigrated, StorageErrors, HTTPRequestDuration,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
