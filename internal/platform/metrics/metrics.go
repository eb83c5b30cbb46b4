package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the identity core.
type Metrics struct {
	ClaimsSucceeded    prometheus.Counter
	ClaimsRejected     prometheus.Counter
	ClaimsBusy         prometheus.Counter
	ForcedLockClears   prometheus.Counter
	LockMismatches     prometheus.Counter
	AliasesProvisioned prometheus.Counter
	GroupsEnrolled     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ClaimsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprawl_claims_succeeded_total",
			Help: "Total number of handle claims that completed provisioning",
		}),
		ClaimsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprawl_claims_rejected_total",
			Help: "Total number of handle claims rejected (taken or invalid handle)",
		}),
		ClaimsBusy: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprawl_claims_busy_total",
			Help: "Total number of handle claims turned away at the arbitration gate",
		}),
		ForcedLockClears: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprawl_arbiter_forced_clears_total",
			Help: "Total number of times the arbitration slot was force-cleared after the retry ceiling",
		}),
		LockMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprawl_arbiter_release_mismatches_total",
			Help: "Total number of release calls with a token that no longer holds the slot",
		}),
		AliasesProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprawl_aliases_provisioned_total",
			Help: "Total number of alias handles created during provisioning",
		}),
		GroupsEnrolled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprawl_groups_enrolled_total",
			Help: "Total number of group memberships confirmed during provisioning",
		}),
	}
}
