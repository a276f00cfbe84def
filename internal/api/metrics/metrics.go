// Package metrics defines and registers the custom Prometheus metrics of the
// user service. Request-level HTTP metrics come from echoprometheus; the
// counters here track account lifecycle and social-graph mutations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "soundhub"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts account registrations.
// Labels:
//   - role: "user" or "band"
//   - result: "created", "replayed", or "rejected"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountMutationsTotal counts writes applied through the account store.
// Labels:
//   - operation: "update", "link_artist", "follow", "unfollow", "like", "unlike", "delete"
//   - result: "applied" or "absent" (malformed id or no such account)
var AccountMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_mutations_total",
		Help:      "Total number of account mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)
