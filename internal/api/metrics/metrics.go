// Package metrics defines and registers all custom Prometheus metrics for the
// account system. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors register themselves with the default registry at import time via
// promauto; the /metrics route is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// AuthEventsTotal counts security-relevant account events.
// Label:
//   - type: "signup", "login_success", "login_failure", "password_changed",
//     "account_deleted"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication and account events, by type.",
	},
	[]string{"type"},
)

// RateLimitedTotal counts requests rejected by a rate-limit policy.
// Label:
//   - policy: "login" or "api"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting, by policy.",
	},
	[]string{"policy"},
)

// ProfileCacheTotal counts profile cache lookups.
// Label:
//   - result: "hit" or "miss"
var ProfileCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_cache_total",
		Help:      "Total number of profile cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
