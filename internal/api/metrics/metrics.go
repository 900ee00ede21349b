// Package metrics defines the custom Prometheus metrics for the catalog API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// AuthFailuresTotal counts rejected authentication attempts. The reason label
// is internal observability only; clients always see a generic 401.
// Labels:
//   - reason: "missing_header", "malformed_header", "invalid_token",
//     "missing_subject", "unknown_subject"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authentication attempts, by internal reason.",
	},
	[]string{"reason"},
)

// TokensIssuedTotal counts successfully minted access tokens.
// Label:
//   - role: the role embedded in the issued token
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued, by embedded role.",
	},
	[]string{"role"},
)

// ProductWritesTotal counts catalog mutations.
// Label:
//   - op: "create", "update", or "delete"
var ProductWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_writes_total",
		Help:      "Total number of catalog write operations, by operation.",
	},
	[]string{"op"},
)
