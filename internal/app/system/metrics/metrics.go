// internal/app/system/metrics/metrics.go

// Package metrics collects Prometheus counters for the membership and
// notification paths and serves them on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the service's counters. One instance is built at
// startup and threaded through the services that record events.
type Collector struct {
	membershipsAdded   prometheus.Counter
	membershipsRemoved prometheus.Counter
	roleChanges        prometheus.Counter
	fanoutBatchesSent  prometheus.Counter
	fanoutFailures     prometheus.Counter
	orgCascades        prometheus.Counter
	communityCascades  prometheus.Counter
	resolverTimeouts   prometheus.Counter
}

// NewCollector registers the service counters on reg and returns the
// collector.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		membershipsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_memberships_added_total",
			Help: "Membership entries successfully added.",
		}),
		membershipsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_memberships_removed_total",
			Help: "Membership entries removed by membership id.",
		}),
		roleChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_role_changes_total",
			Help: "Successful membership role changes.",
		}),
		fanoutBatchesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_fanout_batches_sent_total",
			Help: "Notification batches accepted by the messaging provider.",
		}),
		fanoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_fanout_failures_total",
			Help: "Notification batches the messaging provider rejected.",
		}),
		orgCascades: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_organization_cascades_total",
			Help: "Organization cascade deletions completed.",
		}),
		communityCascades: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_community_cascades_total",
			Help: "Single-community cascade deletions completed.",
		}),
		resolverTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "communityhub_identity_sync_timeouts_total",
			Help: "Identity resolutions that exhausted the polling budget.",
		}),
	}
	reg.MustRegister(
		c.membershipsAdded,
		c.membershipsRemoved,
		c.roleChanges,
		c.fanoutBatchesSent,
		c.fanoutFailures,
		c.orgCascades,
		c.communityCascades,
		c.resolverTimeouts,
	)
	return c
}

func (c *Collector) RecordMembershipAdded()   { c.membershipsAdded.Inc() }
func (c *Collector) RecordMembershipRemoved() { c.membershipsRemoved.Inc() }
func (c *Collector) RecordRoleChange()        { c.roleChanges.Inc() }
func (c *Collector) RecordFanoutSent()        { c.fanoutBatchesSent.Inc() }
func (c *Collector) RecordFanoutFailure()     { c.fanoutFailures.Inc() }
func (c *Collector) RecordOrgCascade()        { c.orgCascades.Inc() }
func (c *Collector) RecordCommunityCascade()  { c.communityCascades.Inc() }
func (c *Collector) RecordResolverTimeout()   { c.resolverTimeouts.Inc() }

// Handler returns the /metrics HTTP handler for the given registry,
// including the standard Go runtime collectors.
func Handler(reg *prometheus.Registry) http.Handler {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
