package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/internal/core/emitter"
	"github.com/dep2p/go-nettune/internal/core/neigh"
	"github.com/dep2p/go-nettune/internal/core/store"
)

const namespace = "nettune"

// Collector 决策核心指标收集器
type Collector struct {
	cong    *cong.Tracker
	neigh   *neigh.Tracker
	emitter *emitter.Emitter

	storeEntries   *prometheus.Desc
	storeCapacity  *prometheus.Desc
	storeInserts   *prometheus.Desc
	storeEvictions *prometheus.Desc
	storeDrops     *prometheus.Desc

	retransmits *prometheus.Desc
	evaluations *prometheus.Desc
	actions     *prometheus.Desc
	staleResets *prometheus.Desc

	tableUpdates *prometheus.Desc
	tableEvents  *prometheus.Desc

	invalid      *prometheus.Desc
	emitFailures *prometheus.Desc

	eventsEmitted *prometheus.Desc
	eventsDropped *prometheus.Desc
	eventsPending *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建收集器
//
// 任一组件为 nil 时跳过其指标。
func NewCollector(ct *cong.Tracker, nt *neigh.Tracker, em *emitter.Emitter) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		cong:    ct,
		neigh:   nt,
		emitter: em,

		storeEntries:   desc("store_entries", "Current number of keys in a state store.", "store"),
		storeCapacity:  desc("store_capacity", "Maximum number of keys a state store can hold.", "store"),
		storeInserts:   desc("store_inserts_total", "Total number of keys created in a state store.", "store"),
		storeEvictions: desc("store_evictions_total", "Total number of least-recently-used keys evicted.", "store"),
		storeDrops:     desc("store_drops_total", "Total number of new keys dropped because the store was full.", "store"),

		retransmits: desc("retransmits_total", "Total number of retransmit notifications processed."),
		evaluations: desc("evaluations_total", "Total number of threshold evaluations on connection establishment."),
		actions:     desc("tuning_actions_total", "Total number of congestion control switch actions returned.", "algorithm"),
		staleResets: desc("stale_resets_total", "Total number of retransmit counters reset because the last retransmit was stale."),

		tableUpdates: desc("table_updates_total", "Total number of neighbor table statistics refreshes."),
		tableEvents:  desc("table_events_total", "Total number of table-growth snapshots by result.", "result"),

		invalid:      desc("invalid_notifications_total", "Total number of notifications ignored as invalid.", "tracker"),
		emitFailures: desc("emit_failures_total", "Total number of events a tracker could not enqueue.", "tracker"),

		eventsEmitted: desc("events_emitted_total", "Total number of tuning events enqueued."),
		eventsDropped: desc("events_dropped_total", "Total number of tuning events dropped."),
		eventsPending: desc("events_pending", "Current number of tuning events waiting for a consumer."),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.storeEntries
	ch <- c.storeCapacity
	ch <- c.storeInserts
	ch <- c.storeEvictions
	ch <- c.storeDrops
	ch <- c.retransmits
	ch <- c.evaluations
	ch <- c.actions
	ch <- c.staleResets
	ch <- c.tableUpdates
	ch <- c.tableEvents
	ch <- c.invalid
	ch <- c.emitFailures
	ch <- c.eventsEmitted
	ch <- c.eventsDropped
	ch <- c.eventsPending
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil {
		return
	}

	if c.cong != nil {
		c.collectStore(ch, "hosts", c.cong.Hosts().Snapshot())

		snap := c.cong.Snapshot()
		ch <- prometheus.MustNewConstMetric(c.retransmits, prometheus.CounterValue, float64(snap.Retransmits))
		ch <- prometheus.MustNewConstMetric(c.evaluations, prometheus.CounterValue, float64(snap.Evaluations))
		ch <- prometheus.MustNewConstMetric(c.actions, prometheus.CounterValue, float64(snap.Actions), c.cong.Config().Algorithm)
		ch <- prometheus.MustNewConstMetric(c.staleResets, prometheus.CounterValue, float64(snap.StaleResets))
		ch <- prometheus.MustNewConstMetric(c.invalid, prometheus.CounterValue, float64(snap.Invalid), "cong")
		ch <- prometheus.MustNewConstMetric(c.emitFailures, prometheus.CounterValue, float64(snap.EmitFailures), "cong")
	}

	if c.neigh != nil {
		c.collectStore(ch, "tables", c.neigh.Tables().Snapshot())

		snap := c.neigh.Snapshot()
		ch <- prometheus.MustNewConstMetric(c.tableUpdates, prometheus.CounterValue, float64(snap.Updates))
		ch <- prometheus.MustNewConstMetric(c.tableEvents, prometheus.CounterValue, float64(snap.Emitted), "emitted")
		ch <- prometheus.MustNewConstMetric(c.tableEvents, prometheus.CounterValue, float64(snap.Gated), "gated")
		ch <- prometheus.MustNewConstMetric(c.invalid, prometheus.CounterValue, float64(snap.Invalid), "neigh")
		ch <- prometheus.MustNewConstMetric(c.emitFailures, prometheus.CounterValue, float64(snap.EmitFailures), "neigh")
	}

	if c.emitter != nil {
		snap := c.emitter.Snapshot()
		ch <- prometheus.MustNewConstMetric(c.eventsEmitted, prometheus.CounterValue, float64(snap.Emitted))
		ch <- prometheus.MustNewConstMetric(c.eventsDropped, prometheus.CounterValue, float64(snap.Dropped))
		ch <- prometheus.MustNewConstMetric(c.eventsPending, prometheus.GaugeValue, float64(snap.Pending))
	}
}

func (c *Collector) collectStore(ch chan<- prometheus.Metric, name string, s store.Stats) {
	ch <- prometheus.MustNewConstMetric(c.storeEntries, prometheus.GaugeValue, float64(s.Len), name)
	ch <- prometheus.MustNewConstMetric(c.storeCapacity, prometheus.GaugeValue, float64(s.Capacity), name)
	ch <- prometheus.MustNewConstMetric(c.storeInserts, prometheus.CounterValue, float64(s.Inserts), name)
	ch <- prometheus.MustNewConstMetric(c.storeEvictions, prometheus.CounterValue, float64(s.Evictions), name)
	ch <- prometheus.MustNewConstMetric(c.storeDrops, prometheus.CounterValue, float64(s.Drops), name)
}
