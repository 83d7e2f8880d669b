// Package metrics defines the slot/connection metrics shapes of §6 and
// exposes them two ways: a pull-style callback query contract matching
// roc/metrics.h's query(slot, slot_sink, conn_sink, max_conn), and a
// Prometheus collector adapter (prom.go) grounded on the teacher pack's
// exporter.TCPInfoCollector (runZeroInc-sockstats/pkg/exporter).
package metrics

import "time"

// SlotMetrics aggregates counters for one peer slot (§4.8/§6): how many
// participants it currently hosts.
type SlotMetrics struct {
	ConnectionCount int
}

// ConnectionMetrics is the per-session metric set named verbatim by
// roc/metrics.h: expected/lost/late/recovered packet counts plus
// latency and clock-skew figures.
type ConnectionMetrics struct {
	Expected  uint64
	Lost      uint64
	Late      uint64
	Recovered uint64

	E2ELatency time.Duration
	NIQLatency time.Duration
	RTT        time.Duration
	Jitter     time.Duration
}

// SlotSink receives one SlotMetrics snapshot per queried slot.
type SlotSink func(slotKey uint64, m SlotMetrics)

// ConnSink receives one ConnectionMetrics snapshot per connection within
// a queried slot, up to maxConn per slot.
type ConnSink func(slotKey uint64, connIndex int, m ConnectionMetrics)

// Source is implemented by whatever owns the live slot/session state
// (typically slot.Manager plus each session.Pipeline's accumulated
// stats); Query walks it without holding any lock across the sink
// callbacks, mirroring TCPInfoCollector.Collect's per-entry lock scope.
type Source interface {
	Query(slotSink SlotSink, connSink ConnSink, maxConn int)
}
