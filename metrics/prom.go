package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a Source to prometheus.Collector, grounded on
// exporter.TCPInfoCollector's Describe/Collect split (runZeroInc-sockstats
// pkg/exporter/exporter.go): Describe emits static Desc values, Collect
// walks the live source on every scrape rather than caching.
type Collector struct {
	source  Source
	maxConn int

	connectionCount *prometheus.Desc
	expected        *prometheus.Desc
	lost            *prometheus.Desc
	late            *prometheus.Desc
	recovered       *prometheus.Desc
	e2eLatency      *prometheus.Desc
	niqLatency      *prometheus.Desc
	rtt             *prometheus.Desc
	jitter          *prometheus.Desc
}

// NewCollector constructs a Collector that queries source on every
// scrape, reporting at most maxConn connections per slot.
func NewCollector(source Source, maxConn int) *Collector {
	return &Collector{
		source:  source,
		maxConn: maxConn,

		connectionCount: prometheus.NewDesc(
			"roc_slot_connection_count", "Number of participants in a slot.",
			[]string{"slot"}, nil),
		expected: prometheus.NewDesc(
			"roc_connection_packets_expected_total", "Expected packet count.",
			[]string{"slot", "connection"}, nil),
		lost: prometheus.NewDesc(
			"roc_connection_packets_lost_total", "Lost packet count.",
			[]string{"slot", "connection"}, nil),
		late: prometheus.NewDesc(
			"roc_connection_packets_late_total", "Late (dropped after deadline) packet count.",
			[]string{"slot", "connection"}, nil),
		recovered: prometheus.NewDesc(
			"roc_connection_packets_recovered_total", "FEC-recovered packet count.",
			[]string{"slot", "connection"}, nil),
		e2eLatency: prometheus.NewDesc(
			"roc_connection_e2e_latency_seconds", "End-to-end latency estimate.",
			[]string{"slot", "connection"}, nil),
		niqLatency: prometheus.NewDesc(
			"roc_connection_niq_latency_seconds", "Network-incoming-queue latency estimate.",
			[]string{"slot", "connection"}, nil),
		rtt: prometheus.NewDesc(
			"roc_connection_rtt_seconds", "Round-trip time estimate.",
			[]string{"slot", "connection"}, nil),
		jitter: prometheus.NewDesc(
			"roc_connection_jitter_seconds", "Interarrival jitter estimate.",
			[]string{"slot", "connection"}, nil),
	}
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.connectionCount
	descs <- c.expected
	descs <- c.lost
	descs <- c.late
	descs <- c.recovered
	descs <- c.e2eLatency
	descs <- c.niqLatency
	descs <- c.rtt
	descs <- c.jitter
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.source.Query(func(slotKey uint64, m SlotMetrics) {
		slot := strconv.FormatUint(slotKey, 10)
		ch <- prometheus.MustNewConstMetric(c.connectionCount, prometheus.GaugeValue, float64(m.ConnectionCount), slot)
	}, func(slotKey uint64, connIndex int, m ConnectionMetrics) {
		slot := strconv.FormatUint(slotKey, 10)
		conn := strconv.Itoa(connIndex)
		ch <- prometheus.MustNewConstMetric(c.expected, prometheus.CounterValue, float64(m.Expected), slot, conn)
		ch <- prometheus.MustNewConstMetric(c.lost, prometheus.CounterValue, float64(m.Lost), slot, conn)
		ch <- prometheus.MustNewConstMetric(c.late, prometheus.CounterValue, float64(m.Late), slot, conn)
		ch <- prometheus.MustNewConstMetric(c.recovered, prometheus.CounterValue, float64(m.Recovered), slot, conn)
		ch <- prometheus.MustNewConstMetric(c.e2eLatency, prometheus.GaugeValue, m.E2ELatency.Seconds(), slot, conn)
		ch <- prometheus.MustNewConstMetric(c.niqLatency, prometheus.GaugeValue, m.NIQLatency.Seconds(), slot, conn)
		ch <- prometheus.MustNewConstMetric(c.rtt, prometheus.GaugeValue, m.RTT.Seconds(), slot, conn)
		ch <- prometheus.MustNewConstMetric(c.jitter, prometheus.GaugeValue, m.Jitter.Seconds(), slot, conn)
	}, c.maxConn)
}

var _ prometheus.Collector = (*Collector)(nil)
