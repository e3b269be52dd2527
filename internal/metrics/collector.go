package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
)

// ListenerStatus provides the collector access to live listener
// connectivity state at scrape time.
type ListenerStatus interface {
	ConnectedSnapshot() map[config.Kind]bool
}

// QueueDepth provides the collector access to the current queue length
// at scrape time.
type QueueDepth interface {
	Length() int
}

// Collector implements prometheus.Collector, reading live gauges
// (listener connectivity, queue depth) at scrape time rather than
// accumulating them as counters.
type Collector struct {
	listeners ListenerStatus
	queue     QueueDepth

	listenerConnected *prometheus.Desc
	queueDepth        *prometheus.Desc
}

// NewCollector creates a collector over listeners and queue. Either may
// be nil, in which case that family reports zero values.
func NewCollector(listeners ListenerStatus, queue QueueDepth) *Collector {
	return &Collector{
		listeners: listeners,
		queue:     queue,
		listenerConnected: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "listener_connected"),
			"1 if at least one listener of this decoder kind is connected, else 0.",
			[]string{"kind"}, nil,
		),
		queueDepth: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "depth"),
			"Current number of items held in the bounded queue.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.listenerConnected
	ch <- c.queueDepth
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.listeners != nil {
		for kind, connected := range c.listeners.ConnectedSnapshot() {
			v := 0.0
			if connected {
				v = 1.0
			}
			ch <- prometheus.MustNewConstMetric(c.listenerConnected, prometheus.GaugeValue, v, string(kind))
		}
	}

	depth := 0.0
	if c.queue != nil {
		depth = float64(c.queue.Length())
	}
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, depth)
}
