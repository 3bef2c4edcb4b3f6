package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"graphedit/domain/events"
	pkgerrors "graphedit/pkg/errors"
)

// Collector holds the Prometheus metrics of one process
type Collector struct {
	registry *prometheus.Registry

	GraphsLoaded   *prometheus.CounterVec
	GraphsSaved    *prometheus.CounterVec
	ElementsRead   *prometheus.CounterVec
	Diagnostics    *prometheus.CounterVec
	Edits          *prometheus.CounterVec
	CommandSeconds *prometheus.HistogramVec
	LiveElements   *prometheus.GaugeVec
}

// NewCollector creates a collector on its own registry so tests and
// repeated commands never collide on the default one.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	graphsLoaded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_loaded_total",
			Help:      "Total number of graph loads by outcome",
		},
		[]string{"outcome"},
	)

	graphsSaved := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_saved_total",
			Help:      "Total number of graph saves by outcome",
		},
		[]string{"outcome"},
	)

	elementsRead := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_read_total",
			Help:      "Total number of nodes and edges read from graph files",
		},
		[]string{"kind"},
	)

	diagnostics := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_diagnostics_total",
			Help:      "Total number of reader diagnostics by severity",
		},
		[]string{"severity"},
	)

	edits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_edits_total",
			Help:      "Total number of graph edits by event type",
		},
		[]string{"type"},
	)

	commandSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command", "status"},
	)

	liveElements := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_elements",
			Help:      "Live nodes and edges of the most recently handled graph",
		},
		[]string{"kind"},
	)

	registry.MustRegister(
		graphsLoaded,
		graphsSaved,
		elementsRead,
		diagnostics,
		edits,
		commandSeconds,
		liveElements,
	)

	return &Collector{
		registry:       registry,
		GraphsLoaded:   graphsLoaded,
		GraphsSaved:    graphsSaved,
		ElementsRead:   elementsRead,
		Diagnostics:    diagnostics,
		Edits:          edits,
		CommandSeconds: commandSeconds,
		LiveElements:   liveElements,
	}
}

// RecordLoad counts a load and the elements it produced
func (c *Collector) RecordLoad(nodes, edges int, warnings, fatal int, err error) {
	c.GraphsLoaded.WithLabelValues(outcome(err)).Inc()
	c.ElementsRead.WithLabelValues("node").Add(float64(nodes))
	c.ElementsRead.WithLabelValues("edge").Add(float64(edges))
	c.Diagnostics.WithLabelValues("warning").Add(float64(warnings))
	c.Diagnostics.WithLabelValues("fatal").Add(float64(fatal))
	c.SetLive(nodes, edges)
}

// RecordSave counts a save
func (c *Collector) RecordSave(err error) {
	c.GraphsSaved.WithLabelValues(outcome(err)).Inc()
}

// RecordCommand observes the duration of one command
func (c *Collector) RecordCommand(name string, d time.Duration, err error) {
	c.CommandSeconds.WithLabelValues(name, outcome(err)).Observe(d.Seconds())
}

// SetLive records the size of the current graph
func (c *Collector) SetLive(nodes, edges int) {
	c.LiveElements.WithLabelValues("node").Set(float64(nodes))
	c.LiveElements.WithLabelValues("edge").Set(float64(edges))
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteToTextfile dumps every metric in the node-exporter textfile format
func (c *Collector) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return pkgerrors.NewIOError("write metrics textfile", err)
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// EventRecorder counts domain events as edits
type EventRecorder struct {
	collector *Collector
}

// NewEventRecorder creates a handler feeding the collector
func NewEventRecorder(c *Collector) *EventRecorder {
	return &EventRecorder{collector: c}
}

// Handle records one event
func (r *EventRecorder) Handle(_ context.Context, event events.DomainEvent) error {
	r.collector.Edits.WithLabelValues(event.GetEventType()).Inc()
	return nil
}

// CanHandle accepts every graph event
func (r *EventRecorder) CanHandle(eventType string) bool {
	switch eventType {
	case events.TypeNodeCreated, events.TypeEdgeLinked, events.TypeEdgeCut,
		events.TypeNodeExpired, events.TypeElementsPurged:
		return true
	}
	return false
}
