package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphedit/domain/core/valueobjects"
	"graphedit/domain/events"
)

// gathered flattens the registry into "name{labels}" -> value
func gathered(t *testing.T, c *Collector) map[string]float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "|" + lp.GetName() + "=" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestCollectorRecordLoad(t *testing.T) {
	c := NewCollector("graphedit")

	c.RecordLoad(3, 2, 1, 0, nil)
	c.RecordLoad(1, 0, 0, 1, errors.New("boom"))

	got := gathered(t, c)
	assert.Equal(t, 1.0, got["graphedit_graphs_loaded_total|outcome=success"])
	assert.Equal(t, 1.0, got["graphedit_graphs_loaded_total|outcome=error"])
	assert.Equal(t, 4.0, got["graphedit_elements_read_total|kind=node"])
	assert.Equal(t, 2.0, got["graphedit_elements_read_total|kind=edge"])
	assert.Equal(t, 1.0, got["graphedit_read_diagnostics_total|severity=warning"])
	assert.Equal(t, 1.0, got["graphedit_read_diagnostics_total|severity=fatal"])
	// Gauge follows the last load
	assert.Equal(t, 1.0, got["graphedit_live_elements|kind=node"])
	assert.Equal(t, 0.0, got["graphedit_live_elements|kind=edge"])
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("graphedit")
	b := NewCollector("graphedit")

	a.RecordSave(nil)

	assert.Equal(t, 1.0, gathered(t, a)["graphedit_graphs_saved_total|outcome=success"])
	assert.NotContains(t, gathered(t, b), "graphedit_graphs_saved_total|outcome=success")
}

func TestRecordCommand(t *testing.T) {
	c := NewCollector("graphedit")
	c.RecordCommand("check", 20*time.Millisecond, nil)
	c.RecordCommand("check", 30*time.Millisecond, nil)

	got := gathered(t, c)
	assert.Equal(t, 2.0, got["graphedit_command_duration_seconds|command=check|status=success"])
}

func TestWriteToTextfile(t *testing.T) {
	c := NewCollector("graphedit")
	c.RecordSave(nil)

	path := filepath.Join(t.TempDir(), "graphedit.prom")
	require.NoError(t, c.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `graphedit_graphs_saved_total{outcome="success"} 1`)
}

func TestEventRecorder(t *testing.T) {
	c := NewCollector("graphedit")
	rec := NewEventRecorder(c)
	gid := valueobjects.NewGraphID()
	now := time.Now()

	evts := []events.DomainEvent{
		events.NewNodeCreated(gid, 1, 0, "A", now),
		events.NewNodeCreated(gid, 2, 1, "B", now),
		events.NewEdgeLinked(gid, 3, 0, 0, 1, now),
	}
	for _, e := range evts {
		require.True(t, rec.CanHandle(e.GetEventType()))
		require.NoError(t, rec.Handle(context.Background(), e))
	}

	got := gathered(t, c)
	assert.Equal(t, 2.0, got["graphedit_graph_edits_total|type=graph.node_created"])
	assert.Equal(t, 1.0, got["graphedit_graph_edits_total|type=graph.edge_linked"])
	assert.False(t, rec.CanHandle("user.created"))
}
