package events

import (
	"time"

	"graphedit/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event type names
const (
	TypeNodeCreated    = "graph.node_created"
	TypeEdgeLinked     = "graph.edge_linked"
	TypeEdgeCut        = "graph.edge_cut"
	TypeNodeExpired    = "graph.node_expired"
	TypeElementsPurged = "graph.elements_purged"
)

// Node Events

// NodeCreated is raised when a node is added to a graph
type NodeCreated struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
	Label  string              `json:"label"`
}

// NewNodeCreated creates a NodeCreated event
func NewNodeCreated(graphID valueobjects.GraphID, version int, nodeID valueobjects.NodeID, label string, timestamp time.Time) NodeCreated {
	return NodeCreated{
		BaseEvent: BaseEvent{
			AggregateID: graphID.String(),
			EventType:   TypeNodeCreated,
			Timestamp:   timestamp,
			Version:     version,
		},
		NodeID: nodeID,
		Label:  label,
	}
}

// NodeExpired is raised when a node is marked for removal
type NodeExpired struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	Label    string              `json:"label"`
	EdgesCut int                 `json:"edges_cut"`
}

// NewNodeExpired creates a NodeExpired event
func NewNodeExpired(graphID valueobjects.GraphID, version int, nodeID valueobjects.NodeID, label string, edgesCut int, timestamp time.Time) NodeExpired {
	return NodeExpired{
		BaseEvent: BaseEvent{
			AggregateID: graphID.String(),
			EventType:   TypeNodeExpired,
			Timestamp:   timestamp,
			Version:     version,
		},
		NodeID:   nodeID,
		Label:    label,
		EdgesCut: edgesCut,
	}
}

// Edge Events

// EdgeLinked is raised when two nodes are connected
type EdgeLinked struct {
	BaseEvent
	EdgeID   valueobjects.EdgeID `json:"edge_id"`
	SourceID valueobjects.NodeID `json:"source_id"`
	TargetID valueobjects.NodeID `json:"target_id"`
}

// NewEdgeLinked creates an EdgeLinked event
func NewEdgeLinked(graphID valueobjects.GraphID, version int, edgeID valueobjects.EdgeID, sourceID, targetID valueobjects.NodeID, timestamp time.Time) EdgeLinked {
	return EdgeLinked{
		BaseEvent: BaseEvent{
			AggregateID: graphID.String(),
			EventType:   TypeEdgeLinked,
			Timestamp:   timestamp,
			Version:     version,
		},
		EdgeID:   edgeID,
		SourceID: sourceID,
		TargetID: targetID,
	}
}

// EdgeCut is raised when an edge is severed from its endpoints
type EdgeCut struct {
	BaseEvent
	EdgeID   valueobjects.EdgeID `json:"edge_id"`
	SourceID valueobjects.NodeID `json:"source_id"`
	TargetID valueobjects.NodeID `json:"target_id"`
}

// NewEdgeCut creates an EdgeCut event
func NewEdgeCut(graphID valueobjects.GraphID, version int, edgeID valueobjects.EdgeID, sourceID, targetID valueobjects.NodeID, timestamp time.Time) EdgeCut {
	return EdgeCut{
		BaseEvent: BaseEvent{
			AggregateID: graphID.String(),
			EventType:   TypeEdgeCut,
			Timestamp:   timestamp,
			Version:     version,
		},
		EdgeID:   edgeID,
		SourceID: sourceID,
		TargetID: targetID,
	}
}

// Graph Events

// ElementsPurged is raised when expired elements are reclaimed
type ElementsPurged struct {
	BaseEvent
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// NewElementsPurged creates an ElementsPurged event
func NewElementsPurged(graphID valueobjects.GraphID, version int, nodes, edges int, timestamp time.Time) ElementsPurged {
	return ElementsPurged{
		BaseEvent: BaseEvent{
			AggregateID: graphID.String(),
			EventType:   TypeElementsPurged,
			Timestamp:   timestamp,
			Version:     version,
		},
		Nodes: nodes,
		Edges: edges,
	}
}
