// Package queries defines the read-only views of a loaded graph.
package queries

import (
	"graphedit/pkg/utils"
)

// GetNodeQuery fetches one node with its traits and neighbours
type GetNodeQuery struct {
	Label string `validate:"required"`
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListNodesQuery lists every node in creation order
type ListNodesQuery struct {
	// IncludeExpired also lists nodes marked for removal but not yet purged
	IncludeExpired bool
}

// Validate validates the ListNodesQuery
func (q ListNodesQuery) Validate() error {
	return nil
}

// TraitView is one trait rendered as text
type TraitView struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// LinkView is one incident edge seen from a node
type LinkView struct {
	Neighbor string      `json:"neighbor"`
	SelfLoop bool        `json:"selfLoop"`
	Traits   []TraitView `json:"traits"`
}

// NodeView is the result of GetNodeQuery; ListNodesQuery returns []NodeView
// without links
type NodeView struct {
	Label  string      `json:"label"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	State  string      `json:"state"`
	Traits []TraitView `json:"traits"`
	Links  []LinkView  `json:"links,omitempty"`
	Degree int         `json:"degree"`
}
