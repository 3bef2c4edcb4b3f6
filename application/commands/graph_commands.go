// Package commands defines the edit commands accepted by a graph session.
// Nodes are addressed by label; edges by their two endpoint labels and an
// index among the live edges joining them.
package commands

import (
	"graphedit/pkg/utils"
)

// CreateNodeCommand adds a node. An empty Label takes the next auto label.
// Bare nodes receive no default traits.
type CreateNodeCommand struct {
	Label string  `json:"label" validate:"omitempty,singleline,max=1024"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Bare  bool    `json:"bare"`
}

// Validate validates the command
func (c CreateNodeCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// LinkNodesCommand connects two nodes with a new edge
type LinkNodesCommand struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// Validate validates the command
func (c LinkNodesCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// CutEdgeCommand cuts the Index-th live edge between From and To, in the
// order the edges were attached to From
type CutEdgeCommand struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Index int    `json:"index" validate:"gte=0"`
	// Purge reclaims the edge immediately instead of leaving it expired
	Purge bool `json:"purge"`
}

// Validate validates the command
func (c CutEdgeCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RemoveNodeCommand expires a node and its edges. With Purge the expired
// elements are reclaimed right away.
type RemoveNodeCommand struct {
	Label string `json:"label" validate:"required,singleline"`
	Purge bool   `json:"purge"`
}

// Validate validates the command
func (c RemoveNodeCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// EdgeRef addresses an edge by endpoint labels
type EdgeRef struct {
	To    string `json:"to" validate:"required"`
	Index int    `json:"index" validate:"gte=0"`
}

// SetTraitCommand writes a trait on a node, or on an edge when Edge is set.
// An existing trait is updated in place and must keep its kind; a missing one
// is added.
type SetTraitCommand struct {
	Node  string   `json:"node" validate:"required"`
	Edge  *EdgeRef `json:"edge,omitempty"`
	Kind  string   `json:"kind" validate:"required"`
	Trait string   `json:"trait" validate:"required,singleline"`
	Value string   `json:"value" validate:"required,singleline"`
}

// Validate validates the command
func (c SetTraitCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UnsetTraitCommand removes a trait from a node or edge
type UnsetTraitCommand struct {
	Node  string   `json:"node" validate:"required"`
	Edge  *EdgeRef `json:"edge,omitempty"`
	Trait string   `json:"trait" validate:"required,singleline"`
}

// Validate validates the command
func (c UnsetTraitCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// PurgeCommand reclaims every expired node and edge
type PurgeCommand struct{}

// Validate validates the command
func (c PurgeCommand) Validate() error {
	return nil
}

// LayoutCommand places every node on the circle used after loading
type LayoutCommand struct{}

// Validate validates the command
func (c LayoutCommand) Validate() error {
	return nil
}
