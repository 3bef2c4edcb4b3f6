package valueobjects

import (
	"strconv"

	"github.com/google/uuid"
)

// NodeID is a handle into a graph's node arena.
// Handles are only meaningful for the graph that issued them.
type NodeID int

// EdgeID is a handle into a graph's edge arena
type EdgeID int

// NoNode marks an empty endpoint slot
const NoNode NodeID = -1

// NoEdge is returned where no edge applies
const NoEdge EdgeID = -1

// IsValid reports whether the handle can address an arena slot
func (id NodeID) IsValid() bool {
	return id >= 0
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	if !id.IsValid() {
		return "none"
	}
	return "n" + strconv.Itoa(int(id))
}

// IsValid reports whether the handle can address an arena slot
func (id EdgeID) IsValid() bool {
	return id >= 0
}

// String returns the string representation of the EdgeID
func (id EdgeID) String() string {
	if !id.IsValid() {
		return "none"
	}
	return "e" + strconv.Itoa(int(id))
}

// GraphID identifies a graph document across stores
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// IsZero checks if the GraphID is the zero value
func (id GraphID) IsZero() bool {
	return id == ""
}
