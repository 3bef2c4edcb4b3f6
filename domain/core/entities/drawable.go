package entities

import "graphedit/domain/core/valueobjects"

// State is the transient activation marker of a drawable entity
type State int

const (
	StateNormal State = iota
	StateActive
	StateExpired
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Canvas is the rendering sink supplied by the host
type Canvas interface {
	Line(from, to valueobjects.Position)
	Polygon(points []valueobjects.Position)
}

// Drawable is the contract the host loop calls on every graph element
type Drawable interface {
	Draw(canvas Canvas)
	// OnClick processes a click at a world-space point and reports whether the element reacted
	OnClick(x, y float64) bool
	State() State
	ResetState()
}

// drawState is shared by nodes and edges
type drawState struct {
	state State
}

// State returns the current activation state
func (d *drawState) State() State {
	return d.state
}

// ResetState clears an Active marker. Expired is final.
func (d *drawState) ResetState() {
	if d.state != StateExpired {
		d.state = StateNormal
	}
}

// IsExpired reports whether the element is marked for removal
func (d *drawState) IsExpired() bool {
	return d.state == StateExpired
}

func (d *drawState) expire() {
	d.state = StateExpired
}
