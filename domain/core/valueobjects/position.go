package valueobjects

import (
	"math"

	pkgerrors "graphedit/pkg/errors"
)

// Position is a value object representing world-space coordinates of a node
type Position struct {
	x float64
	y float64
}

// NewPosition creates a position with validation
func NewPosition(x, y float64) (Position, error) {
	if !isValidCoordinate(x) || !isValidCoordinate(y) {
		return Position{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Position{x: x, y: y}, nil
}

// Pos builds a position without validation, for literal coordinates
func Pos(x, y float64) Position {
	return Position{x: x, y: y}
}

// Origin is the world-space origin
var Origin = Position{}

// X returns the X coordinate
func (p Position) X() float64 {
	return p.x
}

// Y returns the Y coordinate
func (p Position) Y() float64 {
	return p.y
}

// DistanceSquaredTo is the squared Euclidean distance to another position
func (p Position) DistanceSquaredTo(other Position) float64 {
	dx := p.x - other.x
	dy := p.y - other.y
	return dx*dx + dy*dy
}

// DistanceTo calculates the Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(p.DistanceSquaredTo(other))
}

// Within reports whether other lies strictly inside the circle of the given radius around p
func (p Position) Within(other Position, radius float64) bool {
	return p.DistanceSquaredTo(other) < radius*radius
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.x-other.x) < epsilon &&
		math.Abs(p.y-other.y) < epsilon
}

// Translate moves the position by the given offsets
func (p Position) Translate(dx, dy float64) Position {
	return Position{x: p.x + dx, y: p.y + dy}
}

// OnCircle returns the point at angle theta on a circle of the given radius around the origin
func OnCircle(radius, theta float64) Position {
	return Position{x: radius * math.Cos(theta), y: radius * math.Sin(theta)}
}

// isValidCoordinate checks if a coordinate is a valid finite number
func isValidCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
