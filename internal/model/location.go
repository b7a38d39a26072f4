package model

// Position is a ship position in pixels with velocity and rotation.
// Value type, passed by value.
type Position struct {
	X        int32
	Y        int32
	XSpeed   int32
	YSpeed   int32
	Rotation int32 // 0-39 compass slots
}

// NewPosition creates a Position at (x, y) with no velocity.
func NewPosition(x, y int32) Position {
	return Position{X: x, Y: y}
}

// WithVelocity returns a copy with the given velocity (immutable pattern).
func (p Position) WithVelocity(xspeed, yspeed int32) Position {
	p.XSpeed = xspeed
	p.YSpeed = yspeed
	return p
}

// WithCoordinates returns a copy moved to (x, y) (immutable pattern).
func (p Position) WithCoordinates(x, y int32) Position {
	p.X = x
	p.Y = y
	return p
}

// DistanceSquared returns the squared distance to other (no sqrt for hot paths).
func (p Position) DistanceSquared(other Position) int64 {
	dx := int64(p.X - other.X)
	dy := int64(p.Y - other.Y)
	return dx*dx + dy*dy
}
