package field

// Corner identifies one of the four markers outlining an instance.
type Corner int

const (
	CornerUpperLeft Corner = iota
	CornerUpperRight
	CornerLowerRight
	CornerLowerLeft

	CornerCount
)

var cornerKeys = [CornerCount]string{"ul", "ur", "lr", "ll"}

// String returns the short corner name used in config keys.
func (c Corner) String() string {
	if c >= 0 && c < CornerCount {
		return cornerKeys[c]
	}
	return "unknown"
}

func (c Corner) key() string { return c.String() }

// leaseCorners returns t's current marker ID per corner and advances the
// cursor of every type in types whose base ID for that corner equals t's,
// wrapping back to the base after MaxMarkers steps. Caller holds the zone lock.
func leaseCorners(types []*Type, t *Type) [CornerCount]int16 {
	ids := t.nextMarker
	base := t.markerBase

	for _, other := range types {
		for c := range CornerCount {
			if other.markerBase[c] != base[c] {
				continue
			}
			next := int(other.nextMarker[c]) + 1
			if next >= int(other.markerBase[c])+other.maxMarkers {
				next = int(other.markerBase[c])
			}
			other.nextMarker[c] = int16(next)
		}
	}
	return ids
}

// cornerPosition returns the top-left pixel of the marker graphic for corner c
// of a square centered at (x, y).
func cornerPosition(c Corner, x, y, radius, size int32) (int32, int32) {
	switch c {
	case CornerUpperLeft:
		return x - radius, y - radius
	case CornerUpperRight:
		return x + radius - size, y - radius
	case CornerLowerRight:
		return x + radius - size, y + radius - size
	case CornerLowerLeft:
		return x - radius, y + radius - size
	default:
		return x, y
	}
}
