package field

import "github.com/udisondev/arenafield/internal/model"

// DefaultShipRadius is the hitbox half-extent used when a ship has none configured.
const DefaultShipRadius = 14

// ShipRadii holds the hitbox half-extent of every flyable ship.
type ShipRadii [model.ShipCount]int32

// DefaultShipRadii returns DefaultShipRadius for every ship.
func DefaultShipRadii() ShipRadii {
	var r ShipRadii
	for i := range r {
		r[i] = DefaultShipRadius
	}
	return r
}

// loadShipRadii reads "<Ship>:radius" for every ship. Zero means default.
func loadShipRadii(cfg ConfigSource) ShipRadii {
	var r ShipRadii
	for i, name := range model.ShipNames() {
		v := cfg.GetInt(name, "radius", DefaultShipRadius)
		if v == 0 {
			v = DefaultShipRadius
		}
		r[i] = int32(v)
	}
	return r
}

// Contains reports whether a ship of kind ship at (px, py) overlaps the square
// of half-extent r centered at (cx, cy). The ship is treated as a square of
// its hitbox radius. Spectators and invalid ships are never inside.
func (radii ShipRadii) Contains(ship model.Ship, cx, cy, r, px, py int32) bool {
	if !ship.Valid() {
		return false
	}
	R := radii[ship]

	if px+R < cx-r || px-R > cx+r {
		return false
	}
	if py+R < cy-r || py-R > cy+r {
		return false
	}
	return true
}
