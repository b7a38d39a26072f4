package model

import "strings"

// AllShips marks a ship property that applies to every ship.
const AllShips Ship = -1

// ShipProperty is an item-granted property value owned by a player for one
// ship (or for AllShips). Values of the same name are summed.
type ShipProperty struct {
	Ship  Ship
	Name  string
	Value int32
}

// NormalizePropertyName returns the canonical (lowercase, trimmed) property name.
func NormalizePropertyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AppliesTo reports whether the property counts for ship.
func (sp ShipProperty) AppliesTo(ship Ship) bool {
	return sp.Ship == AllShips || sp.Ship == ship
}
