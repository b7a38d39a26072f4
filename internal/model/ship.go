package model

import "strings"

// Ship is a ship kind. ShipSpectator means "not in a ship".
type Ship int8

const (
	ShipWarbird Ship = iota
	ShipJavelin
	ShipSpider
	ShipLeviathan
	ShipTerrier
	ShipWeasel
	ShipLancaster
	ShipShark
	ShipSpectator
)

// ShipCount is the number of flyable ships.
const ShipCount = 8

var shipNames = [ShipCount]string{
	"Warbird", "Javelin", "Spider", "Leviathan",
	"Terrier", "Weasel", "Lancaster", "Shark",
}

// Valid reports whether s is a flyable ship.
func (s Ship) Valid() bool {
	return s >= ShipWarbird && s <= ShipShark
}

// String returns the ship name, also used as its config section.
func (s Ship) String() string {
	if s.Valid() {
		return shipNames[s]
	}
	if s == ShipSpectator {
		return "Spectator"
	}
	return "Unknown"
}

// ShipNames returns the config section names of all flyable ships, in ship order.
func ShipNames() []string {
	names := make([]string, ShipCount)
	copy(names, shipNames[:])
	return names
}

// ParseShip resolves a ship by name (case-insensitive).
func ParseShip(name string) (Ship, bool) {
	for i, n := range shipNames {
		if strings.EqualFold(n, name) {
			return Ship(i), true
		}
	}
	if strings.EqualFold(name, "spectator") || strings.EqualFold(name, "spec") {
		return ShipSpectator, true
	}
	return ShipSpectator, false
}
