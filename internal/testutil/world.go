package testutil

import (
	"testing"

	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/world"
)

// NewTestWorld creates a World with the given zones already created.
func NewTestWorld(tb testing.TB, zones ...string) *world.World {
	tb.Helper()
	w := world.New()
	for _, z := range zones {
		if err := w.CreateZone(z); err != nil {
			tb.Fatalf("creating zone %q: %v", z, err)
		}
	}
	return w
}

// EnterPlayer connects a new player, puts it in zone and gives it a ship and freq.
func EnterPlayer(tb testing.TB, w *world.World, name, zone string, ship model.Ship, freq int32) *model.Player {
	tb.Helper()
	p, err := model.NewPlayer(w.IDs().NextPlayerID(), name)
	if err != nil {
		tb.Fatalf("creating player %q: %v", name, err)
	}
	w.Connect(p)
	if err := w.EnterZone(p, zone); err != nil {
		tb.Fatalf("entering zone %q: %v", zone, err)
	}
	w.SetShipFreq(p, ship, freq)
	return p
}
