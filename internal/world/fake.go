package world

import (
	"log/slog"

	"github.com/udisondev/arenafield/internal/model"
)

// CreateFake creates a server-controlled stand-in actor in zone. Stand-ins
// are visible to ForEachPlayerInZone but do not trigger lifecycle listeners.
// Returns nil if the zone does not exist.
func (w *World) CreateFake(name, zone string, ship model.Ship, freq int32) *model.Player {
	p := model.NewFakePlayer(w.ids.NextFakeID(), name, ship, freq)

	w.mu.Lock()
	defer w.mu.Unlock()

	zs, ok := w.zones[zone]
	if !ok {
		slog.Warn("create fake in unknown zone", "zone", zone, "name", name)
		return nil
	}
	p.SetZone(zone)
	zs.players[p.ID()] = p
	w.players[p.ID()] = p

	return p
}

// EndFake removes a stand-in actor. Ending a nil or already-ended actor is a no-op.
func (w *World) EndFake(p *model.Player) {
	if p == nil || !p.IsFake() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if zs, ok := w.zones[p.Zone()]; ok {
		delete(zs.players, p.ID())
	}
	delete(w.players, p.ID())
	p.SetZone("")
}
