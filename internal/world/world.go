// Package world tracks zones and the players inside them, and notifies
// listeners about player lifecycle events (enter, leave, ship change, kill).
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/arenafield/internal/model"
)

var (
	ErrZoneExists     = errors.New("zone already exists")
	ErrZoneNotFound   = errors.New("zone not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerInZone   = errors.New("player already in a zone")
)

// Listener receives player lifecycle events. Callbacks run on the caller's
// goroutine after the world lock is released.
type Listener interface {
	OnPlayerEnter(p *model.Player, zone string)
	OnPlayerLeave(p *model.Player, zone string)
	OnShipFreqChange(p *model.Player, newShip, oldShip model.Ship, newFreq, oldFreq int32)
	OnKill(zone string, killer, killed *model.Player)
}

type zoneState struct {
	name    string
	players map[int32]*model.Player
}

// World holds zones and their players.
//
// Thread-safe: zone membership is guarded by mu. Iteration via
// ForEachPlayerInZone holds the read lock for the whole iteration.
type World struct {
	mu        sync.RWMutex
	zones     map[string]*zoneState
	players   map[int32]*model.Player
	listeners []Listener
	ids       *IDGenerator
}

// New creates an empty World.
func New() *World {
	return &World{
		zones:   make(map[string]*zoneState, 8),
		players: make(map[int32]*model.Player, 64),
		ids:     NewIDGenerator(),
	}
}

// IDs returns the world's ID generator.
func (w *World) IDs() *IDGenerator { return w.ids }

// AddListener registers a lifecycle listener.
func (w *World) AddListener(l Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, l)
}

// CreateZone registers an empty zone.
func (w *World) CreateZone(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.zones[name]; ok {
		return fmt.Errorf("create zone %q: %w", name, ErrZoneExists)
	}
	w.zones[name] = &zoneState{name: name, players: make(map[int32]*model.Player, 32)}
	slog.Info("zone created", "zone", name)
	return nil
}

// RemoveZone removes a zone, making every player inside leave first.
func (w *World) RemoveZone(name string) error {
	w.mu.RLock()
	zs, ok := w.zones[name]
	var inside []*model.Player
	if ok {
		inside = make([]*model.Player, 0, len(zs.players))
		for _, p := range zs.players {
			inside = append(inside, p)
		}
	}
	w.mu.RUnlock()

	if !ok {
		return fmt.Errorf("remove zone %q: %w", name, ErrZoneNotFound)
	}

	for _, p := range inside {
		if err := w.LeaveZone(p); err != nil {
			slog.Warn("leave on zone removal", "zone", name, "player", p.Name(), "err", err)
		}
	}

	w.mu.Lock()
	delete(w.zones, name)
	w.mu.Unlock()
	return nil
}

// HasZone reports whether a zone exists.
func (w *World) HasZone(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.zones[name]
	return ok
}

// Connect registers a player (not yet in any zone).
func (w *World) Connect(p *model.Player) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players[p.ID()] = p
}

// Disconnect makes the player leave its zone and forgets it.
func (w *World) Disconnect(p *model.Player) {
	if p.Zone() != "" {
		if err := w.LeaveZone(p); err != nil {
			slog.Warn("leave on disconnect", "player", p.Name(), "err", err)
		}
	}
	w.mu.Lock()
	delete(w.players, p.ID())
	w.mu.Unlock()
}

// Player returns a connected player by ID.
func (w *World) Player(id int32) (*model.Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[id]
	return p, ok
}

// EnterZone places a connected player in a zone and notifies listeners.
func (w *World) EnterZone(p *model.Player, zone string) error {
	w.mu.Lock()
	zs, ok := w.zones[zone]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("enter zone %q: %w", zone, ErrZoneNotFound)
	}
	if p.Zone() != "" {
		w.mu.Unlock()
		return fmt.Errorf("enter zone %q: %w", zone, ErrPlayerInZone)
	}
	w.players[p.ID()] = p
	zs.players[p.ID()] = p
	p.SetZone(zone)
	listeners := w.listenersLocked()
	w.mu.Unlock()

	for _, l := range listeners {
		l.OnPlayerEnter(p, zone)
	}
	return nil
}

// LeaveZone removes a player from its zone and notifies listeners.
func (w *World) LeaveZone(p *model.Player) error {
	w.mu.Lock()
	zone := p.Zone()
	zs, ok := w.zones[zone]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("leave zone %q: %w", zone, ErrZoneNotFound)
	}
	if _, in := zs.players[p.ID()]; !in {
		w.mu.Unlock()
		return fmt.Errorf("leave zone %q: %w", zone, ErrPlayerNotFound)
	}
	delete(zs.players, p.ID())
	p.SetZone("")
	listeners := w.listenersLocked()
	w.mu.Unlock()

	for _, l := range listeners {
		l.OnPlayerLeave(p, zone)
	}
	return nil
}

// SetShipFreq changes a player's ship and frequency and notifies listeners
// when either actually changed.
func (w *World) SetShipFreq(p *model.Player, ship model.Ship, freq int32) {
	oldShip, oldFreq := p.Ship(), p.Freq()
	if oldShip == ship && oldFreq == freq {
		return
	}
	p.SetShipFreq(ship, freq)

	for _, l := range w.snapshotListeners() {
		l.OnShipFreqChange(p, ship, oldShip, freq, oldFreq)
	}
}

// Kill marks killed as dead and notifies listeners.
func (w *World) Kill(killer, killed *model.Player) {
	killed.SetDead(true)
	zone := killed.Zone()

	for _, l := range w.snapshotListeners() {
		l.OnKill(zone, killer, killed)
	}
}

// Respawn clears the dead flag.
func (w *World) Respawn(p *model.Player) {
	p.SetDead(false)
}

// ForEachPlayerInZone calls fn for every player in zone while holding the
// world read lock. Iteration stops when fn returns false. fn must not call
// World methods that take the write lock.
func (w *World) ForEachPlayerInZone(zone string, fn func(p *model.Player) bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	zs, ok := w.zones[zone]
	if !ok {
		return
	}
	for _, p := range zs.players {
		if !fn(p) {
			return
		}
	}
}

// PlayerCount returns the number of players in zone (stand-in actors included).
func (w *World) PlayerCount(zone string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	zs, ok := w.zones[zone]
	if !ok {
		return 0
	}
	return len(zs.players)
}

func (w *World) snapshotListeners() []Listener {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.listenersLocked()
}

func (w *World) listenersLocked() []Listener {
	out := make([]Listener, len(w.listeners))
	copy(out, w.listeners)
	return out
}
