package model

import (
	"fmt"
	"strings"
	"sync"
)

// Player is a connected client (or a server-side stand-in actor) inside a zone.
//
// Thread-safe: mutable state is guarded by mu. ID and Name are immutable.
type Player struct {
	id   int32
	name string
	fake bool

	mu       sync.RWMutex
	zone     string
	ship     Ship
	freq     int32
	position Position
	dead     bool // set between death and respawn
}

// NewPlayer creates a spectating player with no zone.
func NewPlayer(id int32, name string) (*Player, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid player id %d", id)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty player name for id %d", id)
	}
	return &Player{
		id:   id,
		name: name,
		ship: ShipSpectator,
	}, nil
}

// NewFakePlayer creates a server-controlled stand-in actor.
func NewFakePlayer(id int32, name string, ship Ship, freq int32) *Player {
	return &Player{
		id:   id,
		name: name,
		fake: true,
		ship: ship,
		freq: freq,
	}
}

// ID returns the player identifier (pid), unique among connected players.
func (p *Player) ID() int32 { return p.id }

// Name returns the player name.
func (p *Player) Name() string { return p.name }

// IsFake reports whether the player is a server-side stand-in actor.
func (p *Player) IsFake() bool { return p.fake }

// Zone returns the name of the zone the player is in, or "".
func (p *Player) Zone() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.zone
}

// SetZone moves the player to a zone ("" = none).
func (p *Player) SetZone(zone string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zone = zone
}

// Ship returns the current ship.
func (p *Player) Ship() Ship {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ship
}

// Freq returns the current frequency (team).
func (p *Player) Freq() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.freq
}

// SetShipFreq changes ship and frequency together.
func (p *Player) SetShipFreq(ship Ship, freq int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ship = ship
	p.freq = freq
}

// IsSpectator reports whether the player is not in a ship.
func (p *Player) IsSpectator() bool {
	return p.Ship() == ShipSpectator
}

// IsOnFreq reports whether the player is in zone on frequency freq.
func (p *Player) IsOnFreq(zone string, freq int32) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.zone == zone && p.freq == freq
}

// Position returns a copy of the last known position.
func (p *Player) Position() Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// SetPosition stores a new position.
func (p *Player) SetPosition(pos Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

// IsDead reports whether the player is currently dead.
func (p *Player) IsDead() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dead
}

// SetDead sets the dead flag.
func (p *Player) SetDead(dead bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dead = dead
}

// String implements fmt.Stringer.
func (p *Player) String() string {
	return fmt.Sprintf("%s(%d)", p.name, p.id)
}
