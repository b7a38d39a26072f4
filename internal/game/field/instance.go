package field

import (
	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/model"
)

// State is the lifecycle state of an Instance.
type State int32

const (
	StateSpawning  State = iota // being built under the zone lock
	StateActive                 // ticking
	StateEnding                 // teardown in progress
	StateDestroyed              // terminal
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateSpawning:
		return "SPAWNING"
	case StateActive:
		return "ACTIVE"
	case StateEnding:
		return "ENDING"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// EndReason tells why an instance was destroyed.
type EndReason int

const (
	EndNone EndReason = iota
	EndExpired
	EndCasterLeft
	EndShipFreqChange
	EndRespawn
	EndClassUnregistered
	EndZoneDetached
	EndFailure
)

// String returns a short reason name.
func (r EndReason) String() string {
	switch r {
	case EndNone:
		return ""
	case EndExpired:
		return "expired"
	case EndCasterLeft:
		return "caster_left"
	case EndShipFreqChange:
		return "ship_freq_change"
	case EndRespawn:
		return "respawn"
	case EndClassUnregistered:
		return "class_unregistered"
	case EndZoneDetached:
		return "zone_detached"
	case EndFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Instance is one live field.
//
// All fields are guarded by the owning zone's lock; accessors are meant for
// class hooks, which already run under it.
type Instance struct {
	id    uint64
	zone  *Zone
	typ   *Type
	class Class

	casterID   int32
	casterName string
	freq       int32
	fake       *model.Player

	expiry  mainloop.Ticks
	x, y    int32
	markers [CornerCount]int16

	state State
	data  any
}

// ID returns the instance identifier, unique per engine.
func (inst *Instance) ID() uint64 { return inst.id }

// Zone returns the zone the instance lives in.
func (inst *Instance) Zone() *Zone { return inst.zone }

// Type returns the type the instance was spawned from.
func (inst *Instance) Type() *Type { return inst.typ }

// CasterID returns the caster's player ID.
func (inst *Instance) CasterID() int32 { return inst.casterID }

// CasterName returns the caster's name.
func (inst *Instance) CasterName() string { return inst.casterName }

// Freq returns the caster's frequency at cast time.
func (inst *Instance) Freq() int32 { return inst.freq }

// Fake returns the stand-in actor, or nil if none could be created.
func (inst *Instance) Fake() *model.Player { return inst.fake }

// Expiry returns the tick after which the instance ends.
func (inst *Instance) Expiry() mainloop.Ticks { return inst.expiry }

// Center returns the spawn position.
func (inst *Instance) Center() (int32, int32) { return inst.x, inst.y }

// Markers returns the leased marker ID of every corner.
func (inst *Instance) Markers() [CornerCount]int16 { return inst.markers }

// State returns the lifecycle state.
func (inst *Instance) State() State { return inst.state }

// Data returns the behavior scratch data. See InstanceData.
func (inst *Instance) Data() any { return inst.data }

// SetData stores behavior scratch data.
func (inst *Instance) SetData(v any) { inst.data = v }

// Contains reports whether p's ship overlaps the instance square.
func (inst *Instance) Contains(p *model.Player) bool {
	pos := p.Position()
	return inst.zone.radii.Contains(p.Ship(), inst.x, inst.y, inst.typ.radius, pos.X, pos.Y)
}

// InstanceInfo is a snapshot of an Instance for inspection.
type InstanceInfo struct {
	ID       uint64
	Type     string
	CasterID int32
	Freq     int32
	X, Y     int32
	Expiry   mainloop.Ticks
	Markers  [CornerCount]int16
	State    State
}

func (inst *Instance) info() InstanceInfo {
	return InstanceInfo{
		ID:       inst.id,
		Type:     inst.typ.name,
		CasterID: inst.casterID,
		Freq:     inst.freq,
		X:        inst.x,
		Y:        inst.y,
		Expiry:   inst.expiry,
		Markers:  inst.markers,
		State:    inst.state,
	}
}
