package field

import (
	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/objects"
)

// ConfigSource reads zone configuration values. Used only while a zone attaches.
type ConfigSource interface {
	GetInt(section, key string, def int) int
	GetString(section, key string) (string, bool)
}

// PlayerSource iterates the players of a zone while holding the player-set
// lock for the whole iteration. fn returns false to stop.
type PlayerSource interface {
	ForEachPlayerInZone(zone string, fn func(p *model.Player) bool)
}

// ActorService creates and ends server-controlled stand-in actors.
type ActorService interface {
	CreateFake(name, zone string, ship model.Ship, freq int32) *model.Player
	EndFake(p *model.Player)
}

// MarkerService toggles and positions addressable map markers.
type MarkerService interface {
	Toggle(target objects.Target, id int16, on bool)
	Move(target objects.Target, id int16, x, y int32)
	ToggleSet(target objects.Target, ids []int16, ons []bool)
}

// PropertyLookup sums item-granted properties of a player's ship.
type PropertyLookup interface {
	PropertySum(p *model.Player, ship model.Ship, prop string) int
}

// EventTrigger fires item trigger events against a player.
type EventTrigger interface {
	TriggerEvent(p *model.Player, ship model.Ship, event string) int
}

// Scheduler is the host timer facility.
type Scheduler interface {
	SetTimer(key any, initialDelay, interval mainloop.Ticks, fn mainloop.TimerFunc)
	ClearTimer(key any) bool
	Clock() mainloop.Clock
}

// LifecycleObserver is notified about instance spawn and destruction.
// Called with the zone lock held; must not block.
type LifecycleObserver interface {
	InstanceSpawned(ev LifecycleEvent)
	InstanceDestroyed(ev LifecycleEvent)
}

// LifecycleEvent describes one instance transition.
type LifecycleEvent struct {
	Zone   string
	Type   string
	Class  string
	Caster string
	X, Y   int32
	Reason EndReason
}

// Services bundles the collaborators the engine calls.
// Events and Observers are optional.
type Services struct {
	Players   PlayerSource
	Actors    ActorService
	Markers   MarkerService
	Props     PropertyLookup
	Events    EventTrigger
	Scheduler Scheduler
	Observers []LifecycleObserver
}

func (s Services) validate() error {
	switch {
	case s.Players == nil, s.Actors == nil, s.Markers == nil, s.Props == nil, s.Scheduler == nil:
		return ErrMissingServices
	}
	return nil
}
