// Package field implements area-effect fields: configured per-zone field
// types, cast validation, instance lifecycle and pluggable behavior classes.
package field

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/udisondev/arenafield/internal/model"
)

// Engine owns the class registry and every attached zone.
//
// Lock order: Engine.mu, then Zone.mu, then collaborator locks (world,
// markers, items). Timer callbacks take only Zone.mu.
type Engine struct {
	svc Services

	mu    sync.RWMutex
	reg   *registry
	zones map[string]*Zone

	nextID atomic.Uint64
}

// NewEngine creates an engine using svc.
func NewEngine(svc Services) (*Engine, error) {
	if err := svc.validate(); err != nil {
		return nil, fmt.Errorf("new field engine: %w", err)
	}
	return &Engine{
		svc:   svc,
		reg:   newRegistry(),
		zones: make(map[string]*Zone, 4),
	}, nil
}

// RegisterClass makes class c available under name. Types already loaded in
// attached zones that name this class become castable.
func (e *Engine) RegisterClass(name string, c Class) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reg.add(name, c); err != nil {
		return err
	}

	bound := 0
	for _, z := range e.sortedZonesLocked() {
		z.mu.Lock()
		bound += z.bindClassLocked(name, c)
		z.mu.Unlock()
	}

	slog.Info("registered field class", "class", name, "bound_types", bound)
	return nil
}

// UnregisterClass destroys every live instance of class name in every zone,
// detaches the class from its types and removes it from the registry.
func (e *Engine) UnregisterClass(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.reg.get(name); !ok {
		return fmt.Errorf("unregister class %q: %w", name, ErrClassNotFound)
	}

	destroyed := 0
	for _, z := range e.sortedZonesLocked() {
		z.mu.Lock()
		destroyed += z.unbindClassLocked(name)
		z.mu.Unlock()
	}

	if _, err := e.reg.remove(name); err != nil {
		return err
	}

	slog.Info("unregistered field class", "class", name, "destroyed", destroyed)
	return nil
}

// HasClass reports whether a class is registered under name.
func (e *Engine) HasClass(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.reg.get(name)
	return ok
}

// Classes returns the registered class names, sorted.
func (e *Engine) Classes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reg.names()
}

// AttachZone loads the field types of zone from cfg and starts serving it.
func (e *Engine) AttachZone(name string, cfg ConfigSource) error {
	if cfg == nil {
		return fmt.Errorf("attach zone %q: nil config", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.zones[name]; ok {
		return fmt.Errorf("attach zone %q: %w", name, ErrZoneAttached)
	}

	z := newZone(e, name, cfg)
	z.types = loadTypes(name, cfg, e.reg.get)
	e.zones[name] = z

	slog.Info("field zone attached", "zone", name, "types", len(z.types))
	return nil
}

// DetachZone destroys every instance of zone, unloads its types and stops
// serving it.
func (e *Engine) DetachZone(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	z, ok := e.zones[name]
	if !ok {
		return fmt.Errorf("detach zone %q: %w", name, ErrZoneNotAttached)
	}
	delete(e.zones, name)

	z.mu.Lock()
	z.shutdownLocked()
	z.mu.Unlock()

	slog.Info("field zone detached", "zone", name)
	return nil
}

// Shutdown detaches every zone.
func (e *Engine) Shutdown() {
	e.mu.RLock()
	names := make([]string, 0, len(e.zones))
	for name := range e.zones {
		names = append(names, name)
	}
	e.mu.RUnlock()
	sort.Strings(names)

	for _, name := range names {
		if err := e.DetachZone(name); err != nil {
			slog.Warn("detach zone on shutdown", "zone", name, "err", err)
		}
	}
}

// Zones returns the attached zone names, sorted.
func (e *Engine) Zones() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.zones))
	for name := range e.zones {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Types returns the type catalog of zone in config order.
func (e *Engine) Types(zone string) []TypeInfo {
	var out []TypeInfo
	_ = e.withZone(zone, func(z *Zone) error {
		out = make([]TypeInfo, 0, len(z.types))
		for _, t := range z.types {
			out = append(out, t.info())
		}
		return nil
	})
	return out
}

// Instances returns the live instances of zone in spawn order.
func (e *Engine) Instances(zone string) []InstanceInfo {
	var out []InstanceInfo
	_ = e.withZone(zone, func(z *Zone) error {
		out = make([]InstanceInfo, 0, len(z.instances))
		for _, inst := range z.instances {
			out = append(out, inst.info())
		}
		return nil
	})
	return out
}

// InstanceCount returns the number of live instances in zone.
func (e *Engine) InstanceCount(zone string) int {
	n := 0
	_ = e.withZone(zone, func(z *Zone) error {
		n = len(z.instances)
		return nil
	})
	return n
}

// OnPlayerEnter implements world.Listener.
func (e *Engine) OnPlayerEnter(p *model.Player, zone string) {
	if p.IsFake() {
		return
	}
	_ = e.withZone(zone, func(z *Zone) error {
		z.players[p.ID()] = &playerState{}
		return nil
	})
}

// OnPlayerLeave implements world.Listener.
func (e *Engine) OnPlayerLeave(p *model.Player, zone string) {
	if p.IsFake() {
		return
	}
	_ = e.withZone(zone, func(z *Zone) error {
		z.e.svc.Scheduler.ClearTimer(respawnKey{zone: z, pid: p.ID()})
		z.destroyCasterLocked(p.ID(), EndCasterLeft)
		delete(z.players, p.ID())
		return nil
	})
}

// OnShipFreqChange implements world.Listener.
func (e *Engine) OnShipFreqChange(p *model.Player, _, _ model.Ship, _, _ int32) {
	zone := p.Zone()
	if zone == "" || p.IsFake() {
		return
	}
	_ = e.withZone(zone, func(z *Zone) error {
		z.destroyCasterLocked(p.ID(), EndShipFreqChange)
		return nil
	})
}

// OnKill implements world.Listener. With Kill:EnterDelay configured, the
// victim cannot cast until respawn, when its fields are cleared.
func (e *Engine) OnKill(zone string, _, killed *model.Player) {
	if killed.IsFake() {
		return
	}
	_ = e.withZone(zone, func(z *Zone) error {
		if z.enterDelay <= 0 {
			return nil
		}
		pid := killed.ID()
		st := z.playerLocked(pid)
		st.dead = true
		st.respawnGen++
		z.e.svc.Scheduler.SetTimer(respawnKey{zone: z, pid: pid}, z.enterDelay+respawnExtraDelay, 0, z.respawnFunc(pid, st.respawnGen))
		return nil
	})
}

// respawnFunc clears pid's fields for the kill numbered gen. A run that lost
// the race with a newer kill, a leave or a detach does nothing.
func (z *Zone) respawnFunc(pid int32, gen uint64) func() bool {
	return func() bool {
		z.mu.Lock()
		defer z.mu.Unlock()

		if z.detached {
			return false
		}
		st, ok := z.players[pid]
		if !ok || !st.dead || st.respawnGen != gen {
			return false
		}
		z.destroyCasterLocked(pid, EndRespawn)
		st.dead = false
		return false
	}
}

// withZone runs fn with the engine read lock and the zone lock held.
func (e *Engine) withZone(name string, fn func(z *Zone) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	z, ok := e.zones[name]
	if !ok {
		return ErrZoneNotAttached
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	return fn(z)
}

func (e *Engine) sortedZonesLocked() []*Zone {
	names := make([]string, 0, len(e.zones))
	for name := range e.zones {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Zone, 0, len(names))
	for _, name := range names {
		out = append(out, e.zones[name])
	}
	return out
}
