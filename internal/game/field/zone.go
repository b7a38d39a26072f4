package field

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/objects"
)

// respawnExtraDelay is added to Kill:EnterDelay before a dead caster's
// fields are cleared.
const respawnExtraDelay mainloop.Ticks = 100

const maxFakeNameLen = 22

type playerState struct {
	dead     bool
	hasCast  bool
	lastCast mainloop.Ticks
	// bumped on every kill; a respawn timer acts only for its own kill
	respawnGen uint64
}

type respawnKey struct {
	zone *Zone
	pid  int32
}

// Zone is the field state of one attached zone: its type catalog, live
// instances and per-player cast state. One mutex guards all of it.
type Zone struct {
	name       string
	e          *Engine
	cfg        ConfigSource
	radii      ShipRadii
	enterDelay mainloop.Ticks
	target     objects.Target

	mu        sync.Mutex
	types     []*Type
	instances []*Instance
	players   map[int32]*playerState
	detached  bool
}

func newZone(e *Engine, name string, cfg ConfigSource) *Zone {
	return &Zone{
		name:       name,
		e:          e,
		cfg:        cfg,
		radii:      loadShipRadii(cfg),
		enterDelay: mainloop.Ticks(cfg.GetInt("kill", "enterdelay", 0)),
		target:     objects.ZoneTarget(name),
		players:    make(map[int32]*playerState, 32),
	}
}

// Name returns the zone name.
func (z *Zone) Name() string { return z.name }

// Now returns the current tick.
func (z *Zone) Now() mainloop.Ticks { return z.e.svc.Scheduler.Clock().Now() }

// Radii returns the ship hitbox table.
func (z *Zone) Radii() ShipRadii { return z.radii }

// Contains runs the box containment test with this zone's ship radii.
func (z *Zone) Contains(ship model.Ship, cx, cy, r, px, py int32) bool {
	return z.radii.Contains(ship, cx, cy, r, px, py)
}

// ForEachPlayer iterates the zone's players (stand-ins included) under the
// player-set lock. fn returns false to stop.
func (z *Zone) ForEachPlayer(fn func(p *model.Player) bool) {
	z.e.svc.Players.ForEachPlayerInZone(z.name, fn)
}

// PropertySum sums an item property of p's ship.
func (z *Zone) PropertySum(p *model.Player, ship model.Ship, prop string) int {
	return z.e.svc.Props.PropertySum(p, ship, prop)
}

func (z *Zone) playerLocked(pid int32) *playerState {
	st, ok := z.players[pid]
	if !ok {
		st = &playerState{}
		z.players[pid] = st
	}
	return st
}

func (z *Zone) instanceOfLocked(pid int32) *Instance {
	for _, inst := range z.instances {
		if inst.casterID == pid {
			return inst
		}
	}
	return nil
}

// spawnLocked builds an instance of t around p and starts its tick timer.
func (z *Zone) spawnLocked(p *model.Player, t *Type) (*Instance, error) {
	svc := z.e.svc
	pos := p.Position()

	inst := &Instance{
		id:         z.e.nextID.Add(1),
		zone:       z,
		typ:        t,
		class:      t.class,
		casterID:   p.ID(),
		casterName: p.Name(),
		freq:       p.Freq(),
		expiry:     z.Now() + t.duration,
		x:          pos.X,
		y:          pos.Y,
		state:      StateSpawning,
	}

	inst.fake = svc.Actors.CreateFake(fakeName(p.ID(), t.name), z.name, model.ShipShark, inst.freq)
	if inst.fake == nil {
		slog.Warn("field stand-in not created", "zone", z.name, "type", t.name, "caster", p.Name())
	}

	inst.markers = leaseCorners(z.types, t)
	for c := range CornerCount {
		id := inst.markers[c]
		mx, my := cornerPosition(c, inst.x, inst.y, t.radius, t.markerSize)
		svc.Markers.Toggle(z.target, id, true)
		svc.Markers.Move(z.target, id, mx, my)
	}

	if svc.Events != nil && t.event != "" {
		svc.Events.TriggerEvent(p, p.Ship(), t.event)
	}

	if !z.callHook(inst, "created", inst.class.OnInstanceCreated) {
		z.abortSpawnLocked(inst)
		return nil, fmt.Errorf("spawn %s field: %w", t.name, ErrInternal)
	}

	svc.Scheduler.SetTimer(inst, t.delay, t.delay, z.tickFunc(inst))
	z.instances = append(z.instances, inst)
	inst.state = StateActive

	z.notifySpawned(inst)
	slog.Debug("field instance created", "zone", z.name, "type", t.name, "caster", p.Name(), "x", inst.x, "y", inst.y)
	return inst, nil
}

// abortSpawnLocked undoes a spawn whose constructor failed.
func (z *Zone) abortSpawnLocked(inst *Instance) {
	ids, ons := inst.markerSet()
	z.e.svc.Markers.ToggleSet(z.target, ids, ons)
	z.e.svc.Actors.EndFake(inst.fake)
	inst.data = nil
	inst.state = StateDestroyed
}

// destroyLocked tears inst down. Returns false if it was not active.
func (z *Zone) destroyLocked(inst *Instance, reason EndReason) bool {
	if inst.state != StateActive {
		return false
	}
	inst.state = StateEnding
	svc := z.e.svc

	svc.Scheduler.ClearTimer(inst)

	ids, ons := inst.markerSet()
	svc.Markers.ToggleSet(z.target, ids, ons)

	z.callHook(inst, "destroyed", inst.class.OnInstanceDestroyed)

	z.removeLocked(inst)
	svc.Actors.EndFake(inst.fake)
	inst.data = nil
	inst.state = StateDestroyed

	z.notifyDestroyed(inst, reason)
	slog.Debug("field instance destroyed", "zone", z.name, "type", inst.typ.name, "caster", inst.casterName, "reason", reason)
	return true
}

// destroyWhereLocked destroys every instance matching pred. Matches are
// collected first so destruction never mutates the slice being iterated.
func (z *Zone) destroyWhereLocked(pred func(*Instance) bool, reason EndReason) int {
	var victims []*Instance
	for _, inst := range z.instances {
		if pred(inst) {
			victims = append(victims, inst)
		}
	}

	n := 0
	for _, inst := range victims {
		if z.destroyLocked(inst, reason) {
			n++
		}
	}
	return n
}

func (z *Zone) destroyCasterLocked(pid int32, reason EndReason) int {
	return z.destroyWhereLocked(func(inst *Instance) bool { return inst.casterID == pid }, reason)
}

func (z *Zone) removeLocked(inst *Instance) {
	for i, cur := range z.instances {
		if cur == inst {
			z.instances = append(z.instances[:i], z.instances[i+1:]...)
			return
		}
	}
}

func (z *Zone) tickFunc(inst *Instance) mainloop.TimerFunc {
	return func() bool {
		z.mu.Lock()
		defer z.mu.Unlock()

		// Тик мог стартовать до отмены таймера.
		if z.detached || inst.state != StateActive {
			return false
		}
		if z.Now() > inst.expiry {
			z.destroyLocked(inst, EndExpired)
			return false
		}
		if !z.callHook(inst, "tick", inst.class.OnInstanceTick) {
			z.destroyLocked(inst, EndFailure)
			return false
		}
		return true
	}
}

// callHook runs a class hook, recovering panics so one broken instance
// cannot take down the others. Returns false if the hook panicked.
func (z *Zone) callHook(inst *Instance, hook string, fn func(*Instance)) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("field class hook panicked",
				"zone", z.name,
				"type", inst.typ.name,
				"class", inst.typ.className,
				"hook", hook,
				"panic", r)
			ok = false
		}
	}()
	fn(inst)
	return true
}

// bindClassLocked attaches c to every unbound type configured with name.
func (z *Zone) bindClassLocked(name string, c Class) int {
	n := 0
	for _, t := range z.types {
		if t.bound() || classKey(t.className) != classKey(name) {
			continue
		}
		t.class = c
		if !t.propsLoaded {
			t.props = safeLoadTypeConfig(z.name, typeSection(t.id), z.cfg, c)
			t.propsLoaded = true
		}
		n++
	}
	return n
}

// unbindClassLocked destroys the instances of class name, then detaches it
// from every type. Returns the number of destroyed instances.
func (z *Zone) unbindClassLocked(name string) int {
	matches := func(t *Type) bool { return t.bound() && classKey(t.className) == classKey(name) }

	destroyed := z.destroyWhereLocked(func(inst *Instance) bool { return matches(inst.typ) }, EndClassUnregistered)

	for _, t := range z.types {
		if !matches(t) {
			continue
		}
		safeUnloadTypeConfig(z.name, t)
		t.class = nil
	}
	return destroyed
}

// shutdownLocked destroys everything and unloads the catalog.
func (z *Zone) shutdownLocked() {
	z.destroyWhereLocked(func(*Instance) bool { return true }, EndZoneDetached)

	for _, t := range z.types {
		if t.bound() {
			safeUnloadTypeConfig(z.name, t)
		}
		t.class = nil
	}
	z.types = nil

	for pid := range z.players {
		z.e.svc.Scheduler.ClearTimer(respawnKey{zone: z, pid: pid})
	}
	clear(z.players)
	z.detached = true
}

func (z *Zone) notifySpawned(inst *Instance) {
	if len(z.e.svc.Observers) == 0 {
		return
	}
	ev := inst.lifecycleEvent(EndNone)
	for _, o := range z.e.svc.Observers {
		o.InstanceSpawned(ev)
	}
}

func (z *Zone) notifyDestroyed(inst *Instance, reason EndReason) {
	if len(z.e.svc.Observers) == 0 {
		return
	}
	ev := inst.lifecycleEvent(reason)
	for _, o := range z.e.svc.Observers {
		o.InstanceDestroyed(ev)
	}
}

func (inst *Instance) lifecycleEvent(reason EndReason) LifecycleEvent {
	return LifecycleEvent{
		Zone:   inst.zone.name,
		Type:   inst.typ.name,
		Class:  inst.typ.className,
		Caster: inst.casterName,
		X:      inst.x,
		Y:      inst.y,
		Reason: reason,
	}
}

func (inst *Instance) markerSet() ([]int16, []bool) {
	ids := make([]int16, CornerCount)
	copy(ids, inst.markers[:])
	return ids, make([]bool, CornerCount)
}

func safeLoadTypeConfig(zone, section string, cfg ConfigSource, c Class) (props any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("field type config loader panicked", "zone", zone, "section", section, "panic", r)
			props = nil
		}
	}()
	return c.LoadTypeConfig(zone, section, cfg)
}

func safeUnloadTypeConfig(zone string, t *Type) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("field type config cleanup panicked", "zone", zone, "type", t.name, "panic", r)
		}
		t.props = nil
		t.propsLoaded = false
	}()
	t.class.UnloadTypeConfig(zone, t.props)
}

// fakeName returns the stand-in name "<pid-typename>", at most
// maxFakeNameLen bytes, lowercased after the first byte.
func fakeName(pid int32, typeName string) string {
	if len(typeName) > 17 {
		typeName = typeName[:17]
	}
	name := fmt.Sprintf("<%d-%s>", pid, typeName)
	if len(name) > maxFakeNameLen {
		name = name[:maxFakeNameLen]
	}
	return name[:1] + strings.ToLower(name[1:])
}
