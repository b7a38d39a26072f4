package field

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenafield/internal/items"
	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/objects"
	"github.com/udisondev/arenafield/internal/testutil"
	"github.com/udisondev/arenafield/internal/world"
)

const testZone = "pub"

// recordingClass counts hook calls. Hooks run under the zone lock, tests read
// the counters from the same goroutine afterwards.
type recordingClass struct {
	loads, unloads            int
	created, ticks, destroyed int

	panicOnCreate bool
	panicOnTick   bool
}

func (c *recordingClass) LoadTypeConfig(_, section string, cfg ConfigSource) any {
	c.loads++
	return cfg.GetInt(section, "power", 7)
}

func (c *recordingClass) UnloadTypeConfig(string, any) { c.unloads++ }

func (c *recordingClass) OnInstanceCreated(inst *Instance) {
	if c.panicOnCreate {
		panic("create failed")
	}
	c.created++
	power, _ := TypeProperties[int](inst.Type())
	inst.SetData(power)
}

func (c *recordingClass) OnInstanceTick(*Instance) {
	if c.panicOnTick {
		panic("tick failed")
	}
	c.ticks++
}

func (c *recordingClass) OnInstanceDestroyed(*Instance) { c.destroyed++ }

type recordingObserver struct {
	spawned   []LifecycleEvent
	destroyed []LifecycleEvent
}

func (o *recordingObserver) InstanceSpawned(ev LifecycleEvent)   { o.spawned = append(o.spawned, ev) }
func (o *recordingObserver) InstanceDestroyed(ev LifecycleEvent) { o.destroyed = append(o.destroyed, ev) }

type harness struct {
	t        *testing.T
	clock    *mainloop.ManualClock
	loop     *mainloop.Loop
	world    *world.World
	markers  *objects.Tracker
	store    *items.Store
	observer *recordingObserver
	engine   *Engine
	class    *recordingClass
	events   []string
}

// newHarness builds an engine with the "attack" class registered and zone
// "pub" attached with sections.
func newHarness(t *testing.T, sections map[string]map[string]string) *harness {
	t.Helper()

	h := &harness{
		t:        t,
		clock:    mainloop.NewManualClock(1000),
		world:    testutil.NewTestWorld(t, testZone),
		markers:  objects.NewTracker(),
		store:    items.NewStore(),
		observer: &recordingObserver{},
		class:    &recordingClass{},
	}
	h.loop = mainloop.NewLoop(h.clock)
	h.store.OnEvent(func(_ *model.Player, _ model.Ship, event string) {
		h.events = append(h.events, event)
	})

	e, err := NewEngine(Services{
		Players:   h.world,
		Actors:    h.world,
		Markers:   h.markers,
		Props:     h.store,
		Events:    h.store,
		Scheduler: h.loop,
		Observers: []LifecycleObserver{h.observer},
	})
	require.NoError(t, err)
	h.engine = e
	h.world.AddListener(e)

	require.NoError(t, e.RegisterClass("attack", h.class))
	require.NoError(t, e.AttachZone(testZone, testutil.ZoneConfig(sections)))
	return h
}

// player enters the zone in a Warbird on freq with the given properties.
func (h *harness) player(name string, freq int32, props map[string]int32) *model.Player {
	h.t.Helper()
	p := testutil.EnterPlayer(h.t, h.world, name, testZone, model.ShipWarbird, freq)
	h.grant(p, props)
	return p
}

func (h *harness) grant(p *model.Player, props map[string]int32) {
	list := make([]model.ShipProperty, 0, len(props))
	for name, v := range props {
		list = append(list, model.ShipProperty{Ship: model.AllShips, Name: name, Value: v})
	}
	h.store.Set(p, list)
}

func (h *harness) advance(d mainloop.Ticks) {
	h.clock.Advance(d)
	h.loop.RunDue()
}

func (h *harness) activeMarkers() int {
	return h.markers.ActiveCount(objects.ZoneTarget(testZone))
}

func (h *harness) fakes() int {
	n := 0
	h.world.ForEachPlayerInZone(testZone, func(p *model.Player) bool {
		if p.IsFake() {
			n++
		}
		return true
	})
	return n
}

func caster() map[string]int32 {
	return map[string]int32{PropLauncher: 1, PropField: 1}
}

// merge returns a copy of base with extra sections laid over it.
func merge(base map[string]map[string]string, extra map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(base)+len(extra))
	for sec, keys := range base {
		cp := make(map[string]string, len(keys))
		for k, v := range keys {
			cp[k] = v
		}
		out[sec] = cp
	}
	for sec, keys := range extra {
		if out[sec] == nil {
			out[sec] = make(map[string]string, len(keys))
		}
		for k, v := range keys {
			out[sec][k] = v
		}
	}
	return out
}
