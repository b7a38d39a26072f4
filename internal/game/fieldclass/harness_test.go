package fieldclass

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenafield/internal/game/field"
	"github.com/udisondev/arenafield/internal/items"
	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/objects"
	"github.com/udisondev/arenafield/internal/testutil"
	"github.com/udisondev/arenafield/internal/world"
)

const testZone = "pub"

type firedShot struct {
	victim int32
	shot   model.Shot
}

type shotLog struct{ shots []firedShot }

func (l *shotLog) FireWeapon(victim *model.Player, shot model.Shot) {
	l.shots = append(l.shots, firedShot{victim: victim.ID(), shot: shot})
}

type prizeLog struct{ gives []string }

func (l *prizeLog) GivePrize(p *model.Player, prize, count int) {
	l.gives = append(l.gives, fmt.Sprintf("%s:%d:%d", p.Name(), prize, count))
}

type sendLog struct{ sends []string }

func (l *sendLog) SendOverrides(p *model.Player) { l.sends = append(l.sends, p.Name()) }

var stockZone = map[string]map[string]string{
	"fields": {"types": "sting heal boost"},
	"field-sting": {
		"class": "attack", "name": "Sting", "event": "sting", "property": "1",
		"weapon":        "level2 bomb",
		"markerbase-ul": "10", "markerbase-ur": "20", "markerbase-lr": "30", "markerbase-ll": "40",
	},
	"field-heal": {
		"class": "prize", "name": "Heal", "event": "heal", "property": "2",
		"prize":         "13",
		"markerbase-ul": "50", "markerbase-ur": "60", "markerbase-lr": "70", "markerbase-ll": "80",
	},
	"field-boost": {
		"class": "override", "name": "Boost", "event": "boost", "property": "4",
		"overrides":     "speed_actual=300,thrust=20",
		"markerbase-ul": "90", "markerbase-ur": "100", "markerbase-lr": "110", "markerbase-ll": "120",
	},
}

type harness struct {
	t        *testing.T
	clock    *mainloop.ManualClock
	loop     *mainloop.Loop
	world    *world.World
	store    *items.Store
	engine   *field.Engine
	shots    *shotLog
	prizes   *prizeLog
	sends    *sendLog
	attack   *Attack
	override *Override
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:      t,
		clock:  mainloop.NewManualClock(5000),
		world:  testutil.NewTestWorld(t, testZone),
		store:  items.NewStore(),
		shots:  &shotLog{},
		prizes: &prizeLog{},
		sends:  &sendLog{},
	}
	h.loop = mainloop.NewLoop(h.clock)

	e, err := field.NewEngine(field.Services{
		Players:   h.world,
		Actors:    h.world,
		Markers:   objects.NewTracker(),
		Props:     h.store,
		Events:    h.store,
		Scheduler: h.loop,
	})
	require.NoError(t, err)
	h.engine = e
	h.world.AddListener(e)

	h.attack = NewAttack(h.shots)
	h.override = NewOverride(h.sends)
	h.world.AddListener(h.override)
	h.store.AddAdviser(h.override)

	require.NoError(t, Register(e, h.attack, h.override, NewPrize(h.prizes)))
	require.NoError(t, e.AttachZone(testZone, testutil.ZoneConfig(stockZone)))
	return h
}

// player enters at (x, y) in a Warbird on freq.
func (h *harness) player(name string, freq, x, y int32) *model.Player {
	h.t.Helper()
	p := testutil.EnterPlayer(h.t, h.world, name, testZone, model.ShipWarbird, freq)
	p.SetPosition(model.NewPosition(x, y))
	return p
}

// cast gives p every field and casts typeName.
func (h *harness) cast(p *model.Player, typeName string) {
	h.t.Helper()
	h.store.Set(p, []model.ShipProperty{
		{Ship: model.AllShips, Name: field.PropLauncher, Value: 1},
		{Ship: model.AllShips, Name: field.PropField, Value: 7},
	})
	_, err := h.engine.CastRequest(p, typeName)
	require.NoError(h.t, err)
}

func (h *harness) advance(d mainloop.Ticks) {
	h.clock.Advance(d)
	h.loop.RunDue()
}

func (h *harness) fake() *model.Player {
	var fake *model.Player
	h.world.ForEachPlayerInZone(testZone, func(p *model.Player) bool {
		if p.IsFake() {
			fake = p
			return false
		}
		return true
	})
	return fake
}
