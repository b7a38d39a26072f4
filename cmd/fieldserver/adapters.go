package main

import (
	"log/slog"
	"time"

	"github.com/udisondev/arenafield/internal/game/field"
	"github.com/udisondev/arenafield/internal/items"
	"github.com/udisondev/arenafield/internal/journal"
	"github.com/udisondev/arenafield/internal/model"
)

// Ship settings pushed to clients by SendOverrides.
var overrideProps = []string{"speed_actual", "maxspeed_actual", "thrust"}

// publisher is the part of the websocket observer the adapters need.
type publisher interface {
	Publish(zone string, event any)
}

// journalObserver records instance lifecycle events in the journal.
// Implements field.LifecycleObserver.
type journalObserver struct {
	j   *journal.Journal
	now func() time.Time
}

func newJournalObserver(j *journal.Journal) *journalObserver {
	return &journalObserver{j: j, now: time.Now}
}

func (o *journalObserver) InstanceSpawned(ev field.LifecycleEvent) {
	o.j.Record(o.event(journal.KindSpawn, ev))
}

func (o *journalObserver) InstanceDestroyed(ev field.LifecycleEvent) {
	o.j.Record(o.event(journal.KindDestroy, ev))
}

func (o *journalObserver) event(kind string, ev field.LifecycleEvent) journal.Event {
	return journal.Event{
		Time:   o.now(),
		Kind:   kind,
		Zone:   ev.Zone,
		Type:   ev.Type,
		Class:  ev.Class,
		Caster: ev.Caster,
		X:      ev.X,
		Y:      ev.Y,
		Reason: ev.Reason.String(),
	}
}

// lifecycleMessage is the feed payload of one instance transition.
type lifecycleMessage struct {
	Kind   string `json:"kind"`
	Type   string `json:"type"`
	Class  string `json:"class"`
	Caster string `json:"caster"`
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Reason string `json:"reason,omitempty"`
}

// feedObserver publishes instance lifecycle events to websocket observers.
// Implements field.LifecycleObserver.
type feedObserver struct {
	feed publisher
}

func (o *feedObserver) InstanceSpawned(ev field.LifecycleEvent) {
	o.feed.Publish(ev.Zone, lifecycleMessage{
		Kind: journal.KindSpawn, Type: ev.Type, Class: ev.Class,
		Caster: ev.Caster, X: ev.X, Y: ev.Y,
	})
}

func (o *feedObserver) InstanceDestroyed(ev field.LifecycleEvent) {
	o.feed.Publish(ev.Zone, lifecycleMessage{
		Kind: journal.KindDestroy, Type: ev.Type, Class: ev.Class,
		Caster: ev.Caster, X: ev.X, Y: ev.Y, Reason: ev.Reason.String(),
	})
}

// Feed payloads of player-directed actions.
type (
	shotMessage struct {
		Kind     string `json:"kind"`
		Victim   string `json:"victim"`
		Shooter  int32  `json:"shooter"`
		Weapon   uint8  `json:"weapon"`
		Level    uint8  `json:"level"`
		X        int32  `json:"x"`
		Y        int32  `json:"y"`
		Rotation int32  `json:"rotation"`
		Time     uint16 `json:"time"`
	}
	prizeMessage struct {
		Kind   string `json:"kind"`
		Player string `json:"player"`
		Prize  int    `json:"prize"`
		Count  int    `json:"count"`
	}
	overrideMessage struct {
		Kind     string         `json:"kind"`
		Player   string         `json:"player"`
		Settings map[string]int `json:"settings"`
	}
	chatMessage struct {
		Kind   string `json:"kind"`
		Player string `json:"player"`
		Text   string `json:"text"`
	}
)

// zoneHost delivers field effects to players. With no client protocol in
// this process every delivery is logged and mirrored to the observer feed.
// Implements fieldclass.Shooter, fieldclass.Prizer, fieldclass.OverrideSender
// and field.ChatSender.
type zoneHost struct {
	store *items.Store
	feed  publisher // nil when the observer is disabled
}

func (h *zoneHost) FireWeapon(victim *model.Player, shot model.Shot) {
	if shot.Weapon.Type == model.WeaponNull {
		return
	}
	slog.Debug("field shot",
		"victim", victim.Name(),
		"shooter", shot.ShooterID,
		"weapon", shot.Weapon.Type,
		"x", shot.Position.X,
		"y", shot.Position.Y)

	h.publish(victim.Zone(), shotMessage{
		Kind:     "shot",
		Victim:   victim.Name(),
		Shooter:  shot.ShooterID,
		Weapon:   uint8(shot.Weapon.Type),
		Level:    shot.Weapon.Level,
		X:        shot.Position.X,
		Y:        shot.Position.Y,
		Rotation: shot.Position.Rotation,
		Time:     shot.Time,
	})
}

func (h *zoneHost) GivePrize(p *model.Player, prize, count int) {
	slog.Debug("field prize", "player", p.Name(), "prize", prize, "count", count)
	h.publish(p.Zone(), prizeMessage{Kind: "prize", Player: p.Name(), Prize: prize, Count: count})
}

func (h *zoneHost) SendOverrides(p *model.Player) {
	settings := make(map[string]int, len(overrideProps))
	for _, prop := range overrideProps {
		settings[prop] = h.store.Value(p, p.Ship(), prop)
	}
	slog.Debug("ship settings", "player", p.Name(), "settings", settings)
	h.publish(p.Zone(), overrideMessage{Kind: "settings", Player: p.Name(), Settings: settings})
}

func (h *zoneHost) SendMessage(p *model.Player, text string) {
	slog.Info("chat", "player", p.Name(), "text", text)
	h.publish(p.Zone(), chatMessage{Kind: "chat", Player: p.Name(), Text: text})
}

func (h *zoneHost) publish(zone string, msg any) {
	if h.feed == nil || zone == "" {
		return
	}
	h.feed.Publish(zone, msg)
}
