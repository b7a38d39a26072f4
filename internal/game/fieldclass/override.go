package fieldclass

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/udisondev/arenafield/internal/game/field"
	"github.com/udisondev/arenafield/internal/model"
)

// DefaultOverrides is used by override types that configure none.
const DefaultOverrides = "speed_actual=200,maxspeed_actual=200"

// overrideEntry is one "name=value" pair of a type. Entries are compared by
// pointer, so two types overriding the same setting never remove each
// other's value.
type overrideEntry struct {
	name  string
	value int
}

type overrideConfig struct {
	entries []*overrideEntry
}

// Override replaces ship settings of teammates inside the field and restores
// them once they have been outside for GraceTicks, or when the field ends.
//
// It also answers setting queries through AdviseValue and keeps per-player
// override tables, so it must be registered as a world listener.
type Override struct {
	field.BaseClass

	sender OverrideSender

	mu     sync.Mutex
	active map[int32]map[string]*overrideEntry
}

// NewOverride creates the override class.
func NewOverride(sender OverrideSender) *Override {
	return &Override{
		sender: sender,
		active: make(map[int32]map[string]*overrideEntry, 32),
	}
}

// LoadTypeConfig reads "overrides", a comma separated name=value list.
func (c *Override) LoadTypeConfig(zone, section string, cfg field.ConfigSource) any {
	list, ok := cfg.GetString(section, "overrides")
	if !ok || strings.TrimSpace(list) == "" {
		list = DefaultOverrides
	}
	return overrideConfig{entries: parseOverrides(zone, section, list)}
}

func parseOverrides(zone, section, list string) []*overrideEntry {
	var out []*overrideEntry
	for _, item := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		name, raw, found := strings.Cut(item, "=")
		name = model.NormalizePropertyName(name)
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if !found || name == "" || err != nil {
			slog.Warn("bad override entry", "zone", zone, "section", section, "entry", item)
			continue
		}
		out = append(out, &overrideEntry{name: name, value: v})
	}
	return out
}

func (c *Override) OnInstanceCreated(inst *field.Instance) {
	inst.SetData(graceTable{})
}

func (c *Override) OnInstanceTick(inst *field.Instance) {
	cfg, _ := field.TypeProperties[overrideConfig](inst.Type())
	tracked, _ := field.InstanceData[graceTable](inst)

	z := inst.Zone()
	now := z.Now()
	z.ForEachPlayer(func(p *model.Player) bool {
		if p.IsFake() {
			return true
		}
		if inShip(p) && p.IsOnFreq(z.Name(), inst.Freq()) && inst.Contains(p) {
			if tracked.touch(p.ID(), now+GraceTicks) {
				c.apply(p.ID(), cfg.entries)
				c.sender.SendOverrides(p)
			}
		}
		if tracked.lapse(p.ID(), now) {
			c.remove(p.ID(), cfg.entries)
			c.sender.SendOverrides(p)
		}
		return true
	})
}

func (c *Override) OnInstanceDestroyed(inst *field.Instance) {
	cfg, _ := field.TypeProperties[overrideConfig](inst.Type())
	tracked, _ := field.InstanceData[graceTable](inst)
	if len(tracked) == 0 {
		return
	}

	inst.Zone().ForEachPlayer(func(p *model.Player) bool {
		if _, ok := tracked[p.ID()]; ok {
			c.remove(p.ID(), cfg.entries)
			c.sender.SendOverrides(p)
		}
		return true
	})
}

// Value returns the overridden value of prop for p, or init if none applies.
func (c *Override) Value(p *model.Player, prop string, init int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.active[p.ID()][model.NormalizePropertyName(prop)]; ok {
		return e.value
	}
	return init
}

// AdviseValue implements items.Adviser.
func (c *Override) AdviseValue(p *model.Player, _ model.Ship, prop string, value int) int {
	return c.Value(p, prop, value)
}

// Active returns how many settings are overridden for p.
func (c *Override) Active(p *model.Player) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active[p.ID()])
}

func (c *Override) apply(pid int32, entries []*overrideEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, ok := c.active[pid]
	if !ok {
		table = make(map[string]*overrideEntry, len(entries))
		c.active[pid] = table
	}
	for _, e := range entries {
		table[e.name] = e
	}
}

func (c *Override) remove(pid int32, entries []*overrideEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table := c.active[pid]
	for _, e := range entries {
		if table[e.name] == e {
			delete(table, e.name)
		}
	}
	if len(table) == 0 {
		delete(c.active, pid)
	}
}

// OnPlayerEnter implements world.Listener.
func (c *Override) OnPlayerEnter(*model.Player, string) {}

// OnPlayerLeave drops every override of p.
func (c *Override) OnPlayerLeave(p *model.Player, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, p.ID())
}

// OnShipFreqChange implements world.Listener.
func (c *Override) OnShipFreqChange(*model.Player, model.Ship, model.Ship, int32, int32) {}

// OnKill implements world.Listener.
func (c *Override) OnKill(string, *model.Player, *model.Player) {}
