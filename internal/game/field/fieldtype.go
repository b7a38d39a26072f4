package field

import (
	"log/slog"
	"math"
	"strings"

	"github.com/udisondev/arenafield/internal/mainloop"
)

// Type defaults.
const (
	DefaultClass      = "attack"
	DefaultDelay      = 50
	DefaultDuration   = 1000
	DefaultProperty   = 1
	DefaultRadius     = 64
	DefaultMarkerSize = 32
	DefaultMaxMarkers = 20
)

// maxMarkerIDs is the number of non-negative marker IDs.
const maxMarkerIDs = math.MaxInt16 + 1

// Type is a configured field template of one zone.
//
// Mutable state (class binding, properties, marker cursors) is guarded by the
// owning zone's lock.
type Type struct {
	id        string
	name      string
	className string
	event     string

	delay    mainloop.Ticks
	duration mainloop.Ticks
	property int
	radius   int32

	markerSize int32
	markerBase [CornerCount]int16
	maxMarkers int

	class       Class
	props       any
	propsLoaded bool
	nextMarker  [CornerCount]int16
}

// ID returns the config identifier of the type.
func (t *Type) ID() string { return t.id }

// Name returns the display name.
func (t *Type) Name() string { return t.name }

// ClassName returns the configured behavior class name.
func (t *Type) ClassName() string { return t.className }

// Event returns the item trigger event fired on the caster.
func (t *Type) Event() string { return t.event }

// Delay returns the tick interval.
func (t *Type) Delay() mainloop.Ticks { return t.delay }

// Duration returns the instance lifetime.
func (t *Type) Duration() mainloop.Ticks { return t.duration }

// Property returns the required caster property bitmask.
func (t *Type) Property() int { return t.property }

// Radius returns the square half-extent.
func (t *Type) Radius() int32 { return t.radius }

// MarkerSize returns the marker graphic size in pixels.
func (t *Type) MarkerSize() int32 { return t.markerSize }

// MarkerBase returns the first marker ID of every corner.
func (t *Type) MarkerBase() [CornerCount]int16 { return t.markerBase }

// MaxMarkers returns how many marker IDs each corner cycles through.
func (t *Type) MaxMarkers() int { return t.maxMarkers }

func (t *Type) bound() bool { return t.class != nil }

// TypeInfo is a snapshot of a Type for inspection.
type TypeInfo struct {
	ID        string
	Name      string
	ClassName string
	Bound     bool
	Property  int
	Radius    int32
	Delay     mainloop.Ticks
	Duration  mainloop.Ticks
}

func (t *Type) info() TypeInfo {
	return TypeInfo{
		ID:        t.id,
		Name:      t.name,
		ClassName: t.className,
		Bound:     t.bound(),
		Property:  t.property,
		Radius:    t.radius,
		Delay:     t.delay,
		Duration:  t.duration,
	}
}

// typeSection returns the config section of a type identifier.
func typeSection(id string) string {
	return "field-" + id
}

// splitTypeList splits a type list on spaces, commas, tabs and newlines.
func splitTypeList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
}

// loadTypes builds the type catalog of zone from cfg. lookup resolves a class
// name; unresolved classes leave the type configured but uncastable.
func loadTypes(zone string, cfg ConfigSource, lookup func(name string) (Class, bool)) []*Type {
	list, _ := cfg.GetString("fields", "types")
	ids := splitTypeList(list)

	types := make([]*Type, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		key := strings.ToLower(id)
		if _, dup := seen[key]; dup {
			slog.Warn("duplicate field type", "zone", zone, "type", id)
			continue
		}
		seen[key] = struct{}{}

		t := loadType(zone, id, cfg)
		if c, ok := lookup(t.className); ok {
			t.class = c
			t.props = safeLoadTypeConfig(zone, typeSection(id), cfg, c)
			t.propsLoaded = true
		} else {
			slog.Warn("field class not loaded", "zone", zone, "type", id, "class", t.className)
		}
		types = append(types, t)

		slog.Info("added field type", "zone", zone, "type", t.name, "class", t.className, "bound", t.bound())
	}
	return types
}

func loadType(zone, id string, cfg ConfigSource) *Type {
	sec := typeSection(id)
	t := &Type{
		id:         id,
		delay:      mainloop.Ticks(cfg.GetInt(sec, "firedelay", DefaultDelay)),
		duration:   mainloop.Ticks(cfg.GetInt(sec, "duration", DefaultDuration)),
		property:   cfg.GetInt(sec, "property", DefaultProperty),
		radius:     int32(cfg.GetInt(sec, "radius", DefaultRadius)),
		markerSize: int32(cfg.GetInt(sec, "markersize", DefaultMarkerSize)),
		maxMarkers: cfg.GetInt(sec, "maxmarkers", DefaultMaxMarkers),
	}

	if t.delay < 1 {
		slog.Warn("field fire delay must be positive", "zone", zone, "type", id, "delay", t.delay)
		t.delay = 1
	}
	if t.duration < 0 {
		t.duration = 0
	}
	if t.maxMarkers < 1 {
		slog.Warn("field max markers must be positive", "zone", zone, "type", id, "maxmarkers", t.maxMarkers)
		t.maxMarkers = 1
	}
	if t.maxMarkers > maxMarkerIDs {
		slog.Warn("field max markers out of range", "zone", zone, "type", id, "maxmarkers", t.maxMarkers)
		t.maxMarkers = maxMarkerIDs
	}

	// Весь диапазон base..base+maxmarkers-1 должен помещаться в int16.
	for c := range CornerCount {
		v := cfg.GetInt(sec, "markerbase-"+c.key(), 0)
		if v < 0 || v > math.MaxInt16-(t.maxMarkers-1) {
			slog.Warn("field marker base out of range", "zone", zone, "type", id,
				"corner", c.key(), "base", v, "maxmarkers", t.maxMarkers)
			v = 0
		}
		t.markerBase[c] = int16(v)
	}
	t.nextMarker = t.markerBase

	if v, ok := cfg.GetString(sec, "event"); ok && v != "" {
		t.event = v
	} else {
		slog.Warn("field type without event", "zone", zone, "type", id)
		t.event = id
	}
	if v, ok := cfg.GetString(sec, "name"); ok && v != "" {
		t.name = v
	} else {
		slog.Warn("field type without name", "zone", zone, "type", id)
		t.name = id
	}
	if v, ok := cfg.GetString(sec, "class"); ok && v != "" {
		t.className = v
	} else {
		t.className = DefaultClass
	}

	return t
}

// findTypeByName returns the type whose display name or identifier equals
// name, case-insensitively. Display names take precedence.
func findTypeByName(types []*Type, name string) *Type {
	for _, t := range types {
		if strings.EqualFold(t.name, name) {
			return t
		}
	}
	for _, t := range types {
		if strings.EqualFold(t.id, name) {
			return t
		}
	}
	return nil
}

// findTypeByProperty returns the first type, in catalog order, whose
// required property equals value.
func findTypeByProperty(types []*Type, value int) *Type {
	for _, t := range types {
		if t.property == value {
			return t
		}
	}
	return nil
}

// autoPick scans mask from the lowest set bit upward and returns the first
// type whose property equals that bit.
func autoPick(types []*Type, mask int) *Type {
	for bit := 1; bit > 0 && bit <= mask; bit <<= 1 {
		if mask&bit == 0 {
			continue
		}
		if t := findTypeByProperty(types, bit); t != nil {
			return t
		}
	}
	return nil
}
