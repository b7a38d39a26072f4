// Package objects tracks the state of addressable map objects (markers) that
// clients display, per zone or per player, and forwards changes to sinks.
package objects

import (
	"log/slog"
	"sort"
	"sync"
)

// Target addresses a marker set: a whole zone, or one player in it when
// PlayerID is non-zero.
type Target struct {
	Zone     string
	PlayerID int32
}

// ZoneTarget addresses every player in zone.
func ZoneTarget(zone string) Target {
	return Target{Zone: zone}
}

// Marker is the displayed state of one map object.
type Marker struct {
	ID int16 `json:"id"`
	On bool  `json:"on"`
	X  int32 `json:"x"`
	Y  int32 `json:"y"`
}

// Sink receives marker changes after they were applied.
// Called without the tracker lock held.
type Sink interface {
	MarkersChanged(target Target, changed []Marker)
}

// Tracker holds marker state per target.
//
// Thread-safe.
type Tracker struct {
	mu      sync.RWMutex
	targets map[Target]map[int16]*Marker
	sinks   []Sink
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		targets: make(map[Target]map[int16]*Marker, 8),
	}
}

// AddSink registers a change sink.
func (t *Tracker) AddSink(s Sink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sinks = append(t.sinks, s)
}

// Toggle turns marker id on or off for target.
func (t *Tracker) Toggle(target Target, id int16, on bool) {
	t.mu.Lock()
	m := t.markerLocked(target, id)
	m.On = on
	changed := []Marker{*m}
	sinks := t.sinksLocked()
	t.mu.Unlock()

	t.notify(sinks, target, changed)
}

// Move places marker id at (x, y) for target. Visibility is unchanged.
func (t *Tracker) Move(target Target, id int16, x, y int32) {
	t.mu.Lock()
	m := t.markerLocked(target, id)
	m.X, m.Y = x, y
	changed := []Marker{*m}
	sinks := t.sinksLocked()
	t.mu.Unlock()

	t.notify(sinks, target, changed)
}

// ToggleSet turns a batch of markers on or off. ids and ons are paired by
// index; extra entries in the longer slice are ignored.
func (t *Tracker) ToggleSet(target Target, ids []int16, ons []bool) {
	n := min(len(ids), len(ons))
	if len(ids) != len(ons) {
		slog.Warn("marker batch length mismatch", "ids", len(ids), "states", len(ons))
	}
	if n == 0 {
		return
	}

	t.mu.Lock()
	changed := make([]Marker, 0, n)
	for i := range n {
		m := t.markerLocked(target, ids[i])
		m.On = ons[i]
		changed = append(changed, *m)
	}
	sinks := t.sinksLocked()
	t.mu.Unlock()

	t.notify(sinks, target, changed)
}

// State returns the known state of marker id for target.
func (t *Tracker) State(target Target, id int16) (Marker, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m, ok := t.targets[target][id]
	if !ok {
		return Marker{}, false
	}
	return *m, true
}

// Snapshot returns every known marker of target sorted by ID.
func (t *Tracker) Snapshot(target Target) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set := t.targets[target]
	out := make([]Marker, 0, len(set))
	for _, m := range set {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveCount returns how many markers are on for target.
func (t *Tracker) ActiveCount(target Target) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, m := range t.targets[target] {
		if m.On {
			n++
		}
	}
	return n
}

// ClearZone forgets every target in zone.
func (t *Tracker) ClearZone(zone string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for target := range t.targets {
		if target.Zone == zone {
			delete(t.targets, target)
		}
	}
}

func (t *Tracker) markerLocked(target Target, id int16) *Marker {
	set, ok := t.targets[target]
	if !ok {
		set = make(map[int16]*Marker, 16)
		t.targets[target] = set
	}
	m, ok := set[id]
	if !ok {
		m = &Marker{ID: id}
		set[id] = m
	}
	return m
}

func (t *Tracker) sinksLocked() []Sink {
	if len(t.sinks) == 0 {
		return nil
	}
	out := make([]Sink, len(t.sinks))
	copy(out, t.sinks)
	return out
}

func (t *Tracker) notify(sinks []Sink, target Target, changed []Marker) {
	for _, s := range sinks {
		s.MarkersChanged(target, changed)
	}
}
