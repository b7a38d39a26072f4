package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	calls [][]Marker
}

func (c *captureSink) MarkersChanged(_ Target, changed []Marker) {
	c.calls = append(c.calls, changed)
}

func TestTracker_ToggleAndMove(t *testing.T) {
	tr := NewTracker()
	sink := &captureSink{}
	tr.AddSink(sink)
	target := ZoneTarget("pub")

	tr.Move(target, 7, 100, 200)
	tr.Toggle(target, 7, true)

	m, ok := tr.State(target, 7)
	require.True(t, ok)
	assert.Equal(t, Marker{ID: 7, On: true, X: 100, Y: 200}, m)
	assert.Equal(t, 1, tr.ActiveCount(target))
	require.Len(t, sink.calls, 2)
	assert.False(t, sink.calls[0][0].On, "move does not change visibility")

	_, ok = tr.State(Target{Zone: "pub", PlayerID: 3}, 7)
	assert.False(t, ok, "player targets are separate from the zone target")
}

func TestTracker_ToggleSet(t *testing.T) {
	tr := NewTracker()
	sink := &captureSink{}
	tr.AddSink(sink)
	target := ZoneTarget("pub")

	tr.ToggleSet(target, []int16{1, 2, 3, 4}, []bool{true, true, true, true})
	assert.Equal(t, 4, tr.ActiveCount(target))

	tr.ToggleSet(target, []int16{1, 2}, []bool{false, false, true})
	assert.Equal(t, 2, tr.ActiveCount(target))

	tr.ToggleSet(target, nil, nil)
	require.Len(t, sink.calls, 2, "empty batch is not forwarded")
	assert.Len(t, sink.calls[1], 2)

	snap := tr.Snapshot(target)
	require.Len(t, snap, 4)
	assert.Equal(t, int16(1), snap[0].ID)
	assert.Equal(t, int16(4), snap[3].ID)
}

func TestTracker_ClearZone(t *testing.T) {
	tr := NewTracker()
	tr.Toggle(ZoneTarget("a"), 1, true)
	tr.Toggle(Target{Zone: "a", PlayerID: 9}, 1, true)
	tr.Toggle(ZoneTarget("b"), 1, true)

	tr.ClearZone("a")

	assert.Equal(t, 0, tr.ActiveCount(ZoneTarget("a")))
	assert.Equal(t, 0, tr.ActiveCount(Target{Zone: "a", PlayerID: 9}))
	assert.Equal(t, 1, tr.ActiveCount(ZoneTarget("b")))
}
