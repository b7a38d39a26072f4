package field

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/testutil"
)

type chatLog struct {
	lines map[string][]string
}

func (c *chatLog) SendMessage(p *model.Player, text string) {
	if c.lines == nil {
		c.lines = make(map[string][]string)
	}
	c.lines[p.Name()] = append(c.lines[p.Name()], text)
}

type castLog struct {
	casts []string
	err   error
}

func (c *castLog) RecordCast(_ context.Context, playerName, zone, fieldType string) error {
	c.casts = append(c.casts, playerName+"@"+zone+":"+fieldType)
	return c.err
}

func TestCommand_Handle(t *testing.T) {
	h := newHarness(t, testutil.Fixtures.SingleFieldZone)
	chat := &chatLog{}
	casts := &castLog{}
	cmd := NewCommand(h.engine, chat, casts)
	assert.Equal(t, []string{"field"}, cmd.Names())

	alpha := h.player("alpha", 0, caster())
	require.NoError(t, cmd.Handle(alpha, "  basic "))
	require.NoError(t, cmd.Handle(alpha, ""))

	assert.Equal(t, []string{
		"Basic field created.",
		"You may only launch one field at a time!",
	}, chat.lines["alpha"])
	assert.Equal(t, []string{"alpha@pub:Basic"}, casts.casts)
}

func TestCommand_SpectatorIsSilent(t *testing.T) {
	h := newHarness(t, testutil.Fixtures.SingleFieldZone)
	chat := &chatLog{}
	cmd := NewCommand(h.engine, chat, nil)

	watcher := testutil.EnterPlayer(t, h.world, "watcher", testZone, model.ShipSpectator, 0)
	require.NoError(t, cmd.Handle(watcher, ""))
	assert.Empty(t, chat.lines)
}

func TestCommand_RecorderErrorDoesNotFailCast(t *testing.T) {
	h := newHarness(t, testutil.Fixtures.SingleFieldZone)
	chat := &chatLog{}
	cmd := NewCommand(h.engine, chat, &castLog{err: testutil.ErrSimulated})

	p := h.player("alpha", 0, caster())
	require.NoError(t, cmd.Handle(p, ""))
	assert.Equal(t, []string{"Basic field created."}, chat.lines["alpha"])
	assert.Equal(t, 1, h.engine.InstanceCount(testZone))
}

func TestCommand_CountsCastsInRepository(t *testing.T) {
	h := newHarness(t, testutil.Fixtures.SingleFieldZone)
	repo := testutil.NewMockPropertyRepository()
	cmd := NewCommand(h.engine, &chatLog{}, repo)

	p := h.player("alpha", 0, caster())
	require.NoError(t, cmd.Handle(p, ""))
	require.NoError(t, cmd.Handle(p, ""), "rejected cast is not counted")

	n, err := repo.CastCount(testutil.ContextWithTimeout(t, time.Second), "alpha", testZone, "basic")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
