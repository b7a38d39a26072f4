package field

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/udisondev/arenafield/internal/model"
)

// ChatSender delivers a one-line message to a player.
type ChatSender interface {
	SendMessage(p *model.Player, text string)
}

// CastRecorder counts successful casts. Optional.
type CastRecorder interface {
	RecordCast(ctx context.Context, playerName, zone, fieldType string) error
}

const castRecordTimeout = 2 * time.Second

// Command handles ?field [type].
type Command struct {
	engine *Engine
	chat   ChatSender
	casts  CastRecorder
}

// NewCommand creates the ?field command. casts may be nil.
func NewCommand(engine *Engine, chat ChatSender, casts CastRecorder) *Command {
	return &Command{engine: engine, chat: chat, casts: casts}
}

// Names returns the command names.
func (c *Command) Names() []string { return []string{"field"} }

// Handle casts the field named by params (or auto-picks one) and replies
// with the outcome. Spectators get no reply.
func (c *Command) Handle(player *model.Player, params string) error {
	if player.IsSpectator() {
		return nil
	}

	zone := player.Zone()
	name, err := c.engine.CastRequest(player, strings.TrimSpace(params))
	if err != nil {
		c.chat.SendMessage(player, Reason(err))
		return nil
	}

	c.chat.SendMessage(player, name+" field created.")

	if c.casts != nil {
		ctx, cancel := context.WithTimeout(context.Background(), castRecordTimeout)
		defer cancel()
		if err := c.casts.RecordCast(ctx, player.Name(), zone, name); err != nil {
			slog.Warn("record field cast", "player", player.Name(), "zone", zone, "type", name, "err", err)
		}
	}
	return nil
}
