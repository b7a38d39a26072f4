package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/udisondev/arenafield/internal/command"
	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/transport/ws"
	"github.com/udisondev/arenafield/internal/world"
)

var errNameTaken = errors.New("player name already in zone")

// playerSessions adapts the world and the command handler to ws.Sessions:
// every websocket player becomes a world player in the requested zone.
type playerSessions struct {
	world    *world.World
	commands *command.Handler

	mu sync.Mutex // serializes joins so the name check holds
}

func newPlayerSessions(w *world.World, commands *command.Handler) *playerSessions {
	return &playerSessions{world: w, commands: commands}
}

func (s *playerSessions) Join(zone, name string) (ws.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.world.HasZone(zone) {
		return nil, fmt.Errorf("join %q: %w", zone, world.ErrZoneNotFound)
	}
	if s.nameTaken(zone, name) {
		return nil, fmt.Errorf("join %q as %q: %w", zone, name, errNameTaken)
	}

	p, err := model.NewPlayer(s.world.IDs().NextPlayerID(), name)
	if err != nil {
		return nil, fmt.Errorf("join %q: %w", zone, err)
	}
	s.world.Connect(p)
	if err := s.world.EnterZone(p, zone); err != nil {
		s.world.Disconnect(p)
		return nil, fmt.Errorf("join %q: %w", zone, err)
	}

	slog.Info("player joined", "zone", zone, "player", name, "id", p.ID())
	return &playerSession{world: s.world, commands: s.commands, player: p}, nil
}

func (s *playerSessions) nameTaken(zone, name string) bool {
	taken := false
	s.world.ForEachPlayerInZone(zone, func(p *model.Player) bool {
		if !p.IsFake() && strings.EqualFold(p.Name(), name) {
			taken = true
			return false
		}
		return true
	})
	return taken
}

// playerSession is one joined player. Implements ws.Session.
type playerSession struct {
	world    *world.World
	commands *command.Handler
	player   *model.Player
	once     sync.Once
}

func (s *playerSession) Command(text string) {
	s.commands.Handle(s.player, text)
}

func (s *playerSession) Leave() {
	s.once.Do(func() {
		s.world.Disconnect(s.player)
		slog.Info("player left", "player", s.player.Name(), "id", s.player.ID())
	})
}
