package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/arenafield/internal/model"
)

var (
	ErrUsage       = errors.New("bad arguments")
	ErrUnknownShip = errors.New("unknown ship")
)

// ShipChanger changes a player's ship and frequency and notifies listeners.
// Implemented by *world.World.
type ShipChanger interface {
	SetShipFreq(p *model.Player, ship model.Ship, freq int32)
}

// Ship handles ?ship <name> [freq]. Without freq the player keeps its current one.
type Ship struct {
	world ShipChanger
}

func NewShip(world ShipChanger) *Ship { return &Ship{world: world} }

func (c *Ship) Names() []string { return []string{"ship", "sc"} }

func (c *Ship) Handle(player *model.Player, params string) error {
	args := strings.Fields(params)
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: ?ship <%s|spec> [freq]", ErrUsage, strings.Join(model.ShipNames(), "|"))
	}

	ship, ok := model.ParseShip(args[0])
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownShip, args[0])
	}

	freq := player.Freq()
	if len(args) == 2 {
		f, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: freq %q", ErrUsage, args[1])
		}
		freq = int32(f)
	}

	c.world.SetShipFreq(player, ship, freq)
	return nil
}

// Move handles ?move <x> <y> [xspeed yspeed]: the position report of a
// player client, in pixels.
type Move struct{}

func NewMove() *Move { return &Move{} }

func (c *Move) Names() []string { return []string{"move"} }

func (c *Move) Handle(player *model.Player, params string) error {
	args := strings.Fields(params)
	if len(args) != 2 && len(args) != 4 {
		return fmt.Errorf("%w: ?move <x> <y> [xspeed yspeed]", ErrUsage)
	}

	vals := make([]int32, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUsage, a)
		}
		vals[i] = int32(v)
	}

	pos := player.Position().WithCoordinates(vals[0], vals[1])
	if len(vals) == 4 {
		pos = pos.WithVelocity(vals[2], vals[3])
	}
	player.SetPosition(pos)
	return nil
}
