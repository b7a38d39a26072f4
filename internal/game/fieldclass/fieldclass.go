// Package fieldclass provides the stock field behaviors: attack fields that
// shoot enemies, prize fields that hand out a prize to teammates and
// override fields that temporarily replace ship settings of teammates.
package fieldclass

import (
	"github.com/udisondev/arenafield/internal/game/field"
	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/model"
)

// Class names as referenced by field type configs.
const (
	ClassAttack   = "attack"
	ClassOverride = "override"
	ClassPrize    = "prize"
)

// GraceTicks is how long a player keeps a prize or override after leaving the field.
const GraceTicks mainloop.Ticks = 100

// Shooter delivers a weapon packet from a stand-in actor to one player.
type Shooter interface {
	FireWeapon(victim *model.Player, shot model.Shot)
}

// Prizer grants (positive prize) or revokes (negative prize) a ship prize.
type Prizer interface {
	GivePrize(p *model.Player, prize, count int)
}

// OverrideSender pushes a player's current ship settings to its client.
type OverrideSender interface {
	SendOverrides(p *model.Player)
}

// Register registers every non-nil class with e under its stock name.
func Register(e *field.Engine, attack *Attack, override *Override, prize *Prize) error {
	classes := []struct {
		name  string
		class field.Class
		skip  bool
	}{
		{ClassAttack, attack, attack == nil},
		{ClassOverride, override, override == nil},
		{ClassPrize, prize, prize == nil},
	}

	for _, c := range classes {
		if c.skip {
			continue
		}
		if err := e.RegisterClass(c.name, c.class); err != nil {
			return err
		}
	}
	return nil
}

// inShip reports whether p is a live player flying a ship.
func inShip(p *model.Player) bool {
	return !p.IsFake() && !p.IsSpectator() && !p.IsDead()
}

// graceTable maps player IDs to the tick their effect lapses.
type graceTable map[int32]mainloop.Ticks

// touch extends pid's effect until end. Returns true if pid was not tracked.
func (g graceTable) touch(pid int32, end mainloop.Ticks) bool {
	_, tracked := g[pid]
	g[pid] = end
	return !tracked
}

// lapse forgets pid if its effect has lapsed at now.
func (g graceTable) lapse(pid int32, now mainloop.Ticks) bool {
	end, ok := g[pid]
	if !ok || now < end {
		return false
	}
	delete(g, pid)
	return true
}
