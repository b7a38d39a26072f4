package fieldclass

import (
	"github.com/udisondev/arenafield/internal/game/field"
	"github.com/udisondev/arenafield/internal/model"
)

// DefaultPrize is the prize number handed out when a type sets none.
const DefaultPrize = 10

// propBounce marks ships that are immune to prize fields.
const propBounce = "bounce"

type prizeConfig struct {
	prize int
}

// Prize gives teammates inside the field a prize and takes it back once they
// have been outside for GraceTicks, or when the field ends.
type Prize struct {
	field.BaseClass

	prizer Prizer
}

// NewPrize creates the prize class.
func NewPrize(prizer Prizer) *Prize {
	return &Prize{prizer: prizer}
}

// LoadTypeConfig reads "prize".
func (c *Prize) LoadTypeConfig(_, section string, cfg field.ConfigSource) any {
	return prizeConfig{prize: cfg.GetInt(section, "prize", DefaultPrize)}
}

func (c *Prize) OnInstanceCreated(inst *field.Instance) {
	inst.SetData(graceTable{})
}

func (c *Prize) OnInstanceTick(inst *field.Instance) {
	cfg := c.config(inst)
	tracked, _ := field.InstanceData[graceTable](inst)

	z := inst.Zone()
	now := z.Now()
	z.ForEachPlayer(func(p *model.Player) bool {
		if p.IsFake() {
			return true
		}
		if inShip(p) && p.IsOnFreq(z.Name(), inst.Freq()) && inst.Contains(p) &&
			z.PropertySum(p, p.Ship(), propBounce) <= 0 {
			if tracked.touch(p.ID(), now+GraceTicks) {
				c.prizer.GivePrize(p, cfg.prize, 1)
			}
		}
		if tracked.lapse(p.ID(), now) {
			c.prizer.GivePrize(p, -cfg.prize, -1)
		}
		return true
	})
}

func (c *Prize) OnInstanceDestroyed(inst *field.Instance) {
	cfg := c.config(inst)
	tracked, _ := field.InstanceData[graceTable](inst)
	if len(tracked) == 0 {
		return
	}

	inst.Zone().ForEachPlayer(func(p *model.Player) bool {
		if _, ok := tracked[p.ID()]; ok {
			c.prizer.GivePrize(p, -cfg.prize, -1)
		}
		return true
	})
}

func (c *Prize) config(inst *field.Instance) prizeConfig {
	if cfg, ok := field.TypeProperties[prizeConfig](inst.Type()); ok {
		return cfg
	}
	return prizeConfig{prize: DefaultPrize}
}
