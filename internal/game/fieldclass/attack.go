package fieldclass

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/udisondev/arenafield/internal/game/field"
	"github.com/udisondev/arenafield/internal/model"
)

// rotationSlots is the number of compass headings a ship can face.
const rotationSlots = 40

type attackConfig struct {
	weapon model.Weapon
	track  bool
}

// Attack fires the type's weapon from the stand-in actor at every enemy
// inside the field on each tick.
type Attack struct {
	field.BaseClass

	shooter Shooter
	rotate  func() int32
}

// NewAttack creates the attack class.
func NewAttack(shooter Shooter) *Attack {
	return &Attack{
		shooter: shooter,
		rotate:  func() int32 { return int32(rand.IntN(rotationSlots)) },
	}
}

// LoadTypeConfig reads "weapon" and "track".
func (a *Attack) LoadTypeConfig(zone, section string, cfg field.ConfigSource) any {
	spec, ok := cfg.GetString(section, "weapon")
	if !ok {
		slog.Info("no weapon property defined for attack field", "zone", zone, "section", section)
	}
	return attackConfig{
		weapon: ParseWeapon(spec),
		track:  cfg.GetInt(section, "track", 0) != 0,
	}
}

// OnInstanceTick shoots every live enemy inside the field.
func (a *Attack) OnInstanceTick(inst *field.Instance) {
	fake := inst.Fake()
	if fake == nil {
		return
	}
	cfg, ok := field.TypeProperties[attackConfig](inst.Type())
	if !ok {
		cfg = attackConfig{weapon: ParseWeapon("")}
	}

	z := inst.Zone()
	z.ForEachPlayer(func(p *model.Player) bool {
		if !inShip(p) || p.IsOnFreq(z.Name(), inst.Freq()) {
			return true
		}
		if inst.Contains(p) {
			a.fire(inst, fake, p, cfg)
		}
		return true
	})
}

// fire sends the visible shot followed by a null weapon so the victim's
// client does not keep the stand-in at the victim's position.
func (a *Attack) fire(inst *field.Instance, fake, victim *model.Player, cfg attackConfig) {
	pos := victim.Position()

	var rot int32
	if cfg.track {
		rot = a.rotate()
	} else {
		rot = DetermineRotation(pos.XSpeed, pos.YSpeed)
	}

	now := uint16(inst.Zone().Now() & 0xFFFF)
	shot := model.Shot{
		ShooterID: fake.ID(),
		Weapon:    cfg.weapon,
		Position: model.Position{
			X:        pos.X,
			Y:        pos.Y,
			XSpeed:   pos.XSpeed,
			YSpeed:   pos.YSpeed,
			Rotation: rot,
		},
		Time: now,
	}
	fake.SetPosition(model.NewPosition(pos.X, pos.Y))
	a.shooter.FireWeapon(victim, shot)

	shot.Position = model.Position{}
	shot.Weapon.Type = model.WeaponNull
	shot.Time = now + 1
	fake.SetPosition(model.Position{})
	a.shooter.FireWeapon(victim, shot)
}

// DetermineRotation quantizes a velocity to one of 40 compass headings,
// 0 pointing up and increasing clockwise.
func DetermineRotation(xspeed, yspeed int32) int32 {
	ys := -yspeed

	switch {
	case xspeed == 0:
		if ys >= 0 {
			return 0
		}
		return 20
	case ys == 0:
		if xspeed >= 0 {
			return 10
		}
		return 30
	}

	theta := -math.Atan(float64(ys)/float64(xspeed)) + math.Pi/2
	if xspeed < 0 {
		theta += math.Pi
	}
	degrees := theta * 180 / math.Pi
	return int32(degrees / 9)
}

// ParseWeapon builds a weapon from a keyword string such as
// "level3 bomb shrap2 bounce". Unknown keywords are ignored; the default is a
// level 1 bullet.
func ParseWeapon(spec string) model.Weapon {
	s := strings.ToLower(spec)
	w := model.Weapon{Type: model.WeaponBullet}

	switch {
	case strings.Contains(s, "level2"):
		w.Level = 1
	case strings.Contains(s, "level3"):
		w.Level = 2
	case strings.Contains(s, "level4"):
		w.Level = 3
	}

	switch {
	case strings.Contains(s, "gun"):
		if strings.Contains(s, "bounce") {
			w.Type = model.WeaponBounceBullet
		}
		w.Alternate = strings.Contains(s, "multi")

	case strings.Contains(s, "bomb"):
		switch {
		case strings.Contains(s, "thor"):
			w.Type = model.WeaponThor
		case strings.Contains(s, "prox"):
			w.Type = model.WeaponProxBomb
		default:
			w.Type = model.WeaponBomb
		}

		if strings.Contains(s, "shrap") {
			w.Shrap = 31
			switch {
			case strings.Contains(s, "shrap2"):
				w.ShrapLevel = 1
			case strings.Contains(s, "shrap3"):
				w.ShrapLevel = 2
			case strings.Contains(s, "shrap4"):
				w.ShrapLevel = 3
			}
			w.ShrapBouncing = strings.Contains(s, "bounce")
		}

	case strings.Contains(s, "repel"):
		w.Type = model.WeaponRepel

	case strings.Contains(s, "burst"):
		w.Type = model.WeaponBurst
	}

	return w
}
