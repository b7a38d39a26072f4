package field

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/model"
)

// Caster properties read from the item system.
const (
	PropLauncher = "fieldlauncher"
	PropDelay    = "fielddelay"
	PropField    = "field"
)

// CastRequest validates a cast by p in its current zone and, on success,
// spawns the field. typeName selects a type by display name or identifier;
// empty picks the first type matching p's "field" bitmask.
// Returns the display name of the created type.
func (e *Engine) CastRequest(p *model.Player, typeName string) (string, error) {
	zone := p.Zone()
	if zone == "" {
		return "", fmt.Errorf("cast field: %w", ErrCasterNotInZone)
	}

	var created string
	err := e.withZone(zone, func(z *Zone) error {
		inst, err := z.castLocked(p, typeName)
		if err != nil {
			return err
		}
		created = inst.typ.name
		return nil
	})
	if errors.Is(err, ErrZoneNotAttached) {
		err = ErrCasterNotInZone
	}
	if err != nil {
		slog.Debug("field cast rejected", "zone", zone, "player", p.Name(), "type", typeName, "err", err)
		return "", fmt.Errorf("cast field: %w", err)
	}
	return created, nil
}

// castLocked runs the cast checks in order; the first failing one wins.
func (z *Zone) castLocked(p *model.Player, typeName string) (*Instance, error) {
	// world.LeaveZone сбрасывает зону до вызова OnPlayerLeave, а тот ждёт z.mu.
	if p.Zone() != z.name {
		return nil, ErrCasterNotInZone
	}
	if p.IsSpectator() {
		return nil, ErrSpectator
	}

	ship := p.Ship()
	if z.PropertySum(p, ship, PropLauncher) == 0 {
		return nil, ErrNoLauncher
	}

	st := z.playerLocked(p.ID())
	if st.dead {
		return nil, ErrDead
	}

	now := z.Now()
	delay := mainloop.Ticks(z.PropertySum(p, ship, PropDelay))
	if st.hasCast && now-st.lastCast < delay {
		return nil, ErrRecharging
	}

	if z.instanceOfLocked(p.ID()) != nil {
		return nil, ErrOneAtATime
	}

	mask := z.PropertySum(p, ship, PropField)
	var t *Type
	if typeName != "" {
		if t = findTypeByName(z.types, typeName); t == nil {
			return nil, ErrUnknownType
		}
	} else {
		if mask == 0 {
			return nil, ErrNoFields
		}
		if t = autoPick(z.types, mask); t == nil {
			slog.Error("no field type matches caster mask", "zone", z.name, "player", p.Name(), "mask", mask)
			return nil, ErrInternal
		}
	}

	if !t.bound() || mask&t.property == 0 {
		return nil, ErrNotAvailable
	}

	st.lastCast = now
	st.hasCast = true
	return z.spawnLocked(p, t)
}
