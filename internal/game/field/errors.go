package field

import "errors"

// Cast rejections, in the order the gate checks them.
var (
	ErrSpectator    = errors.New("caster is not in a ship")
	ErrNoLauncher   = errors.New("caster has no field launcher")
	ErrDead         = errors.New("caster is dead")
	ErrRecharging   = errors.New("field launcher is recharging")
	ErrOneAtATime   = errors.New("caster already owns a field")
	ErrUnknownType  = errors.New("field type does not exist")
	ErrNoFields     = errors.New("caster has no fields")
	ErrNotAvailable = errors.New("field type not available to caster")
	ErrInternal     = errors.New("internal field error")
)

// Registry and zone errors.
var (
	ErrClassExists     = errors.New("field class already registered")
	ErrClassNotFound   = errors.New("field class not registered")
	ErrInvalidClass    = errors.New("invalid field class")
	ErrZoneAttached    = errors.New("zone already attached")
	ErrZoneNotAttached = errors.New("zone not attached")
	ErrCasterNotInZone = errors.New("caster is not in an attached zone")
	ErrMissingServices = errors.New("missing engine service")
)

var reasons = map[error]string{
	ErrSpectator:       "You must be in a ship to launch a field.",
	ErrNoLauncher:      "You need a Field Launcher to use fields!",
	ErrDead:            "You cannot launch a field while you're dead!",
	ErrRecharging:      "Your Field Launcher is currently recharging!",
	ErrOneAtATime:      "You may only launch one field at a time!",
	ErrUnknownType:     "That type of field doesn't exist.",
	ErrNoFields:        "You don't have any fields!",
	ErrNotAvailable:    "You do not have that type of field available.",
	ErrCasterNotInZone: "Fields are not available here.",
}

// Reason returns the one-line user-facing text for a cast rejection.
// Unknown errors map to a generic message.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for sentinel, text := range reasons {
		if errors.Is(err, sentinel) {
			return text
		}
	}
	return "Unable to launch a field right now."
}
