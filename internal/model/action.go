package model

// Action is a human-friendly storage operating mode for an hour.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromStorageKW maps the storage node power (discharge - charge) to an
// Action.
func ActionFromStorageKW(powerKW float64) Action {
	switch {
	case powerKW < 0:
		return ActionCharging
	case powerKW > 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
