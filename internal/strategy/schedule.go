package strategy

import (
	"fmt"
	"strings"
)

// ScheduleParams are the daily windows of the fixed peak-valley policy:
// - charge during [ChargeStart, ChargeEnd)
// - discharge during [DischargeStart, DischargeEnd)
// - otherwise idle
type ScheduleParams struct {
	ChargeStart    string // "HH:MM"
	ChargeEnd      string
	DischargeStart string
	DischargeEnd   string
}

func DefaultSchedule() ScheduleParams {
	return ScheduleParams{
		ChargeStart:    "00:00",
		ChargeEnd:      "08:00",
		DischargeStart: "14:00",
		DischargeEnd:   "22:00",
	}
}

type window struct {
	start, end int // minutes since midnight
}

func (w window) contains(hour int) bool {
	return inWindow((hour%24)*60, w.start, w.end)
}

func (p ScheduleParams) windows() (charge, discharge window, err error) {
	if charge.start, err = parseHHMM(p.ChargeStart); err != nil {
		return
	}
	if charge.end, err = parseHHMM(p.ChargeEnd); err != nil {
		return
	}
	if discharge.start, err = parseHHMM(p.DischargeStart); err != nil {
		return
	}
	discharge.end, err = parseHHMM(p.DischargeEnd)
	return
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return 24 * 60, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// If start == end, the window is empty (always false).
// If start > end, it wraps across midnight.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}
