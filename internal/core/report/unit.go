package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DateUnit is a calendar granularity for grouping and for relative/rolling filters.
type DateUnit string

const (
	UnitMinute    DateUnit = "minute"
	UnitHour      DateUnit = "hour"
	UnitDay       DateUnit = "day"
	UnitWeek      DateUnit = "week"
	UnitMonth     DateUnit = "month"
	UnitQuarter   DateUnit = "quarter"
	UnitYear      DateUnit = "year"
	UnitAutomatic DateUnit = "automatic"
)

// Valid reports whether u is a known unit.
func (u DateUnit) Valid() bool {
	switch u {
	case UnitMinute, UnitHour, UnitDay, UnitWeek, UnitMonth, UnitQuarter, UnitYear, UnitAutomatic:
		return true
	}
	return false
}

// ParseDateUnit accepts singular or plural unit names in any case ("YEARS", "day").
func ParseDateUnit(s string) (DateUnit, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm != string(UnitAutomatic) {
		norm = strings.TrimSuffix(norm, "s")
	}
	u := DateUnit(norm)
	if !u.Valid() {
		return "", fmt.Errorf("unknown date unit %q", s)
	}
	return u, nil
}

func (u *DateUnit) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*u = ""
		return nil
	}
	parsed, err := ParseDateUnit(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
