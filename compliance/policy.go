// Package compliance defines the labor-rule vocabulary of the scheduler:
// violations, warnings, approval requests, the scored ComplianceResult and
// the Policy constants the rules are evaluated against. Rule evaluation
// itself lives in the validator agent; this package only carries shapes and
// scoring arithmetic so results stay serializable and policy stays tunable.
package compliance

import "github.com/hupe1980/shiftmesh/roster"

// HourBounds is an inclusive fortnightly hour band.
type HourBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Policy carries every tunable compliance constant. The exact scoring
// weights and hour bands are operational policy, not law, so they are
// configuration rather than hard-coded values.
type Policy struct {
	// MinRestHours is the minimum gap between two consecutive shifts of one
	// employee.
	MinRestHours float64
	// MaxConsecutiveDays is the longest allowed run of scheduled days.
	MaxConsecutiveDays int
	// FortnightBounds maps employment type to its fortnightly hour band.
	FortnightBounds map[roster.EmployeeType]HourBounds
	// ViolationWeight is the score penalty per severity point of a violation.
	ViolationWeight float64
	// WarningWeight is the score penalty per severity point of a warning.
	WarningWeight float64
}

// DefaultPolicy returns the baseline Fair Work style policy: 10 hour rest
// minimum, at most 6 consecutive days, 76 hour fortnight cap for full-time
// staff.
func DefaultPolicy() Policy {
	return Policy{
		MinRestHours:       10,
		MaxConsecutiveDays: 6,
		FortnightBounds: map[roster.EmployeeType]HourBounds{
			roster.FullTime: {Min: 60, Max: 76},
			roster.PartTime: {Min: 16, Max: 60},
			roster.Casual:   {Min: 0, Max: 76},
			roster.Manager:  {Min: 60, Max: 80},
		},
		ViolationWeight: 4,
		WarningWeight:   1,
	}
}

// BoundsFor resolves the fortnightly band for an employee, preferring the
// employee's own weekly overrides (doubled) over the employment-type band.
func (p Policy) BoundsFor(e roster.Employee) HourBounds {
	b, ok := p.FortnightBounds[e.Type]
	if !ok {
		b = HourBounds{Min: 0, Max: 76}
	}
	if e.MinWeeklyHours > 0 {
		b.Min = e.MinWeeklyHours * 2
	}
	if e.MaxWeeklyHours > 0 {
		b.Max = e.MaxWeeklyHours * 2
	}
	return b
}
