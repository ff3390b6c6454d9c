// Package roster defines the scheduling domain model: employees, stores,
// stations, shifts, demand targets and the Schedule aggregate. All types are
// plain values; the package has no behavior beyond construction, lookup and
// aggregation so the agents own every algorithmic concern.
package roster

import "time"

// EmployeeType classifies the employment contract, which determines the
// fortnightly hour bounds enforced during compliance validation.
type EmployeeType string

const (
	// FullTime employees have a guaranteed fortnightly hour band.
	FullTime EmployeeType = "full_time"
	// PartTime employees have a reduced fortnightly hour band.
	PartTime EmployeeType = "part_time"
	// Casual employees have no minimum and act as the standby pool for
	// conflict resolution.
	Casual EmployeeType = "casual"
	// Manager employees are salaried and scheduled like full-time staff.
	Manager EmployeeType = "manager"
)

// Station is a named work role within a store. Employees must be qualified
// for a station before they can be assigned to it.
type Station string

const (
	// StationGrill is the hot food preparation line.
	StationGrill Station = "grill"
	// StationCounter is front counter service.
	StationCounter Station = "counter"
	// StationDriveThru is the drive-through lane.
	StationDriveThru Station = "drive_thru"
	// StationKitchen is back-of-house food assembly.
	StationKitchen Station = "kitchen"
	// StationCafe is the barista counter.
	StationCafe Station = "cafe"
)

// StationPriority is the fixed fill order used by the matcher so that runs
// with identical inputs produce identical schedules.
var StationPriority = []Station{StationKitchen, StationGrill, StationCounter, StationDriveThru, StationCafe}

// stationRank returns the priority index of st, with unknown stations last.
func stationRank(st Station) int {
	for i, s := range StationPriority {
		if s == st {
			return i
		}
	}
	return len(StationPriority)
}

// Employee is an immutable roster entry for the duration of a run.
type Employee struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Type      EmployeeType `json:"type" yaml:"type"`
	Stations  []Station    `json:"stations" yaml:"stations"`
	Seniority int          `json:"seniority" yaml:"seniority"`
	// MinWeeklyHours / MaxWeeklyHours override the employment-type defaults
	// when non-zero.
	MinWeeklyHours float64 `json:"min_weekly_hours" yaml:"min_weekly_hours"`
	MaxWeeklyHours float64 `json:"max_weekly_hours" yaml:"max_weekly_hours"`
	// AvailableDays restricts which weekdays the employee can work.
	// Empty means available every day.
	AvailableDays []time.Weekday `json:"available_days,omitempty" yaml:"available_days,omitempty"`
}

// QualifiedFor reports whether the employee may work the given station.
func (e Employee) QualifiedFor(st Station) bool {
	for _, s := range e.Stations {
		if s == st {
			return true
		}
	}
	return false
}

// AvailableOn reports whether the employee can work on the given weekday.
func (e Employee) AvailableOn(day time.Weekday) bool {
	if len(e.AvailableDays) == 0 {
		return true
	}
	for _, d := range e.AvailableDays {
		if d == day {
			return true
		}
	}
	return false
}
