package roster

import (
	"fmt"
	"sort"
	"time"
)

// Assignment is the atomic roster unit: one employee working one shift at one
// station on one date. IDs are sequential per schedule so repeated runs over
// identical inputs produce byte-identical rosters.
type Assignment struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`
	Shift      Shift     `json:"shift"`
	Station    Station   `json:"station"`
}

// Hours returns the assignment's duration in hours.
func (a Assignment) Hours() float64 { return a.Shift.Duration() }

// Start returns the absolute start time of the assignment.
func (a Assignment) Start() time.Time { return a.Shift.StartTime(a.Date) }

// End returns the absolute end time of the assignment.
func (a Assignment) End() time.Time { return a.Shift.EndTime(a.Date) }

// Schedule is the ordered, queryable collection of assignments over a date
// range. It is created once by the matcher and mutated in place by the
// resolver; it is not safe for concurrent mutation.
type Schedule struct {
	StartDate   time.Time
	EndDate     time.Time
	assignments []Assignment
	nextID      int
}

// NewSchedule creates an empty schedule spanning the given date range.
func NewSchedule(start, end time.Time) *Schedule {
	return &Schedule{StartDate: Day(start), EndDate: Day(end)}
}

// Add appends an assignment, minting its ID, and keeps the collection in the
// canonical order (date, shift start, station priority, employee ID).
func (s *Schedule) Add(employeeID string, date time.Time, shift Shift, station Station) Assignment {
	s.nextID++
	a := Assignment{
		ID:         fmt.Sprintf("A-%04d", s.nextID),
		EmployeeID: employeeID,
		Date:       Day(date),
		Shift:      shift,
		Station:    station,
	}
	s.assignments = append(s.assignments, a)
	s.sort()
	return a
}

// Remove deletes the assignment with the given ID, reporting whether it existed.
func (s *Schedule) Remove(id string) bool {
	for i, a := range s.assignments {
		if a.ID == id {
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			return true
		}
	}
	return false
}

// Reassign changes the employee on an existing assignment.
func (s *Schedule) Reassign(id, employeeID string) bool {
	for i := range s.assignments {
		if s.assignments[i].ID == id {
			s.assignments[i].EmployeeID = employeeID
			s.sort()
			return true
		}
	}
	return false
}

// Get returns the assignment with the given ID.
func (s *Schedule) Get(id string) (Assignment, bool) {
	for _, a := range s.assignments {
		if a.ID == id {
			return a, true
		}
	}
	return Assignment{}, false
}

func (s *Schedule) sort() {
	sort.SliceStable(s.assignments, func(i, j int) bool {
		ai, aj := s.assignments[i], s.assignments[j]
		if !ai.Date.Equal(aj.Date) {
			return ai.Date.Before(aj.Date)
		}
		if ai.Shift.StartHour != aj.Shift.StartHour {
			return ai.Shift.StartHour < aj.Shift.StartHour
		}
		if r1, r2 := stationRank(ai.Station), stationRank(aj.Station); r1 != r2 {
			return r1 < r2
		}
		return ai.EmployeeID < aj.EmployeeID
	})
}

// Assignments returns a copy of all assignments in canonical order.
func (s *Schedule) Assignments() []Assignment {
	out := make([]Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// ByDate returns the assignments on the given date.
func (s *Schedule) ByDate(date time.Time) []Assignment {
	day := Day(date)
	var out []Assignment
	for _, a := range s.assignments {
		if a.Date.Equal(day) {
			out = append(out, a)
		}
	}
	return out
}

// ByEmployee returns the employee's assignments in chronological order.
func (s *Schedule) ByEmployee(employeeID string) []Assignment {
	var out []Assignment
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out
}

// ByStation returns all assignments at the given station.
func (s *Schedule) ByStation(st Station) []Assignment {
	var out []Assignment
	for _, a := range s.assignments {
		if a.Station == st {
			out = append(out, a)
		}
	}
	return out
}

// EmployeeHours returns the employee's total scheduled hours.
func (s *Schedule) EmployeeHours(employeeID string) float64 {
	var total float64
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID {
			total += a.Hours()
		}
	}
	return total
}

// HoursByEmployee returns total scheduled hours keyed by employee ID,
// covering only employees that appear in the schedule.
func (s *Schedule) HoursByEmployee() map[string]float64 {
	hours := map[string]float64{}
	for _, a := range s.assignments {
		hours[a.EmployeeID] += a.Hours()
	}
	return hours
}

// Coverage counts distinct employees whose shift on the target's date covers
// the target's block at the target's station.
func (s *Schedule) Coverage(target DemandTarget) int {
	day := Day(target.Date)
	seen := map[string]bool{}
	for _, a := range s.assignments {
		if !a.Date.Equal(day) || a.Station != target.Station {
			continue
		}
		if a.Shift.Covers(target.Block) {
			seen[a.EmployeeID] = true
		}
	}
	return len(seen)
}

// Clone deep-copies the schedule, including the ID counter, so the resolver
// can roll back rejected mutations.
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{StartDate: s.StartDate, EndDate: s.EndDate, nextID: s.nextID}
	c.assignments = make([]Assignment, len(s.assignments))
	copy(c.assignments, s.assignments)
	return c
}

// Restore overwrites the schedule contents from a previously taken clone.
func (s *Schedule) Restore(from *Schedule) {
	s.StartDate = from.StartDate
	s.EndDate = from.EndDate
	s.nextID = from.nextID
	s.assignments = make([]Assignment, len(from.assignments))
	copy(s.assignments, from.assignments)
}

// Summary aggregates the schedule into the primitive shape exposed at the
// result boundary.
type Summary struct {
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Days             int     `json:"days"`
	TotalAssignments int     `json:"total_assignments"`
	UniqueEmployees  int     `json:"unique_employees"`
	TotalHours       float64 `json:"total_hours"`
}

// Summarize computes the schedule summary.
func (s *Schedule) Summarize() Summary {
	employees := map[string]bool{}
	var hours float64
	for _, a := range s.assignments {
		employees[a.EmployeeID] = true
		hours += a.Hours()
	}
	return Summary{
		StartDate:        DateKey(s.StartDate),
		EndDate:          DateKey(s.EndDate),
		Days:             len(DateRange(s.StartDate, s.EndDate)),
		TotalAssignments: len(s.assignments),
		UniqueEmployees:  len(employees),
		TotalHours:       hours,
	}
}
