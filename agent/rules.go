package agent

import (
	"sort"
	"time"

	"github.com/hupe1980/shiftmesh/roster"
)

// restSatisfied reports whether adding cand to the employee's existing
// assignments keeps at least minRest hours between any two of their shifts.
// Overlapping shifts always fail.
func restSatisfied(existing []roster.Assignment, cand roster.Assignment, minRest float64) bool {
	for _, a := range existing {
		switch {
		case cand.Start().Compare(a.End()) >= 0:
			if cand.Start().Sub(a.End()).Hours() < minRest {
				return false
			}
		case a.Start().Compare(cand.End()) >= 0:
			if a.Start().Sub(cand.End()).Hours() < minRest {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// longestRun returns the length of the longest run of consecutive calendar
// days in the given set of (normalized) dates.
func longestRun(dates map[time.Time]bool) int {
	if len(dates) == 0 {
		return 0
	}
	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// workedDates collects the distinct normalized dates of the assignments.
func workedDates(assignments []roster.Assignment) map[time.Time]bool {
	dates := map[time.Time]bool{}
	for _, a := range assignments {
		dates[roster.Day(a.Date)] = true
	}
	return dates
}

// consecutiveSatisfied reports whether adding an assignment on date keeps the
// employee's longest consecutive-day run within maxDays.
func consecutiveSatisfied(existing []roster.Assignment, date time.Time, maxDays int) bool {
	dates := workedDates(existing)
	dates[roster.Day(date)] = true
	return longestRun(dates) <= maxDays
}
