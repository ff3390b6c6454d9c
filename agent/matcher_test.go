package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/roster"
)

func TestMatcherFillsOneSlotPerDay(t *testing.T) {
	m := NewMatcher(bus.New(), testLogger, testPolicy())

	store := counterStore()
	day2 := monday.AddDate(0, 0, 1)
	targets := []roster.DemandTarget{
		lunchTarget(monday, 1),
		lunchTarget(day2, 1),
	}

	schedule, err := m.Execute(context.Background(), targets, casuals(3), store, monday, day2)
	require.NoError(t, err)

	got := schedule.Assignments()
	require.Len(t, got, 2)

	// Day one goes to the first employee; day two to the next one, because
	// the hours gap tie-break prefers whoever has worked least so far.
	assert.Equal(t, "E-01", got[0].EmployeeID)
	assert.Equal(t, "E-02", got[1].EmployeeID)
	for _, a := range got {
		assert.Equal(t, roster.ShiftOpen, a.Shift.Code)
		assert.Equal(t, roster.StationCounter, a.Station)
	}

	b := bus.New()
	res := NewValidator(b, testLogger, testPolicy()).Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: casuals(3),
		Store:     store,
		Targets:   targets,
	})
	assert.True(t, res.IsCompliant)
	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, 0.0, res.Fairness.GiniCoefficient, "the two scheduled employees worked the same hours")
}

func TestMatcherStopsAtRequiredCoverage(t *testing.T) {
	m := NewMatcher(bus.New(), testLogger, testPolicy())

	targets := []roster.DemandTarget{lunchTarget(monday, 2)}
	schedule, err := m.Execute(context.Background(), targets, casuals(5), counterStore(), monday, monday)
	require.NoError(t, err)

	assert.Equal(t, 2, schedule.Coverage(targets[0]))
	assert.Len(t, schedule.Assignments(), 2)
}

func TestMatcherSkipsUnqualified(t *testing.T) {
	m := NewMatcher(bus.New(), testLogger, testPolicy())

	store := counterStore()
	store.Stations = []roster.Station{roster.StationGrill}
	target := roster.DemandTarget{
		Date:     monday,
		Block:    roster.TimeBlock{Daypart: roster.DaypartLunch, StartHour: 11, EndHour: 14},
		Station:  roster.StationGrill,
		Required: 1,
	}

	// Counter-only staff cannot fill a grill slot; it stays understaffed.
	schedule, err := m.Execute(context.Background(), []roster.DemandTarget{target}, casuals(3), store, monday, monday)
	require.NoError(t, err)
	assert.Empty(t, schedule.Assignments())
}

func TestMatcherRespectsAvailability(t *testing.T) {
	m := NewMatcher(bus.New(), testLogger, testPolicy())

	weekendOnly := casual("E-01")
	weekendOnly.AvailableDays = []time.Weekday{time.Saturday, time.Sunday}
	anytime := casual("E-02")

	targets := []roster.DemandTarget{lunchTarget(monday, 1)}
	schedule, err := m.Execute(context.Background(), targets, []roster.Employee{weekendOnly, anytime}, counterStore(), monday, monday)
	require.NoError(t, err)

	got := schedule.Assignments()
	require.Len(t, got, 1)
	assert.Equal(t, "E-02", got[0].EmployeeID)
}

func TestMatcherRespectsHourCap(t *testing.T) {
	m := NewMatcher(bus.New(), testLogger, testPolicy())

	// A 2h weekly cap doubles to 4h per fortnight: one opening shift fits
	// exactly, a second would exceed it.
	capped := casual("E-01")
	capped.MaxWeeklyHours = 2

	day2 := monday.AddDate(0, 0, 1)
	targets := []roster.DemandTarget{lunchTarget(monday, 1), lunchTarget(day2, 1)}

	schedule, err := m.Execute(context.Background(), targets, []roster.Employee{capped}, counterStore(), monday, day2)
	require.NoError(t, err)
	require.Len(t, schedule.Assignments(), 1)
	assert.True(t, schedule.Assignments()[0].Date.Equal(monday))
}

func TestMatcherDeterministic(t *testing.T) {
	store := counterStore()
	day2 := monday.AddDate(0, 0, 1)
	targets := []roster.DemandTarget{lunchTarget(monday, 2), lunchTarget(day2, 2)}
	employees := casuals(4)

	run := func() []roster.Assignment {
		m := NewMatcher(bus.New(), testLogger, testPolicy())
		schedule, err := m.Execute(context.Background(), targets, employees, store, monday, day2)
		require.NoError(t, err)
		return schedule.Assignments()
	}

	assert.Equal(t, run(), run())
}
