package shiftmesh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shiftmesh/dataload"
	"github.com/hupe1980/shiftmesh/roster"
)

// memorySource is an in-memory dataload.Source for façade tests.
type memorySource struct {
	store     roster.Store
	employees []roster.Employee
}

func (m *memorySource) Store(id string) (roster.Store, error) {
	if id != m.store.ID {
		return roster.Store{}, &dataload.DataLoadError{Source: "memory", Err: errUnknownStore}
	}
	return m.store, nil
}

func (m *memorySource) Employees(storeID string) ([]roster.Employee, error) {
	if storeID != m.store.ID {
		return nil, &dataload.DataLoadError{Source: "memory", Err: errUnknownStore}
	}
	out := make([]roster.Employee, len(m.employees))
	copy(out, m.employees)
	return out, nil
}

var errUnknownStore = errStr("unknown store")

type errStr string

func (e errStr) Error() string { return string(e) }

func testSource() *memorySource {
	store := roster.Store{
		ID:        "S-01",
		Name:      "Central",
		Type:      roster.StoreSuburban,
		OpenHour:  9,
		CloseHour: 17,
		Stations:  []roster.Station{roster.StationCounter},
	}
	var employees []roster.Employee
	for _, id := range []string{"E-01", "E-02", "E-03", "E-04", "E-05", "E-06"} {
		employees = append(employees, roster.Employee{
			ID:       id,
			Name:     "Casual " + id,
			Type:     roster.Casual,
			Stations: []roster.Station{roster.StationCounter},
		})
	}
	return &memorySource{store: store, employees: employees}
}

var testMonday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestRunSchedule(t *testing.T) {
	s := New(testSource())

	result, err := s.RunSchedule(context.Background(), "S-01", testMonday, testMonday, 0)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "S-01", result.StoreID)
	assert.Equal(t, "Central", result.StoreName)
	assert.Equal(t, "finalized", result.Phase)
	assert.Empty(t, result.Error)

	assert.True(t, result.Compliance.IsCompliant)
	assert.Equal(t, 100.0, result.Compliance.Score)
	assert.NotEmpty(t, result.Roster)
	assert.GreaterOrEqual(t, result.Performance.ElapsedTimeSeconds, 0.0)

	// Roster rows are denormalized primitives carrying the employee name.
	first := result.Roster[0]
	assert.Equal(t, "2025-03-10", first.Date)
	assert.Equal(t, "Casual "+first.EmployeeID, first.Employee)
	assert.Equal(t, first.Hours, float64(first.EndHour-first.StartHour))
}

func TestRunScheduleDeterministic(t *testing.T) {
	s := New(testSource())

	first, err := s.RunSchedule(context.Background(), "S-01", testMonday, testMonday.AddDate(0, 0, 6), 0)
	require.NoError(t, err)
	second, err := s.RunSchedule(context.Background(), "S-01", testMonday, testMonday.AddDate(0, 0, 6), 0)
	require.NoError(t, err)

	// Run IDs and timings differ; schedules and compliance must not.
	assert.Equal(t, first.Roster, second.Roster)
	assert.Equal(t, first.ScheduleSummary, second.ScheduleSummary)
	assert.Equal(t, first.Compliance, second.Compliance)
}

func TestRunScheduleUnknownStore(t *testing.T) {
	s := New(testSource())

	_, err := s.RunSchedule(context.Background(), "S-99", testMonday, testMonday, 0)
	require.Error(t, err)

	var dle *dataload.DataLoadError
	assert.ErrorAs(t, err, &dle)
}

func TestRunScheduleInvalidRange(t *testing.T) {
	s := New(testSource())

	_, err := s.RunSchedule(context.Background(), "S-01", testMonday, testMonday.AddDate(0, 0, -1), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")
}

func TestRunScheduleDegradedRun(t *testing.T) {
	src := testSource()
	src.store.OpenHour = 20
	src.store.CloseHour = 8
	s := New(src)

	result, err := s.RunSchedule(context.Background(), "S-01", testMonday, testMonday, 0)
	require.NoError(t, err, "phase failures degrade instead of erroring")
	assert.Equal(t, "degraded", result.Phase)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Roster)
}
