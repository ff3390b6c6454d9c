package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/compliance"
	"github.com/hupe1980/shiftmesh/roster"
)

func TestValidatorCleanSchedule(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	schedule := roster.NewSchedule(monday, monday)
	schedule.Add("E-01", monday, roster.Shift{Code: roster.ShiftOpen, StartHour: 9, EndHour: 13}, roster.StationCounter)

	targets := []roster.DemandTarget{lunchTarget(monday, 1)}
	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: casuals(1),
		Store:     counterStore(),
		Targets:   targets,
	})

	assert.True(t, res.IsCompliant)
	assert.Equal(t, 100.0, res.Score)
	assert.Empty(t, res.Violations)
	assert.Empty(t, res.Warnings)
}

func TestValidatorRestViolation(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	// 5h between shifts, against a 10h minimum.
	schedule := roster.NewSchedule(monday, monday)
	schedule.Add("E-01", monday, roster.Shift{Code: roster.ShiftOpen, StartHour: 6, EndHour: 10}, roster.StationCounter)
	schedule.Add("E-01", monday, roster.Shift{Code: roster.ShiftClose, StartHour: 15, EndHour: 19}, roster.StationCounter)

	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: casuals(1),
		Store:     counterStore(),
	})

	require.Len(t, res.Violations, 1)
	violation := res.Violations[0]
	assert.Equal(t, compliance.ConstraintRestPeriod, violation.Constraint)
	assert.Equal(t, 9, violation.Severity)
	assert.Equal(t, "E-01", violation.EmployeeID)
	assert.Len(t, violation.AssignmentIDs, 2)
	assert.NotEmpty(t, violation.Suggestions)

	assert.False(t, res.IsCompliant)
	// 100 - severity 9 x violation weight 4.
	assert.Equal(t, 64.0, res.Score)
}

func TestValidatorHourCapViolation(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	capped := casual("E-01")
	capped.MaxWeeklyHours = 3 // fortnight cap 6h

	schedule := roster.NewSchedule(monday, monday.AddDate(0, 0, 1))
	schedule.Add("E-01", monday, roster.Shift{Code: roster.ShiftOpen, StartHour: 9, EndHour: 13}, roster.StationCounter)
	schedule.Add("E-01", monday.AddDate(0, 0, 1), roster.Shift{Code: roster.ShiftOpen, StartHour: 9, EndHour: 13}, roster.StationCounter)

	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: []roster.Employee{capped},
		Store:     counterStore(),
	})

	require.Len(t, res.Violations, 1)
	assert.Equal(t, compliance.ConstraintHourLimit, res.Violations[0].Constraint)
	assert.Equal(t, 8, res.Violations[0].Severity)
}

func TestValidatorUndertimeWarning(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	fullTimer := roster.Employee{ID: "E-01", Name: "Full Timer", Type: roster.FullTime, Stations: []roster.Station{roster.StationCounter}}
	standby := casual("E-02")

	schedule := roster.NewSchedule(monday, monday)
	schedule.Add("E-01", monday, roster.Shift{Code: roster.ShiftOpen, StartHour: 9, EndHour: 13}, roster.StationCounter)

	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: []roster.Employee{fullTimer, standby},
		Store:     counterStore(),
	})

	// Undertime is soft for full-time staff and does not apply to casuals.
	require.Len(t, res.Warnings, 1)
	warning := res.Warnings[0]
	assert.Equal(t, compliance.ConstraintUndertime, warning.Constraint)
	assert.Equal(t, "E-01", warning.EmployeeID)
	assert.True(t, res.IsCompliant)
	assert.Equal(t, 97.0, res.Score)
}

func TestValidatorConsecutiveDaysViolation(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	schedule := roster.NewSchedule(monday, monday.AddDate(0, 0, 6))
	for i := 0; i < 7; i++ {
		schedule.Add("E-01", monday.AddDate(0, 0, i), roster.Shift{Code: roster.ShiftOpen, StartHour: 9, EndHour: 13}, roster.StationCounter)
	}

	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: casuals(1),
		Store:     counterStore(),
	})

	require.Len(t, res.Violations, 1)
	assert.Equal(t, compliance.ConstraintConsecutiveDays, res.Violations[0].Constraint)
	assert.Equal(t, 7, res.Violations[0].Severity)
}

func TestValidatorQualificationViolation(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	schedule := roster.NewSchedule(monday, monday)
	schedule.Add("E-01", monday, roster.Shift{Code: roster.ShiftOpen, StartHour: 9, EndHour: 13}, roster.StationGrill)

	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: casuals(1), // counter-only
		Store:     counterStore(),
	})

	require.Len(t, res.Violations, 1)
	assert.Equal(t, compliance.ConstraintQualification, res.Violations[0].Constraint)
	assert.Equal(t, 10, res.Violations[0].Severity)
}

func TestValidatorUnmeetableDemandDegradesToWarning(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	// Nobody on the roster is grill qualified, so the demand is structurally
	// unmeetable. The run must not fail; it reports a coverage warning.
	target := roster.DemandTarget{
		Date:     monday,
		Block:    roster.TimeBlock{Daypart: roster.DaypartLunch, StartHour: 11, EndHour: 14},
		Station:  roster.StationGrill,
		Required: 2,
	}

	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  roster.NewSchedule(monday, monday),
		Employees: casuals(2),
		Store:     counterStore(),
		Targets:   []roster.DemandTarget{target},
	})

	assert.True(t, res.IsCompliant)
	require.Len(t, res.Warnings, 1)
	warning := res.Warnings[0]
	assert.Equal(t, compliance.ConstraintCoverage, warning.Constraint)
	assert.Equal(t, 4, warning.Severity)
	assert.Contains(t, warning.Description, "0/2")
	assert.Contains(t, warning.Description, "no qualified employees")
	assert.Equal(t, 96.0, res.Score)
}

func TestValidatorFairnessReported(t *testing.T) {
	v := NewValidator(bus.New(), testLogger, testPolicy())

	schedule := roster.NewSchedule(monday, monday.AddDate(0, 0, 1))
	schedule.Add("E-01", monday, roster.Shift{Code: roster.ShiftFull, StartHour: 9, EndHour: 17}, roster.StationCounter)
	schedule.Add("E-02", monday.AddDate(0, 0, 1), roster.Shift{Code: roster.ShiftOpen, StartHour: 9, EndHour: 13}, roster.StationCounter)

	res := v.Execute(context.Background(), ValidateInput{
		Schedule:  schedule,
		Employees: casuals(2),
		Store:     counterStore(),
	})

	// Gini of {8h, 4h}; uneven hours must not touch the score.
	assert.InDelta(t, 1.0/6.0, res.Fairness.GiniCoefficient, 1e-9)
	assert.Equal(t, 100.0, res.Score)
}

func TestValidatorAnswersBusRequests(t *testing.T) {
	b := bus.New()
	NewValidator(b, testLogger, testPolicy())

	schedule := roster.NewSchedule(monday, monday)
	in := ValidateInput{Schedule: schedule, Employees: casuals(1), Store: counterStore()}

	resp, err := b.Request(bus.NewRequestMessage("resolver", "validator", TopicValidate, in))
	require.NoError(t, err)

	res, ok := resp.Payload.(compliance.Result)
	require.True(t, ok)
	assert.True(t, res.IsCompliant)

	// A payload of the wrong type is rejected.
	_, err = b.Request(bus.NewRequestMessage("resolver", "validator", TopicValidate, "not an input"))
	require.Error(t, err)
}
