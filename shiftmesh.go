// Package shiftmesh provides a high-level façade over the agent pipeline
// (demand forecasting, staff matching, compliance validation, conflict
// resolution) for scheduling retail store rosters. Most applications interact
// with this package by:
//  1. Creating a Scheduler via New() with a data source (YAML fixtures or SQLite)
//  2. Calling RunSchedule for a store and date range
//  3. Handing the serializable Result to exporters, the HTTP layer or the
//     explanation collaborator
//
// The façade delegates orchestration to agent.Coordinator while keeping setup
// and usage ergonomics concise. Each run is an independent sequential
// pipeline; runs share no mutable state, so a single Scheduler may serve
// concurrent runs for different stores.
package shiftmesh

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/shiftmesh/agent"
	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/compliance"
	"github.com/hupe1980/shiftmesh/dataload"
	"github.com/hupe1980/shiftmesh/logging"
	"github.com/hupe1980/shiftmesh/roster"
)

// Options configures the Scheduler.
type Options struct {
	// Source resolves stores and rosters. Required.
	Source dataload.Source
	// Policy carries the tunable compliance constants.
	Policy compliance.Policy
	// MaxIterations bounds the resolution loop when RunSchedule is called
	// with maxIterations <= 0.
	MaxIterations int
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Scheduler is the core entry point consumed by external collaborators.
type Scheduler struct {
	opts Options
}

// New creates a Scheduler with optional overrides.
func New(source dataload.Source, optFns ...func(o *Options)) *Scheduler {
	opts := Options{
		Source:        source,
		Policy:        compliance.DefaultPolicy(),
		MaxIterations: 5,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scheduler{opts: opts}
}

// AssignmentRecord is the primitive roster row exposed at the result
// boundary.
type AssignmentRecord struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	EmployeeID string  `json:"employee_id"`
	Employee   string  `json:"employee"`
	Station    string  `json:"station"`
	ShiftCode  string  `json:"shift_code"`
	StartHour  int     `json:"start_hour"`
	EndHour    int     `json:"end_hour"`
	Hours      float64 `json:"hours"`
}

// ComplianceReport is the serialized compliance section of a Result.
type ComplianceReport struct {
	Score            float64                      `json:"score"`
	IsCompliant      bool                         `json:"is_compliant"`
	ViolationCount   int                          `json:"violation_count"`
	Violations       []compliance.Issue           `json:"violations"`
	WarningCount     int                          `json:"warning_count"`
	Warnings         []compliance.Issue           `json:"warnings"`
	PendingApprovals []compliance.ApprovalRequest `json:"pending_approvals"`
	Fairness         compliance.Fairness          `json:"fairness"`
	Iterations       int                          `json:"iterations"`
}

// Performance carries run timing metrics.
type Performance struct {
	ElapsedTimeSeconds float64 `json:"elapsed_time_seconds"`
}

// Result is the sole boundary artifact handed to reporting, export and
// presentation collaborators. All fields are primitives or nested primitive
// structures so it serializes cleanly.
type Result struct {
	RunID           string             `json:"run_id"`
	StoreID         string             `json:"store_id"`
	StoreName       string             `json:"store_name"`
	Phase           string             `json:"phase"`
	ScheduleSummary roster.Summary     `json:"schedule_summary"`
	Roster          []AssignmentRecord `json:"roster"`
	Compliance      ComplianceReport   `json:"compliance"`
	Performance     Performance        `json:"performance"`
	// Error is the degraded-run marker: non-empty when a phase failed and
	// the remaining fields carry partial output.
	Error string `json:"error,omitempty"`
}

// RunSchedule executes one scheduling run for a store and date range. Only
// data load failures are returned as errors; phase failures degrade into a
// partial Result with the Error marker set.
func (s *Scheduler) RunSchedule(ctx context.Context, storeID string, startDate, endDate time.Time, maxIterations int) (*Result, error) {
	start := time.Now()
	if maxIterations <= 0 {
		maxIterations = s.opts.MaxIterations
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s is before start date %s", roster.DateKey(endDate), roster.DateKey(startDate))
	}

	store, err := s.opts.Source.Store(storeID)
	if err != nil {
		return nil, err
	}
	employees, err := s.opts.Source.Employees(storeID)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := s.opts.Logger
	if sl, ok := logger.(*logging.SchedulerLogger); ok {
		logger = sl.WithRun(storeID, runID)
	}

	// Each run owns its bus and agents so concurrent runs stay independent.
	b := bus.New(func(o *bus.Options) { o.Logger = logger })
	coordinator := agent.NewCoordinator(b, logger, s.opts.Policy)
	out := coordinator.Execute(ctx, agent.RunInput{
		Store:         store,
		Employees:     employees,
		StartDate:     startDate,
		EndDate:       endDate,
		MaxIterations: maxIterations,
	})

	result := buildResult(runID, store, employees, out)
	result.Performance.ElapsedTimeSeconds = time.Since(start).Seconds()
	return result, nil
}

func buildResult(runID string, store roster.Store, employees []roster.Employee, out agent.RunOutput) *Result {
	names := map[string]string{}
	for _, emp := range employees {
		names[emp.ID] = emp.Name
	}

	result := &Result{
		RunID:     runID,
		StoreID:   store.ID,
		StoreName: store.Name,
		Phase:     string(out.Phase),
		Compliance: ComplianceReport{
			Score:            out.Result.Score,
			IsCompliant:      out.Result.IsCompliant,
			ViolationCount:   len(out.Result.Violations),
			Violations:       out.Result.Violations,
			WarningCount:     len(out.Result.Warnings),
			Warnings:         out.Result.Warnings,
			PendingApprovals: out.Result.PendingApprovals,
			Fairness:         out.Result.Fairness,
			Iterations:       out.Iterations,
		},
	}
	if out.Err != nil {
		result.Error = out.Err.Error()
	}
	if out.Schedule != nil {
		result.ScheduleSummary = out.Schedule.Summarize()
		for _, a := range out.Schedule.Assignments() {
			result.Roster = append(result.Roster, AssignmentRecord{
				ID:         a.ID,
				Date:       roster.DateKey(a.Date),
				EmployeeID: a.EmployeeID,
				Employee:   names[a.EmployeeID],
				Station:    string(a.Station),
				ShiftCode:  string(a.Shift.Code),
				StartHour:  a.Shift.StartHour,
				EndHour:    a.Shift.EndHour,
				Hours:      a.Hours(),
			})
		}
	}
	return result
}
