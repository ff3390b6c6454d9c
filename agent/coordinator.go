package agent

import (
	"context"
	"sort"
	"time"

	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/compliance"
	"github.com/hupe1980/shiftmesh/logging"
	"github.com/hupe1980/shiftmesh/roster"
)

// Phase is a coordinator state. Transitions follow
// Init -> Forecasting -> Matching -> Validating <-> Resolving -> Finalized,
// with Degraded as the terminal state for unrecoverable phase failures.
type Phase string

const (
	// PhaseInit is the state before any work has started.
	PhaseInit Phase = "init"
	// PhaseForecasting is the demand forecasting phase.
	PhaseForecasting Phase = "forecasting"
	// PhaseMatching is the initial schedule construction phase.
	PhaseMatching Phase = "matching"
	// PhaseValidating is a compliance validation pass.
	PhaseValidating Phase = "validating"
	// PhaseResolving is the bounded conflict resolution loop.
	PhaseResolving Phase = "resolving"
	// PhaseFinalized is the successful terminal state.
	PhaseFinalized Phase = "finalized"
	// PhaseDegraded is the terminal state after an unrecoverable phase
	// failure; partial outputs are preserved for the caller.
	PhaseDegraded Phase = "degraded"
)

// Transition records one phase change in the run history.
type Transition struct {
	Phase    Phase
	At       time.Time
	Duration time.Duration
	Err      error
}

// RunInput is everything a single scheduling run needs. Runs share no
// mutable state, so multiple stores can be scheduled concurrently with one
// Coordinator per run.
type RunInput struct {
	Store         roster.Store
	Employees     []roster.Employee
	StartDate     time.Time
	EndDate       time.Time
	MaxIterations int
}

// RunOutput is the coordinator's terminal artifact. On degraded runs the
// already-computed partial schedule and result are preserved and Err carries
// the phase failure.
type RunOutput struct {
	Phase      Phase
	Schedule   *roster.Schedule
	Result     compliance.Result
	Targets    []roster.DemandTarget
	Iterations int
	History    []Transition
	Err        error
}

// Coordinator sequences the scheduling pipeline and owns the
// iterate-until-compliant-or-escalate loop. It is the only agent with a
// direct dependency on all others; per-run history lives here so the other
// agents stay stateless.
type Coordinator struct {
	BaseAgent
	forecaster *Forecaster
	matcher    *Matcher
	validator  *Validator
	resolver   *Resolver
}

// NewCoordinator wires a coordinator with a fresh set of pipeline agents on
// the given bus.
func NewCoordinator(b *bus.Bus, logger logging.Logger, policy compliance.Policy) *Coordinator {
	return &Coordinator{
		BaseAgent:  NewBaseAgent("coordinator", "Sequences forecasting, matching, validation and resolution", b, logger),
		forecaster: NewForecaster(b, logger),
		matcher:    NewMatcher(b, logger, policy),
		validator:  NewValidator(b, logger, policy),
		resolver:   NewResolver(b, logger, policy),
	}
}

// Execute drives one run through the state machine. Cancellation is honored
// at phase boundaries; the error return is non-nil only for run-fatal
// conditions, while phase failures degrade into the output's Err field.
func (c *Coordinator) Execute(ctx context.Context, in RunInput) RunOutput {
	out := RunOutput{Phase: PhaseInit}

	// Stable roster order underpins every deterministic tie-break downstream.
	employees := make([]roster.Employee, len(in.Employees))
	copy(employees, in.Employees)
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })

	targets, err := runPhase(ctx, c, &out, PhaseForecasting, func() ([]roster.DemandTarget, error) {
		return c.forecaster.Execute(ctx, in.Store, in.StartDate, in.EndDate)
	})
	if err != nil {
		return c.degrade(&out, err)
	}
	out.Targets = targets

	schedule, err := runPhase(ctx, c, &out, PhaseMatching, func() (*roster.Schedule, error) {
		return c.matcher.Execute(ctx, targets, employees, in.Store, in.StartDate, in.EndDate)
	})
	if err != nil {
		return c.degrade(&out, err)
	}
	out.Schedule = schedule

	vin := ValidateInput{Schedule: schedule, Employees: employees, Store: in.Store, Targets: targets}
	result, err := runPhase(ctx, c, &out, PhaseValidating, func() (compliance.Result, error) {
		return c.validator.Execute(ctx, vin), nil
	})
	if err != nil {
		return c.degrade(&out, err)
	}
	out.Result = result

	if !result.IsCompliant {
		outcome, err := runPhase(ctx, c, &out, PhaseResolving, func() (Outcome, error) {
			return c.resolver.Execute(ctx, vin, result, in.MaxIterations)
		})
		if err != nil {
			return c.degrade(&out, err)
		}
		out.Result = outcome.Result
		out.Iterations = outcome.Iterations
	}

	c.transition(&out, PhaseFinalized, 0, nil)
	return out
}

// runPhase executes one phase body, recording the transition and checking
// cancellation at the boundary.
func runPhase[T any](ctx context.Context, c *Coordinator, out *RunOutput, phase Phase, body func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	start := time.Now()
	v, err := body()
	c.transition(out, phase, time.Since(start), err)
	if err != nil {
		return zero, err
	}
	return v, nil
}

func (c *Coordinator) transition(out *RunOutput, phase Phase, dur time.Duration, err error) {
	out.Phase = phase
	out.History = append(out.History, Transition{Phase: phase, At: time.Now().UTC(), Duration: dur, Err: err})
	c.NotifyStatus(TopicPhase, string(phase))
	c.Logger().Info("phase transition", "phase", string(phase), "duration", dur, "error", err)
}

// degrade moves the run to the Degraded terminal state, keeping whatever was
// computed before the failure.
func (c *Coordinator) degrade(out *RunOutput, err error) RunOutput {
	out.Err = err
	c.transition(out, PhaseDegraded, 0, err)
	return *out
}
