package agent

import (
	"context"
	"time"

	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/compliance"
	"github.com/hupe1980/shiftmesh/logging"
	"github.com/hupe1980/shiftmesh/roster"
)

// Matcher builds the initial schedule from the demand target set with a
// deterministic greedy pass: slots are filled in forecast order, each with
// the eligible employee carrying the largest remaining gap to their hours
// target, ties broken by employee ID. Greedy-with-stable-tiebreak trades
// global optimality for speed and reproducibility; the resolver cleans up
// what the greedy pass gets wrong.
type Matcher struct {
	BaseAgent
	policy compliance.Policy
}

// NewMatcher constructs the staff matching agent.
func NewMatcher(b *bus.Bus, logger logging.Logger, policy compliance.Policy) *Matcher {
	return &Matcher{
		BaseAgent: NewBaseAgent("matcher", "Greedily assigns employees to forecasted demand slots", b, logger),
		policy:    policy,
	}
}

// Execute produces the initial schedule for the date range. Slots that no
// eligible employee can fill are left understaffed; the validator surfaces
// them as coverage warnings rather than failing the run.
func (m *Matcher) Execute(ctx context.Context, targets []roster.DemandTarget, employees []roster.Employee, store roster.Store, start, end time.Time) (*roster.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schedule := roster.NewSchedule(start, end)
	understaffed := 0
	for _, target := range targets {
		shift := store.ShiftForBlock(target.Block)
		for schedule.Coverage(target) < target.Required {
			emp, ok := m.pickEmployee(schedule, employees, target, shift)
			if !ok {
				if !anyQualified(employees, target.Station) {
					m.Logger().Warn("demand cell cannot be staffed", "station", string(target.Station), "date", roster.DateKey(target.Date), "error", roster.ErrInfeasibleDemand)
				}
				understaffed++
				break
			}
			schedule.Add(emp.ID, target.Date, shift, target.Station)
		}
	}

	if understaffed > 0 {
		m.Logger().Warn("matcher left slots understaffed", "slots", understaffed)
	}
	m.Logger().Info("initial schedule built", "assignments", schedule.Summarize().TotalAssignments)
	m.SendData("validator", TopicScheduleDraft, schedule)
	return schedule, nil
}

// pickEmployee selects the best eligible employee for one slot. Hard filters
// run first (qualification, availability, hour cap, rest, consecutive days);
// the survivors are ranked by remaining gap to their fortnightly minimum so
// hours converge on fairness across the roster.
func (m *Matcher) pickEmployee(schedule *roster.Schedule, employees []roster.Employee, target roster.DemandTarget, shift roster.Shift) (roster.Employee, bool) {
	var best roster.Employee
	bestGap := 0.0
	found := false

	cand := roster.Assignment{Date: roster.Day(target.Date), Shift: shift, Station: target.Station}
	for _, emp := range employees {
		if !m.eligible(schedule, emp, cand) {
			continue
		}
		gap := m.policy.BoundsFor(emp).Min - schedule.EmployeeHours(emp.ID)
		// Strict greater-than keeps the first (lowest ID) employee on ties;
		// callers must pass the roster sorted by ID for reproducibility.
		if !found || gap > bestGap {
			best = emp
			bestGap = gap
			found = true
		}
	}
	return best, found
}

// eligible applies the hard constraints given the assignments made so far in
// this pass.
func (m *Matcher) eligible(schedule *roster.Schedule, emp roster.Employee, cand roster.Assignment) bool {
	if !emp.QualifiedFor(cand.Station) {
		return false
	}
	if !emp.AvailableOn(cand.Date.Weekday()) {
		return false
	}
	existing := schedule.ByEmployee(emp.ID)
	if schedule.EmployeeHours(emp.ID)+cand.Hours() > m.policy.BoundsFor(emp).Max {
		return false
	}
	if !restSatisfied(existing, cand, m.policy.MinRestHours) {
		return false
	}
	return consecutiveSatisfied(existing, cand.Date, m.policy.MaxConsecutiveDays)
}
