package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/compliance"
	"github.com/hupe1980/shiftmesh/logging"
	"github.com/hupe1980/shiftmesh/roster"
)

// ValidateInput bundles everything one validation pass needs. It travels as
// the payload of TopicValidate requests on the bus.
type ValidateInput struct {
	Schedule  *roster.Schedule
	Employees []roster.Employee
	Store     roster.Store
	Targets   []roster.DemandTarget
}

// Validator scores a schedule against the labor rules. Each Execute runs the
// full ordered rule battery and builds a fresh result; nothing is patched
// incrementally, so a result always reflects exactly one schedule state.
type Validator struct {
	BaseAgent
	policy compliance.Policy
}

// NewValidator constructs the compliance validation agent and registers its
// synchronous request handler so peers (notably the resolver) can ask for
// re-validation mid-sweep.
func NewValidator(b *bus.Bus, logger logging.Logger, policy compliance.Policy) *Validator {
	v := &Validator{
		BaseAgent: NewBaseAgent("validator", "Scores schedules against labor rules and demand coverage", b, logger),
		policy:    policy,
	}
	v.Bus().SubscribeRequests(v.Name(), v.onRequest)
	return v
}

// onRequest answers TopicValidate requests with a fresh compliance result.
func (v *Validator) onRequest(msg bus.Message) (any, error) {
	in, ok := msg.Payload.(ValidateInput)
	if !ok {
		return nil, fmt.Errorf("unexpected request payload %T for topic %s", msg.Payload, msg.Topic)
	}
	return v.Execute(context.Background(), in), nil
}

// Execute runs the rule battery in a fixed order and returns the scored
// result. The Gini coefficient of the per-employee hours distribution is
// reported alongside the score but never folded into it.
func (v *Validator) Execute(ctx context.Context, in ValidateInput) compliance.Result {
	var violations, warnings []compliance.Issue

	hoursV, hoursW := v.checkHours(in)
	violations = append(violations, hoursV...)
	warnings = append(warnings, hoursW...)
	v.Logger().Debug("rule check done", "rule", "hours", "violations", len(hoursV), "warnings", len(hoursW))

	restV := v.checkRest(in)
	violations = append(violations, restV...)

	daysV := v.checkConsecutiveDays(in)
	violations = append(violations, daysV...)

	qualV := v.checkQualifications(in)
	violations = append(violations, qualV...)

	coverW := v.checkCoverage(in)
	warnings = append(warnings, coverW...)

	res := compliance.NewResult(v.policy, violations, warnings, v.gini(in.Schedule))
	v.Logger().Info("validation complete", "score", res.Score, "violations", len(violations), "warnings", len(warnings), "compliant", res.IsCompliant)
	v.NotifyStatus(TopicComplianceResult, res)
	return res
}

// checkHours flags fortnightly hours outside each employee's band: above the
// cap is a hard violation, below the floor (for non-casual staff) a soft
// undertime warning.
func (v *Validator) checkHours(in ValidateInput) (violations, warnings []compliance.Issue) {
	for _, emp := range in.Employees {
		hours := in.Schedule.EmployeeHours(emp.ID)
		bounds := v.policy.BoundsFor(emp)
		switch {
		case hours > bounds.Max:
			violations = append(violations, compliance.Issue{
				Constraint:    compliance.ConstraintHourLimit,
				Description:   fmt.Sprintf("%s is scheduled %.1fh, above the %.0fh fortnight cap for %s staff", emp.Name, hours, bounds.Max, emp.Type),
				Severity:      8,
				EmployeeID:    emp.ID,
				AssignmentIDs: assignmentIDs(in.Schedule.ByEmployee(emp.ID)),
				Suggestions:   []string{"reassign a shift to another qualified employee", "swap a shift with a lower-hours employee", "authorize overtime"},
			})
		case hours < bounds.Min && emp.Type != roster.Casual:
			warnings = append(warnings, compliance.Issue{
				Constraint:  compliance.ConstraintUndertime,
				Description: fmt.Sprintf("%s is scheduled %.1fh, below the %.0fh fortnight floor for %s staff", emp.Name, hours, bounds.Min, emp.Type),
				Severity:    3,
				EmployeeID:  emp.ID,
				Suggestions: []string{"assign additional shifts", "review the employee's hour band"},
			})
		}
	}
	return violations, warnings
}

// checkRest flags consecutive assignment pairs of one employee separated by
// less than the minimum rest period.
func (v *Validator) checkRest(in ValidateInput) []compliance.Issue {
	var violations []compliance.Issue
	for _, emp := range in.Employees {
		assignments := in.Schedule.ByEmployee(emp.ID)
		for i := 1; i < len(assignments); i++ {
			prev, next := assignments[i-1], assignments[i]
			gap := next.Start().Sub(prev.End()).Hours()
			if gap >= v.policy.MinRestHours {
				continue
			}
			violations = append(violations, compliance.Issue{
				Constraint:    compliance.ConstraintRestPeriod,
				Description:   fmt.Sprintf("%s has only %.1fh rest between shifts on %s and %s", emp.Name, gap, roster.DateKey(prev.Date), roster.DateKey(next.Date)),
				Severity:      9,
				EmployeeID:    emp.ID,
				Date:          roster.DateKey(next.Date),
				AssignmentIDs: []string{prev.ID, next.ID},
				Suggestions:   []string{"reassign one of the shifts to another qualified employee", "swap the later shift with a rested employee", "pull cover from the casual pool"},
			})
		}
	}
	return violations
}

// checkConsecutiveDays flags runs of scheduled days longer than the policy
// maximum.
func (v *Validator) checkConsecutiveDays(in ValidateInput) []compliance.Issue {
	var violations []compliance.Issue
	for _, emp := range in.Employees {
		assignments := in.Schedule.ByEmployee(emp.ID)
		run := longestRun(workedDates(assignments))
		if run <= v.policy.MaxConsecutiveDays {
			continue
		}
		violations = append(violations, compliance.Issue{
			Constraint:    compliance.ConstraintConsecutiveDays,
			Description:   fmt.Sprintf("%s is scheduled %d days in a row, above the %d day maximum", emp.Name, run, v.policy.MaxConsecutiveDays),
			Severity:      7,
			EmployeeID:    emp.ID,
			AssignmentIDs: []string{assignments[len(assignments)-1].ID},
			Suggestions:   []string{"reassign a mid-run shift to break the streak", "pull cover from the casual pool"},
		})
	}
	return violations
}

// checkQualifications flags assignments whose employee is not qualified for
// the station.
func (v *Validator) checkQualifications(in ValidateInput) []compliance.Issue {
	byID := map[string]roster.Employee{}
	for _, emp := range in.Employees {
		byID[emp.ID] = emp
	}
	var violations []compliance.Issue
	for _, a := range in.Schedule.Assignments() {
		emp, ok := byID[a.EmployeeID]
		if ok && emp.QualifiedFor(a.Station) {
			continue
		}
		violations = append(violations, compliance.Issue{
			Constraint:    compliance.ConstraintQualification,
			Description:   fmt.Sprintf("employee %s is not qualified for station %s on %s", a.EmployeeID, a.Station, roster.DateKey(a.Date)),
			Severity:      10,
			EmployeeID:    a.EmployeeID,
			Date:          roster.DateKey(a.Date),
			AssignmentIDs: []string{a.ID},
			Suggestions:   []string{"reassign to a qualified employee", "swap stations with a qualified colleague"},
		})
	}
	return violations
}

// checkCoverage flags demand targets that are not fully staffed. Structurally
// unmeetable demand (no qualified employee exists at all) degrades to the
// same coverage warning instead of failing the run.
func (v *Validator) checkCoverage(in ValidateInput) []compliance.Issue {
	var warnings []compliance.Issue
	for _, target := range in.Targets {
		covered := in.Schedule.Coverage(target)
		if covered >= target.Required {
			continue
		}
		desc := fmt.Sprintf("station %s is staffed %d/%d for the %s block on %s", target.Station, covered, target.Required, target.Block.Daypart, roster.DateKey(target.Date))
		if !anyQualified(in.Employees, target.Station) {
			desc += " (no qualified employees on the roster)"
		}
		warnings = append(warnings, compliance.Issue{
			Constraint:  compliance.ConstraintCoverage,
			Description: desc,
			Severity:    4,
			Date:        roster.DateKey(target.Date),
			Station:     string(target.Station),
			Suggestions: []string{"pull cover from the casual pool", "accept understaffing for the block", "request an inter-store swap"},
		})
	}
	return warnings
}

// gini computes the fairness coefficient over the hours of employees that
// appear in the schedule.
func (v *Validator) gini(schedule *roster.Schedule) float64 {
	byEmployee := schedule.HoursByEmployee()
	ids := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	hours := make([]float64, 0, len(ids))
	for _, id := range ids {
		hours = append(hours, byEmployee[id])
	}
	return compliance.Gini(hours)
}

func anyQualified(employees []roster.Employee, st roster.Station) bool {
	for _, emp := range employees {
		if emp.QualifiedFor(st) {
			return true
		}
	}
	return false
}

func assignmentIDs(assignments []roster.Assignment) []string {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	return ids
}
