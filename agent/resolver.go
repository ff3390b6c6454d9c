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

// strategy names, in the order they are attempted per issue.
const (
	strategyReassign   = "reassign"
	strategySwap       = "swap"
	strategyCasualPool = "casual_pool"
	strategyAddCover   = "add_cover"
)

// Resolver repairs a schedule using validator feedback. Every candidate
// mutation is re-validated through the bus; mutations that do not strictly
// improve the score are rolled back, so accepted scores are monotonically
// non-decreasing. Violations still open when the sweep stalls or the
// iteration budget runs out become approval requests for a human manager.
type Resolver struct {
	BaseAgent
	policy compliance.Policy
}

// NewResolver constructs the conflict resolution agent.
func NewResolver(b *bus.Bus, logger logging.Logger, policy compliance.Policy) *Resolver {
	return &Resolver{
		BaseAgent: NewBaseAgent("resolver", "Repairs schedules by reassigning, swapping and pooling shifts", b, logger),
		policy:    policy,
	}
}

// Outcome reports what one resolution run did to the schedule.
type Outcome struct {
	Result     compliance.Result
	Iterations int
}

// Execute runs repair sweeps over the schedule until it is compliant, a full
// sweep makes no improvement, or the iteration budget is consumed. The
// schedule is mutated in place. Residual violations are converted to
// ApprovalRequests on the returned result.
func (r *Resolver) Execute(ctx context.Context, in ValidateInput, initial compliance.Result, maxIterations int) (Outcome, error) {
	res := initial
	attempted := map[string][]string{}

	iterations := 0
	for iterations < maxIterations && !res.IsCompliant {
		if err := ctx.Err(); err != nil {
			return Outcome{Result: res, Iterations: iterations}, err
		}
		iterations++

		improved := false
		// Hard violations first, then soft warnings.
		issues := append(append([]compliance.Issue{}, res.Violations...), res.Warnings...)
		for _, issue := range issues {
			next, strategyUsed, ok := r.resolveIssue(in, res, issue, attempted)
			if ok {
				r.Logger().Debug("mutation accepted", "strategy", strategyUsed, "constraint", string(issue.Constraint), "score_before", res.Score, "score_after", next.Score)
				res = next
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	res.PendingApprovals = r.escalate(res, attempted, maxIterations)
	r.Logger().Info("resolution finished", "iterations", iterations, "score", res.Score, "residual_violations", len(res.Violations), "approvals", len(res.PendingApprovals))
	return Outcome{Result: res, Iterations: iterations}, nil
}

// resolveIssue tries the strategy ladder for one issue. It returns the new
// result and the accepted strategy name, or ok=false when every strategy
// failed or regressed.
func (r *Resolver) resolveIssue(in ValidateInput, current compliance.Result, issue compliance.Issue, attempted map[string][]string) (compliance.Result, string, bool) {
	key := issueKey(issue)
	for _, strat := range r.strategiesFor(issue) {
		snapshot := in.Schedule.Clone()
		if !r.apply(strat, in, issue) {
			continue
		}
		attempted[key] = appendUnique(attempted[key], strat)

		next, err := r.revalidate(in)
		if err != nil {
			in.Schedule.Restore(snapshot)
			r.Logger().Error("re-validation failed, rolling back", "error", err)
			continue
		}
		if next.Score > current.Score {
			return next, strat, true
		}
		// Never accept a regression or a sideways move.
		in.Schedule.Restore(snapshot)
	}
	return current, "", false
}

// strategiesFor returns the ordered remediation ladder for an issue kind.
// Coverage gaps are fixed by adding cover; everything else by moving the
// offending assignment.
func (r *Resolver) strategiesFor(issue compliance.Issue) []string {
	if issue.Constraint == compliance.ConstraintCoverage || issue.Constraint == compliance.ConstraintUndertime {
		return []string{strategyAddCover}
	}
	return []string{strategyReassign, strategySwap, strategyCasualPool}
}

// apply performs one mutation on the schedule, reporting whether anything
// changed. It does not judge the mutation; the validator does.
func (r *Resolver) apply(strat string, in ValidateInput, issue compliance.Issue) bool {
	switch strat {
	case strategyReassign:
		return r.reassign(in, issue, func(roster.Employee) bool { return true })
	case strategyCasualPool:
		return r.reassign(in, issue, func(e roster.Employee) bool { return e.Type == roster.Casual })
	case strategySwap:
		return r.swap(in, issue)
	case strategyAddCover:
		return r.addCover(in, issue)
	default:
		return false
	}
}

// reassign moves the issue's first assignment to a different qualified
// employee accepted by the filter, preferring the one with the most headroom
// under their hour cap.
func (r *Resolver) reassign(in ValidateInput, issue compliance.Issue, filter func(roster.Employee) bool) bool {
	if len(issue.AssignmentIDs) == 0 {
		return false
	}
	a, ok := in.Schedule.Get(issue.AssignmentIDs[0])
	if !ok {
		return false
	}

	var best roster.Employee
	bestHeadroom := 0.0
	found := false
	for _, emp := range in.Employees {
		if emp.ID == a.EmployeeID || !filter(emp) || !emp.QualifiedFor(a.Station) || !emp.AvailableOn(a.Date.Weekday()) {
			continue
		}
		headroom := r.policy.BoundsFor(emp).Max - in.Schedule.EmployeeHours(emp.ID)
		if headroom < a.Hours() {
			continue
		}
		if !found || headroom > bestHeadroom {
			best = emp
			bestHeadroom = headroom
			found = true
		}
	}
	if !found {
		return false
	}
	return in.Schedule.Reassign(a.ID, best.ID)
}

// swap exchanges the employees of the issue's first assignment and another
// assignment, requiring each employee to be qualified for the other's
// station. The first mutually qualified partner in canonical order is taken.
func (r *Resolver) swap(in ValidateInput, issue compliance.Issue) bool {
	if len(issue.AssignmentIDs) == 0 {
		return false
	}
	a, ok := in.Schedule.Get(issue.AssignmentIDs[0])
	if !ok {
		return false
	}
	byID := map[string]roster.Employee{}
	for _, emp := range in.Employees {
		byID[emp.ID] = emp
	}
	empA, ok := byID[a.EmployeeID]
	if !ok {
		return false
	}

	for _, b := range in.Schedule.Assignments() {
		if b.ID == a.ID || b.EmployeeID == a.EmployeeID {
			continue
		}
		empB, ok := byID[b.EmployeeID]
		if !ok {
			continue
		}
		if !empB.QualifiedFor(a.Station) || !empA.QualifiedFor(b.Station) {
			continue
		}
		if !empB.AvailableOn(a.Date.Weekday()) || !empA.AvailableOn(b.Date.Weekday()) {
			continue
		}
		in.Schedule.Reassign(a.ID, empB.ID)
		in.Schedule.Reassign(b.ID, empA.ID)
		return true
	}
	return false
}

// addCover adds one assignment for an understaffed target referenced by a
// coverage warning, or one extra shift for an undertime employee, drawn from
// qualified employees with casuals first.
func (r *Resolver) addCover(in ValidateInput, issue compliance.Issue) bool {
	target, ok := r.findShortTarget(in, issue)
	if !ok {
		return false
	}
	shift := in.Store.ShiftForBlock(target.Block)
	cand := roster.Assignment{Date: roster.Day(target.Date), Shift: shift, Station: target.Station}

	pools := [][]roster.Employee{casualsOf(in.Employees), in.Employees}
	for _, pool := range pools {
		for _, emp := range pool {
			if issue.Constraint == compliance.ConstraintUndertime && emp.ID != issue.EmployeeID {
				continue
			}
			if !emp.QualifiedFor(target.Station) || !emp.AvailableOn(cand.Date.Weekday()) {
				continue
			}
			existing := in.Schedule.ByEmployee(emp.ID)
			if in.Schedule.EmployeeHours(emp.ID)+cand.Hours() > r.policy.BoundsFor(emp).Max {
				continue
			}
			if !restSatisfied(existing, cand, r.policy.MinRestHours) {
				continue
			}
			if !consecutiveSatisfied(existing, cand.Date, r.policy.MaxConsecutiveDays) {
				continue
			}
			in.Schedule.Add(emp.ID, target.Date, shift, target.Station)
			return true
		}
	}
	return false
}

// findShortTarget locates the first demand target matching the issue that is
// still short of its required headcount.
func (r *Resolver) findShortTarget(in ValidateInput, issue compliance.Issue) (roster.DemandTarget, bool) {
	for _, target := range in.Targets {
		if issue.Date != "" && roster.DateKey(target.Date) != issue.Date {
			continue
		}
		if issue.Station != "" && string(target.Station) != issue.Station {
			continue
		}
		if in.Schedule.Coverage(target) < target.Required {
			return target, true
		}
	}
	// Undertime warnings carry no station; fall back to any short target the
	// employee is qualified for.
	if issue.Constraint == compliance.ConstraintUndertime {
		for _, target := range in.Targets {
			if in.Schedule.Coverage(target) < target.Required {
				return target, true
			}
		}
	}
	return roster.DemandTarget{}, false
}

// revalidate asks the validator for a fresh result via the bus, exercising
// the request/response correlation path.
func (r *Resolver) revalidate(in ValidateInput) (compliance.Result, error) {
	resp, err := r.Bus().Request(bus.NewRequestMessage(r.Name(), "validator", TopicValidate, in))
	if err != nil {
		return compliance.Result{}, err
	}
	res, ok := resp.Payload.(compliance.Result)
	if !ok {
		return compliance.Result{}, fmt.Errorf("unexpected response payload %T for topic %s", resp.Payload, resp.Topic)
	}
	return res, nil
}

// escalate converts every residual violation into an approval request
// carrying the strategies that were tried and the fixed manager option menu.
func (r *Resolver) escalate(res compliance.Result, attempted map[string][]string, maxIterations int) []compliance.ApprovalRequest {
	var approvals []compliance.ApprovalRequest
	for _, v := range res.Violations {
		tried := attempted[issueKey(v)]
		reason := fmt.Sprintf("automated resolution could not clear this %s violation within %d iterations", v.Constraint, maxIterations)
		if len(tried) == 0 {
			reason = fmt.Sprintf("no applicable remediation strategy for this %s violation", v.Constraint)
		}
		approvals = append(approvals, compliance.ApprovalRequest{
			Constraint:          v.Constraint,
			Date:                v.Date,
			Description:         v.Description,
			EmployeeID:          v.EmployeeID,
			EscalationReason:    reason,
			AttemptedStrategies: tried,
			Options:             compliance.ManagerOptions,
		})
	}
	sort.SliceStable(approvals, func(i, j int) bool { return approvals[i].Description < approvals[j].Description })
	return approvals
}

func issueKey(issue compliance.Issue) string {
	return string(issue.Constraint) + "|" + issue.EmployeeID + "|" + issue.Date
}

func casualsOf(employees []roster.Employee) []roster.Employee {
	var out []roster.Employee
	for _, emp := range employees {
		if emp.Type == roster.Casual {
			out = append(out, emp)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
