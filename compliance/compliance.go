package compliance

// Constraint identifies which labor rule a finding refers to.
type Constraint string

const (
	// ConstraintHourLimit marks fortnightly hours above an employee's band.
	ConstraintHourLimit Constraint = "hour_limit"
	// ConstraintUndertime marks fortnightly hours below an employee's band.
	ConstraintUndertime Constraint = "undertime"
	// ConstraintRestPeriod marks insufficient rest between consecutive shifts.
	ConstraintRestPeriod Constraint = "rest_period"
	// ConstraintConsecutiveDays marks too many scheduled days in a row.
	ConstraintConsecutiveDays Constraint = "consecutive_days"
	// ConstraintQualification marks an assignment to an unqualified station.
	ConstraintQualification Constraint = "qualification"
	// ConstraintCoverage marks a demand target that is not fully staffed.
	ConstraintCoverage Constraint = "coverage"
)

// Issue is the shared shape of violations and warnings: what rule broke,
// who and when it concerns, how bad it is and what could fix it. Violations
// are hard (a compliant schedule has none); warnings are soft (they lower
// the score without blocking compliance).
type Issue struct {
	Constraint  Constraint `json:"constraint"`
	Description string     `json:"description"`
	// Severity ranges 0 (cosmetic) to 10 (must fix immediately).
	Severity      int      `json:"severity"`
	EmployeeID    string   `json:"employee_id,omitempty"`
	Date          string   `json:"date,omitempty"`
	Station       string   `json:"station,omitempty"`
	AssignmentIDs []string `json:"assignment_ids,omitempty"`
	Suggestions   []string `json:"suggestions,omitempty"`
}

// ManagerOptions is the fixed decision menu attached to every approval
// request escalated to a human manager.
var ManagerOptions = []string{
	"accept_understaffing",
	"authorize_overtime",
	"source_casual_coverage",
	"reduce_service_scope",
	"request_interstore_swap",
}

// ApprovalRequest is the terminal artifact for a violation automated
// resolution could not fix. It is a normal outcome, not an error: the run
// finishes and a human picks one of the Options.
type ApprovalRequest struct {
	Constraint          Constraint `json:"constraint"`
	Date                string     `json:"date,omitempty"`
	Description         string     `json:"description"`
	EmployeeID          string     `json:"employee_id,omitempty"`
	EscalationReason    string     `json:"escalation_reason"`
	AttemptedStrategies []string   `json:"attempted_strategies"`
	Options             []string   `json:"options"`
}

// Fairness reports distribution metrics alongside, but never folded into,
// the compliance score.
type Fairness struct {
	GiniCoefficient float64 `json:"gini_coefficient"`
}

// Result is the full compliance assessment of one schedule. It is recomputed
// from scratch on every validation pass and never patched incrementally.
type Result struct {
	Violations       []Issue           `json:"violations"`
	Warnings         []Issue           `json:"warnings"`
	PendingApprovals []ApprovalRequest `json:"pending_approvals"`
	Score            float64           `json:"score"`
	IsCompliant      bool              `json:"is_compliant"`
	Fairness         Fairness          `json:"fairness"`
}

// NewResult assembles a Result from findings, computing the score and the
// compliance flag. IsCompliant depends only on the violation list.
func NewResult(p Policy, violations, warnings []Issue, gini float64) Result {
	return Result{
		Violations:  violations,
		Warnings:    warnings,
		Score:       Score(p, violations, warnings),
		IsCompliant: len(violations) == 0,
		Fairness:    Fairness{GiniCoefficient: gini},
	}
}

// Score starts at 100, subtracts the weighted severity of every violation
// and warning, and clamps to [0, 100].
func Score(p Policy, violations, warnings []Issue) float64 {
	score := 100.0
	for _, v := range violations {
		score -= float64(v.Severity) * p.ViolationWeight
	}
	for _, w := range warnings {
		score -= float64(w.Severity) * p.WarningWeight
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
