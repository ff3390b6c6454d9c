// Package explain is the external-collaborator adapter that turns a finished
// scheduling Result into a human-readable narrative via a text-generation
// service. It is strictly post-processing: the scheduling pipeline never
// waits on it, and every failure degrades to a deterministic template
// summary. Rate limiting and retry live here, at the boundary, and nowhere
// near the resolution loop.
package explain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/shiftmesh"
	"github.com/hupe1980/shiftmesh/logging"
)

// Generator produces text for a prompt. Provider adapters (openai,
// anthropic) implement it; tests stub it.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// CallLimiter enforces a maximum number of generation calls per explainer
// instance. If max == 0, unlimited calls are allowed.
type CallLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewCallLimiter creates a new limiter with a max number of calls.
func NewCallLimiter(max int) *CallLimiter {
	return &CallLimiter{max: max}
}

// Increment increases the call counter and returns an error if the limit is exceeded.
func (cl *CallLimiter) Increment() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.count++
	if cl.max > 0 && cl.count > cl.max {
		return fmt.Errorf("exceeded max generation calls: %d", cl.max)
	}

	return nil
}

// Count returns the current number of calls made.
func (cl *CallLimiter) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	return cl.count
}

// Remaining returns how many calls are left before hitting the limit,
// or -1 when unlimited.
func (cl *CallLimiter) Remaining() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.max == 0 {
		return -1
	}

	return cl.max - cl.count
}

// RetryPolicy is an explicit retry configuration for transient service
// failures: up to MaxAttempts calls with exponentially growing delays capped
// at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy mirrors the service client defaults: three attempts,
// one second base delay, ten second cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

// Do runs fn up to MaxAttempts times, sleeping between attempts and
// honoring context cancellation.
func (rp RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := rp.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := rp.BaseDelay

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if rp.MaxDelay > 0 && delay > rp.MaxDelay {
			delay = rp.MaxDelay
		}
	}
	return err
}

// Options configure an Explainer.
type Options struct {
	// MaxCalls bounds generation calls per explainer instance (0 = unlimited).
	MaxCalls int
	// Retry is the policy for transient generation failures.
	Retry RetryPolicy
	// Logger receives degradation diagnostics.
	Logger logging.Logger
}

// Explainer narrates scheduling results. A nil generator is valid and always
// yields the template fallback.
type Explainer struct {
	gen     Generator
	limiter *CallLimiter
	opts    Options
}

// NewExplainer creates an Explainer around a generator.
func NewExplainer(gen Generator, optFns ...func(o *Options)) *Explainer {
	opts := Options{
		MaxCalls: 10,
		Retry:    DefaultRetryPolicy(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Explainer{gen: gen, limiter: NewCallLimiter(opts.MaxCalls), opts: opts}
}

const systemPrompt = "You are a workforce scheduling assistant. Summarize rosters " +
	"for store managers in plain language: coverage, compliance issues, fairness, " +
	"and what needs a decision. Be concise and concrete."

// Explain produces a narrative for the result. It never fails the caller:
// when the service is unavailable, rate limited or unconfigured it returns
// the deterministic template summary instead.
func (e *Explainer) Explain(ctx context.Context, result *shiftmesh.Result) string {
	if e.gen == nil {
		return FallbackSummary(result)
	}
	if err := e.limiter.Increment(); err != nil {
		e.opts.Logger.Warn("explainer rate limited, using fallback", "error", err)
		return FallbackSummary(result)
	}

	var text string
	err := e.opts.Retry.Do(ctx, func() error {
		var genErr error
		text, genErr = e.gen.Generate(ctx, systemPrompt, buildPrompt(result))
		return genErr
	})
	if err != nil || strings.TrimSpace(text) == "" {
		e.opts.Logger.Warn("explanation generation failed, using fallback", "error", err)
		return FallbackSummary(result)
	}
	return text
}

// buildPrompt flattens the result into the generation prompt.
func buildPrompt(result *shiftmesh.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Store %s (%s), %s to %s.\n", result.StoreName, result.StoreID, result.ScheduleSummary.StartDate, result.ScheduleSummary.EndDate)
	fmt.Fprintf(&b, "%d assignments across %d employees, %.1f total hours.\n",
		result.ScheduleSummary.TotalAssignments, result.ScheduleSummary.UniqueEmployees, result.ScheduleSummary.TotalHours)
	fmt.Fprintf(&b, "Compliance score %.1f/100, compliant=%t, Gini %.3f.\n",
		result.Compliance.Score, result.Compliance.IsCompliant, result.Compliance.Fairness.GiniCoefficient)
	for _, v := range result.Compliance.Violations {
		fmt.Fprintf(&b, "Violation (%s): %s\n", v.Constraint, v.Description)
	}
	for _, w := range result.Compliance.Warnings {
		fmt.Fprintf(&b, "Warning (%s): %s\n", w.Constraint, w.Description)
	}
	for _, a := range result.Compliance.PendingApprovals {
		fmt.Fprintf(&b, "Needs manager decision: %s (%s)\n", a.Description, a.EscalationReason)
	}
	b.WriteString("Write a short roster summary for the store manager.")
	return b.String()
}

// FallbackSummary is the deterministic template narrative used whenever the
// generation service cannot be reached.
func FallbackSummary(result *shiftmesh.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Roster for %s, %s to %s: %d assignments covering %d employees (%.1f hours total).\n",
		result.StoreName, result.ScheduleSummary.StartDate, result.ScheduleSummary.EndDate,
		result.ScheduleSummary.TotalAssignments, result.ScheduleSummary.UniqueEmployees, result.ScheduleSummary.TotalHours)
	fmt.Fprintf(&b, "Compliance score is %.1f/100.", result.Compliance.Score)
	if result.Compliance.IsCompliant {
		b.WriteString(" The roster meets all hard labor rules.")
	} else {
		fmt.Fprintf(&b, " %d violation(s) remain open.", result.Compliance.ViolationCount)
	}
	if n := result.Compliance.WarningCount; n > 0 {
		fmt.Fprintf(&b, " %d warning(s) were noted, including coverage gaps if any.", n)
	}
	if n := len(result.Compliance.PendingApprovals); n > 0 {
		fmt.Fprintf(&b, " %d issue(s) await a manager decision.", n)
	}
	fmt.Fprintf(&b, " Hours fairness (Gini) is %.3f.", result.Compliance.Fairness.GiniCoefficient)
	if result.Error != "" {
		fmt.Fprintf(&b, " Note: the run ended degraded (%s); figures may be partial.", result.Error)
	}
	return b.String()
}
