// internal/oracle/oracle.go
// The semantic oracle judges whether a matched candidate is a feasible
// null-dereference. The oracle is fully untrusted: malformed or missing
// replies degrade to a safe "not a bug" verdict instead of failing the run.
package oracle

import (
	"context"

	"github.com/xkilldash9x/nullpath-cli/internal/analysis/npd"
	"github.com/xkilldash9x/nullpath-cli/internal/findings"
)

// Verdict is the oracle's judgement on one candidate.
type Verdict struct {
	// FlowExists reports whether any execution path reaches the sink with
	// the variable still None.
	FlowExists bool
	// IsConfirmedBug reports whether that path is a real, unguarded bug.
	IsConfirmedBug bool
	Severity       findings.Severity

	TriggerCondition string
	PathDescription  string
	Rationale        string

	// Err carries the failure detail when the verdict was degraded because
	// the oracle was unreachable or replied with garbage. Empty on a clean
	// verdict.
	Err string
}

// Client is the single capability the pipeline needs from the oracle. The
// network-backed Gateway and deterministic test stubs are interchangeable
// behind it.
type Client interface {
	// Verify judges one candidate. It never fails: any transport or
	// protocol problem collapses into a degraded default Verdict.
	Verify(ctx context.Context, cand npd.Candidate) Verdict
}

// degradedVerdict is the safe default returned when the oracle cannot be
// trusted: no flow, no bug, lowest severity, annotated with the reason.
func degradedVerdict(detail string) Verdict {
	return Verdict{
		FlowExists:     false,
		IsConfirmedBug: false,
		Severity:       findings.SeverityLow,
		Err:            detail,
	}
}
