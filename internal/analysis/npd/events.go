// Filename: npd/events.go
// Event and candidate types for the null-dereference source/sink analysis.
package npd

import "github.com/xkilldash9x/nullpath-cli/internal/analysis/pytree"

// SourceEvent is a point where a variable is bound to the None sentinel.
type SourceEvent struct {
	Variable string
	Line     int
}

// SinkEvent is a point where an attribute of a variable is accessed, which is
// hazardous if the variable still holds None. At most one event exists per
// (variable, line) pair.
type SinkEvent struct {
	Variable string
	Line     int
}

// Candidate is a syntactically plausible flow from a sentinel assignment to a
// later attribute access on the same variable. SourceLine < SinkLine always
// holds; whether the flow is actually feasible is the oracle's call.
type Candidate struct {
	Variable   string
	SourceLine int
	SinkLine   int
	Function   pytree.FunctionUnit
}
