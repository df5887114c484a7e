// Filename: npd/match.go
package npd

import "github.com/xkilldash9x/nullpath-cli/internal/analysis/pytree"

// Match pairs source and sink events into verification candidates. Every
// (source, sink) pair on the same variable with the source strictly before
// the sink yields one candidate. This is a full cross product, not a
// nearest-match heuristic: the matcher over-approximates on purpose and the
// oracle recovers precision downstream. Equal lines never pair.
func Match(sources []SourceEvent, sinks []SinkEvent, fn pytree.FunctionUnit) []Candidate {
	if len(sources) == 0 || len(sinks) == 0 {
		return nil
	}

	var candidates []Candidate
	for _, src := range sources {
		for _, sink := range sinks {
			if src.Variable == sink.Variable && src.Line < sink.Line {
				candidates = append(candidates, Candidate{
					Variable:   src.Variable,
					SourceLine: src.Line,
					SinkLine:   sink.Line,
					Function:   fn,
				})
			}
		}
	}
	return candidates
}
