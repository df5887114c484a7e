// Filename: npd/extract.go
// Pre-order extraction of sentinel assignments (sources) and attribute
// accesses (sinks) from a single function's subtree. Purely syntactic: no
// type information, scoping, or control flow is consulted.
package npd

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/nullpath-cli/internal/analysis/pytree"
)

// SentinelAssignments collects every `x = None` style assignment in the
// function, at any nesting depth. Only plain identifier targets count:
// member paths, subscripts and augmented assignments are deliberately not
// recognized, trading recall for a low false-positive rate.
func SentinelAssignments(fn pytree.FunctionUnit) []SourceEvent {
	var events []SourceEvent
	source := fn.Source()

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node.Type() == "assignment" {
			hasNone := false
			var target *sitter.Node

			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				switch child.Type() {
				case "none":
					hasNone = true
				case "identifier":
					if target == nil {
						target = child
					}
				}
			}

			if hasNone && target != nil {
				events = append(events, SourceEvent{
					Variable: target.Content(source),
					Line:     int(target.StartPoint().Row) + 1,
				})
			}
		}

		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	visit(fn.Node())

	return events
}

// HazardousAccesses collects every attribute access base in the function.
// For each attribute node the first identifier child is taken as the base
// and child scanning stops there; the outer traversal still descends so
// chained accesses surface their root identifier too. Duplicate accesses to
// the same variable on the same line are suppressed while extracting.
func HazardousAccesses(fn pytree.FunctionUnit) []SinkEvent {
	var events []SinkEvent
	seen := make(map[SinkEvent]struct{})
	source := fn.Source()

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node.Type() == "attribute" {
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				if child.Type() == "identifier" {
					event := SinkEvent{
						Variable: child.Content(source),
						Line:     int(child.StartPoint().Row) + 1,
					}
					if _, dup := seen[event]; !dup {
						seen[event] = struct{}{}
						events = append(events, event)
					}
					break
				}
			}
		}

		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	visit(fn.Node())

	return events
}
