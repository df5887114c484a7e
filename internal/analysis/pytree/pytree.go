// Filename: pytree/pytree.go
// Thin adapter over the Tree-sitter Python grammar. It owns the parsed tree
// and hands out non-owning function handles into it.
package pytree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrParse marks a file whose source could not be turned into a usable tree.
// Callers skip the file and continue with the rest of the run.
var ErrParse = errors.New("failed to parse python source")

// Tree owns a parsed Tree-sitter tree together with the source bytes it was
// built from. Any FunctionUnit obtained from it is invalidated by Close.
type Tree struct {
	tree   *sitter.Tree
	source []byte
	lines  []string
}

// FunctionUnit is a non-owning handle to one function definition inside a
// Tree. It stays valid only while the owning Tree has not been closed.
type FunctionUnit struct {
	Name      string
	StartLine int
	EndLine   int
	// Body is the function's full source text, complete lines from
	// StartLine through EndLine.
	Body string

	node   *sitter.Node
	source []byte
}

// Node exposes the underlying syntax node for traversal by the extractor.
func (f FunctionUnit) Node() *sitter.Node {
	return f.node
}

// Source returns the file's source bytes, needed to decode node content.
func (f FunctionUnit) Source() []byte {
	return f.source
}

// Parse turns raw file bytes into a Tree. A source that produces no usable
// root node is rejected with ErrParse.
func Parse(source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := tree.RootNode()
	if root == nil || root.Type() == "ERROR" {
		tree.Close()
		return nil, fmt.Errorf("%w: source is not valid python", ErrParse)
	}

	return &Tree{
		tree:   tree,
		source: source,
		lines:  strings.Split(string(source), "\n"),
	}, nil
}

// HasSyntaxErrors reports whether the parsed tree contains error nodes.
// Extraction still works on such trees, but results may be incomplete.
func (t *Tree) HasSyntaxErrors() bool {
	return t.tree.RootNode().HasError()
}

// Functions enumerates every function definition in the tree, at any nesting
// depth. Each function_definition node yields exactly one unit, named by the
// first identifier child found on it.
func (t *Tree) Functions() []FunctionUnit {
	var units []FunctionUnit

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node.Type() == "function_definition" {
			if unit, ok := t.functionUnit(node); ok {
				units = append(units, unit)
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	visit(t.tree.RootNode())

	return units
}

// functionUnit builds the unit for one function_definition node. A definition
// without an identifier child (possible in badly broken source) is skipped.
func (t *Tree) functionUnit(node *sitter.Node) (FunctionUnit, bool) {
	start := int(node.StartPoint().Row)
	end := int(node.EndPoint().Row)
	if end >= len(t.lines) {
		end = len(t.lines) - 1
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return FunctionUnit{
				Name:      child.Content(t.source),
				StartLine: start + 1,
				EndLine:   end + 1,
				Body:      strings.Join(t.lines[start:end+1], "\n"),
				node:      node,
				source:    t.source,
			}, true
		}
	}
	return FunctionUnit{}, false
}

// Close releases the underlying tree. All FunctionUnits handed out by this
// Tree become invalid.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}
