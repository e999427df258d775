// Package joingraph memoizes join handles so that join paths sharing a
// prefix share the joins for that prefix.
//
// The graph is a trie stored as an arena: node 0 is the query root and
// every other node holds the join handle produced for one relationship
// step beneath its parent. Children are indexed by (parent node, step
// identity), so resolving a path is a sequence of get-or-insert lookups.
//
// A Graph is bound to a single query root and is not safe for concurrent
// use. New adopts the joins the root already holds, so compiling twice
// against the same root never requests a second join for the same step.
package joingraph

import (
	"fmt"

	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/schema"
)

// rootNode is the arena index of the query root.
const rootNode = 0

type edge struct {
	parent int    // Arena index of the parent node
	step   string // Relation ID
}

type node struct {
	from query.From
}

// Graph resolves join paths against one query root.
type Graph struct {
	nodes    []node
	children map[edge]int
}

// New creates a graph rooted at root, seeded with the joins already
// requested from root. Joins for a step that is already indexed are left
// out, along with everything beneath them.
func New(root *query.Root) *Graph {
	g := &Graph{
		nodes:    []node{{from: root}},
		children: make(map[edge]int),
	}

	index := map[query.From]int{root: rootNode}
	for _, j := range root.Joins() {
		parent, ok := index[j.Parent()]
		if !ok {
			continue
		}
		key := edge{parent: parent, step: j.Relation().ID()}
		if _, dup := g.children[key]; dup {
			continue
		}
		g.nodes = append(g.nodes, node{from: j})
		g.children[key] = len(g.nodes) - 1
		index[j] = len(g.nodes) - 1
	}
	return g
}

// Root returns the query root the graph is bound to.
func (g *Graph) Root() *query.Root {
	return g.nodes[rootNode].from.(*query.Root)
}

// Resolve returns the source owning the terminal attribute of path.
//
// An empty path resolves to the root without joining. Otherwise each step
// reuses the child node for (current node, step ID) when one exists and
// requests exactly one new join when it does not.
func (g *Graph) Resolve(path schema.JoinPath) (query.From, error) {
	current := rootNode
	for _, step := range path {
		key := edge{parent: current, step: step.ID()}
		if child, ok := g.children[key]; ok {
			current = child
			continue
		}

		join, err := g.nodes[current].from.Join(step)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		g.nodes = append(g.nodes, node{from: join})
		child := len(g.nodes) - 1
		g.children[key] = child
		current = child
	}
	return g.nodes[current].from, nil
}

// Len returns the number of join nodes, excluding the root.
func (g *Graph) Len() int {
	return len(g.nodes) - 1
}
