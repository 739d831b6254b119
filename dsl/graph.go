package dsl

import (
	"github.com/kbukum/pipekit/errors"
)

// Edge represents a dependency: To runs after From.
type Edge struct {
	From string
	To   string
}

// Edges derives the pipeline's dependency edges: references in each op's
// Inputs are joined against registered identities (references with an empty
// or unknown producing op are pipeline-level inputs and yield no edge), then
// unioned with the explicit After edges. The result is deduplicated and
// ordered by consuming op registration, data edges before After edges.
func (p *Pipeline) Edges() []Edge {
	seen := make(map[Edge]bool)
	var edges []Edge
	add := func(e Edge) {
		if e.From == e.To || seen[e] {
			return
		}
		seen[e] = true
		edges = append(edges, e)
	}

	for _, op := range p.ops {
		for _, in := range op.Inputs {
			if in.Op == "" || !p.usedIdentities[in.Op] {
				continue
			}
			add(Edge{From: in.Op, To: op.Identity})
		}
		for _, dep := range op.Dependencies {
			add(Edge{From: dep, To: op.Identity})
		}
	}
	return edges
}

// BuildLevels groups op identities by dependency level with Kahn's
// algorithm. Ops within the same level share no ordering constraint. Levels
// follow registration order within a level, so the output is deterministic.
// Returns an error if the derived graph contains a cycle.
func (p *Pipeline) BuildLevels() ([][]string, error) {
	inDegree := make(map[string]int, len(p.ops))
	dependents := make(map[string][]string)
	for _, op := range p.ops {
		inDegree[op.Identity] = 0
	}

	for _, e := range p.Edges() {
		if _, ok := inDegree[e.From]; !ok {
			return nil, errors.NotFound("op", e.From).WithDetail("edge_to", e.To)
		}
		inDegree[e.To]++
		dependents[e.From] = append(dependents[e.From], e.To)
	}

	var queue []string
	for _, op := range p.ops {
		if inDegree[op.Identity] == 0 {
			queue = append(queue, op.Identity)
		}
	}

	order := make(map[string]int, len(p.ops))
	for i, op := range p.ops {
		order[op.Identity] = i
	}

	var levels [][]string
	visited := 0

	for len(queue) > 0 {
		levels = append(levels, queue)
		visited += len(queue)

		var next []string
		for _, name := range queue {
			for _, dep := range dependents[name] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = insertByOrder(next, dep, order)
				}
			}
		}
		queue = next
	}

	if visited != len(p.ops) {
		return nil, errors.CycleDetected(visited, len(p.ops))
	}

	return levels, nil
}

// insertByOrder keeps next sorted by registration order.
func insertByOrder(next []string, name string, order map[string]int) []string {
	i := len(next)
	for i > 0 && order[next[i-1]] > order[name] {
		i--
	}
	next = append(next, "")
	copy(next[i+1:], next[i:])
	next[i] = name
	return next
}
