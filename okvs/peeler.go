//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

// Removal records one peeled edge and its endpoints.
type Removal struct {
	Edge   int
	Source int
	Target int
}

// Peeler finds the 2-core of a cuckoo graph. Peel returns the removal
// stack in peeling order and the indices of the edges that could not
// be peeled, in ascending order. Assigning the removed edges in
// reverse order must always find at least one unassigned endpoint.
type Peeler interface {
	Peel(g *Graph) (stack []Removal, core []int)
}

// NewPeeler creates a peeler of the argument kind.
func NewPeeler(kind PeelerKind) Peeler {
	switch kind {
	case PeelerSingleton:
		return Singleton{}
	case PeelerNone:
		return NoPeeler{}
	default:
		return FullTwoCore{}
	}
}

// Singleton peels degree-1 vertices until none remain. Self-loops
// count twice towards their vertex degree and are never peeled.
type Singleton struct{}

// Peel implements Peeler.Peel.
func (Singleton) Peel(g *Graph) ([]Removal, []int) {
	p := newPeeling(g)
	p.pendants()
	return p.stack, p.core()
}

// FullTwoCore peels like Singleton and then resolves cycles of length
// one: a vertex whose only remaining edge is a self-loop is peeled,
// since the loop determines that cell alone. The Oracle never maps a
// key to equal sparse positions, so on graphs built by Encode the
// result equals Singleton's; the extra pass applies to graphs with
// injected self-loops.
type FullTwoCore struct{}

// Peel implements Peeler.Peel.
func (FullTwoCore) Peel(g *Graph) ([]Removal, []int) {
	p := newPeeling(g)
	p.pendants()
	p.loops()
	return p.stack, p.core()
}

// NoPeeler does not peel anything; all edges belong to the core.
type NoPeeler struct{}

// Peel implements Peeler.Peel.
func (NoPeeler) Peel(g *Graph) ([]Removal, []int) {
	core := make([]int, len(g.Edges))
	for i := range core {
		core[i] = i
	}
	return nil, core
}

type peeling struct {
	g       *Graph
	degree  []int
	removed []bool
	stack   []Removal
}

func newPeeling(g *Graph) *peeling {
	return &peeling{
		g:       g,
		degree:  g.Degrees(),
		removed: make([]bool, len(g.Edges)),
	}
}

// live returns the first unremoved edge incident to v.
func (p *peeling) live(v int) int {
	for _, e := range p.g.Incident(v) {
		if !p.removed[e] {
			return e
		}
	}
	return -1
}

func (p *peeling) remove(e int) {
	s, t := p.g.Edges[e][0], p.g.Edges[e][1]
	p.removed[e] = true
	p.degree[s]--
	p.degree[t]--
	p.stack = append(p.stack, Removal{
		Edge:   e,
		Source: s,
		Target: t,
	})
}

func (p *peeling) pendants() {
	var queue []int
	for v, d := range p.degree {
		if d == 1 {
			queue = append(queue, v)
		}
	}
	for head := 0; head < len(queue); head++ {
		v := queue[head]
		if p.degree[v] != 1 {
			continue
		}
		e := p.live(v)
		if e < 0 {
			assertionf("vertex %d has degree 1 but no live edges", v)
		}
		p.remove(e)

		other := p.g.Edges[e][0]
		if other == v {
			other = p.g.Edges[e][1]
		}
		if p.degree[other] == 1 {
			queue = append(queue, other)
		}
	}
}

func (p *peeling) loops() {
	for v, d := range p.degree {
		if d != 2 {
			continue
		}
		e := p.live(v)
		if e >= 0 && p.g.IsLoop(e) {
			p.remove(e)
		}
	}
}

func (p *peeling) core() []int {
	var core []int
	for e, removed := range p.removed {
		if !removed {
			core = append(core, e)
		}
	}
	return core
}
