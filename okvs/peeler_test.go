//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"math/rand/v2"
	"testing"

	"github.com/markkurossi/okvs/prf"
	"github.com/stretchr/testify/require"
)

var peelerTests = []struct {
	name      string
	vertices  int
	edges     [][2]int
	singleton []int
	full      []int
}{
	{
		name:     "path",
		vertices: 3,
		edges:    [][2]int{{0, 1}, {1, 2}},
	},
	{
		name:      "triangle with pendant",
		vertices:  4,
		edges:     [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}},
		singleton: []int{0, 1, 2},
		full:      []int{0, 1, 2},
	},
	{
		name:      "double edge",
		vertices:  3,
		edges:     [][2]int{{0, 1}, {1, 0}, {1, 2}},
		singleton: []int{0, 1},
		full:      []int{0, 1},
	},
	{
		name:      "self-loop",
		vertices:  2,
		edges:     [][2]int{{1, 1}},
		singleton: []int{0},
	},
	{
		name:      "self-loop with tail",
		vertices:  3,
		edges:     [][2]int{{0, 1}, {1, 1}, {1, 2}},
		singleton: []int{1},
	},
	{
		name:      "self-loop in cycle",
		vertices:  3,
		edges:     [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 0}},
		singleton: []int{0, 1, 2, 3},
		full:      []int{0, 1, 2, 3},
	},
	{
		name:     "empty",
		vertices: 5,
	},
}

func TestPeelers(t *testing.T) {
	for _, test := range peelerTests {
		g := NewGraph(test.vertices, test.edges)

		stack, core := Singleton{}.Peel(g)
		require.Equal(t, test.singleton, core, "%s: singleton", test.name)
		require.Len(t, stack, len(test.edges)-len(core), test.name)
		verifyPeeling(t, g, stack, core)

		stack, core = FullTwoCore{}.Peel(g)
		require.Equal(t, test.full, core, "%s: full", test.name)
		require.Len(t, stack, len(test.edges)-len(core), test.name)
		verifyPeeling(t, g, stack, core)

		stack, core = NoPeeler{}.Peel(g)
		require.Empty(t, stack)
		require.Len(t, core, len(test.edges))
	}
}

func TestPeelersRandom(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 8))

	for i := 0; i < 100; i++ {
		vertices := 8 + rnd.IntN(200)
		n := rnd.IntN(vertices/2 + 1)
		edges := make([][2]int, n)
		for j := range edges {
			edges[j] = [2]int{rnd.IntN(vertices), rnd.IntN(vertices)}
		}
		g := NewGraph(vertices, edges)

		for _, peeler := range []Peeler{Singleton{}, FullTwoCore{}} {
			stack, core := peeler.Peel(g)
			require.Equal(t, n, len(stack)+len(core))
			verifyPeeling(t, g, stack, core)
		}
	}
}

func TestPeelersOracleGraph(t *testing.T) {
	const n = 2000
	lm := Lm(n, DefaultEpsilon)
	oracle := NewOracle(testKeys(t, "oracle graph"), lm,
		Rm(n, DefaultEpsilon, DefaultLambda))

	edges := make([][2]int, n)
	for i := range edges {
		d := prf.Sum(Uint64Key(i).Bytes())
		p0, p1 := oracle.Sparse(&d)
		require.NotEqual(t, p0, p1)
		edges[i] = [2]int{p0, p1}
	}
	g := NewGraph(lm, edges)

	// Without self-loops the full two-core peeler equals the singleton
	// peeler.
	stack, core := Singleton{}.Peel(g)
	fullStack, fullCore := FullTwoCore{}.Peel(g)
	require.Equal(t, stack, fullStack)
	require.Equal(t, core, fullCore)
	verifyPeeling(t, g, fullStack, fullCore)
}

// verifyPeeling checks that the removal stack can be assigned in
// reverse order after the core edges and that the core is a 2-core.
func verifyPeeling(t *testing.T, g *Graph, stack []Removal, core []int) {
	assigned := make([]bool, g.Vertices)
	degree := make([]int, g.Vertices)
	for _, e := range core {
		s, t := g.Edges[e][0], g.Edges[e][1]
		assigned[s] = true
		assigned[t] = true
		degree[s]++
		degree[t]++
	}
	for v, d := range degree {
		require.NotEqual(t, 1, d, "core vertex %d has degree 1", v)
	}
	seen := make(map[int]bool)
	for i := len(stack) - 1; i >= 0; i-- {
		r := stack[i]
		require.False(t, seen[r.Edge], "edge %d removed twice", r.Edge)
		seen[r.Edge] = true
		require.Equal(t, g.Edges[r.Edge], [2]int{r.Source, r.Target})

		if r.Source == r.Target {
			require.False(t, assigned[r.Source],
				"self-loop %d at assigned vertex", r.Edge)
		} else {
			require.False(t, assigned[r.Source] && assigned[r.Target],
				"edge %d has both endpoints assigned", r.Edge)
		}
		assigned[r.Source] = true
		assigned[r.Target] = true
	}
}

func TestGraph(t *testing.T) {
	g := NewGraph(4, [][2]int{{0, 1}, {1, 1}, {3, 1}})

	require.Equal(t, []int{0}, g.Incident(0))
	require.Equal(t, []int{0, 1, 2}, g.Incident(1))
	require.Empty(t, g.Incident(2))
	require.Equal(t, []int{2}, g.Incident(3))
	require.Equal(t, []int{1, 4, 0, 1}, g.Degrees())
	require.True(t, g.IsLoop(1))
	require.False(t, g.IsLoop(2))
}
