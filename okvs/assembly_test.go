//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/okvs/gf2"
	"github.com/markkurossi/okvs/prf"
	"github.com/stretchr/testify/require"
)

// evaluate computes the decode equation of the entry from the
// assembled cells. Equal sparse positions count once.
func evaluate(a *assembly, ent *entry) []byte {
	v := append([]byte(nil), a.cell(ent.p0)...)
	if ent.p1 != ent.p0 {
		gf2.Xor(v, a.cell(ent.p1))
	}
	a.dense(ent.mask, v)
	return v
}

func testEntries(seed string, rm int, edges [][2]int) []*entry {
	r := prf.NewReader([]byte(seed))
	entries := make([]*entry, len(edges))
	for i, e := range edges {
		mask := bitset.New(uint(rm))
		for j := 0; j < rm; j++ {
			if randomValue(r, 1)[0] != 0 {
				mask.Set(uint(j))
			}
		}
		entries[i] = &entry{
			p0:    e[0],
			p1:    e[1],
			mask:  mask,
			value: randomValue(r, 16),
		}
	}
	return entries
}

func TestAssemblySelfLoops(t *testing.T) {
	const lm = 8
	const rm = 16

	edges := [][2]int{
		{0, 1}, {1, 1}, {1, 2}, // loop with tails
		{3, 4}, {4, 5}, {5, 3}, // triangle
		{6, 6}, // lone loop
	}
	for _, peeler := range []Peeler{Singleton{}, FullTwoCore{}} {
		entries := testEntries("loops", rm, edges)
		stack, core := peeler.Peel(NewGraph(lm, edges))

		a := newAssembly(lm, rm, 2, 0xff, prf.NewReader([]byte("loops")))
		require.NoError(t, a.solveDense(entries, core))
		require.NoError(t, a.backSubstitute(entries, stack))
		storage := a.finish()
		require.Equal(t, lm+rm, storage.M())

		for i, ent := range entries {
			require.Equal(t, ent.value, evaluate(a, ent),
				"%T: entry %d", peeler, i)
		}
	}
}

func TestAssemblyPartialByte(t *testing.T) {
	a := newAssembly(8, 8, 2, 0x07, prf.NewReader([]byte("mask")))
	for i := 0; i < 16; i++ {
		require.NoError(t, a.random(i))
		require.Zero(t, a.cell(i)[1]&^0x07)
	}
	a.finish()
}

func requireAssertion(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, errors.IsAssertionFailure(err), "%v", err)
	}()
	f()
}

func TestAssemblyAssertions(t *testing.T) {
	rand := prf.NewReader([]byte("assert"))

	// Both endpoints assigned before the edge is processed.
	entries := testEntries("assert", 8, [][2]int{{0, 1}})
	a := newAssembly(8, 8, 2, 0xff, rand)
	require.NoError(t, a.solveDense(nil, nil))
	a.random(0)
	a.random(1)
	requireAssertion(t, func() {
		a.backSubstitute(entries, []Removal{{Edge: 0, Source: 0, Target: 1}})
	})

	// Self-loop at an assigned cell.
	entries = testEntries("assert", 8, [][2]int{{2, 2}})
	a = newAssembly(8, 8, 2, 0xff, rand)
	require.NoError(t, a.solveDense(nil, nil))
	a.random(2)
	requireAssertion(t, func() {
		a.backSubstitute(entries, []Removal{{Edge: 0, Source: 2, Target: 2}})
	})

	// Unassigned cells.
	a = newAssembly(8, 8, 2, 0xff, rand)
	requireAssertion(t, func() {
		a.finish()
	})

	// Double assignment.
	requireAssertion(t, func() {
		a.random(3)
		a.random(3)
	})
}

func TestSolveDenseTooLarge(t *testing.T) {
	edges := make([][2]int, 9)
	for i := range edges {
		edges[i] = [2]int{i, i + 1}
	}
	entries := testEntries("large", 8, edges)
	core := make([]int, len(edges))
	for i := range core {
		core[i] = i
	}
	a := newAssembly(16, 8, 2, 0xff, prf.NewReader([]byte("large")))
	err := a.solveDense(entries, core)
	require.True(t, errors.Is(err, ErrConstruction))
}

func TestSolveDenseRankDeficient(t *testing.T) {
	entries := testEntries("rank", 8, [][2]int{{0, 1}, {2, 3}})
	entries[1].mask = entries[0].mask.Clone()

	a := newAssembly(8, 8, 2, 0xff, prf.NewReader([]byte("rank")))
	err := a.solveDense(entries, []int{0, 1})
	require.True(t, errors.Is(err, ErrConstruction))
	require.False(t, errors.IsAssertionFailure(err))
}
