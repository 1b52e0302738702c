//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/okvs/gf2"
)

// solveDense assigns all dense cells and the sparse cells of the core
// entries so that every core entry decodes to its value. Core masks
// with rank below the core size are reported as ErrConstruction and
// not as an assertion failure: random masks are linearly dependent
// with probability about 2^(d-rm) and new PRF keys resolve it.
func (a *assembly) solveDense(entries []*entry, core []int) error {
	d := len(core)
	if d == 0 {
		for i := 0; i < a.rm; i++ {
			if err := a.random(a.lm + i); err != nil {
				return err
			}
		}
		return nil
	}
	if d > a.rm {
		return constructionErrorf("2-core size %d exceeds dense size %d",
			d, a.rm)
	}

	rows := make([]*bitset.BitSet, d)
	for i, e := range core {
		rows[i] = entries[e].mask
	}
	cols := gf2.IndependentColumns(rows, a.rm)
	if len(cols) < d {
		return constructionErrorf("2-core masks have rank %d < %d",
			len(cols), d)
	}

	// Free dense columns and core sparse cells get random values.
	selected := bitset.New(uint(a.rm))
	for _, c := range cols {
		selected.Set(uint(c))
	}
	for i := 0; i < a.rm; i++ {
		if !selected.Test(uint(i)) {
			if err := a.random(a.lm + i); err != nil {
				return err
			}
		}
	}
	for _, e := range core {
		ent := entries[e]
		if err := a.randomIfUnset(ent.p0); err != nil {
			return err
		}
		if err := a.randomIfUnset(ent.p1); err != nil {
			return err
		}
	}

	// The right-hand side is the value minus the already assigned
	// terms of the equation.
	square := make([]*bitset.BitSet, d)
	rhs := make([][]byte, d)
	for i, e := range core {
		ent := entries[e]

		v := make([]byte, a.byteL)
		copy(v, ent.value)
		gf2.Xor(v, a.cell(ent.p0))
		if ent.p1 != ent.p0 {
			gf2.Xor(v, a.cell(ent.p1))
		}
		free := ent.mask.Difference(selected)
		a.dense(free, v)

		rhs[i] = v
		square[i] = gf2.Restrict(ent.mask, cols)
	}

	x, err := gf2.Solve(square, rhs)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "okvs: dense system"),
			ErrConstruction)
	}
	for j, c := range cols {
		a.set(a.lm+c, x[j])
	}
	return nil
}
