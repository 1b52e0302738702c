//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/markkurossi/okvs/gf2"
)

// assembly holds the storage under construction. Every cell is
// assigned exactly once; the assigned bitset tracks which cells hold
// their final value.
type assembly struct {
	lm       int
	rm       int
	byteL    int
	lastMask byte
	data     []byte
	assigned *bitset.BitSet
	rand     io.Reader
}

func newAssembly(lm, rm, byteL int, lastMask byte, rand io.Reader) *assembly {
	m := lm + rm
	return &assembly{
		lm:       lm,
		rm:       rm,
		byteL:    byteL,
		lastMask: lastMask,
		data:     make([]byte, m*byteL),
		assigned: bitset.New(uint(m)),
		rand:     rand,
	}
}

func (a *assembly) cell(i int) []byte {
	return a.data[i*a.byteL : (i+1)*a.byteL]
}

func (a *assembly) isSet(i int) bool {
	return a.assigned.Test(uint(i))
}

func (a *assembly) set(i int, v []byte) {
	if a.isSet(i) {
		assertionf("cell %d assigned twice", i)
	}
	copy(a.cell(i), v)
	a.assigned.Set(uint(i))
}

// random assigns a fresh random value for the cell.
func (a *assembly) random(i int) error {
	if a.isSet(i) {
		assertionf("cell %d assigned twice", i)
	}
	c := a.cell(i)
	if _, err := io.ReadFull(a.rand, c); err != nil {
		return err
	}
	c[len(c)-1] &= a.lastMask
	a.assigned.Set(uint(i))
	return nil
}

// randomIfUnset assigns a fresh random value for the cell if it is
// not yet assigned.
func (a *assembly) randomIfUnset(i int) error {
	if a.isSet(i) {
		return nil
	}
	return a.random(i)
}

// dense XORs the dense cells selected by mask into out.
func (a *assembly) dense(mask *bitset.BitSet, out []byte) {
	for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
		gf2.Xor(out, a.cell(a.lm+int(i)))
	}
}

// finish returns the assembled storage. All cells must be assigned.
func (a *assembly) finish() *Storage {
	if !a.assigned.All() {
		assertionf("%d of %d cells unassigned",
			a.lm+a.rm-int(a.assigned.Count()), a.lm+a.rm)
	}
	return &Storage{
		Lm:    a.lm,
		Rm:    a.rm,
		ByteL: a.byteL,
		Data:  a.data,
	}
}

// backSubstitute assigns the sparse cells of the peeled entries. The
// stack is processed in reverse peeling order; the dense cells must
// be final.
func (a *assembly) backSubstitute(entries []*entry, stack []Removal) error {
	target := make([]byte, a.byteL)

	for i := len(stack) - 1; i >= 0; i-- {
		r := stack[i]
		ent := entries[r.Edge]

		copy(target, ent.value)
		a.dense(ent.mask, target)

		s, t := r.Source, r.Target
		if s == t {
			if a.isSet(s) {
				assertionf("self-loop cell %d already assigned", s)
			}
			a.set(s, target)
			continue
		}
		sSet := a.isSet(s)
		tSet := a.isSet(t)
		switch {
		case !sSet && !tSet:
			if err := a.random(s); err != nil {
				return err
			}
			gf2.Xor(target, a.cell(s))
			a.set(t, target)

		case sSet && !tSet:
			gf2.Xor(target, a.cell(s))
			a.set(t, target)

		case !sSet && tSet:
			gf2.Xor(target, a.cell(t))
			a.set(s, target)

		default:
			assertionf("both endpoints %d and %d of edge %d assigned",
				s, t, r.Edge)
		}
	}

	for i := 0; i < a.lm; i++ {
		if err := a.randomIfUnset(i); err != nil {
			return err
		}
	}
	return nil
}
