//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package gf2 implements linear algebra over GF(2) for matrices whose
// rows are bit vectors. Right-hand sides and solutions are byte
// strings where addition is XOR; solving such a system is equivalent
// to solving one GF(2) system per bit position, which makes the
// package usable for GF(2^l) vectors under the GF(2)-linear
// structure.
package gf2

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/errors"
)

// ErrSingular is returned when a square system has no unique
// solution.
var ErrSingular = errors.New("gf2: singular matrix")

// Xor sets dst to dst^src. The slices must have equal length.
func Xor(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func cloneRows(rows []*bitset.BitSet) []*bitset.BitSet {
	result := make([]*bitset.BitSet, len(rows))
	for i, row := range rows {
		result[i] = row.Clone()
	}
	return result
}

// IndependentColumns finds a maximal linearly independent subset of
// the columns of the matrix. The matrix has len(rows) rows and cols
// columns. The function returns the selected column indices in
// ascending order. The number of selected columns is the rank of the
// matrix. If the rank equals len(rows), the square submatrix on the
// selected columns is invertible.
func IndependentColumns(rows []*bitset.BitSet, cols int) []int {
	work := cloneRows(rows)

	var pivots []int
	rank := 0
	for c := 0; c < cols && rank < len(work); c++ {
		p := -1
		for r := rank; r < len(work); r++ {
			if work[r].Test(uint(c)) {
				p = r
				break
			}
		}
		if p < 0 {
			continue
		}
		work[rank], work[p] = work[p], work[rank]
		for r := rank + 1; r < len(work); r++ {
			if work[r].Test(uint(c)) {
				work[r].InPlaceSymmetricDifference(work[rank])
			}
		}
		pivots = append(pivots, c)
		rank++
	}
	return pivots
}

// Rank returns the rank of the matrix.
func Rank(rows []*bitset.BitSet, cols int) int {
	return len(IndependentColumns(rows, cols))
}

// Restrict returns the row restricted to the argument columns: bit j
// of the result is bit cols[j] of row.
func Restrict(row *bitset.BitSet, cols []int) *bitset.BitSet {
	result := bitset.New(uint(len(cols)))
	for j, c := range cols {
		if row.Test(uint(c)) {
			result.Set(uint(j))
		}
	}
	return result
}

// Solve solves the square system A·x = b where A has the argument
// rows. Bit j of row i is the coefficient of x[j] in equation i. All
// b values must have the same length. The input is not modified.
func Solve(rows []*bitset.BitSet, b [][]byte) ([][]byte, error) {
	n := len(rows)
	if len(b) != n {
		return nil, errors.Newf("gf2: %d rows but %d right-hand sides",
			n, len(b))
	}
	a := cloneRows(rows)
	x := make([][]byte, n)
	for i, v := range b {
		x[i] = append([]byte(nil), v...)
	}

	for c := 0; c < n; c++ {
		p := -1
		for r := c; r < n; r++ {
			if a[r].Test(uint(c)) {
				p = r
				break
			}
		}
		if p < 0 {
			return nil, errors.Wrapf(ErrSingular, "column %d", c)
		}
		a[c], a[p] = a[p], a[c]
		x[c], x[p] = x[p], x[c]

		for r := 0; r < n; r++ {
			if r != c && a[r].Test(uint(c)) {
				a[r].InPlaceSymmetricDifference(a[c])
				Xor(x[r], x[c])
			}
		}
	}
	return x, nil
}

// Mul computes the product A·x where A has the argument rows and x
// has one byte string per column. The result has one byte string of
// size len(x[0]) per row.
func Mul(rows []*bitset.BitSet, x [][]byte) [][]byte {
	var size int
	if len(x) > 0 {
		size = len(x[0])
	}
	result := make([][]byte, len(rows))
	for i, row := range rows {
		result[i] = make([]byte, size)
		for j, ok := row.NextSet(0); ok && int(j) < len(x); j, ok =
			row.NextSet(j + 1) {
			Xor(result[i], x[j])
		}
	}
	return result
}
