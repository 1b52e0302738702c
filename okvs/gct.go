//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/markkurossi/okvs/env"
	"github.com/markkurossi/okvs/gf2"
	"github.com/markkurossi/okvs/prf"
	"github.com/sirupsen/logrus"
)

// parallelThreshold is the minimum number of keys for deriving
// positions with multiple workers.
const parallelThreshold = 4096

// GCT implements the garbled cuckoo table OKVS for keys of type K.
// The encoding and decoding operations are safe for concurrent use;
// each Encode call uses its own working state. If the configuration
// has a timing, Encode records its phases there and concurrent Encode
// calls must use separate configurations.
type GCT[K Key] struct {
	cfg      *env.Config
	params   Params
	n        int
	lm       int
	rm       int
	byteL    int
	lastMask byte
	keys     Keys
	oracle   *Oracle
	peeler   Peeler
}

type entry struct {
	digest prf.Digest
	p0     int
	p1     int
	mask   *bitset.BitSet
	value  []byte
}

// New creates a new GCT for encoding at most n key-value pairs with
// the parameters and PRF keys. The cfg may be nil in which case the
// default configuration is used.
func New[K Key](cfg *env.Config, params Params, n int, keys Keys) (
	*GCT[K], error) {

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, parameterErrorf("invalid number of keys %d", n)
	}
	lm := Lm(n, params.Epsilon)
	rm := Rm(n, params.Epsilon, params.Lambda)

	lastMask := byte(0xff)
	if params.L%8 != 0 {
		lastMask = byte(1<<(params.L%8)) - 1
	}

	return &GCT[K]{
		cfg:      cfg,
		params:   params,
		n:        n,
		lm:       lm,
		rm:       rm,
		byteL:    params.ByteL(),
		lastMask: lastMask,
		keys:     keys,
		oracle:   NewOracle(keys, lm, rm),
		peeler:   NewPeeler(params.Peeler),
	}, nil
}

// SetPeeler overrides the peeler selected by the parameters.
func (gct *GCT[K]) SetPeeler(peeler Peeler) {
	gct.peeler = peeler
}

// Params returns the OKVS parameters.
func (gct *GCT[K]) Params() Params {
	return gct.params
}

// Keys returns the PRF keys.
func (gct *GCT[K]) Keys() Keys {
	return gct.keys
}

// N returns the maximum number of key-value pairs.
func (gct *GCT[K]) N() int {
	return gct.n
}

// M returns the storage size in cells.
func (gct *GCT[K]) M() int {
	return gct.lm + gct.rm
}

// Lm returns the sparse storage size in cells.
func (gct *GCT[K]) Lm() int {
	return gct.lm
}

// Rm returns the dense storage size in cells.
func (gct *GCT[K]) Rm() int {
	return gct.rm
}

// ByteL returns the cell size in bytes.
func (gct *GCT[K]) ByteL() int {
	return gct.byteL
}

// SparsePositions returns the sparse positions of the key.
func (gct *GCT[K]) SparsePositions(key K) (int, int) {
	d := prf.Sum(key.Bytes())
	return gct.oracle.Sparse(&d)
}

// DensePositions returns the dense mask of the key. Bit i of the mask
// selects the storage cell Lm()+i.
func (gct *GCT[K]) DensePositions(key K) *bitset.BitSet {
	d := prf.Sum(key.Bytes())
	return gct.oracle.Dense(&d)
}

func (gct *GCT[K]) sample(label string, cols ...string) {
	if t := gct.cfg.GetTiming(); t != nil {
		t.Sample(label, cols...)
	}
}

// Encode encodes the key-value pairs into a new storage. The map must
// hold between 1 and N() pairs and all values must be ByteL() bytes
// long with the bits above L zero. The function
// returns an error marked with ErrConstruction if the construction
// fails for the current PRF keys.
func (gct *GCT[K]) Encode(ctx context.Context, kv map[K][]byte) (
	*Storage, error) {

	if len(kv) == 0 {
		return nil, parameterErrorf("no key-value pairs")
	}
	if len(kv) > gct.n {
		return nil, parameterErrorf("%d pairs exceed capacity %d",
			len(kv), gct.n)
	}
	entries, err := gct.entries(kv)
	if err != nil {
		return nil, err
	}
	if err := gct.positions(ctx, entries); err != nil {
		return nil, err
	}
	gct.sample("Positions", fmt.Sprintf("n=%d", len(entries)))

	edges := make([][2]int, len(entries))
	for i, ent := range entries {
		edges[i] = [2]int{ent.p0, ent.p1}
	}
	stack, core := gct.peeler.Peel(NewGraph(gct.lm, edges))
	gct.sample("Peel", fmt.Sprintf("core=%d", len(core)))

	gct.cfg.GetLog().WithFields(logrus.Fields{
		"n":    len(entries),
		"lm":   gct.lm,
		"rm":   gct.rm,
		"core": len(core),
	}).Debug("okvs: peeled cuckoo graph")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	asm := newAssembly(gct.lm, gct.rm, gct.byteL, gct.lastMask,
		gct.cfg.GetRandom())
	if err := asm.solveDense(entries, core); err != nil {
		return nil, err
	}
	gct.sample("Solve", fmt.Sprintf("d=%d", len(core)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := asm.backSubstitute(entries, stack); err != nil {
		return nil, err
	}
	storage := asm.finish()
	gct.sample("Assemble", fmt.Sprintf("m=%d", storage.M()))

	return storage, nil
}

// entries validates the pairs and returns them sorted by key digest.
func (gct *GCT[K]) entries(kv map[K][]byte) ([]*entry, error) {
	entries := make([]*entry, 0, len(kv))
	for k, v := range kv {
		if len(v) != gct.byteL {
			return nil, parameterErrorf("value length %d, expected %d",
				len(v), gct.byteL)
		}
		if v[len(v)-1]&^gct.lastMask != 0 {
			return nil, parameterErrorf("value %x exceeds %d bits",
				v, gct.params.L)
		}
		entries = append(entries, &entry{
			digest: prf.Sum(k.Bytes()),
			value:  v,
		})
	}
	slices.SortFunc(entries, func(a, b *entry) int {
		return bytes.Compare(a.digest[:], b.digest[:])
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].digest == entries[i-1].digest {
			return nil, parameterErrorf("keys with equal encodings")
		}
	}
	return entries, nil
}

func (gct *GCT[K]) positions(ctx context.Context, entries []*entry) error {
	derive := func(from, to int) error {
		for _, ent := range entries[from:to] {
			ent.p0, ent.p1 = gct.oracle.Sparse(&ent.digest)
			ent.mask = gct.oracle.Dense(&ent.digest)
		}
		return nil
	}
	workers := gct.cfg.GetWorkers()
	if len(entries) < parallelThreshold || workers == 1 {
		return derive(0, len(entries))
	}
	return parallel(ctx, workers, len(entries), derive)
}

func (gct *GCT[K]) check(s *Storage) error {
	if s == nil {
		return parameterErrorf("nil storage")
	}
	if s.Lm != gct.lm || s.Rm != gct.rm || s.ByteL != gct.byteL {
		return parameterErrorf("storage geometry %d+%d/%d, expected %d+%d/%d",
			s.Lm, s.Rm, s.ByteL, gct.lm, gct.rm, gct.byteL)
	}
	if len(s.Data) != s.M()*s.ByteL {
		return parameterErrorf("storage data length %d, expected %d",
			len(s.Data), s.M()*s.ByteL)
	}
	return nil
}

// Decode decodes the value of the key from the storage. If the key
// was not encoded into the storage, the function returns a
// pseudorandom value. The function fails only if the storage was not
// created with this GCT's parameters.
func (gct *GCT[K]) Decode(s *Storage, key K) ([]byte, error) {
	if err := gct.check(s); err != nil {
		return nil, err
	}
	d := prf.Sum(key.Bytes())
	return gct.decode(s, &d), nil
}

func (gct *GCT[K]) decode(s *Storage, d *prf.Digest) []byte {
	p0, p1 := gct.oracle.Sparse(d)
	mask := gct.oracle.Dense(d)

	result := make([]byte, gct.byteL)
	copy(result, s.Cell(p0))
	if p1 != p0 {
		gf2.Xor(result, s.Cell(p1))
	}
	for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
		gf2.Xor(result, s.Cell(gct.lm+int(i)))
	}
	result[len(result)-1] &= gct.lastMask

	return result
}

// DecodeBatch decodes the values of the keys from the storage.
func (gct *GCT[K]) DecodeBatch(ctx context.Context, s *Storage, keys []K) (
	[][]byte, error) {

	if err := gct.check(s); err != nil {
		return nil, err
	}
	result := make([][]byte, len(keys))
	decode := func(from, to int) error {
		for i := from; i < to; i++ {
			d := prf.Sum(keys[i].Bytes())
			result[i] = gct.decode(s, &d)
		}
		return nil
	}
	workers := gct.cfg.GetWorkers()
	if len(keys) < parallelThreshold || workers == 1 {
		if err := decode(0, len(keys)); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := parallel(ctx, workers, len(keys), decode); err != nil {
		return nil, err
	}
	return result, nil
}
