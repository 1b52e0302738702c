//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/markkurossi/okvs/p2p"
	"github.com/markkurossi/okvs/prf"
)

// Keys contain the three independent PRF keys of an OKVS instance:
// H1 and H2 for the sparse positions and HR for the dense mask.
type Keys struct {
	H1 prf.Key
	H2 prf.Key
	HR prf.Key
}

// NewKeys creates new random PRF keys.
func NewKeys(rand io.Reader) (Keys, error) {
	var keys Keys
	var err error

	for _, k := range []*prf.Key{&keys.H1, &keys.H2, &keys.HR} {
		*k, err = prf.NewKey(rand)
		if err != nil {
			return keys, err
		}
	}
	return keys, nil
}

// Send sends the keys to the peer.
func (keys Keys) Send(conn *p2p.Conn) error {
	for _, k := range []prf.Key{keys.H1, keys.H2, keys.HR} {
		if err := conn.SendBlock(k[:]); err != nil {
			return err
		}
	}
	return conn.Flush()
}

// ReceiveKeys receives PRF keys from the peer.
func ReceiveKeys(conn *p2p.Conn) (Keys, error) {
	var keys Keys
	for _, k := range []*prf.Key{&keys.H1, &keys.H2, &keys.HR} {
		if err := conn.ReceiveBlock(k[:]); err != nil {
			return keys, err
		}
	}
	return keys, nil
}

// Oracle maps keys to their storage positions. It is safe for
// concurrent use.
type Oracle struct {
	lm int
	rm int
	h1 *prf.Hash64
	h2 *prf.Hash64
	hr *prf.CTR
}

// NewOracle creates a position oracle for a storage with lm sparse
// and rm dense cells. The lm must be at least 2 and rm a multiple of
// 8.
func NewOracle(keys Keys, lm, rm int) *Oracle {
	return &Oracle{
		lm: lm,
		rm: rm,
		h1: prf.NewHash64(keys.H1),
		h2: prf.NewHash64(keys.H2),
		hr: prf.NewCTR(keys.HR),
	}
}

// Sparse returns the two distinct sparse positions of the key digest.
func (o *Oracle) Sparse(d *prf.Digest) (int, int) {
	p0 := o.h1.Mod(d, 0, o.lm)
	for tweak := uint32(0); ; tweak++ {
		p1 := o.h2.Mod(d, tweak, o.lm)
		if p1 != p0 {
			return p0, p1
		}
	}
}

// Dense returns the dense mask of the key digest.
func (o *Oracle) Dense(d *prf.Digest) *bitset.BitSet {
	buf := make([]byte, o.rm/8)
	o.hr.Expand(d, buf)

	mask := bitset.New(uint(o.rm))
	for i := 0; i < o.rm; i++ {
		if buf[i/8]&(1<<(i%8)) != 0 {
			mask.Set(uint(i))
		}
	}
	return mask
}
