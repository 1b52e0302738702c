//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package prf

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// Hash64 implements a keyed PRF with 64-bit output.
type Hash64 struct {
	key Key
}

// NewHash64 creates a new 64-bit PRF with the key.
func NewHash64(key Key) *Hash64 {
	return &Hash64{
		key: key,
	}
}

// Sum evaluates the PRF on the digest.
func (h *Hash64) Sum(d *Digest) uint64 {
	return highwayhash.Sum64(d[:], h.key[:])
}

// SumTweak evaluates the PRF on the digest and tweak. Different tweak
// values give independent outputs for the same digest.
func (h *Hash64) SumTweak(d *Digest, tweak uint32) uint64 {
	var buf [DigestSize + 4]byte
	copy(buf[:], d[:])
	binary.LittleEndian.PutUint32(buf[DigestSize:], tweak)
	return highwayhash.Sum64(buf[:], h.key[:])
}

// Mod evaluates the PRF with tweak and reduces the result to [0, n).
func (h *Hash64) Mod(d *Digest, tweak uint32, n int) int {
	if tweak == 0 {
		return int(h.Sum(d) % uint64(n))
	}
	return int(h.SumTweak(d, tweak) % uint64(n))
}
