//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"encoding/binary"
)

// Key defines the key types that can be stored in an OKVS. Bytes
// returns the canonical byte representation of the key; two keys
// must be equal if and only if their byte representations are equal.
type Key interface {
	comparable
	Bytes() []byte
}

// StringKey implements string keys.
type StringKey string

// Bytes implements Key.Bytes.
func (k StringKey) Bytes() []byte {
	return []byte(k)
}

// Uint64Key implements integer keys.
type Uint64Key uint64

// Bytes implements Key.Bytes.
func (k Uint64Key) Bytes() []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(k))
	return buf[:]
}
