//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package prf

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

const (
	// KeySize defines the PRF key size in bytes.
	KeySize = 32

	// DigestSize defines the size of input digests in bytes.
	DigestSize = 32
)

// Key defines a PRF key.
type Key [KeySize]byte

// Digest is the canonical fixed-size form of a PRF input.
type Digest [DigestSize]byte

// NewKey creates a new random PRF key.
func NewKey(rand io.Reader) (Key, error) {
	var key Key
	if _, err := io.ReadFull(rand, key[:]); err != nil {
		return key, err
	}
	return key, nil
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Sum computes the digest of the argument data.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}
