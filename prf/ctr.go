//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package prf

import (
	"crypto/aes"
	"crypto/cipher"
)

// CTR implements a keyed PRF with variable length output. The output
// for a digest is the AES-256-CTR keystream where the IV is taken
// from the digest.
type CTR struct {
	block cipher.Block
}

// NewCTR creates a new counter mode PRF with the key.
func NewCTR(key Key) *CTR {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		panic(err)
	}
	return &CTR{
		block: block,
	}
}

// Expand fills out with the PRF output for the digest. It is safe to
// call Expand concurrently.
func (c *CTR) Expand(d *Digest, out []byte) {
	for i := range out {
		out[i] = 0
	}
	stream := cipher.NewCTR(c.block, d[:aes.BlockSize])
	stream.XORKeyStream(out, out)
}
