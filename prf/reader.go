//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package prf

import (
	"golang.org/x/crypto/chacha20"
)

// Reader implements a deterministic random source from a seed. The
// same seed always produces the same byte stream. Reader is not safe
// for concurrent use.
type Reader struct {
	cipher *chacha20.Cipher
}

// NewReader creates a new deterministic random source for the seed.
func NewReader(seed []byte) *Reader {
	key := Sum(seed)
	var nonce [chacha20.NonceSize]byte

	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		panic(err)
	}
	return &Reader{
		cipher: c,
	}
}

// Read implements io.Reader.Read.
func (r *Reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}
