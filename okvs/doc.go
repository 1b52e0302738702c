//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package okvs implements an oblivious key-value store (OKVS) with
// the two-hash garbled cuckoo table (GCT) construction over GF(2^l).
//
// An OKVS encodes a key-value map into a storage of m = lm + rm cells
// so that the value of a key is the XOR of a small key-determined set
// of cells:
//
//	Decode(S, k) = S[h1(k)] ^ S[h2(k)] ^ XOR{ S[lm+i] : r(k)[i] = 1 }
//
// The two sparse positions h1(k) != h2(k) are in [0, lm) and the
// dense mask r(k) has rm bits. Decoding a key that was not encoded
// returns a pseudorandom value.
//
// Encoding builds a cuckoo graph with one edge per key, peels the
// graph down to its 2-core, solves the 2-core keys with a small dense
// GF(2) system over the rm dense cells, and finally assigns the
// peeled keys in reverse peeling order.
//
// Typical usage:
//
//	keys, err := okvs.NewKeys(rand.Reader)
//	gct, err := okvs.New[okvs.StringKey](nil, okvs.DefaultParams(64),
//	    len(kv), keys)
//	storage, err := gct.Encode(ctx, kv)
//	value, err := gct.Decode(storage, okvs.StringKey("alice"))
//
// Encode fails with ErrConstruction with probability about 2^-lambda.
// The caller must then create new keys and retry; Generate implements
// this loop.
package okvs
