//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package prf implements the keyed pseudorandom functions and
// generators used to derive storage positions for oblivious key-value
// stores.
//
// Keys are first compressed into a 32-byte BLAKE3 digest. The digest
// is then fed into one of two keyed primitives:
//
//	Hash64: HighwayHash-64, used for uniform integers (cell indices)
//	CTR:    AES-256 in counter mode, used for long bit strings (masks)
//
// Reader provides a seeded ChaCha20 keystream that can stand in for
// crypto/rand when a reproducible random source is needed.
package prf
