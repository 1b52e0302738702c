//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultEpsilon defines the default cuckoo table expansion.
	DefaultEpsilon = 0.4

	// DefaultLambda defines the default statistical security
	// parameter in bits.
	DefaultLambda = 40
)

// PeelerKind selects the two-core peeling strategy.
type PeelerKind int

// Peeler kinds.
const (
	PeelerFullTwoCore PeelerKind = iota
	PeelerSingleton
	PeelerNone
)

var peelerNames = map[PeelerKind]string{
	PeelerFullTwoCore: "full",
	PeelerSingleton:   "singleton",
	PeelerNone:        "none",
}

func (k PeelerKind) String() string {
	name, ok := peelerNames[k]
	if ok {
		return name
	}
	return fmt.Sprintf("{PeelerKind %d}", k)
}

// ParsePeelerKind parses the peeler kind name.
func ParsePeelerKind(name string) (PeelerKind, error) {
	for k, v := range peelerNames {
		if v == strings.ToLower(name) {
			return k, nil
		}
	}
	return 0, parameterErrorf("unknown peeler %q", name)
}

// Params define the OKVS parameters.
type Params struct {
	// L is the value length in bits.
	L int

	// Epsilon is the expansion of the sparse cuckoo table:
	// lm = (2+Epsilon)n.
	Epsilon float64

	// Lambda is the statistical security parameter in bits.
	Lambda int

	// Peeler selects the two-core peeling strategy.
	Peeler PeelerKind
}

// DefaultParams returns the default parameters for l-bit values.
func DefaultParams(l int) Params {
	return Params{
		L:       l,
		Epsilon: DefaultEpsilon,
		Lambda:  DefaultLambda,
		Peeler:  PeelerFullTwoCore,
	}
}

// Validate checks that the parameters are valid.
func (p Params) Validate() error {
	if p.L <= 0 {
		return parameterErrorf("invalid value length %d", p.L)
	}
	if p.Epsilon <= 0 || math.IsNaN(p.Epsilon) || math.IsInf(p.Epsilon, 0) {
		return parameterErrorf("invalid epsilon %v", p.Epsilon)
	}
	if p.Lambda <= 0 {
		return parameterErrorf("invalid lambda %d", p.Lambda)
	}
	if _, ok := peelerNames[p.Peeler]; !ok {
		return parameterErrorf("invalid peeler %v", p.Peeler)
	}
	return nil
}

// ByteL returns the value length in bytes.
func (p Params) ByteL() int {
	return (p.L + 7) / 8
}

func roundUp8(bits int) int {
	return (bits + 7) / 8 * 8
}

// Lm returns the size of the sparse storage for n keys:
// (2+eps)n rounded up to a multiple of 8.
func Lm(n int, eps float64) int {
	return roundUp8(int(math.Ceil((2 + eps) * float64(n))))
}

// Rm returns the size of the dense storage for n keys:
// (1+eps)log2(n) + lambda rounded up to a multiple of 8.
func Rm(n int, eps float64, lambda int) int {
	var log float64
	if n > 1 {
		log = math.Log2(float64(n))
	}
	return roundUp8(int(math.Ceil((1+eps)*log)) + lambda)
}
