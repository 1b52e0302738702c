//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrParameter marks invalid parameters and inputs. Such errors
	// are not retryable without fixing the input.
	ErrParameter = errors.New("okvs: invalid parameter")

	// ErrConstruction marks probabilistic construction failures. The
	// caller should create new PRF keys and encode again.
	ErrConstruction = errors.New("okvs: construction failure")
)

func parameterErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("okvs: "+format, args...), ErrParameter)
}

func constructionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("okvs: "+format, args...),
		ErrConstruction)
}

func assertionf(format string, args ...interface{}) {
	panic(errors.AssertionFailedf("okvs: "+format, args...))
}
