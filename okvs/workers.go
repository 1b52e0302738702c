//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallel splits [0, n) into chunks and calls f for each chunk with
// at most workers concurrent calls.
func parallel(ctx context.Context, workers, n int,
	f func(from, to int) error) error {

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := (n + 4*workers - 1) / (4 * workers)
	for from := 0; from < n; from += chunk {
		to := min(from+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return f(from, to)
		})
	}
	return g.Wait()
}
