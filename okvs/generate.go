//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/okvs/env"
)

// Generate encodes the key-value pairs with fresh PRF keys. If the
// construction fails, Generate creates new keys and retries up to
// attempts times in total. Other errors are returned immediately.
func Generate[K Key](ctx context.Context, cfg *env.Config, params Params,
	kv map[K][]byte, attempts int) (*GCT[K], *Storage, error) {

	if attempts <= 0 {
		return nil, nil, parameterErrorf("invalid attempts %d", attempts)
	}
	log := cfg.GetLog()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		keys, err := NewKeys(cfg.GetRandom())
		if err != nil {
			return nil, nil, err
		}
		gct, err := New[K](cfg, params, len(kv), keys)
		if err != nil {
			return nil, nil, err
		}
		storage, err := gct.Encode(ctx, kv)
		if err == nil {
			return gct, storage, nil
		}
		if !errors.Is(err, ErrConstruction) {
			return nil, nil, err
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt).
			Warn("okvs: construction failed, retrying with new keys")
	}
	return nil, nil, errors.Wrapf(lastErr, "okvs: %d attempts", attempts)
}
