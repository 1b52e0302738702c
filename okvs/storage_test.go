//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/okvs/p2p"
	"github.com/stretchr/testify/require"
)

func TestStorageMarshal(t *testing.T) {
	kv := randomPairs("marshal", 50, 20)
	gct, storage, err := Generate(context.Background(),
		testConfig("marshal"), DefaultParams(20), kv, 3)
	require.NoError(t, err)

	data, err := storage.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, storage.M()*storage.ByteL)

	s2, err := UnmarshalStorage(storage.Lm, storage.Rm, storage.ByteL, data)
	require.NoError(t, err)
	require.Equal(t, storage, s2)

	for k, v := range kv {
		got, err := gct.Decode(s2, k)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}

	_, err = UnmarshalStorage(storage.Lm, storage.Rm, storage.ByteL,
		data[1:])
	require.True(t, errors.Is(err, ErrParameter))
	_, err = UnmarshalStorage(0, storage.Rm, storage.ByteL, nil)
	require.True(t, errors.Is(err, ErrParameter))
}

// TestTransfer sends the PRF keys and storage to a receiver that
// decodes the values with its own GCT instance.
func TestTransfer(t *testing.T) {
	kv := randomPairs("transfer", 2000, 64)
	params := DefaultParams(64)
	gct, storage, err := Generate(context.Background(),
		testConfig("transfer"), params, kv, 3)
	require.NoError(t, err)

	sender, receiver := p2p.Pipe()

	errc := make(chan error, 1)
	go func() {
		if err := gct.Keys().Send(sender); err != nil {
			errc <- err
			return
		}
		errc <- SendStorage(sender, storage)
	}()

	keys, err := ReceiveKeys(receiver)
	require.NoError(t, err)
	received, err := ReceiveStorage(receiver)
	require.NoError(t, err)
	require.NoError(t, <-errc)

	require.Equal(t, storage, received)
	require.Equal(t, sender.Stats.Sent.Load(), receiver.Stats.Recvd.Load())

	rgct, err := New[Uint64Key](nil, params, len(kv), keys)
	require.NoError(t, err)
	for k, v := range kv {
		got, err := rgct.Decode(received, k)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}

	require.NoError(t, sender.Close())
	receiver.Close()
}
