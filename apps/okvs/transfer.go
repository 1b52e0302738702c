//
// transfer.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"github.com/markkurossi/okvs/env"
	"github.com/markkurossi/okvs/okvs"
	"github.com/markkurossi/okvs/p2p"
)

// Send sends the GCT parameters, PRF keys, and storage to the peer.
func Send(conn *p2p.Conn, gct *okvs.GCT[okvs.StringKey],
	s *okvs.Storage) error {

	h := NewHeader(gct)
	h.H1 = nil
	h.H2 = nil
	h.HR = nil

	data, err := MarshalHeader(h)
	if err != nil {
		return err
	}
	if err := conn.SendData(data); err != nil {
		return err
	}
	if err := gct.Keys().Send(conn); err != nil {
		return err
	}
	return okvs.SendStorage(conn, s)
}

// Receive receives the GCT parameters, PRF keys, and storage from the
// peer.
func Receive(cfg *env.Config, conn *p2p.Conn) (
	*okvs.GCT[okvs.StringKey], *okvs.Storage, error) {

	data, err := conn.ReceiveData()
	if err != nil {
		return nil, nil, err
	}
	h, err := UnmarshalHeader(data)
	if err != nil {
		return nil, nil, err
	}
	keys, err := okvs.ReceiveKeys(conn)
	if err != nil {
		return nil, nil, err
	}
	h.H1 = keys.H1[:]
	h.H2 = keys.H2[:]
	h.HR = keys.HR[:]

	gct, err := h.GCT(cfg)
	if err != nil {
		return nil, nil, err
	}
	s, err := okvs.ReceiveStorage(conn)
	if err != nil {
		return nil, nil, err
	}
	return gct, s, nil
}
