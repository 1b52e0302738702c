//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package okvs

import (
	"github.com/markkurossi/okvs/p2p"
)

// Storage holds an encoded OKVS. The cells 0..Lm-1 are the sparse
// storage and cells Lm..Lm+Rm-1 the dense storage. Each cell is ByteL
// bytes and Data is the concatenation of all cells. Storage is
// immutable after encoding and safe for concurrent decoding.
type Storage struct {
	Lm    int
	Rm    int
	ByteL int
	Data  []byte
}

// M returns the number of storage cells.
func (s *Storage) M() int {
	return s.Lm + s.Rm
}

// Cell returns the storage cell i.
func (s *Storage) Cell(i int) []byte {
	return s.Data[i*s.ByteL : (i+1)*s.ByteL]
}

// MarshalBinary encodes the storage cells into binary form.
func (s *Storage) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), s.Data...), nil
}

// UnmarshalStorage creates a storage from the binary form created with
// MarshalBinary.
func UnmarshalStorage(lm, rm, byteL int, data []byte) (*Storage, error) {
	if lm <= 0 || rm < 0 || byteL <= 0 {
		return nil, parameterErrorf("invalid storage geometry %d+%d/%d",
			lm, rm, byteL)
	}
	if len(data) != (lm+rm)*byteL {
		return nil, parameterErrorf("storage data length %d, expected %d",
			len(data), (lm+rm)*byteL)
	}
	return &Storage{
		Lm:    lm,
		Rm:    rm,
		ByteL: byteL,
		Data:  append([]byte(nil), data...),
	}, nil
}

// SendStorage sends the storage to the peer.
func SendStorage(conn *p2p.Conn, s *Storage) error {
	if err := conn.SendUint32(s.Lm); err != nil {
		return err
	}
	if err := conn.SendUint32(s.Rm); err != nil {
		return err
	}
	if err := conn.SendUint32(s.ByteL); err != nil {
		return err
	}
	if err := conn.SendData(s.Data); err != nil {
		return err
	}
	return conn.Flush()
}

// ReceiveStorage receives a storage from the peer.
func ReceiveStorage(conn *p2p.Conn) (*Storage, error) {
	lm, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	rm, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	byteL, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	data, err := conn.ReceiveData()
	if err != nil {
		return nil, err
	}
	return UnmarshalStorage(lm, rm, byteL, data)
}
