//
// file.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/markkurossi/okvs/env"
	"github.com/markkurossi/okvs/okvs"
	"github.com/markkurossi/okvs/prf"
)

const fileVersion = 1

// Header describes an encoded OKVS: the parameters, the number of
// encoded pairs, and the PRF keys. Header is stored at the beginning
// of storage files and sent to the receiver before the storage.
type Header struct {
	Version int     `cbor:"1,keyasint"`
	L       int     `cbor:"2,keyasint"`
	Epsilon float64 `cbor:"3,keyasint"`
	Lambda  int     `cbor:"4,keyasint"`
	Peeler  string  `cbor:"5,keyasint"`
	N       int     `cbor:"6,keyasint"`
	H1      []byte  `cbor:"7,keyasint"`
	H2      []byte  `cbor:"8,keyasint"`
	HR      []byte  `cbor:"9,keyasint"`
}

// File is the storage file format.
type File struct {
	Header Header `cbor:"1,keyasint"`
	Lm     int    `cbor:"2,keyasint"`
	Rm     int    `cbor:"3,keyasint"`
	ByteL  int    `cbor:"4,keyasint"`
	Data   []byte `cbor:"5,keyasint"`
}

// NewHeader creates a header for the GCT.
func NewHeader(gct *okvs.GCT[okvs.StringKey]) Header {
	params := gct.Params()
	keys := gct.Keys()
	return Header{
		Version: fileVersion,
		L:       params.L,
		Epsilon: params.Epsilon,
		Lambda:  params.Lambda,
		Peeler:  params.Peeler.String(),
		N:       gct.N(),
		H1:      keys.H1[:],
		H2:      keys.H2[:],
		HR:      keys.HR[:],
	}
}

// GCT creates the GCT that the header describes.
func (h Header) GCT(cfg *env.Config) (*okvs.GCT[okvs.StringKey], error) {
	if h.Version != fileVersion {
		return nil, fmt.Errorf("unsupported version %d", h.Version)
	}
	kind, err := okvs.ParsePeelerKind(h.Peeler)
	if err != nil {
		return nil, err
	}
	params := okvs.Params{
		L:       h.L,
		Epsilon: h.Epsilon,
		Lambda:  h.Lambda,
		Peeler:  kind,
	}
	var keys okvs.Keys
	for _, k := range []struct {
		dst  *prf.Key
		src  []byte
		name string
	}{
		{&keys.H1, h.H1, "h1"},
		{&keys.H2, h.H2, "h2"},
		{&keys.HR, h.HR, "hr"},
	} {
		if len(k.src) != len(k.dst) {
			return nil, fmt.Errorf("invalid %s key length %d",
				k.name, len(k.src))
		}
		copy(k.dst[:], k.src)
	}
	return okvs.New[okvs.StringKey](cfg, params, h.N, keys)
}

// MarshalHeader encodes the header in CBOR.
func MarshalHeader(h Header) ([]byte, error) {
	return cbor.Marshal(h)
}

// UnmarshalHeader decodes a CBOR encoded header.
func UnmarshalHeader(data []byte) (Header, error) {
	var h Header
	err := cbor.Unmarshal(data, &h)
	return h, err
}

// MarshalFile encodes the GCT header and the storage in CBOR.
func MarshalFile(gct *okvs.GCT[okvs.StringKey], s *okvs.Storage) (
	[]byte, error) {

	data, err := s.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&File{
		Header: NewHeader(gct),
		Lm:     s.Lm,
		Rm:     s.Rm,
		ByteL:  s.ByteL,
		Data:   data,
	})
}

// UnmarshalFile decodes the CBOR encoded storage file and returns the
// GCT and storage it contains.
func UnmarshalFile(cfg *env.Config, data []byte) (
	*okvs.GCT[okvs.StringKey], *okvs.Storage, error) {

	var f File
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, nil, err
	}
	gct, err := f.Header.GCT(cfg)
	if err != nil {
		return nil, nil, err
	}
	s, err := okvs.UnmarshalStorage(f.Lm, f.Rm, f.ByteL, f.Data)
	if err != nil {
		return nil, nil, err
	}
	if s.Lm != gct.Lm() || s.Rm != gct.Rm() || s.ByteL != gct.ByteL() {
		return nil, nil, fmt.Errorf("storage geometry %d+%d/%d, expected %d+%d/%d",
			s.Lm, s.Rm, s.ByteL, gct.Lm(), gct.Rm(), gct.ByteL())
	}
	return gct, s, nil
}

// WriteFile writes the storage file.
func WriteFile(name string, gct *okvs.GCT[okvs.StringKey],
	s *okvs.Storage) error {

	data, err := MarshalFile(gct, s)
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0644)
}

// ReadFile reads the storage file.
func ReadFile(cfg *env.Config, name string) (
	*okvs.GCT[okvs.StringKey], *okvs.Storage, error) {

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, err
	}
	return UnmarshalFile(cfg, data)
}
