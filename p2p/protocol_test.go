//
// protocol_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"bytes"
	"fmt"
	"testing"
)

func pattern(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i * 7)
	}
	return buf
}

var tests = []interface{}{
	byte(42),
	uint32(44),
	"Hello, world!",
	pattern(1024),
	pattern(writeBufSize + 17),
	pattern(2*readBufSize + 3),
	[]byte{},
}

func writer(c *Conn) {
	for _, test := range tests {
		switch d := test.(type) {
		case byte:
			if err := c.SendByte(d); err != nil {
				fmt.Printf("SendByte: %v\n", err)
			}

		case uint32:
			if err := c.SendUint32(int(d)); err != nil {
				fmt.Printf("SendUint32: %v\n", err)
			}

		case string:
			if err := c.SendString(d); err != nil {
				fmt.Printf("SendString: %v\n", err)
			}

		case []byte:
			if err := c.SendData(d); err != nil {
				fmt.Printf("SendData [%v]byte: %v\n", len(d), err)
			}

		default:
			fmt.Printf("writer: invalid data: %v(%T)\n", test, test)
		}
	}
	if err := c.SendBlock(pattern(100)); err != nil {
		fmt.Printf("SendBlock: %v\n", err)
	}
	if err := c.Flush(); err != nil {
		fmt.Printf("Flush: %v\n", err)
	}
}

func TestProtocol(t *testing.T) {
	cw, c := Pipe()

	go writer(cw)

	for _, test := range tests {
		switch d := test.(type) {
		case byte:
			v, err := c.ReceiveByte()
			if err != nil {
				t.Fatalf("ReceiveByte: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveByte: got %v, expected %v", v, d)
			}

		case uint32:
			v, err := c.ReceiveUint32()
			if err != nil {
				t.Fatalf("ReceiveUint32: %v", err)
			}
			if v != int(d) {
				t.Errorf("ReceiveUint32: got %v, expected %v", v, d)
			}

		case string:
			v, err := c.ReceiveString()
			if err != nil {
				t.Fatalf("ReceiveString: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveString: got %v, expected %v", v, d)
			}

		case []byte:
			v, err := c.ReceiveData()
			if err != nil {
				t.Fatalf("ReceiveData: %v", err)
			}
			if !bytes.Equal(v, d) {
				t.Errorf("ReceiveData: got [%v]byte, expected [%v]byte",
					len(v), len(d))
			}

		default:
			t.Errorf("invalid value: %v(%T)", test, test)
		}
	}
	block := make([]byte, 100)
	if err := c.ReceiveBlock(block); err != nil {
		t.Fatalf("ReceiveBlock: %v", err)
	}
	if !bytes.Equal(block, pattern(100)) {
		t.Errorf("ReceiveBlock: data mismatch")
	}
	if c.Stats.Recvd.Load() != cw.Stats.Sent.Load() {
		t.Errorf("stats: received %v, sent %v",
			c.Stats.Recvd.Load(), cw.Stats.Sent.Load())
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
