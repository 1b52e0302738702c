//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNetwork(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listener, err := Listen("127.0.0.1:0", discard())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer listener.Close()

	done := make(chan error)
	go func() {
		conn, err := Dial(ctx, listener.Addr().String(), time.Millisecond,
			discard())
		if err != nil {
			done <- err
			return
		}
		if err := conn.SendString("Hello, world!"); err != nil {
			done <- err
			return
		}
		done <- conn.Close()
	}()

	conn, err := listener.Accept(ctx)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	defer conn.Close()

	msg, err := conn.ReceiveString()
	if err != nil {
		t.Fatalf("ReceiveString: %v", err)
	}
	if msg != "Hello, world!" {
		t.Errorf("got %q", msg)
	}
	if err := <-done; err != nil {
		t.Fatalf("sender: %v", err)
	}
}

func TestAcceptCanceled(t *testing.T) {
	listener, err := Listen("127.0.0.1:0", discard())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = listener.Accept(ctx)
	if err != context.Canceled {
		t.Fatalf("Accept: got %v, expected %v", err, context.Canceled)
	}
}

func TestDialCanceled(t *testing.T) {
	listener, err := Listen("127.0.0.1:0", discard())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	ctx, cancel := context.WithTimeout(context.Background(),
		50*time.Millisecond)
	defer cancel()

	_, err = Dial(ctx, addr, 10*time.Millisecond, discard())
	if err == nil {
		t.Fatalf("Dial succeeded on closed listener")
	}
}
