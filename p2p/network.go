//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// Version is the protocol version exchanged when a connection is
// established.
const Version = 1

// Listener accepts inbound peer connections.
type Listener struct {
	listener net.Listener
	log      *logrus.Logger
}

// Listen creates a new TCP listener for the address addr.
func Listen(addr string, log *logrus.Logger) (*Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{
		listener: listener,
		log:      log,
	}, nil
}

// Addr returns the listener's network address.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Close closes the listener.
func (l *Listener) Close() error {
	return l.listener.Close()
}

// Accept waits for the next inbound connection and checks the peer's
// protocol version. Accept returns the context error if ctx is done
// before a peer connects.
func (l *Listener) Accept(ctx context.Context) (*Conn, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			l.listener.Close()
		case <-done:
		}
	}()

	nc, err := l.listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	l.log.Debugf("p2p: accepted connection from %s", nc.RemoteAddr())
	conn := NewConn(nc)

	version, err := conn.ReceiveUint32()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if version != Version {
		conn.Close()
		return nil, fmt.Errorf("p2p: unsupported protocol version %d",
			version)
	}
	return conn, nil
}

// Dial connects to the peer at addr. Failed connection attempts are
// retried after delay until ctx is done.
func Dial(ctx context.Context, addr string, delay time.Duration,
	log *logrus.Logger) (*Conn, error) {

	var dialer net.Dialer
	for {
		log.Debugf("p2p: connecting to %s...", addr)
		nc, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			log.Debugf("p2p: connected to %s", addr)
			conn := NewConn(nc)
			if err := conn.SendUint32(Version); err != nil {
				conn.Close()
				return nil, err
			}
			if err := conn.Flush(); err != nil {
				conn.Close()
				return nil, err
			}
			return conn, nil
		}
		log.Warnf("p2p: connect to %s failed, retrying in %s: %s",
			addr, delay, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
