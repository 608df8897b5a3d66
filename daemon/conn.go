/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package daemon implements the per-role acceptor glue shared by the
// admin, auth and db roles (spec §4.6): a client list held in an atomic
// map keyed by connection id, a server-side read loop that peeks a message's type
// before decoding its body against the matching descriptor, and a single
// writer goroutine per connection so replies and broadcasts can never
// interleave mid-message.
package daemon

import (
	"io"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	atomiclib "github.com/hoikas/fus/atomic"
	"github.com/hoikas/fus/crypt"
	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/wire"
)

// writeQueueDepth bounds how many outgoing messages may be queued for a
// single connection before Send blocks; a slow client backs up its own
// writer goroutine, never another connection's.
const writeQueueDepth = 64

// Conn is one accepted, post-handshake connection: a ciphered byte
// stream plus the bookkeeping the generic read loop and its handlers
// share. It is owned by exactly one Daemon's client list for its
// lifetime.
type Conn struct {
	ID     uint64
	Remote net.Addr

	raw     net.Conn
	session crypt.Crypt
	reader  *wire.Reader
	writeCh chan []byte

	challenge atomiclib.Value[uint32]

	closeOnce sync.Once
	done      chan struct{}

	log *logrus.Entry
}

func newConn(id uint64, raw net.Conn, session crypt.Crypt, log *logrus.Entry) *Conn {
	c := &Conn{
		ID:        id,
		Remote:    raw.RemoteAddr(),
		raw:       raw,
		session:   session,
		reader:    wire.NewReader(session.Reader(raw), 0),
		writeCh:   make(chan []byte, writeQueueDepth),
		challenge: atomiclib.NewValue[uint32](),
		done:      make(chan struct{}),
		log:       log,
	}
	go c.runWriter()
	return c
}

// runWriter drains writeCh in order for as long as the connection is
// open — the only goroutine that ever calls Write on raw, so two
// handlers replying concurrently can never tear a message in half.
func (c *Conn) runWriter() {
	w := c.session.Writer(c.raw)
	for {
		select {
		case b, ok := <-c.writeCh:
			if !ok {
				return
			}
			if _, err := w.Write(b); err != nil {
				c.log.WithError(err).Debug("write failed, closing connection")
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send enqueues a fully encoded message for delivery. It never blocks
// the caller beyond the queue's capacity, and is safe to call from
// multiple handler goroutines.
func (c *Conn) Send(b []byte) errors.Error {
	select {
	case c.writeCh <- b:
		return nil
	case <-c.done:
		return WRITE_FAILED.Error(io.ErrClosedPipe)
	}
}

// Decode reads the next message matching d off this connection's
// ciphered stream, blocking until it is complete.
func (c *Conn) Decode(d wire.Descriptor) (wire.Message, errors.Error) {
	return c.reader.Decode(d)
}

// SetChallenge stashes the srvChallenge issued to this connection at
// accept time so a later login handler can recover it without a side
// table keyed by connection id.
func (c *Conn) SetChallenge(v uint32) {
	c.challenge.Store(v)
}

// Challenge returns the srvChallenge previously stored by SetChallenge,
// or zero if none was ever set.
func (c *Conn) Challenge() uint32 {
	return c.challenge.Load()
}

// Close tears down the connection exactly once: stops the writer
// goroutine and closes the underlying socket.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.raw.Close()
	})
	return err
}
