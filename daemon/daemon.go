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

package daemon

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	atomiclib "github.com/hoikas/fus/atomic"
	"github.com/hoikas/fus/crypt"
	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

// Handler processes one decoded message on conn. typ carries only the
// already-read "type" field — a handler recovers the rest of its
// message's body itself, via conn.Decode against its own descriptor's
// tail (the type field has already been consumed off the stream, so
// handlers decode d[1:] and splice typ back onto the front).
type Handler func(ctx context.Context, conn *Conn, typ wire.Message) errors.Error

// typeDescriptor peeks only the two-byte message type prelude every
// role's descriptors share (protocol.Header).
var typeDescriptor = protocol.Header

// Daemon is the per-role acceptor skeleton: one handshake responder, a
// client list held in an atomic map keyed by connection id (connections
// carry no list links of their own), and a message-type -> Handler
// routing table.
// Admin, Auth and Db each wrap one Daemon with their own handler set and
// any outbound db-client dependency.
type Daemon struct {
	Role string

	responder *crypt.Responder
	handlers  map[uint16]Handler
	clients   atomiclib.MapTyped[uint64, *Conn]
	nextID    uint64

	connGauge prometheus.Gauge
	log       *logrus.Entry
}

// NewDaemon builds a Daemon for role, answering handshakes with
// responder. log is enriched with a "role" field; a nil log falls back
// to the standard logrus logger.
func NewDaemon(role string, responder *crypt.Responder, log *logrus.Entry) *Daemon {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	d := &Daemon{
		Role:      role,
		responder: responder,
		handlers:  make(map[uint16]Handler),
		clients:   atomiclib.NewMapTyped[uint64, *Conn](),
		connGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "fus_daemon_live_connections",
			Help:        "live connections currently held open by this daemon role.",
			ConstLabels: prometheus.Labels{"role": role},
		}),
		log: log.WithField("role", role),
	}
	d.RegisterHandler(0, d.handlePing)
	_ = prometheus.Register(d.connGauge)
	return d
}

// RegisterHandler binds a message type to the handler that processes
// it. Every role registers ping (type 0) implicitly via NewDaemon;
// callers may override it by registering type 0 again.
func (d *Daemon) RegisterHandler(msgType uint16, h Handler) {
	d.handlers[msgType] = h
}

// Broadcast delivers b to every connected client except except (pass 0
// to address everyone). Used by the admin daemon's wall command.
func (d *Daemon) Broadcast(b []byte, except uint64) {
	d.clients.Range(func(id uint64, c *Conn) bool {
		if id != except {
			_ = c.Send(b)
		}
		return true
	})
}

// Accept matches lobby.Route's signature: it runs the server side of
// the crypt handshake, registers the connection in the client list, and
// drives its read loop until the client disconnects or ctx is
// cancelled. post, if non-nil, runs once immediately after the
// handshake completes and before the first message is read — the auth
// daemon uses it to push the login challenge.
func (d *Daemon) Accept(ctx context.Context, raw net.Conn, _ wire.Message, post func(*Conn) errors.Error) {
	session, err := d.responder.Accept(raw)
	if err != nil {
		d.log.WithError(HANDSHAKE_FAILED.Error(err)).Debug("handshake failed")
		_ = raw.Close()
		return
	}

	id := atomic.AddUint64(&d.nextID, 1)
	conn := newConn(id, raw, session, d.log.WithField("conn_id", id))
	d.clients.Store(id, conn)
	d.connGauge.Inc()

	defer func() {
		d.clients.Delete(id)
		d.connGauge.Dec()
		_ = conn.Close()
	}()

	if post != nil {
		if perr := post(conn); perr != nil {
			d.log.WithError(perr).Debug("post-handshake hook failed")
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		typ, derr := conn.Decode(typeDescriptor)
		if derr != nil {
			d.log.WithError(derr).Debug("read loop ended")
			return
		}

		h, ok := d.handlers[typ.Uint16("type")]
		if !ok {
			d.log.WithError(UNKNOWN_MESSAGE_TYPE.Error(nil)).WithField("msgType", typ.Uint16("type")).Debug("unhandled message type")
			return
		}

		if herr := h(ctx, conn, typ); herr != nil {
			d.log.WithError(herr).Debug("handler failed, closing connection")
			return
		}
	}
}

// handlePing answers protocol.PingRequest with protocol.PingReply,
// echoing the transaction id (spec §12 ping/keepalive).
func (d *Daemon) handlePing(_ context.Context, conn *Conn, typ wire.Message) errors.Error {
	rest, derr := conn.Decode(protocol.PingRequest[1:])
	if derr != nil {
		return derr
	}
	reply := append(wire.Message{typ[0]}, rest...)

	b, eerr := wire.Encode(protocol.PingReply, reply)
	if eerr != nil {
		return eerr
	}
	return conn.Send(b)
}
