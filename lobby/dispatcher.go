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

// Package lobby implements the single TCP acceptor every client and
// inter-daemon connection enters through (spec §4.3): it reads the
// 2-byte ConnHeader and the connect-data blob that follows, applies the
// configured build-verification policy, then hands the still-open
// socket off to whichever daemon role registered for that ConnType.
package lobby

import (
	"bytes"
	"context"
	"net"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hoikas/fus/config"
	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

// Route is a daemon role's accept routine: given the still-open,
// still-cleartext connection and its parsed connect-data, it runs the
// crypt handshake and the connection's full lifecycle. Route blocks
// until the connection is closed, so the dispatcher always invokes it
// on its own goroutine.
type Route func(ctx context.Context, conn net.Conn, connectData wire.Message)

// Dispatcher is the lobby's single acceptor: one listener, one route
// table keyed by ConnType, one verification policy.
type Dispatcher struct {
	listener net.Listener
	routes   map[wire.ConnType]Route
	policy   config.VerifyPolicy
	client   config.ClientConfig
	log      *logrus.Entry
}

// NewDispatcher binds addr and returns a Dispatcher ready for route
// registration. It does not start accepting until Serve is called.
func NewDispatcher(addr string, policy config.VerifyPolicy, client config.ClientConfig, log *logrus.Entry) (*Dispatcher, errors.Error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ACCEPT_FAILED.Error(err)
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Dispatcher{
		listener: l,
		routes:   make(map[wire.ConnType]Route),
		policy:   policy,
		client:   client,
		log:      log.WithField("component", "lobby"),
	}, nil
}

// RegisterRoute binds t to the daemon accept routine that handles it.
// Registering the same ConnType twice replaces the previous route.
func (d *Dispatcher) RegisterRoute(t wire.ConnType, r Route) {
	d.routes[t] = r
}

// Addr returns the listener's bound address, useful for tests that bind
// to port 0 and need to learn the assigned port.
func (d *Dispatcher) Addr() net.Addr {
	return d.listener.Addr()
}

// Close stops accepting new connections. It does not close connections
// already handed off to a route.
func (d *Dispatcher) Close() error {
	return d.listener.Close()
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed, dispatching each to its route on its own goroutine tracked by
// an errgroup so Serve can wait for every in-flight handler to notice
// cancellation before returning (spec §5's two-phase shutdown: the
// lobby listener closes first, already-dispatched connections drain
// after).
func (d *Dispatcher) Serve(ctx context.Context) error {
	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		<-gctx.Done()
		return d.listener.Close()
	})

	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-gctx.Done():
				return grp.Wait()
			default:
				return grp.Wait()
			}
		}

		grp.Go(func() error {
			d.accept(gctx, conn)
			return nil
		})
	}
}

func (d *Dispatcher) accept(ctx context.Context, conn net.Conn) {
	hdr, err := wire.ReadConnHeader(conn)
	if err != nil {
		d.log.WithError(err).Debug("connect header read failed")
		_ = conn.Close()
		return
	}

	route, ok := d.routes[hdr.Type]
	if !ok {
		d.log.WithError(NO_ROUTE.Error(nil)).WithField("connType", hdr.Type.String()).Debug("no route for connection type")
		_ = conn.Close()
		return
	}

	rd := wire.NewReader(bytes.NewReader(hdr.ConnectData), 0)
	cdata, derr := rd.Decode(protocol.ConnectData)
	if derr != nil {
		d.log.WithError(CONNECT_DATA_INVALID.Error(derr)).Debug("connect-data decode failed")
		_ = conn.Close()
		return
	}

	buildId := cdata.Uint32("buildId")
	branchId := cdata.Uint32("branchId")
	productId := cdata.UUID("productId").String()

	if !verify(d.policy, hdr.Type, buildId, branchId, productId, d.client) {
		d.log.WithError(VERIFY_REJECTED.Error(nil)).WithFields(logrus.Fields{
			"connType": hdr.Type.String(),
			"buildId":  buildId,
			"branchId": branchId,
		}).Info("connection rejected by verification policy")
		_ = conn.Close()
		return
	}

	route(ctx, conn, cdata)
}
