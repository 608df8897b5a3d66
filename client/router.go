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

// Package client implements the reusable asynchronous request broker
// every daemon uses when it acts as a client of another daemon (admin
// and auth forwarding work to db): transaction id generation, reply
// correlation, and reconnect-with-backoff.
package client

import (
	"sync/atomic"

	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"

	atomiclib "github.com/hoikas/fus/atomic"
	errors "github.com/hoikas/fus/errors"
)

// Continuation is invoked exactly once per transaction, either from
// FireTrans on a matching reply or from KillTrans on teardown. instance
// is whatever caller-defined value was passed to GenTrans (typically a
// pointer identifying the logical requester, used to scope bulk kills).
type Continuation func(instance any, wrapTransId uint32, err errors.Error, status protocol.NetError, payload wire.Message)

type transaction struct {
	instance  any
	wrapTrans uint32
	cb        Continuation
}

// Router generates transaction ids for one connection and correlates
// replies with the continuation that issued the matching request. Every
// client-role connection (the admin daemon's db client, the auth
// daemon's db client) owns exactly one Router; ids are never shared
// across connections.
type Router struct {
	next uint32
	live atomiclib.MapTyped[uint32, *transaction]
}

// NewRouter returns a Router with an empty transaction table.
func NewRouter() *Router {
	return &Router{live: atomiclib.NewMapTyped[uint32, *transaction]()}
}

// NextTransId returns a fresh, non-zero, monotonically increasing id,
// wrapping past the 32-bit range by skipping zero. It is safe to call
// concurrently.
func (r *Router) NextTransId() uint32 {
	for {
		id := atomic.AddUint32(&r.next, 1)
		if id != 0 {
			return id
		}
	}
}

// GenTrans allocates a fresh id, stores the pending record, and returns
// the id for the caller to embed in its outgoing request.
func (r *Router) GenTrans(instance any, wrapTransId uint32, cb Continuation) uint32 {
	id := r.NextTransId()
	r.live.Store(id, &transaction{instance: instance, wrapTrans: wrapTransId, cb: cb})
	return id
}

// FireTrans delivers a reply: it removes the record for id before
// invoking its continuation, so a continuation issuing a further
// request observes a consistent router state. It is a no-op if id is
// unknown (a duplicate or spurious reply).
func (r *Router) FireTrans(id uint32, err errors.Error, status protocol.NetError, payload wire.Message) {
	t, ok := r.live.LoadAndDelete(id)
	if !ok {
		return
	}
	t.cb(t.instance, t.wrapTrans, err, status, payload)
}

// KillTrans removes every pending transaction on this router, invoking
// each continuation with err/status unless quiet is true (used at
// teardown, when the continuations' owning objects may already be
// gone).
func (r *Router) KillTrans(err errors.Error, status protocol.NetError, quiet bool) {
	var ids []uint32
	r.live.Range(func(id uint32, _ *transaction) bool {
		ids = append(ids, id)
		return true
	})

	for _, id := range ids {
		t, ok := r.live.LoadAndDelete(id)
		if !ok || quiet {
			continue
		}
		t.cb(t.instance, t.wrapTrans, err, status, nil)
	}
}

// KillInstance removes only the pending transactions owned by instance,
// leaving the rest of the router's table untouched.
func (r *Router) KillInstance(instance any, err errors.Error, status protocol.NetError) {
	var ids []uint32
	r.live.Range(func(id uint32, t *transaction) bool {
		if t.instance == instance {
			ids = append(ids, id)
		}
		return true
	})

	for _, id := range ids {
		t, ok := r.live.LoadAndDelete(id)
		if !ok {
			continue
		}
		t.cb(t.instance, t.wrapTrans, err, status, nil)
	}
}
