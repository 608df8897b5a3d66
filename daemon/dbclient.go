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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hoikas/fus/client"
	"github.com/hoikas/fus/crypt"
	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

// DBClient is the internal client connection the admin and auth
// daemons each hold open to the db daemon (spec §4.4, §4.6): one
// Router for transaction correlation, one Reconnector so a dropped
// link is repaired without the owning daemon noticing beyond the
// ErrDisconnected its in-flight calls receive (spec §8 scenario 6).
type DBClient struct {
	addr      string
	initiator *crypt.Initiator
	client    dialIdentity

	router      *client.Router
	reconnector *client.Reconnector

	mu   sync.Mutex
	conn *Conn

	log *logrus.Entry
}

// dialIdentity is the connect-data this client presents when
// dialing the db daemon, so the receiving lobby dispatcher's
// verification policy sees the same build identity a real client
// would.
type dialIdentity struct {
	BuildId   uint32
	BranchId  uint32
	ProductId uuid.UUID
}

// NewDBClient builds a DBClient that dials addr using initiator and
// identifies itself with identity. It does not connect until Start is
// called. backoff is the delay the Reconnector waits after a dropped
// link before redialing; callers outside this package's tests should
// pass client.DefaultBackoff.
func NewDBClient(addr string, initiator *crypt.Initiator, identity dialIdentity, backoff time.Duration, log *logrus.Entry) *DBClient {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	c := &DBClient{
		addr:      addr,
		initiator: initiator,
		client:    identity,
		router:    client.NewRouter(),
		log:       log.WithField("peer", "db"),
	}
	c.reconnector = client.NewReconnector(c.dial, backoff, c.onReconnected)
	return c
}

// Start performs the first connection attempt, arming the reconnector
// if it fails.
func (c *DBClient) Start() {
	if err := c.dial(); err != nil {
		c.log.WithError(err).Warn("initial db connection failed, retrying in background")
		c.reconnector.Arm()
	}
}

// Stop disarms the reconnector and drops the live connection, if any.
func (c *DBClient) Stop() {
	c.reconnector.Stop()
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (c *DBClient) dial() errors.Error {
	raw, err := net.Dial("tcp", c.addr)
	if err != nil {
		return DIAL_FAILED.Error(err)
	}

	cdata, eerr := wire.Encode(protocol.ConnectData, wire.Message{
		{Name: "buildId", Raw: c.client.BuildId},
		{Name: "branchId", Raw: c.client.BranchId},
		{Name: "productId", Raw: c.client.ProductId},
	})
	if eerr != nil {
		_ = raw.Close()
		return eerr
	}

	if herr := wire.WriteConnHeader(raw, wire.ConnHeader{Type: wire.ConnTypeSrv2Database, ConnectData: cdata}); herr != nil {
		_ = raw.Close()
		return herr
	}

	session, herr := c.initiator.Connect(raw)
	if herr != nil {
		_ = raw.Close()
		return herr
	}

	conn := newConn(0, raw, session, c.log)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *DBClient) onReconnected() {
	c.log.Info("db connection restored")
}

// readLoop peeks each reply's type and decodes the matching reply
// descriptor's tail, then hands the full message to the router for
// correlation. It exits (and arms the reconnector) the moment the
// connection drops.
func (c *DBClient) readLoop(conn *Conn) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		_ = conn.Close()
		c.router.KillTrans(WRITE_FAILED.Error(nil), protocol.ErrDisconnected, false)
		c.reconnector.Arm()
	}()

	for {
		typ, err := conn.Decode(typeDescriptor)
		if err != nil {
			return
		}

		var (
			body wire.Message
			derr errors.Error
		)
		switch typ.Uint16("type") {
		case protocol.Db2CliAcctCreateReply:
			body, derr = conn.Decode(protocol.AcctCreateReply[1:])
		case protocol.Db2CliAcctAuthReply:
			body, derr = conn.Decode(protocol.AcctAuthReply[1:])
		case protocol.Db2CliPing:
			body, derr = conn.Decode(protocol.PingReply[1:])
		default:
			return
		}
		if derr != nil {
			return
		}

		msg := append(wire.Message{typ[0]}, body...)
		status := protocol.NetError(msg.Uint32("result"))
		c.router.FireTrans(msg.Uint32("transId"), nil, status, msg)
	}
}

// CreateAccount forwards an acctCreate to the db daemon and blocks
// until its reply arrives, ctx is cancelled, or the link drops.
func (c *DBClient) CreateAccount(ctx context.Context, name string, hash [20]byte, flags protocol.AccountFlags) (uuid.UUID, protocol.NetError, errors.Error) {
	type result struct {
		id     uuid.UUID
		status protocol.NetError
	}
	ch := make(chan result, 1)

	transId := c.router.GenTrans(nil, 0, func(_ any, _ uint32, _ errors.Error, status protocol.NetError, payload wire.Message) {
		var id uuid.UUID
		if payload != nil {
			id = payload.UUID("acctId")
		}
		ch <- result{id: id, status: status}
	})

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.router.FireTrans(transId, nil, protocol.ErrDisconnected, nil)
		return uuid.UUID{}, protocol.ErrDisconnected, NOT_CONNECTED.Error(nil)
	}

	req := wire.Message{
		{Name: "type", Raw: protocol.Cli2DbAcctCreate},
		{Name: "transId", Raw: transId},
		{Name: "acctName", Raw: name},
		{Name: "acctHash", Raw: hash[:]},
		{Name: "flags", Raw: uint32(flags)},
	}
	b, eerr := wire.Encode(protocol.AcctCreateRequest, req)
	if eerr != nil {
		return uuid.UUID{}, protocol.ErrInternalError, eerr
	}
	if serr := conn.Send(b); serr != nil {
		return uuid.UUID{}, protocol.ErrDisconnected, serr
	}

	select {
	case r := <-ch:
		return r.id, r.status, nil
	case <-ctx.Done():
		return uuid.UUID{}, protocol.ErrTimeout, CALL_TIMEOUT.Error(ctx.Err())
	}
}

// Authenticate forwards an acctAuth call to the db daemon, carrying
// both login challenges so the db daemon can recompute the session
// hash itself (spec §4.6).
func (c *DBClient) Authenticate(ctx context.Context, name string, cliHash [20]byte, cliChallenge, srvChallenge uint32) (uuid.UUID, protocol.AccountFlags, protocol.NetError, errors.Error) {
	type result struct {
		id     uuid.UUID
		flags  protocol.AccountFlags
		status protocol.NetError
	}
	ch := make(chan result, 1)

	transId := c.router.GenTrans(nil, 0, func(_ any, _ uint32, _ errors.Error, status protocol.NetError, payload wire.Message) {
		var id uuid.UUID
		var flags protocol.AccountFlags
		if payload != nil {
			id = payload.UUID("acctId")
			flags = protocol.AccountFlags(payload.Uint32("acctFlags"))
		}
		ch <- result{id: id, flags: flags, status: status}
	})

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.router.FireTrans(transId, nil, protocol.ErrDisconnected, nil)
		return uuid.UUID{}, 0, protocol.ErrDisconnected, NOT_CONNECTED.Error(nil)
	}

	req := wire.Message{
		{Name: "type", Raw: protocol.Cli2DbAcctAuth},
		{Name: "transId", Raw: transId},
		{Name: "acctName", Raw: name},
		{Name: "cliHash", Raw: cliHash[:]},
		{Name: "cliChallenge", Raw: cliChallenge},
		{Name: "srvChallenge", Raw: srvChallenge},
	}
	b, eerr := wire.Encode(protocol.AcctAuthRequest, req)
	if eerr != nil {
		return uuid.UUID{}, 0, protocol.ErrInternalError, eerr
	}
	if serr := conn.Send(b); serr != nil {
		return uuid.UUID{}, 0, protocol.ErrDisconnected, serr
	}

	select {
	case r := <-ch:
		return r.id, r.flags, r.status, nil
	case <-ctx.Done():
		return uuid.UUID{}, 0, protocol.ErrTimeout, CALL_TIMEOUT.Error(ctx.Err())
	}
}
