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
	"crypto/rand"
	"encoding/binary"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/hoikas/fus/client"
	"github.com/hoikas/fus/config"
	"github.com/hoikas/fus/crypt"
	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

// Auth is the auth daemon (spec §4.6): issues a per-connection
// srvChallenge immediately after the handshake, then on
// acctLoginRequest forwards the session hash to the db daemon as an
// acctAuth call rather than ever touching the stored account hash
// itself.
type Auth struct {
	core *Daemon
	db   *DBClient
}

// NewAuth wires an Auth around responder and a DBClient dialing the db
// daemon, mirroring NewAdmin.
func NewAuth(responder *crypt.Responder, dbAddr string, dbInitiator *crypt.Initiator, cli config.ClientConfig, log *logrus.Entry) *Auth {
	a := &Auth{
		core: NewDaemon("auth", responder, log),
		db: NewDBClient(dbAddr, dbInitiator, dialIdentity{
			BuildId:  cli.BuildId,
			BranchId: cli.BranchId,
		}, client.DefaultBackoff, log),
	}
	a.core.RegisterHandler(protocol.Cli2AuthAcctLoginRequest, a.handleLogin)
	a.db.Start()
	return a
}

// Stop disconnects the auth daemon's db client.
func (a *Auth) Stop() {
	a.db.Stop()
}

// Accept implements lobby.Route: it pushes the login challenge before
// entering the generic read loop, per spec §4.6's "handed to the
// client out of band ahead of any request".
func (a *Auth) Accept(ctx context.Context, conn net.Conn, connectData wire.Message) {
	a.core.Accept(ctx, conn, connectData, a.sendChallenge)
}

func (a *Auth) sendChallenge(conn *Conn) errors.Error {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return HANDSHAKE_FAILED.Error(err)
	}
	challenge := binary.LittleEndian.Uint32(buf[:])
	conn.SetChallenge(challenge)

	b, eerr := wire.Encode(protocol.Challenge, wire.Message{
		{Name: "type", Raw: protocol.Auth2CliChallenge},
		{Name: "srvChallenge", Raw: challenge},
	})
	if eerr != nil {
		return eerr
	}
	return conn.Send(b)
}

func (a *Auth) handleLogin(ctx context.Context, conn *Conn, typ wire.Message) errors.Error {
	rest, derr := conn.Decode(protocol.AcctLoginRequest[1:])
	if derr != nil {
		return derr
	}
	msg := append(wire.Message{typ[0]}, rest...)

	var cliHash [20]byte
	copy(cliHash[:], msg.Bytes("cliHash"))

	id, flags, status, aerr := a.db.Authenticate(ctx, msg.String("acctName"), cliHash, msg.Uint32("cliChallenge"), conn.Challenge())
	if aerr != nil {
		status = protocol.ErrInternalError
	}

	reply := wire.Message{
		{Name: "type", Raw: protocol.Auth2CliAcctLoginReply},
		{Name: "transId", Raw: msg.Uint32("transId")},
		{Name: "result", Raw: uint32(status)},
		{Name: "acctId", Raw: id},
		{Name: "acctFlags", Raw: uint32(flags)},
	}
	b, eerr := wire.Encode(protocol.AcctLoginReply, reply)
	if eerr != nil {
		return eerr
	}
	return conn.Send(b)
}
