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
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/hoikas/fus/client"
	"github.com/hoikas/fus/config"
	"github.com/hoikas/fus/crypt"
	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

// Admin is the admin daemon (spec §4.6): out-of-band wall broadcast to
// every connected admin client, and an acctCreate proxy forwarded to
// the db daemon over its own DBClient.
type Admin struct {
	core *Daemon
	db   *DBClient
}

// NewAdmin wires an Admin around responder (the admin role's own
// handshake material) and a DBClient dialing dbAddr with dbInitiator
// (the db role's public key material, from this daemon's own
// configuration — spec §4.4).
func NewAdmin(responder *crypt.Responder, dbAddr string, dbInitiator *crypt.Initiator, cli config.ClientConfig, log *logrus.Entry) *Admin {
	a := &Admin{
		core: NewDaemon("admin", responder, log),
		db: NewDBClient(dbAddr, dbInitiator, dialIdentity{
			BuildId:  cli.BuildId,
			BranchId: cli.BranchId,
		}, client.DefaultBackoff, log),
	}
	a.core.RegisterHandler(protocol.Cli2AdminWall, a.handleWall)
	a.core.RegisterHandler(protocol.Cli2AdminAcctCreate, a.handleAcctCreate)
	a.db.Start()
	return a
}

// Stop disconnects the admin daemon's db client.
func (a *Admin) Stop() {
	a.db.Stop()
}

// Wall broadcasts message to every connected admin client as if a
// client itself had sent a wall request, letting the operator console
// (spec §9) push an announcement without needing its own client
// connection.
func (a *Admin) Wall(message string) error {
	bcast := wire.Message{
		{Name: "type", Raw: protocol.Admin2CliWallBCast},
		{Name: "sender", Raw: "console"},
		{Name: "message", Raw: message},
	}
	b, eerr := wire.Encode(protocol.WallBCast, bcast)
	if eerr != nil {
		return eerr
	}
	a.core.Broadcast(b, 0)
	return nil
}

// Accept implements lobby.Route.
func (a *Admin) Accept(ctx context.Context, conn net.Conn, connectData wire.Message) {
	a.core.Accept(ctx, conn, connectData, nil)
}

func (a *Admin) handleWall(_ context.Context, conn *Conn, typ wire.Message) errors.Error {
	rest, derr := conn.Decode(protocol.WallRequest[1:])
	if derr != nil {
		return derr
	}
	msg := append(wire.Message{typ[0]}, rest...)

	bcast := wire.Message{
		{Name: "type", Raw: protocol.Admin2CliWallBCast},
		{Name: "sender", Raw: fmt.Sprintf("conn-%d", conn.ID)},
		{Name: "message", Raw: msg.String("message")},
	}
	b, eerr := wire.Encode(protocol.WallBCast, bcast)
	if eerr != nil {
		return eerr
	}
	a.core.Broadcast(b, conn.ID)
	return nil
}

func (a *Admin) handleAcctCreate(ctx context.Context, conn *Conn, typ wire.Message) errors.Error {
	rest, derr := conn.Decode(protocol.AcctCreateRequest[1:])
	if derr != nil {
		return derr
	}
	msg := append(wire.Message{typ[0]}, rest...)

	var hash [20]byte
	copy(hash[:], msg.Bytes("acctHash"))
	flags := protocol.AccountFlags(msg.Uint32("flags"))

	id, status, cerr := a.db.CreateAccount(ctx, msg.String("acctName"), hash, flags)
	if cerr != nil {
		status = protocol.ErrInternalError
	}

	reply := wire.Message{
		{Name: "type", Raw: protocol.Admin2CliAcctCreateReply},
		{Name: "transId", Raw: msg.Uint32("transId")},
		{Name: "result", Raw: uint32(status)},
		{Name: "acctId", Raw: id},
	}
	b, eerr := wire.Encode(protocol.AcctCreateReply, reply)
	if eerr != nil {
		return eerr
	}
	return conn.Send(b)
}
