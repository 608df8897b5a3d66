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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hoikas/fus/account"
	"github.com/hoikas/fus/crypt"
	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

// Db is the sole holder of persistent account state (spec §4.6): every
// acctCreate/acctAuth request arriving over a Srv2Database connection —
// whether forwarded by the admin or the auth daemon — is served from
// its own account.Store, never replayed to another daemon.
type Db struct {
	core  *Daemon
	store *account.Store
}

// NewDb wires a Daemon around store, registering the db-internal
// acctCreate/acctAuth handlers.
func NewDb(responder *crypt.Responder, store *account.Store, log *logrus.Entry) *Db {
	db := &Db{
		core:  NewDaemon("db", responder, log),
		store: store,
	}
	db.core.RegisterHandler(protocol.Cli2DbAcctCreate, db.handleCreate)
	db.core.RegisterHandler(protocol.Cli2DbAcctAuth, db.handleAuth)
	return db
}

// Accept implements lobby.Route.
func (db *Db) Accept(ctx context.Context, conn net.Conn, connectData wire.Message) {
	db.core.Accept(ctx, conn, connectData, nil)
}

func (db *Db) handleCreate(_ context.Context, conn *Conn, typ wire.Message) errors.Error {
	rest, derr := conn.Decode(protocol.AcctCreateRequest[1:])
	if derr != nil {
		return derr
	}
	msg := append(wire.Message{typ[0]}, rest...)

	var hash [20]byte
	copy(hash[:], msg.Bytes("acctHash"))
	flags := protocol.AccountFlags(msg.Uint32("flags"))

	id, cerr := db.store.Create(msg.String("acctName"), hash, flags.HashAlgo(), flags)

	result := protocol.ErrSuccess
	if cerr != nil {
		result = protocol.ErrAccountAlreadyExists
		id = uuid.UUID{}
	}

	reply := wire.Message{
		{Name: "type", Raw: protocol.Db2CliAcctCreateReply},
		{Name: "transId", Raw: msg.Uint32("transId")},
		{Name: "result", Raw: uint32(result)},
		{Name: "acctId", Raw: id},
	}
	b, eerr := wire.Encode(protocol.AcctCreateReply, reply)
	if eerr != nil {
		return eerr
	}
	return conn.Send(b)
}

func (db *Db) handleAuth(_ context.Context, conn *Conn, typ wire.Message) errors.Error {
	rest, derr := conn.Decode(protocol.AcctAuthRequest[1:])
	if derr != nil {
		return derr
	}
	msg := append(wire.Message{typ[0]}, rest...)

	var cliHash [20]byte
	copy(cliHash[:], msg.Bytes("cliHash"))

	id, flags, aerr := db.store.Authenticate(msg.String("acctName"), cliHash, msg.Uint32("cliChallenge"), msg.Uint32("srvChallenge"))

	result := protocol.ErrSuccess
	if aerr != nil {
		result = protocol.ErrAuthenticationFailed
		id = uuid.UUID{}
		flags = 0
	}

	reply := wire.Message{
		{Name: "type", Raw: protocol.Db2CliAcctAuthReply},
		{Name: "transId", Raw: msg.Uint32("transId")},
		{Name: "result", Raw: uint32(result)},
		{Name: "acctId", Raw: id},
		{Name: "acctFlags", Raw: uint32(flags)},
	}
	b, eerr := wire.Encode(protocol.AcctAuthReply, reply)
	if eerr != nil {
		return eerr
	}
	return conn.Send(b)
}
