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

package protocol

import "github.com/hoikas/fus/wire"

// Header is the common message prelude every role shares: the u16
// message type. Messages that carry a u32 transaction id declare it as
// their own second field (transId); Header itself does not include it.
var Header = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
}

// Message type ids, scoped to the subset of each role's vocabulary this
// daemon cluster actually implements: ping everywhere, plus the admin
// wall/acctCreate pair, the auth login flow, and the db-internal
// create/authenticate pair it forwards to.

const (
	Cli2AdminPing       uint16 = 0
	Cli2AdminWall       uint16 = 1
	Cli2AdminAcctCreate uint16 = 2
)

const (
	Admin2CliPing            uint16 = 0
	Admin2CliWallBCast       uint16 = 1
	Admin2CliAcctCreateReply uint16 = 2
)

const (
	Cli2AuthPingRequest      uint16 = 0
	Cli2AuthAcctLoginRequest uint16 = 3
)

const (
	Auth2CliPingReply      uint16 = 0
	Auth2CliChallenge      uint16 = 5
	Auth2CliAcctLoginReply uint16 = 4
)

const (
	Cli2DbPing       uint16 = 0
	Cli2DbAcctCreate uint16 = 1
	Cli2DbAcctAuth   uint16 = 2
)

const (
	Db2CliPing            uint16 = 0
	Db2CliAcctCreateReply uint16 = 1
	Db2CliAcctAuthReply   uint16 = 2
)

// PingRequest/PingReply carry no payload beyond the message type; every
// role answers a ping with a ping, transaction id included so the
// client-side router can correlate it like any other reply.
var PingRequest = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
}

var PingReply = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
}

// WallRequest announces a message to every connected admin client.
var WallRequest = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
	{Name: "message", Type: wire.FieldString},
}

// WallBCast is pushed to every admin client other than the sender.
var WallBCast = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "sender", Type: wire.FieldString},
	{Name: "message", Type: wire.FieldString},
}

// AcctCreateRequest/Reply: the admin-facing account creation pair, and
// its forwarded db-internal equivalent share the same shape — a name,
// a password hash and the algorithm/role flags to store alongside it.
var AcctCreateRequest = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
	{Name: "acctName", Type: wire.FieldString},
	{Name: "acctHash", Type: wire.FieldBlob, Size: 20},
	{Name: "flags", Type: wire.FieldInt32},
}

var AcctCreateReply = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
	{Name: "result", Type: wire.FieldInt32},
	{Name: "acctId", Type: wire.FieldUUID},
}

// AcctLoginRequest is the client's login attempt. srvChallenge was
// handed to the client immediately on accept (out of band, via the
// Challenge message); cliHash is H(acctHash || cliChallenge ||
// srvChallenge) computed client-side against the account's stored
// algorithm.
var AcctLoginRequest = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
	{Name: "acctName", Type: wire.FieldString},
	{Name: "cliHash", Type: wire.FieldBlob, Size: 20},
	{Name: "cliChallenge", Type: wire.FieldInt32},
}

var AcctLoginReply = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
	{Name: "result", Type: wire.FieldInt32},
	{Name: "acctId", Type: wire.FieldUUID},
	{Name: "acctFlags", Type: wire.FieldInt32},
}

// AcctAuthRequest is what the auth daemon forwards to the db daemon in
// place of replaying the client's own request: it carries both
// challenges so the db daemon can recompute and compare the session
// hash against its own stored acctHash without ever seeing the raw
// password.
var AcctAuthRequest = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
	{Name: "acctName", Type: wire.FieldString},
	{Name: "cliHash", Type: wire.FieldBlob, Size: 20},
	{Name: "cliChallenge", Type: wire.FieldInt32},
	{Name: "srvChallenge", Type: wire.FieldInt32},
}

// Challenge is pushed by the auth daemon immediately after the crypt
// handshake completes, out of band ahead of any client request (spec
// §4.6): the srvChallenge half of the login hash the client must fold
// into its acctLoginRequest's cliHash.
var Challenge = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "srvChallenge", Type: wire.FieldInt32},
}

var AcctAuthReply = wire.Descriptor{
	{Name: "type", Type: wire.FieldInt16},
	{Name: "transId", Type: wire.FieldTransaction},
	{Name: "result", Type: wire.FieldInt32},
	{Name: "acctId", Type: wire.FieldUUID},
	{Name: "acctFlags", Type: wire.FieldInt32},
}
