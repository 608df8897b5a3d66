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

package daemon_test

import (
	"context"
	"net"
	"path/filepath"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hoikas/fus/account"
	"github.com/hoikas/fus/crypt"
	"github.com/hoikas/fus/daemon"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

var _ = Describe("Db", func() {
	var (
		db     *daemon.Db
		km     *crypt.KeyMaterial
		client crypt.Crypt
	)

	BeforeEach(func() {
		dsn := filepath.Join(GinkgoT().TempDir(), "accounts.db")
		store, err := account.Open("sqlite", dsn)
		Expect(err).To(BeNil())

		k, cerr := crypt.GenerateKeyMaterial(crypt.Generator(crypt.RoleDB), 64)
		Expect(cerr).To(BeNil())
		km = k

		responder := crypt.NewResponder(km.N, km.K)
		db = daemon.NewDb(responder, store, logrus.NewEntry(logrus.StandardLogger()))
	})

	connect := func() (net.Conn, chan struct{}) {
		serverConn, clientConn := net.Pipe()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer cancel()
			db.Accept(ctx, serverConn, nil)
			close(done)
		}()

		initiator := crypt.NewInitiator(km.G, km.N, km.X)
		session, herr := initiator.Connect(clientConn)
		Expect(herr).To(BeNil())
		client = session
		return clientConn, done
	}

	It("creates an account and then authenticates it with a matching session hash", func() {
		conn, done := connect()

		hash := protocol.HashAccount(protocol.HashSHA1, "bob", "hunter2")
		createReq := wire.Message{
			{Name: "type", Raw: protocol.Cli2DbAcctCreate},
			{Name: "transId", Raw: uint32(1)},
			{Name: "acctName", Raw: "bob"},
			{Name: "acctHash", Raw: hash[:]},
			{Name: "flags", Raw: uint32(protocol.AcctFlagUser | protocol.AcctFlagHashSHA1)},
		}
		b, eerr := wire.Encode(protocol.AcctCreateRequest, createReq)
		Expect(eerr).To(BeNil())
		_, werr := client.Writer(conn).Write(b)
		Expect(werr).To(BeNil())

		reader := wire.NewReader(client.Reader(conn), 0)
		createReply, derr := reader.Decode(protocol.AcctCreateReply)
		Expect(derr).To(BeNil())
		Expect(protocol.NetError(createReply.Uint32("result"))).To(Equal(protocol.ErrSuccess))
		acctId := createReply.UUID("acctId")
		Expect(acctId).ToNot(BeZero())

		cliChallenge := uint32(0x1111)
		srvChallenge := uint32(0x2222)
		cliHash := protocol.HashLogin(protocol.HashSHA1, hash, cliChallenge, srvChallenge)

		authReq := wire.Message{
			{Name: "type", Raw: protocol.Cli2DbAcctAuth},
			{Name: "transId", Raw: uint32(2)},
			{Name: "acctName", Raw: "bob"},
			{Name: "cliHash", Raw: cliHash[:]},
			{Name: "cliChallenge", Raw: cliChallenge},
			{Name: "srvChallenge", Raw: srvChallenge},
		}
		b2, eerr2 := wire.Encode(protocol.AcctAuthRequest, authReq)
		Expect(eerr2).To(BeNil())
		_, werr2 := client.Writer(conn).Write(b2)
		Expect(werr2).To(BeNil())

		authReply, derr2 := reader.Decode(protocol.AcctAuthReply)
		Expect(derr2).To(BeNil())
		Expect(protocol.NetError(authReply.Uint32("result"))).To(Equal(protocol.ErrSuccess))
		Expect(authReply.UUID("acctId")).To(Equal(acctId))

		Expect(conn.Close()).To(Succeed())
		Eventually(done).Should(BeClosed())
	})

	It("rejects authentication with the wrong session hash", func() {
		conn, done := connect()

		hash := protocol.HashAccount(protocol.HashSHA1, "carol", "s3cret")
		createReq := wire.Message{
			{Name: "type", Raw: protocol.Cli2DbAcctCreate},
			{Name: "transId", Raw: uint32(1)},
			{Name: "acctName", Raw: "carol"},
			{Name: "acctHash", Raw: hash[:]},
			{Name: "flags", Raw: uint32(protocol.AcctFlagUser | protocol.AcctFlagHashSHA1)},
		}
		b, eerr := wire.Encode(protocol.AcctCreateRequest, createReq)
		Expect(eerr).To(BeNil())
		_, werr := client.Writer(conn).Write(b)
		Expect(werr).To(BeNil())

		reader := wire.NewReader(client.Reader(conn), 0)
		_, derr := reader.Decode(protocol.AcctCreateReply)
		Expect(derr).To(BeNil())

		var wrongHash [20]byte
		authReq := wire.Message{
			{Name: "type", Raw: protocol.Cli2DbAcctAuth},
			{Name: "transId", Raw: uint32(2)},
			{Name: "acctName", Raw: "carol"},
			{Name: "cliHash", Raw: wrongHash[:]},
			{Name: "cliChallenge", Raw: uint32(1)},
			{Name: "srvChallenge", Raw: uint32(2)},
		}
		b2, eerr2 := wire.Encode(protocol.AcctAuthRequest, authReq)
		Expect(eerr2).To(BeNil())
		_, werr2 := client.Writer(conn).Write(b2)
		Expect(werr2).To(BeNil())

		authReply, derr2 := reader.Decode(protocol.AcctAuthReply)
		Expect(derr2).To(BeNil())
		Expect(protocol.NetError(authReply.Uint32("result"))).To(Equal(protocol.ErrAuthenticationFailed))

		Expect(conn.Close()).To(Succeed())
		Eventually(done).Should(BeClosed())
	})
})
