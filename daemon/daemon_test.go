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

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hoikas/fus/crypt"
	"github.com/hoikas/fus/daemon"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

var _ = Describe("Daemon", func() {
	It("answers a ping over a handshaken connection", func() {
		km, kerr := crypt.GenerateKeyMaterial(crypt.Generator(crypt.RoleAdmin), 64)
		Expect(kerr).To(BeNil())

		responder := crypt.NewResponder(km.N, km.K)
		initiator := crypt.NewInitiator(km.G, km.N, km.X)

		d := daemon.NewDaemon("admin", responder, logrus.NewEntry(logrus.StandardLogger()))

		serverConn, clientConn := net.Pipe()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		acceptDone := make(chan struct{})
		go func() {
			d.Accept(ctx, serverConn, nil, nil)
			close(acceptDone)
		}()

		clientSession, herr := initiator.Connect(clientConn)
		Expect(herr).To(BeNil())

		req := wire.Message{
			{Name: "type", Raw: protocol.Cli2AdminPing},
			{Name: "transId", Raw: uint32(7)},
		}
		b, eerr := wire.Encode(protocol.PingRequest, req)
		Expect(eerr).To(BeNil())

		_, werr := clientSession.Writer(clientConn).Write(b)
		Expect(werr).To(BeNil())

		reader := wire.NewReader(clientSession.Reader(clientConn), 0)
		reply, derr := reader.Decode(protocol.PingReply)
		Expect(derr).To(BeNil())
		Expect(reply.Uint16("type")).To(Equal(protocol.Admin2CliPing))
		Expect(reply.Uint32("transId")).To(Equal(uint32(7)))

		Expect(clientConn.Close()).To(Succeed())
		Eventually(acceptDone).Should(BeClosed())
	})

	It("closes the connection on an unregistered message type", func() {
		km, kerr := crypt.GenerateKeyMaterial(crypt.Generator(crypt.RoleAuth), 64)
		Expect(kerr).To(BeNil())

		responder := crypt.NewResponder(km.N, km.K)
		initiator := crypt.NewInitiator(km.G, km.N, km.X)

		d := daemon.NewDaemon("auth", responder, logrus.NewEntry(logrus.StandardLogger()))

		serverConn, clientConn := net.Pipe()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		acceptDone := make(chan struct{})
		go func() {
			d.Accept(ctx, serverConn, nil, nil)
			close(acceptDone)
		}()

		clientSession, herr := initiator.Connect(clientConn)
		Expect(herr).To(BeNil())

		b, eerr := wire.Encode(protocol.Header, wire.Message{
			{Name: "type", Raw: uint16(999)},
		})
		Expect(eerr).To(BeNil())
		_, werr := clientSession.Writer(clientConn).Write(b)
		Expect(werr).To(BeNil())

		Eventually(acceptDone).Should(BeClosed())
		Expect(clientConn.Close()).To(Succeed())
	})
})
