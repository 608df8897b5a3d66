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

package lobby_test

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hoikas/fus/config"
	"github.com/hoikas/fus/lobby"
	"github.com/hoikas/fus/protocol"
	"github.com/hoikas/fus/wire"
)

func dialWithConnectData(addr string, t wire.ConnType, buildId, branchId uint32, productId uuid.UUID) net.Conn {
	conn, err := net.Dial("tcp", addr)
	Expect(err).To(BeNil())

	cdata, eerr := wire.Encode(protocol.ConnectData, wire.Message{
		{Name: "buildId", Raw: buildId},
		{Name: "branchId", Raw: branchId},
		{Name: "productId", Raw: productId},
	})
	Expect(eerr).To(BeNil())

	herr := wire.WriteConnHeader(conn, wire.ConnHeader{Type: t, ConnectData: cdata})
	Expect(herr).To(BeNil())
	return conn
}

var _ = Describe("Dispatcher", func() {
	var log *logrus.Entry

	BeforeEach(func() {
		log = logrus.NewEntry(logrus.StandardLogger())
	})

	It("hands an accepted connection to its registered route with decoded connect-data", func() {
		disp, err := lobby.NewDispatcher("127.0.0.1:0", config.VerifyNone, config.ClientConfig{}, log)
		Expect(err).To(BeNil())
		defer disp.Close()

		routed := make(chan wire.Message, 1)
		disp.RegisterRoute(wire.ConnTypeCli2Admin, func(_ context.Context, conn net.Conn, cdata wire.Message) {
			routed <- cdata
			_ = conn.Close()
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = disp.Serve(ctx) }()

		pid := uuid.New()
		conn := dialWithConnectData(disp.Addr().String(), wire.ConnTypeCli2Admin, 42, 7, pid)
		defer conn.Close()

		var cdata wire.Message
		Eventually(routed).Should(Receive(&cdata))
		Expect(cdata.Uint32("buildId")).To(Equal(uint32(42)))
		Expect(cdata.Uint32("branchId")).To(Equal(uint32(7)))
		Expect(cdata.UUID("productId")).To(Equal(pid))
	})

	It("rejects a connection whose build identity fails the configured policy", func() {
		cfg := config.ClientConfig{BuildId: 100, BranchId: 1, Verification: config.VerifyDefault}
		disp, err := lobby.NewDispatcher("127.0.0.1:0", config.VerifyDefault, cfg, log)
		Expect(err).To(BeNil())
		defer disp.Close()

		routed := make(chan struct{}, 1)
		disp.RegisterRoute(wire.ConnTypeCli2Auth, func(_ context.Context, conn net.Conn, _ wire.Message) {
			routed <- struct{}{}
			_ = conn.Close()
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = disp.Serve(ctx) }()

		conn := dialWithConnectData(disp.Addr().String(), wire.ConnTypeCli2Auth, 1, 1, uuid.New())
		defer conn.Close()

		buf := make([]byte, 1)
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		_, rerr := conn.Read(buf)
		Expect(rerr).ToNot(BeNil())
		Expect(routed).ToNot(Receive())
	})

	It("closes a connection for a ConnType with no registered route", func() {
		disp, err := lobby.NewDispatcher("127.0.0.1:0", config.VerifyNone, config.ClientConfig{}, log)
		Expect(err).To(BeNil())
		defer disp.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = disp.Serve(ctx) }()

		conn := dialWithConnectData(disp.Addr().String(), wire.ConnTypeCli2Game, 1, 1, uuid.New())
		defer conn.Close()

		buf := make([]byte, 1)
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		_, rerr := conn.Read(buf)
		Expect(rerr).ToNot(BeNil())
	})
})
