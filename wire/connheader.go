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

package wire

import (
	"io"

	errors "github.com/hoikas/fus/errors"
)

// ConnType identifies which daemon role a freshly accepted TCP connection
// is addressed to, as carried by the first byte of its ConnHeader.
type ConnType uint8

const (
	ConnTypeCli2Auth     ConnType = 0x0A
	ConnTypeCli2Game     ConnType = 0x0B
	ConnTypeCli2File     ConnType = 0x10
	ConnTypeCli2Gate     ConnType = 0x16
	ConnTypeCli2Admin    ConnType = 0x61
	ConnTypeSrv2Master   ConnType = 0x80
	ConnTypeSrv2Database ConnType = 0x81
)

func (t ConnType) String() string {
	switch t {
	case ConnTypeCli2Auth:
		return "cli2auth"
	case ConnTypeCli2Game:
		return "cli2game"
	case ConnTypeCli2File:
		return "cli2file"
	case ConnTypeCli2Gate:
		return "cli2gate"
	case ConnTypeCli2Admin:
		return "cli2admin"
	case ConnTypeSrv2Master:
		return "srv2master"
	case ConnTypeSrv2Database:
		return "srv2database"
	default:
		return "unknown"
	}
}

// ConnHeader is the two-fixed-byte preamble every client sends before any
// framed message: a connection type byte and a total header length byte
// (itself included), followed by hdrBytes-2 bytes of connect-data whose
// shape is connection-type specific (the lobby dispatcher hands that
// payload to the matching daemon's own connect-data descriptor).
type ConnHeader struct {
	Type        ConnType
	ConnectData []byte
}

// ReadConnHeader reads the 2-byte preamble plus its connect-data from r.
// It does not validate Type against any known role; that policy decision
// belongs to the lobby dispatcher.
func ReadConnHeader(r io.Reader) (ConnHeader, errors.Error) {
	head := make([]byte, 2)
	if _, err := io.ReadFull(r, head); err != nil {
		return ConnHeader{}, CONNHEADER_SHORT.Error(err)
	}

	hdrBytes := int(head[1])
	if hdrBytes < 2 {
		return ConnHeader{}, CONNHEADER_SHORT.Error(nil)
	}

	data := make([]byte, hdrBytes-2)
	if len(data) > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			return ConnHeader{}, CONNHEADER_SHORT.Error(err)
		}
	}

	return ConnHeader{Type: ConnType(head[0]), ConnectData: data}, nil
}

// WriteConnHeader renders h as the wire's 2-byte-preamble-plus-payload
// shape, computing the total header length byte itself.
func WriteConnHeader(w io.Writer, h ConnHeader) errors.Error {
	buf := make([]byte, 2+len(h.ConnectData))
	buf[0] = byte(h.Type)
	buf[1] = byte(2 + len(h.ConnectData))
	copy(buf[2:], h.ConnectData)

	if _, err := w.Write(buf); err != nil {
		return CONNHEADER_SHORT.Error(err)
	}
	return nil
}
