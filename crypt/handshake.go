/*
 * MIT License
 *
 * Copyright (c) 2023 Nicolas JUHEL
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

package crypt

import (
	"crypto/rand"
	"io"
	"math/big"

	errors "github.com/hoikas/fus/errors"
)

const (
	msgTypeY byte = 0
	msgTypeS byte = 1

	maxYLen = 64 // a 64-byte Y accommodates every modulus width this system generates
)

// truncate7 reduces a shared secret to the wire key width, right-padding
// with zero bytes when the secret's big-endian encoding is shorter than
// KeySize.
func truncate7(shared *big.Int) [KeySize]byte {
	var out [KeySize]byte

	b := shared.Bytes()
	n := len(b)
	if n > KeySize {
		n = KeySize
	}
	copy(out[:n], b[:n])

	return out
}

// Responder holds the per-daemon DH material (N, K) used to answer every
// inbound handshake. N and K are process-lifetime constants loaded once
// from configuration; a Responder is reused across every accepted
// connection of that daemon role.
type Responder struct {
	N *big.Int
	K *big.Int
}

// NewResponder builds a Responder from persisted key material.
func NewResponder(n, k *big.Int) *Responder {
	return &Responder{N: n, K: k}
}

// Accept runs the server side of the handshake described in §4.2: read
// the initiator's Y-message, derive the shared secret, reply with a fresh
// server seed, and return the ciphered session. rw is the still-cleartext
// connection; every byte read or written through the returned Crypt is
// enciphered.
func (r *Responder) Accept(rw io.ReadWriter) (Crypt, errors.Error) {
	hdr := make([]byte, 3)
	if _, err := io.ReadFull(rw, hdr); err != nil {
		return nil, HANDSHAKE_READ.Error(err)
	}

	if hdr[0] != msgTypeY {
		return nil, HANDSHAKE_TYPE.Error(nil)
	}

	yLen := int(hdr[2])
	if yLen == 0 || yLen > maxYLen {
		return nil, HANDSHAKE_LENGTH.Error(nil)
	}

	yBytes := make([]byte, yLen)
	if _, err := io.ReadFull(rw, yBytes); err != nil {
		return nil, HANDSHAKE_READ.Error(err)
	}

	y := new(big.Int).SetBytes(reverseBytes(yBytes))
	shared := new(big.Int).Exp(y, r.K, r.N)
	truncated := truncate7(shared)

	var serverSeed [KeySize]byte
	if _, err := io.ReadFull(rand.Reader, serverSeed[:]); err != nil {
		return nil, KEYGEN.Error(err)
	}

	key := xor7(truncated, serverSeed)

	reply := make([]byte, 2+KeySize)
	reply[0] = msgTypeS
	reply[1] = byte(len(reply))
	copy(reply[2:], serverSeed[:])
	if _, err := rw.Write(reply); err != nil {
		return nil, HANDSHAKE_WRITE.Error(err)
	}

	c, cerr := newCrt(key, key)
	if cerr != nil {
		return nil, cerr
	}
	return c, nil
}

// Initiator holds the public DH parameters (G, N, X) a client needs to
// open a handshake against a given daemon role; these are distributed via
// client-side configuration, matching the corresponding Responder's (N,
// K) on the server.
type Initiator struct {
	G int64
	N *big.Int
	X *big.Int
}

// NewInitiator builds an Initiator from the public key material a daemon
// role publishes to its clients.
func NewInitiator(g int64, n, x *big.Int) *Initiator {
	return &Initiator{G: g, N: n, X: x}
}

// Connect runs the client side of the handshake: pick a fresh client
// seed, send Y = G^seed mod N, read the responder's server seed, and
// derive the same session key the responder derived.
func (i *Initiator) Connect(rw io.ReadWriter) (Crypt, errors.Error) {
	seed, err := rand.Int(rand.Reader, i.N)
	if err != nil {
		return nil, KEYGEN.Error(err)
	}

	y := new(big.Int).Exp(big.NewInt(i.G), seed, i.N)
	yBytes := reverseBytes(y.Bytes())
	if len(yBytes) > maxYLen {
		return nil, HANDSHAKE_LENGTH.Error(nil)
	}

	msg := make([]byte, 3+len(yBytes))
	msg[0] = msgTypeY
	msg[1] = byte(len(msg))
	msg[2] = byte(len(yBytes))
	copy(msg[3:], yBytes)
	if _, werr := rw.Write(msg); werr != nil {
		return nil, HANDSHAKE_WRITE.Error(werr)
	}

	hdr := make([]byte, 2)
	if _, rerr := io.ReadFull(rw, hdr); rerr != nil {
		return nil, HANDSHAKE_READ.Error(rerr)
	}
	if hdr[0] != msgTypeS {
		return nil, HANDSHAKE_TYPE.Error(nil)
	}

	var serverSeed [KeySize]byte
	if _, rerr := io.ReadFull(rw, serverSeed[:]); rerr != nil {
		return nil, HANDSHAKE_READ.Error(rerr)
	}

	shared := new(big.Int).Exp(i.X, seed, i.N)
	truncated := truncate7(shared)
	key := xor7(truncated, serverSeed)

	return newCrt(key, key)
}

func xor7(a, b [KeySize]byte) [KeySize]byte {
	var out [KeySize]byte
	for idx := range out {
		out[idx] = a[idx] ^ b[idx]
	}
	return out
}

// reverseBytes flips byte order. The wire's Y-length/Y-bytes field is
// little-endian; math/big.Int.Bytes returns big-endian, so every Y value
// crossing the wire boundary passes through this helper in both
// directions.
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for idx, v := range b {
		out[len(b)-1-idx] = v
	}
	return out
}
