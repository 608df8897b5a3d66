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

// Package crypt implements the per-connection wire cipher: a Diffie-Hellman
// style key exchange (see keys.go, handshake.go) feeding two independent
// RC4 stream states, one per direction. Every byte on the wire after the
// handshake passes through exactly one of these two states.
package crypt

import (
	"crypto/rc4"

	errors "github.com/hoikas/fus/errors"
)

// KeySize is the width, in bytes, of the symmetric key derived by the
// handshake (56 bits, matching the legacy wire format).
const KeySize = 7

// crt is the ciphered session established after a successful handshake.
// enc and dec are independent RC4 key schedules: a connection's outbound
// bytes never share state with its inbound bytes.
type crt struct {
	enc *rc4.Cipher
	dec *rc4.Cipher
}

func newCrt(encKey, decKey [KeySize]byte) (*crt, errors.Error) {
	enc, err := rc4.NewCipher(encKey[:])
	if err != nil {
		return nil, RC4_KEY.Error(err)
	}

	dec, err := rc4.NewCipher(decKey[:])
	if err != nil {
		return nil, RC4_KEY.Error(err)
	}

	return &crt{enc: enc, dec: dec}, nil
}

// Encode enciphers p against the write-direction key stream into a new
// slice and returns it; p is left unchanged. RC4 is a symmetric XOR
// stream: the returned slice is the same length as p.
func (o *crt) Encode(p []byte) []byte {
	if len(p) < 1 {
		return make([]byte, 0)
	}

	out := make([]byte, len(p))
	o.enc.XORKeyStream(out, p)
	return out
}

// Decode deciphers p against the read-direction key stream. RC4 never
// fails to "decode" a given ciphertext (there is no authentication tag),
// so the error return is always nil; empty input yields an empty slice.
func (o *crt) Decode(p []byte) ([]byte, error) {
	if len(p) < 1 {
		return make([]byte, 0), nil
	}

	out := make([]byte, len(p))
	o.dec.XORKeyStream(out, p)
	return out, nil
}
