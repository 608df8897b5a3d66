/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

import errors "github.com/hoikas/fus/errors"

const (
	EMPTY_PARAMS errors.CodeError = iota + errors.MinPkgCrypt
	B64_DECODE
	KEYGEN
	RC4_KEY
	HANDSHAKE_READ
	HANDSHAKE_WRITE
	HANDSHAKE_TYPE
	HANDSHAKE_LENGTH
)

func init() {
	errors.RegisterIdFctMessage(EMPTY_PARAMS, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case EMPTY_PARAMS:
		return "given parameters is empty"
	case B64_DECODE:
		return "base64 decode error"
	case KEYGEN:
		return "key material generation error"
	case RC4_KEY:
		return "rc4 cipher init error"
	case HANDSHAKE_READ:
		return "handshake read error"
	case HANDSHAKE_WRITE:
		return "handshake write error"
	case HANDSHAKE_TYPE:
		return "unexpected handshake message type"
	case HANDSHAKE_LENGTH:
		return "handshake length out of range"
	}

	return ""
}
