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

import errors "github.com/hoikas/fus/errors"

const (
	HANDSHAKE_FAILED errors.CodeError = iota + errors.MinPkgDaemon
	READ_FAILED
	WRITE_FAILED
	UNKNOWN_MESSAGE_TYPE
	DIAL_FAILED
	NOT_CONNECTED
	CALL_TIMEOUT
)

func init() {
	errors.RegisterIdFctMessage(HANDSHAKE_FAILED, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case HANDSHAKE_FAILED:
		return "crypt handshake failed"
	case READ_FAILED:
		return "connection read failed"
	case WRITE_FAILED:
		return "connection write failed"
	case UNKNOWN_MESSAGE_TYPE:
		return "no handler registered for this message type"
	case DIAL_FAILED:
		return "failed to dial peer daemon"
	case NOT_CONNECTED:
		return "db client has no live connection"
	case CALL_TIMEOUT:
		return "call to peer daemon timed out"
	}
	return ""
}
