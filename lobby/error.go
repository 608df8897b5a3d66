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

package lobby

import errors "github.com/hoikas/fus/errors"

const (
	CONNECT_DATA_INVALID errors.CodeError = iota + errors.MinPkgLobby
	NO_ROUTE
	VERIFY_REJECTED
	ACCEPT_FAILED
)

func init() {
	errors.RegisterIdFctMessage(CONNECT_DATA_INVALID, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case CONNECT_DATA_INVALID:
		return "connect-data blob does not match the expected schema"
	case NO_ROUTE:
		return "no daemon registered to handle this connection type"
	case VERIFY_REJECTED:
		return "client build identity failed verification policy"
	case ACCEPT_FAILED:
		return "failed to accept connection"
	}
	return ""
}
