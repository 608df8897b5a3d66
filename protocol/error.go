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

// Package protocol holds the flat wire vocabulary shared by every daemon
// role: the net_error result enumeration, account flag bits, and the
// per-role message descriptor tables built on top of package wire.
package protocol

// NetError is the flat result code that travels on the wire as a u32 in
// every reply message. It is never a Go error value in its own right —
// handlers translate it to and from errors.CodeError at the package
// boundary — because callers on the wire side need the bare numeric
// value, not a stack trace.
type NetError uint32

const (
	ErrPending              NetError = 0xFFFFFFFF
	ErrSuccess              NetError = 0
	ErrInternalError        NetError = 1
	ErrTimeout              NetError = 2
	ErrBadServerData        NetError = 3
	ErrConnectFailed        NetError = 5
	ErrDisconnected         NetError = 6
	ErrOldBuildId           NetError = 8
	ErrRemoteShutdown       NetError = 9
	ErrAccountAlreadyExists NetError = 11
	ErrAccountNotFound      NetError = 13
	ErrInvalidParameter     NetError = 15
	ErrAuthenticationFailed NetError = 20
	ErrLoginDenied          NetError = 22
	ErrNotSupported         NetError = 29
	ErrTooManyFailedLogins  NetError = 33
	ErrAccountBanned        NetError = 38
)

func (e NetError) String() string {
	switch e {
	case ErrPending:
		return "pending"
	case ErrSuccess:
		return "success"
	case ErrInternalError:
		return "internalError"
	case ErrTimeout:
		return "timeout"
	case ErrBadServerData:
		return "badServerData"
	case ErrConnectFailed:
		return "connectFailed"
	case ErrDisconnected:
		return "disconnected"
	case ErrOldBuildId:
		return "oldBuildId"
	case ErrRemoteShutdown:
		return "remoteShutdown"
	case ErrAccountAlreadyExists:
		return "accountAlreadyExists"
	case ErrAccountNotFound:
		return "accountNotFound"
	case ErrInvalidParameter:
		return "invalidParameter"
	case ErrAuthenticationFailed:
		return "authenticationFailed"
	case ErrLoginDenied:
		return "loginDenied"
	case ErrNotSupported:
		return "notSupported"
	case ErrTooManyFailedLogins:
		return "tooManyFailedLogins"
	case ErrAccountBanned:
		return "accountBanned"
	default:
		return "unknown"
	}
}
