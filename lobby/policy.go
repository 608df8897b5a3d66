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

import (
	"strings"

	"github.com/hoikas/fus/config"
	"github.com/hoikas/fus/wire"
)

// fileOrGate reports whether t is one of the two connection types the
// "strict" policy additionally checks productId against.
func fileOrGate(t wire.ConnType) bool {
	return t == wire.ConnTypeCli2File || t == wire.ConnTypeCli2Gate
}

// checkedByDefault reports whether t has its build/branch checked under
// the "default" policy — every type except file/gate, per spec §4.3.
func checkedByDefault(t wire.ConnType) bool {
	return !fileOrGate(t)
}

// verify applies cfg's VerifyPolicy to a freshly parsed ConnectData
// message for a connection of type t. A false result means the
// connection must be closed before the crypt handshake is offered.
func verify(policy config.VerifyPolicy, t wire.ConnType, buildId, branchId uint32, productId string, cfg config.ClientConfig) bool {
	if policy == config.VerifyNone {
		return true
	}

	if checkedByDefault(t) && (buildId != cfg.BuildId || branchId != cfg.BranchId) {
		return false
	}

	if policy == config.VerifyStrict && fileOrGate(t) && !strings.EqualFold(productId, cfg.Product) {
		return false
	}

	return true
}
