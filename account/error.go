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

package account

import errors "github.com/hoikas/fus/errors"

const (
	STORE_OPEN_FAILED errors.CodeError = iota + errors.MinPkgAccount
	MIGRATE_FAILED
	ALREADY_EXISTS
	NOT_FOUND
	AUTH_FAILED
)

func init() {
	errors.RegisterIdFctMessage(STORE_OPEN_FAILED, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case STORE_OPEN_FAILED:
		return "failed to open account store"
	case MIGRATE_FAILED:
		return "failed to migrate account schema"
	case ALREADY_EXISTS:
		return "account name already exists"
	case NOT_FOUND:
		return "no account with that name"
	case AUTH_FAILED:
		return "presented credentials do not match the stored hash"
	}
	return ""
}
