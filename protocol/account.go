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

package protocol

// AccountFlags is the bitset persisted alongside every account: role
// bits plus the internal hash-algorithm marker.
type AccountFlags uint32

const (
	AcctFlagDisabled AccountFlags = 1 << iota
	AcctFlagAdmin
	AcctFlagDeveloper
	AcctFlagBeta
	AcctFlagUser
	AcctFlagSpecialEvent
	AcctFlagBanned
	// AcctFlagHashSHA1 set means the stored hash was produced with sha1;
	// clear means the legacy sha0 algorithm was used. New accounts
	// always set it; it exists so old rows keep authenticating.
	AcctFlagHashSHA1
)

// HashAlgo selects which digest an account's password hash was produced
// with, decoded from AcctFlagHashSHA1.
type HashAlgo uint8

const (
	HashSHA0 HashAlgo = iota
	HashSHA1
)

func (f AccountFlags) HashAlgo() HashAlgo {
	if f&AcctFlagHashSHA1 != 0 {
		return HashSHA1
	}
	return HashSHA0
}
