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

import (
	"crypto/sha1"
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

// HashAccount derives the 20-byte account hash stored alongside a new
// account and recomputed at login time, using the algorithm selected by
// algo. The source feeds a UTF-16LE-normalised "password:account" (the
// account name lower-cased) into the digest; every later session hash
// is built on top of this value, never the raw password.
func HashAccount(algo HashAlgo, account, password string) [20]byte {
	plain := password + ":" + strings.ToLower(account)
	units := utf16.Encode([]rune(plain))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}

	switch algo {
	case HashSHA1:
		return sha1.Sum(buf)
	default:
		return sha0Sum(buf)
	}
}

// HashLogin combines a stored account hash with the login challenge
// pair into the session hash exchanged during the login handshake:
// H(acctHash || cliChallenge || srvChallenge). The algorithm matches
// whichever one produced acctHash.
func HashLogin(algo HashAlgo, acctHash [20]byte, cliChallenge, srvChallenge uint32) [20]byte {
	buf := make([]byte, 20+8)
	copy(buf, acctHash[:])
	binary.LittleEndian.PutUint32(buf[20:], cliChallenge)
	binary.LittleEndian.PutUint32(buf[24:], srvChallenge)

	switch algo {
	case HashSHA1:
		return sha1.Sum(buf)
	default:
		return sha0Sum(buf)
	}
}
