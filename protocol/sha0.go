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

import "encoding/binary"

// sha0Sum implements the original (1993, pre-correction) SHA with its
// missing left-rotate in the message schedule. Accounts created by old
// clients are still keyed with it, so it has to stay available
// alongside sha1 even though it is cryptographically broken; no
// standard library or third-party package implements the uncorrected
// variant, since nothing but this legacy protocol still uses it.
func sha0Sum(data []byte) [20]byte {
	h0, h1, h2, h3, h4 := uint32(0x67452301), uint32(0xEFCDAB89), uint32(0x98BADCFE), uint32(0x10325476), uint32(0xC3D2E1F0)

	msg := padSHA0(data)
	var w [80]uint32

	for off := 0; off < len(msg); off += 64 {
		block := msg[off : off+64]
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(block[i*4:])
		}
		for i := 16; i < 80; i++ {
			// The 1993 original omits the left-rotate-by-1 that SHA-1
			// later added here; this is the entire difference between
			// the two algorithms.
			w[i] = w[i-3] ^ w[i-8] ^ w[i-14] ^ w[i-16]
		}

		a, b, c, d, e := h0, h1, h2, h3, h4

		for i := 0; i < 80; i++ {
			var f, k uint32
			switch {
			case i < 20:
				f = (b & c) | (^b & d)
				k = 0x5A827999
			case i < 40:
				f = b ^ c ^ d
				k = 0x6ED9EBA1
			case i < 60:
				f = (b & c) | (b & d) | (c & d)
				k = 0x8F1BBCDC
			default:
				f = b ^ c ^ d
				k = 0xCA62C1D6
			}

			temp := rotl32(a, 5) + f + e + k + w[i]
			e = d
			d = c
			c = rotl32(b, 30)
			b = a
			a = temp
		}

		h0 += a
		h1 += b
		h2 += c
		h3 += d
		h4 += e
	}

	var out [20]byte
	binary.BigEndian.PutUint32(out[0:], h0)
	binary.BigEndian.PutUint32(out[4:], h1)
	binary.BigEndian.PutUint32(out[8:], h2)
	binary.BigEndian.PutUint32(out[12:], h3)
	binary.BigEndian.PutUint32(out[16:], h4)
	return out
}

func rotl32(x uint32, n uint) uint32 {
	return (x << n) | (x >> (32 - n))
}

func padSHA0(data []byte) []byte {
	bitLen := uint64(len(data)) * 8
	padded := append([]byte{}, data...)
	padded = append(padded, 0x80)
	for len(padded)%64 != 56 {
		padded = append(padded, 0)
	}
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], bitLen)
	return append(padded, lenBuf[:]...)
}
