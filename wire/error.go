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

package wire

import errors "github.com/hoikas/fus/errors"

const (
	FIELD_TYPE_MISMATCH errors.CodeError = iota + errors.MinPkgWire
	FIELD_MISSING
	REDUNDANT_MISMATCH
	BUFFER_TOO_LARGE
	UNKNOWN_FIELD
	CONNHEADER_SHORT
	CONNHEADER_TYPE
	READ_SHORT
)

func init() {
	errors.RegisterIdFctMessage(FIELD_TYPE_MISMATCH, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case FIELD_TYPE_MISMATCH:
		return "field value does not match descriptor type"
	case FIELD_MISSING:
		return "message is missing a value for a descriptor field"
	case REDUNDANT_MISMATCH:
		return "redundant length fields disagree"
	case BUFFER_TOO_LARGE:
		return "buffer length exceeds configured maximum"
	case UNKNOWN_FIELD:
		return "no field registered with that name"
	case CONNHEADER_SHORT:
		return "connection header truncated"
	case CONNHEADER_TYPE:
		return "unrecognised connection type"
	case READ_SHORT:
		return "short read from underlying stream"
	}

	return ""
}
