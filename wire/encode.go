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

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"

	"github.com/google/uuid"

	errors "github.com/hoikas/fus/errors"
)

// Encode renders msg as the byte sequence d describes. The values in msg
// must appear in the same order as d's fields and carry the Go type
// Decode would have produced for that field (see message.go).
func Encode(d Descriptor, msg Message) ([]byte, errors.Error) {
	var buf bytes.Buffer

	for i, f := range d {
		if i >= len(msg) {
			return nil, FIELD_MISSING.Error(nil)
		}
		v := msg[i].Raw

		if err := encodeField(&buf, f, v); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func encodeField(buf *bytes.Buffer, f Field, v any) errors.Error {
	switch f.Type {
	case FieldInt8:
		u, ok := v.(uint8)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		buf.WriteByte(u)

	case FieldInt16:
		u, ok := v.(uint16)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], u)
		buf.Write(b[:])

	case FieldInt32, FieldTransaction:
		u, ok := v.(uint32)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], u)
		buf.Write(b[:])

	case FieldInt64:
		u, ok := v.(uint64)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], u)
		buf.Write(b[:])

	case FieldUUID:
		u, ok := v.(uuid.UUID)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		buf.Write(PutGUID(u))

	case FieldBlob:
		b, ok := v.([]byte)
		if !ok || len(b) != f.Size {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		buf.Write(b)

	case FieldBufferTiny, FieldBuffer, FieldBufferHuge:
		b, ok := v.([]byte)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		writeLen(buf, f.Type.lenWidth(), len(b))
		buf.Write(b)

	case FieldBufferRedundantTiny, FieldBufferRedundantMedium, FieldBufferRedundantHuge:
		b, ok := v.([]byte)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		w := f.Type.lenWidth()
		writeLen(buf, w, len(b))
		writeLen(buf, w, len(b))
		buf.Write(b)

	case FieldString:
		s, ok := v.(string)
		if !ok {
			return FIELD_TYPE_MISMATCH.Error(nil)
		}
		units := utf16.Encode([]rune(s))
		var lb [2]byte
		binary.LittleEndian.PutUint16(lb[:], uint16(len(units)))
		buf.Write(lb[:])
		for _, u := range units {
			var ub [2]byte
			binary.LittleEndian.PutUint16(ub[:], u)
			buf.Write(ub[:])
		}

	default:
		return FIELD_TYPE_MISMATCH.Error(nil)
	}

	return nil
}

func writeLen(buf *bytes.Buffer, width, n int) {
	switch width {
	case 1:
		buf.WriteByte(byte(n))
	case 2:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		buf.Write(b[:])
	case 4:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		buf.Write(b[:])
	}
}
