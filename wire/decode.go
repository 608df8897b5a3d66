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
	"encoding/binary"
	"io"
	"unicode/utf16"

	errors "github.com/hoikas/fus/errors"
)

// DefaultMaxBuffer bounds any single variable-length field read off the
// wire. A peer asking for more than this is lying or confused, not
// sending a legitimate huge buffer.
const DefaultMaxBuffer = 1 << 20

// Reader pulls complete Messages off an underlying byte stream one
// Descriptor at a time. It keeps no internal buffering beyond what a
// single Decode call needs, so it is safe to alternate Descriptors
// between calls — the daemons' connections do exactly this when they
// read a message's u16 type with one shape (protocol.Header) and the
// rest of it with the descriptor that type selects.
type Reader struct {
	r        io.Reader
	maxBytes int
}

// NewReader wraps r. maxBytes of 0 selects DefaultMaxBuffer.
func NewReader(r io.Reader, maxBytes int) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBuffer
	}
	return &Reader{r: r, maxBytes: maxBytes}
}

// Decode blocks until one complete message matching d has been read, or
// an error (including io.EOF from the underlying reader) occurs.
func (rd *Reader) Decode(d Descriptor) (Message, errors.Error) {
	msg := make(Message, 0, len(d))

	for _, f := range d {
		v, err := rd.decodeField(f)
		if err != nil {
			return nil, err
		}
		msg = append(msg, Value{Name: f.Name, Raw: v})
	}

	return msg, nil
}

func (rd *Reader) decodeField(f Field) (any, errors.Error) {
	switch f.Type {
	case FieldInt8:
		b, err := rd.readN(1)
		if err != nil {
			return nil, err
		}
		return b[0], nil

	case FieldInt16:
		b, err := rd.readN(2)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint16(b), nil

	case FieldInt32, FieldTransaction:
		b, err := rd.readN(4)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint32(b), nil

	case FieldInt64:
		b, err := rd.readN(8)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint64(b), nil

	case FieldUUID:
		b, err := rd.readN(16)
		if err != nil {
			return nil, err
		}
		return GUID(b), nil

	case FieldBlob:
		return rd.readN(f.Size)

	case FieldBufferTiny, FieldBuffer, FieldBufferHuge:
		n, err := rd.readLen(f.Type.lenWidth())
		if err != nil {
			return nil, err
		}
		return rd.readBuffer(n)

	case FieldBufferRedundantTiny, FieldBufferRedundantMedium, FieldBufferRedundantHuge:
		w := f.Type.lenWidth()
		n1, err := rd.readLen(w)
		if err != nil {
			return nil, err
		}
		n2, err := rd.readLen(w)
		if err != nil {
			return nil, err
		}
		if n1 != n2 {
			return nil, REDUNDANT_MISMATCH.Error(nil)
		}
		return rd.readBuffer(n1)

	case FieldString:
		n, err := rd.readLen(2)
		if err != nil {
			return nil, err
		}
		if n*2 > rd.maxBytes {
			return nil, BUFFER_TOO_LARGE.Error(nil)
		}
		raw, gerr := rd.readN(n * 2)
		if gerr != nil {
			return nil, gerr
		}
		units := make([]uint16, n)
		for i := 0; i < n; i++ {
			units[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
		}
		return string(utf16.Decode(units)), nil

	default:
		return nil, FIELD_TYPE_MISMATCH.Error(nil)
	}
}

func (rd *Reader) readLen(width int) (int, errors.Error) {
	b, err := rd.readN(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int(b[0]), nil
	case 2:
		return int(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return int(binary.LittleEndian.Uint32(b)), nil
	}
	return 0, FIELD_TYPE_MISMATCH.Error(nil)
}

func (rd *Reader) readBuffer(n int) ([]byte, errors.Error) {
	if n > rd.maxBytes {
		return nil, BUFFER_TOO_LARGE.Error(nil)
	}
	return rd.readN(n)
}

func (rd *Reader) readN(n int) ([]byte, errors.Error) {
	if n == 0 {
		return []byte{}, nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rd.r, b); err != nil {
		return nil, READ_SHORT.Error(err)
	}
	return b, nil
}
