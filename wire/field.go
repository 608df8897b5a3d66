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

// Package wire implements the framed, polymorphic message stream:
// little-endian codec helpers, declarative net-struct descriptors,
// and the streaming reader that turns a byte stream into complete
// messages. It applies no cipher; that is package crypt's job.
// Descriptors are process-lifetime constants; see messages.go in
// the protocol package for the concrete per-role schemas built on top of
// this package.
package wire

// FieldType tags the on-wire shape of one descriptor field.
type FieldType uint8

const (
	FieldInt8 FieldType = iota
	FieldInt16
	FieldInt32
	FieldInt64
	FieldUUID
	FieldBlob
	FieldBufferTiny
	FieldBuffer
	FieldBufferHuge
	FieldBufferRedundantTiny
	FieldBufferRedundantMedium
	FieldBufferRedundantHuge
	FieldString
	FieldTransaction
)

// Field is one entry of a Descriptor. Size is meaningful only for
// FieldBlob (exact byte count); every other type has an implicit,
// type-determined width.
type Field struct {
	Name string
	Type FieldType
	Size int
}

// Descriptor is an ordered, immutable field list — a net-struct schema.
// Descriptors are declared as package-level vars and never mutated after
// init; the streaming Reader treats a Descriptor purely as a read-only
// cursor target.
type Descriptor []Field

// lenWidth returns the byte width of the length prefix for variable-size
// field types, or 0 for fixed-size types.
func (t FieldType) lenWidth() int {
	switch t {
	case FieldBufferTiny, FieldBufferRedundantTiny:
		return 1
	case FieldBuffer, FieldBufferRedundantMedium, FieldString:
		return 2
	case FieldBufferHuge, FieldBufferRedundantHuge:
		return 4
	default:
		return 0
	}
}

func (t FieldType) redundant() bool {
	switch t {
	case FieldBufferRedundantTiny, FieldBufferRedundantMedium, FieldBufferRedundantHuge:
		return true
	default:
		return false
	}
}

// fixedSize returns the on-wire byte count for a field whose size never
// varies, or -1 if the field is variable-length.
func (f Field) fixedSize() int {
	switch f.Type {
	case FieldInt8:
		return 1
	case FieldInt16:
		return 2
	case FieldInt32, FieldTransaction:
		return 4
	case FieldInt64:
		return 8
	case FieldUUID:
		return 16
	case FieldBlob:
		return f.Size
	default:
		return -1
	}
}
