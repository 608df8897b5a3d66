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

import "github.com/google/uuid"

// Value is one decoded (or to-be-encoded) field. Its Go-side
// representation depends on the field's Type: integers unbox to uint8/
// uint16/uint32/uint64, FieldUUID to uuid.UUID, every buffer/blob variant
// to []byte, and FieldString to a Go string (read through Message.String).
type Value struct {
	Name string
	Raw  any
}

// Message is the decoded body of one wire message: an ordered bag of
// Values matching the Descriptor that produced it. Field lookup is by
// name; descriptors are small (a handful of fields) so linear scan is
// simpler and just as fast as a map for this size.
type Message []Value

func (m Message) find(name string) (any, bool) {
	for _, v := range m {
		if v.Name == name {
			return v.Raw, true
		}
	}
	return nil, false
}

func (m Message) Uint8(name string) uint8 {
	if v, ok := m.find(name); ok {
		if u, ok := v.(uint8); ok {
			return u
		}
	}
	return 0
}

func (m Message) Uint16(name string) uint16 {
	if v, ok := m.find(name); ok {
		if u, ok := v.(uint16); ok {
			return u
		}
	}
	return 0
}

func (m Message) Uint32(name string) uint32 {
	if v, ok := m.find(name); ok {
		if u, ok := v.(uint32); ok {
			return u
		}
	}
	return 0
}

func (m Message) Uint64(name string) uint64 {
	if v, ok := m.find(name); ok {
		if u, ok := v.(uint64); ok {
			return u
		}
	}
	return 0
}

func (m Message) Bytes(name string) []byte {
	if v, ok := m.find(name); ok {
		if b, ok := v.([]byte); ok {
			return b
		}
	}
	return nil
}

func (m Message) String(name string) string {
	if v, ok := m.find(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (m Message) UUID(name string) uuid.UUID {
	if v, ok := m.find(name); ok {
		if u, ok := v.(uuid.UUID); ok {
			return u
		}
	}
	return uuid.UUID{}
}
