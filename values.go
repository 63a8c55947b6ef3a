// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// exifType represents the basic TIFF tag data types.
type exifType uint16

const (
	exifTypeUnsignedByte  exifType = 1
	exifTypeASCII         exifType = 2
	exifTypeUnsignedShort exifType = 3
	exifTypeUnsignedLong  exifType = 4
	exifTypeUnsignedRat   exifType = 5
	exifTypeSignedByte    exifType = 6
	exifTypeUndef         exifType = 7
	exifTypeSignedShort   exifType = 8
	exifTypeSignedLong    exifType = 9
	exifTypeSignedRat     exifType = 10
	exifTypeSignedFloat   exifType = 11
	exifTypeSignedDouble  exifType = 12
)

// Size in bytes of each type.
var exifTypeSize = map[exifType]uint32{
	exifTypeUnsignedByte:  1,
	exifTypeASCII:         1,
	exifTypeUnsignedShort: 2,
	exifTypeUnsignedLong:  4,
	exifTypeUnsignedRat:   8,
	exifTypeSignedByte:    1,
	exifTypeUndef:         1,
	exifTypeSignedShort:   2,
	exifTypeSignedLong:    4,
	exifTypeSignedRat:     8,
	exifTypeSignedFloat:   4,
	exifTypeSignedDouble:  8,
}

// Value is one decoded tag value: the raw TIFF type code plus an ordered
// payload in the matching Go representation. Unknown type codes carry
// their raw bytes and answer false to every typed accessor, so vendor or
// future tags pass through without failing the parse.
type Value struct {
	typ exifType
	v   any
}

// IsZero reports whether v holds no decoded payload.
func (v Value) IsZero() bool {
	return v.v == nil
}

// Interface returns the decoded payload. One of []byte, string,
// []uint16, []uint32, []int8, []int16, []int32, []Rat[uint32],
// []Rat[int32] or []float64.
func (v Value) Interface() any {
	return v.v
}

// Count returns the number of decoded elements.
func (v Value) Count() int {
	switch vv := v.v.(type) {
	case []byte:
		return len(vv)
	case string:
		return len(vv)
	case []uint16:
		return len(vv)
	case []uint32:
		return len(vv)
	case []int8:
		return len(vv)
	case []int16:
		return len(vv)
	case []int32:
		return len(vv)
	case []Rat[uint32]:
		return len(vv)
	case []Rat[int32]:
		return len(vv)
	case []float64:
		return len(vv)
	default:
		return 0
	}
}

// Text returns the value as a cleaned string. Only ASCII-typed values
// qualify.
func (v Value) Text() (string, bool) {
	s, ok := v.v.(string)
	if !ok {
		return "", false
	}
	return s, true
}

// Bytes returns the raw payload of byte and undefined typed values.
func (v Value) Bytes() ([]byte, bool) {
	b, ok := v.v.([]byte)
	return b, ok
}

// Uint returns element i of an unsigned integer value of any width.
func (v Value) Uint(i int) (uint32, bool) {
	if i < 0 {
		return 0, false
	}
	switch vv := v.v.(type) {
	case []byte:
		if v.typ != exifTypeUnsignedByte || i >= len(vv) {
			return 0, false
		}
		return uint32(vv[i]), true
	case []uint16:
		if i >= len(vv) {
			return 0, false
		}
		return uint32(vv[i]), true
	case []uint32:
		if i >= len(vv) {
			return 0, false
		}
		return vv[i], true
	default:
		return 0, false
	}
}

// URat returns element i of an unsigned rational value.
func (v Value) URat(i int) (Rat[uint32], bool) {
	rs, ok := v.v.([]Rat[uint32])
	if !ok || i < 0 || i >= len(rs) {
		return nil, false
	}
	return rs[i], true
}

// Float returns element i of any numeric value as a float64. A rational
// with a zero denominator answers false.
func (v Value) Float(i int) (float64, bool) {
	if i < 0 {
		return 0, false
	}
	switch vv := v.v.(type) {
	case []Rat[uint32]:
		if i >= len(vv) || vv[i].Den() == 0 {
			return 0, false
		}
		return vv[i].Float64(), true
	case []Rat[int32]:
		if i >= len(vv) || vv[i].Den() == 0 {
			return 0, false
		}
		return vv[i].Float64(), true
	case []int8:
		if i >= len(vv) {
			return 0, false
		}
		return float64(vv[i]), true
	case []int16:
		if i >= len(vv) {
			return 0, false
		}
		return float64(vv[i]), true
	case []int32:
		if i >= len(vv) {
			return 0, false
		}
		return float64(vv[i]), true
	case []float64:
		if i >= len(vv) {
			return 0, false
		}
		return vv[i], true
	default:
		u, ok := v.Uint(i)
		if !ok {
			return 0, false
		}
		return float64(u), true
	}
}

// decodeValue interprets raw, which holds exactly count elements of typ
// in the given byte order. raw must be pre-validated by the caller.
func decodeValue(typ exifType, count uint32, raw []byte, byteOrder binary.ByteOrder) Value {
	n := int(count)
	switch typ {
	case exifTypeUnsignedByte, exifTypeUndef:
		b := make([]byte, n)
		copy(b, raw)
		return Value{typ: typ, v: b}
	case exifTypeASCII:
		return Value{typ: typ, v: decodeText(raw)}
	case exifTypeUnsignedShort:
		s := make([]uint16, n)
		for i := range s {
			s[i] = byteOrder.Uint16(raw[2*i:])
		}
		return Value{typ: typ, v: s}
	case exifTypeUnsignedLong:
		s := make([]uint32, n)
		for i := range s {
			s[i] = byteOrder.Uint32(raw[4*i:])
		}
		return Value{typ: typ, v: s}
	case exifTypeUnsignedRat:
		s := make([]Rat[uint32], n)
		for i := range s {
			s[i] = newRawRat[uint32](byteOrder.Uint32(raw[8*i:]), byteOrder.Uint32(raw[8*i+4:]))
		}
		return Value{typ: typ, v: s}
	case exifTypeSignedByte:
		s := make([]int8, n)
		for i := range s {
			s[i] = int8(raw[i])
		}
		return Value{typ: typ, v: s}
	case exifTypeSignedShort:
		s := make([]int16, n)
		for i := range s {
			s[i] = int16(byteOrder.Uint16(raw[2*i:]))
		}
		return Value{typ: typ, v: s}
	case exifTypeSignedLong:
		s := make([]int32, n)
		for i := range s {
			s[i] = int32(byteOrder.Uint32(raw[4*i:]))
		}
		return Value{typ: typ, v: s}
	case exifTypeSignedRat:
		s := make([]Rat[int32], n)
		for i := range s {
			s[i] = newRawRat[int32](int32(byteOrder.Uint32(raw[8*i:])), int32(byteOrder.Uint32(raw[8*i+4:])))
		}
		return Value{typ: typ, v: s}
	case exifTypeSignedFloat:
		s := make([]float64, n)
		for i := range s {
			s[i] = float64(math.Float32frombits(byteOrder.Uint32(raw[4*i:])))
		}
		return Value{typ: typ, v: s}
	case exifTypeSignedDouble:
		s := make([]float64, n)
		for i := range s {
			s[i] = math.Float64frombits(byteOrder.Uint64(raw[8*i:]))
		}
		return Value{typ: typ, v: s}
	default:
		// Unknown type code; keep the raw bytes.
		b := make([]byte, len(raw))
		copy(b, raw)
		return Value{typ: typ, v: b}
	}
}

// decodeText turns ASCII tag bytes into a cleaned string. Older cameras
// write Latin-1 in ASCII-typed tags, so bytes that are not valid UTF-8
// fall back to an ISO 8859-1 decode.
func decodeText(raw []byte) string {
	b := trimBytesNulls(raw)
	if len(b) == 0 {
		return ""
	}
	if !utf8.Valid(b) {
		if d, err := charmap.ISO8859_1.NewDecoder().Bytes(b); err == nil {
			b = d
		}
	}
	return printableString(string(b))
}
