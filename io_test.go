// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestByteCursorReads(t *testing.T) {
	c := qt.New(t)

	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	cur := newByteCursor(buf, binary.BigEndian)
	v16, err := cur.u16()
	c.Assert(err, qt.IsNil)
	c.Assert(v16, qt.Equals, uint16(0x0102))
	v32, err := cur.u32()
	c.Assert(err, qt.IsNil)
	c.Assert(v32, qt.Equals, uint32(0x03040506))
	c.Assert(cur.remaining(), qt.Equals, 2)

	cur = newByteCursor(buf, binary.LittleEndian)
	v16, err = cur.u16()
	c.Assert(err, qt.IsNil)
	c.Assert(v16, qt.Equals, uint16(0x0201))
	v64, err := cur.u64()
	c.Assert(err, qt.IsNotNil)
	c.Assert(v64, qt.Equals, uint64(0))

	cur = newByteCursor(buf, binary.LittleEndian)
	v64, err = cur.u64()
	c.Assert(err, qt.IsNil)
	c.Assert(v64, qt.Equals, uint64(0x0807060504030201))

	b, err := cur.bytes(0)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.HasLen, 0)
}

func TestByteCursorBounds(t *testing.T) {
	c := qt.New(t)

	cur := newByteCursor([]byte{0x01, 0x02}, binary.BigEndian)

	_, err := cur.u32()
	c.Assert(err, qt.ErrorIs, ErrOutOfBounds)

	// A failed read must not move the cursor.
	v, err := cur.u16()
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint16(0x0102))

	_, err = cur.u8()
	c.Assert(err, qt.ErrorIs, ErrOutOfBounds)

	c.Assert(cur.seek(0), qt.IsNil)
	c.Assert(cur.seek(2), qt.IsNil)
	c.Assert(cur.seek(3), qt.ErrorIs, ErrOutOfBounds)
	c.Assert(cur.seek(-1), qt.ErrorIs, ErrOutOfBounds)

	c.Assert(cur.seek(0), qt.IsNil)
	c.Assert(cur.skip(1), qt.IsNil)
	c.Assert(cur.skip(2), qt.ErrorIs, ErrOutOfBounds)
	c.Assert(cur.remaining(), qt.Equals, 1)

	_, err = cur.bytes(-1)
	c.Assert(err, qt.ErrorIs, ErrOutOfBounds)

	cur = newByteCursor(nil, binary.BigEndian)
	_, err = cur.u8()
	c.Assert(err, qt.ErrorIs, ErrOutOfBounds)
}
