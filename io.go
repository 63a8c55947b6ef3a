// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import "encoding/binary"

// byteCursor is a bounds-checked reader over an immutable byte buffer.
// Every read validates the requested span against the buffer length, so
// malformed offsets surface as errors instead of slice panics.
// Not safe for concurrent use; every parse owns its own cursor.
type byteCursor struct {
	buf       []byte
	pos       int
	byteOrder binary.ByteOrder
}

func newByteCursor(b []byte, byteOrder binary.ByteOrder) *byteCursor {
	return &byteCursor{buf: b, byteOrder: byteOrder}
}

func (c *byteCursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *byteCursor) require(n int) error {
	if n < 0 || n > c.remaining() {
		return outOfBoundsf("%d bytes at offset %d, buffer length %d", n, c.pos, len(c.buf))
	}
	return nil
}

// bytes returns the next n bytes without copying. The slice aliases the
// underlying buffer and must be treated as read-only.
func (c *byteCursor) bytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *byteCursor) u8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *byteCursor) u16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return c.byteOrder.Uint16(b), nil
}

func (c *byteCursor) u32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return c.byteOrder.Uint32(b), nil
}

func (c *byteCursor) u64() (uint64, error) {
	b, err := c.bytes(8)
	if err != nil {
		return 0, err
	}
	return c.byteOrder.Uint64(b), nil
}

// seek moves the cursor to an absolute offset. Seeking to len(buf) is
// allowed; the next read fails.
func (c *byteCursor) seek(offset int) error {
	if offset < 0 || offset > len(c.buf) {
		return outOfBoundsf("seek to offset %d, buffer length %d", offset, len(c.buf))
	}
	c.pos = offset
	return nil
}

func (c *byteCursor) skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}
