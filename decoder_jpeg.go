// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

var exifPayloadMarker = []byte("Exif\x00\x00")

const (
	markerSOI             = 0xffd8
	markerEOI             = 0xffd9
	markerApp1            = 0xffe1
	markerSOS             = 0xffda
	byteOrderBigEndian    = 0x4d4d
	byteOrderLittleEndian = 0x4949
	tiffMagic             = 0x002a
)

// findExifPayload scans the top-level JPEG marker segments of data for
// an APP1 segment carrying an Exif payload and returns the TIFF block
// inside it. The returned slice aliases data.
func findExifPayload(data []byte) ([]byte, error) {
	// JPEG segment lengths are big-endian regardless of the Exif byte order.
	c := newByteCursor(data, binary.BigEndian)

	soi, err := c.u16()
	if err != nil || soi != markerSOI {
		return nil, fmt.Errorf("%w: missing SOI marker", ErrNoExif)
	}

	for {
		marker, err := c.u16()
		if err != nil {
			return nil, fmt.Errorf("%w: reached end of buffer", ErrNoExif)
		}

		// Fill bytes before a marker are allowed.
		for marker == 0xffff && c.remaining() > 0 {
			b, _ := c.u8()
			marker = marker<<8 | uint16(b)
		}

		if marker>>8 != 0xff {
			return nil, fmt.Errorf("%w: bad marker 0x%04x", ErrInvalidJPEG, marker)
		}

		if marker == markerSOS || marker == markerEOI {
			// Image data follows; no Exif segment seen.
			return nil, fmt.Errorf("%w: reached image data", ErrNoExif)
		}

		// The 16-bit segment length includes its own two bytes.
		length, err := c.u16()
		if err != nil {
			return nil, err
		}
		if length < 2 {
			return nil, fmt.Errorf("%w: segment length %d", ErrInvalidJPEG, length)
		}

		payload, err := c.bytes(int(length) - 2)
		if err != nil {
			return nil, err
		}

		if marker == markerApp1 && bytes.HasPrefix(payload, exifPayloadMarker) {
			return payload[len(exifPayloadMarker):], nil
		}
	}
}

// parseTIFFHeader validates the byte-order mark and magic number at the
// start of the Exif payload and returns the byte order along with the
// offset of the first IFD, relative to the payload start.
func parseTIFFHeader(tiff []byte) (binary.ByteOrder, uint32, error) {
	c := newByteCursor(tiff, binary.BigEndian)

	bom, err := c.u16()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: truncated byte-order mark", ErrInvalidTIFFHeader)
	}

	var byteOrder binary.ByteOrder
	switch bom {
	case byteOrderBigEndian:
		byteOrder = binary.BigEndian
	case byteOrderLittleEndian:
		byteOrder = binary.LittleEndian
	default:
		return nil, 0, fmt.Errorf("%w: byte-order mark 0x%04x", ErrInvalidTIFFHeader, bom)
	}
	c.byteOrder = byteOrder

	magic, err := c.u16()
	if err != nil || magic != tiffMagic {
		return nil, 0, fmt.Errorf("%w: magic 0x%04x", ErrInvalidTIFFHeader, magic)
	}

	offset, err := c.u32()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: truncated IFD offset", ErrInvalidTIFFHeader)
	}
	// The first IFD can never start inside the 8-byte header.
	if offset < 8 || int64(offset) >= int64(len(tiff)) {
		return nil, 0, fmt.Errorf("%w: first IFD at 0x%x, payload length %d", ErrInvalidIFDOffset, offset, len(tiff))
	}

	return byteOrder, offset, nil
}
