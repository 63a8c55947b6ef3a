// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import (
	"encoding/binary"
	"fmt"
)

// IFD identifies one of the tag directories in an Exif block.
type IFD uint8

const (
	// IFDPrimary is the first image file directory (IFD0).
	IFDPrimary IFD = iota
	// IFDExif is the Exif sub-IFD reached through tag 0x8769.
	IFDExif
	// IFDGPS is the GPS sub-IFD reached through tag 0x8825.
	IFDGPS
)

func (i IFD) String() string {
	switch i {
	case IFDPrimary:
		return "IFD0"
	case IFDExif:
		return "ExifIFD"
	case IFDGPS:
		return "GPSInfoIFD"
	default:
		return fmt.Sprintf("IFD(%d)", uint8(i))
	}
}

// TagInfo is handed to the Options.HandleTag callback for every decoded
// tag entry, including ones the semantic mapper ignores.
type TagInfo struct {
	// The directory the tag was found in.
	IFD IFD
	// The raw tag ID.
	ID uint16
	// The tag name, or UnknownPrefix + hex ID when unassigned.
	Name string
	// The decoded value.
	Value Value
}

// Tags holds the decoded tag tables, one per IFD. A table a pointer tag
// did not reach, or whose directory was unreadable, stays empty.
type Tags struct {
	primary map[uint16]Value
	exif    map[uint16]Value
	gps     map[uint16]Value
}

// Primary returns the IFD0 tag table.
func (t *Tags) Primary() map[uint16]Value {
	if t.primary == nil {
		t.primary = make(map[uint16]Value)
	}
	return t.primary
}

// Exif returns the Exif sub-IFD tag table.
func (t *Tags) Exif() map[uint16]Value {
	if t.exif == nil {
		t.exif = make(map[uint16]Value)
	}
	return t.exif
}

// GPS returns the GPS sub-IFD tag table.
func (t *Tags) GPS() map[uint16]Value {
	if t.gps == nil {
		t.gps = make(map[uint16]Value)
	}
	return t.gps
}

func (t *Tags) table(ifd IFD) map[uint16]Value {
	switch ifd {
	case IFDPrimary:
		return t.Primary()
	case IFDExif:
		return t.Exif()
	default:
		return t.GPS()
	}
}

func tagName(ifd IFD, id uint16) string {
	var name string
	if ifd == IFDGPS {
		name = gpsFields[id]
	} else {
		name = exifFields[id]
	}
	if name == "" {
		name = fmt.Sprintf("%s0x%x", UnknownPrefix, id)
	}
	return name
}

// ifdDecoder walks the tag directories of one Exif payload. All offsets
// are relative to the start of the TIFF block, per the TIFF spec.
type ifdDecoder struct {
	tiff      []byte
	byteOrder binary.ByteOrder
	opts      Options
	tags      *Tags

	// Offsets of directories already walked, so an adversarial pointer
	// chain cannot revisit them.
	visited map[uint32]struct{}
	numTags uint32
}

// decode walks one directory. Structural failures (a truncated entry
// table) surface as errors; the caller decides whether they abort the
// parse or only lose this directory.
func (d *ifdDecoder) decode(ifd IFD, offset uint32, depth int) error {
	if _, seen := d.visited[offset]; seen {
		d.opts.Warnf("exifprobe: %s at 0x%x already visited, skipping", ifd, offset)
		return nil
	}
	d.visited[offset] = struct{}{}

	c := newByteCursor(d.tiff, d.byteOrder)
	if err := c.seek(int(offset)); err != nil {
		return err
	}

	numEntries, err := c.u16()
	if err != nil {
		return err
	}

	for i := 0; i < int(numEntries); i++ {
		if err := d.decodeEntry(ifd, c, depth); err != nil {
			return err
		}
	}

	// The trailing next-IFD offset links thumbnail directories, which are
	// out of scope. Consume it anyway to leave the cursor consistent.
	if c.remaining() >= 4 {
		if _, err := c.u32(); err != nil {
			return err
		}
	}

	return nil
}

// An entry is represented in 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the data type
//   - 4 bytes for the number of data values of the specified type
//   - 4 bytes for the value itself if it fits, otherwise for an offset,
//     relative to the TIFF block, where the data may be found.
func (d *ifdDecoder) decodeEntry(ifd IFD, c *byteCursor, depth int) error {
	tagID, err := c.u16()
	if err != nil {
		return err
	}
	typeCode, err := c.u16()
	if err != nil {
		return err
	}
	count, err := c.u32()
	if err != nil {
		return err
	}
	valueField, err := c.bytes(4)
	if err != nil {
		return err
	}

	d.numTags++
	if d.numTags > d.opts.LimitNumTags {
		d.opts.Warnf("exifprobe: tag limit %d reached, stopping", d.opts.LimitNumTags)
		return ErrStopWalking
	}

	typ := exifType(typeCode)
	size, known := exifTypeSize[typ]
	if !known {
		// Forward compatibility: decode as an undefined blob.
		size = 1
	}
	valueLen := uint64(size) * uint64(count)
	if valueLen > uint64(d.opts.LimitTagSize) {
		d.opts.Warnf("exifprobe: %s tag 0x%x value of %d bytes exceeds limit %d, skipping", ifd, tagID, valueLen, d.opts.LimitTagSize)
		return nil
	}

	var raw []byte
	if valueLen <= 4 {
		raw = valueField[:valueLen]
	} else {
		valueOffset := d.byteOrder.Uint32(valueField)
		end := uint64(valueOffset) + valueLen
		if end > uint64(len(d.tiff)) {
			// Isolated: one corrupt entry must not lose the rest.
			d.opts.Warnf("exifprobe: %v: %s tag 0x%x at 0x%x+%d", ErrTagDataOutOfBounds, ifd, tagID, valueOffset, valueLen)
			return nil
		}
		raw = d.tiff[valueOffset:end]
	}

	val := decodeValue(typ, count, raw, d.byteOrder)

	if d.opts.HandleTag != nil {
		ti := TagInfo{IFD: ifd, ID: tagID, Name: tagName(ifd, tagID), Value: val}
		if err := d.opts.HandleTag(ti); err != nil {
			return err
		}
	}

	// Pointer tags are links, not data; they fan out into their sub-IFD
	// and stay out of the tag tables.
	if ifd == IFDPrimary && (tagID == tagExifIFDPointer || tagID == tagGPSInfoIFDPointer) {
		return d.decodeSubIFD(tagID, typ, count, raw, depth)
	}

	d.tags.table(ifd)[tagID] = val
	return nil
}

func (d *ifdDecoder) decodeSubIFD(tagID uint16, typ exifType, count uint32, raw []byte, depth int) error {
	sub := IFDExif
	if tagID == tagGPSInfoIFDPointer {
		sub = IFDGPS
	}

	if typ != exifTypeUnsignedLong || count != 1 {
		d.opts.Warnf("exifprobe: malformed %s pointer (type %d, count %d), skipping", sub, typ, count)
		return nil
	}
	if depth+1 > d.opts.MaxIFDDepth {
		d.opts.Warnf("exifprobe: %s pointer exceeds depth limit %d, skipping", sub, d.opts.MaxIFDDepth)
		return nil
	}

	offset := d.byteOrder.Uint32(raw)
	if err := d.decode(sub, offset, depth+1); err != nil {
		if !IsInvalidFormat(err) {
			// ErrStopWalking or a HandleTag callback error.
			return err
		}
		// Partial-result policy: a corrupt sub-IFD loses only itself.
		d.opts.Warnf("exifprobe: %s unreadable: %v", sub, err)
		clear(d.tags.table(sub))
	}
	return nil
}
