// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

// Package exifprobe parses the Exif metadata block embedded in JPEG
// images and maps the decoded tags to a semantic Record: GPS decimal
// coordinates, device info, timestamps and camera settings.
//
// The package operates on an in-memory byte buffer, performs no I/O and
// keeps no state between calls, so concurrent decodes need no locking.
// Malformed or truncated input surfaces as typed errors, never as an
// out-of-bounds access: header-level problems abort the parse, while a
// corrupt single tag or an unreachable sub-IFD only loses itself.
package exifprobe

import "errors"

const (
	defaultLimitNumTags = 5000
	defaultLimitTagSize = 10000

	// Exif and GPS sub-IFDs hang directly off the primary IFD, so the
	// fixed structure never nests deeper than this.
	defaultMaxIFDDepth = 2
)

// Options controls a decode. The zero value is ready to use.
type Options struct {
	// HandleTag, if set, is called for every decoded tag entry before
	// semantic mapping, including tags the mapper ignores (for example a
	// raw MakerNote blob). Returning ErrStopWalking stops the walk
	// without failing the decode; any other error aborts it.
	HandleTag func(TagInfo) error

	// Warnf is called for recoverable corruption: a tag value or sub-IFD
	// pointer outside the buffer, a directory revisit, a limit hit.
	// If nil, warnings are discarded.
	Warnf func(string, ...any)

	// LimitNumTags is the maximum number of tag entries to read.
	// Default value is 5000.
	LimitNumTags uint32

	// LimitTagSize is the maximum size in bytes of a tag value to read.
	// Tag values larger than this will be skipped.
	// Default value is 10000.
	LimitTagSize uint32

	// MaxIFDDepth bounds sub-IFD recursion. Default value is 2.
	MaxIFDDepth int
}

func (o Options) withDefaults() Options {
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
	if o.LimitNumTags == 0 {
		o.LimitNumTags = defaultLimitNumTags
	}
	if o.LimitTagSize == 0 {
		o.LimitTagSize = defaultLimitTagSize
	}
	if o.MaxIFDDepth == 0 {
		o.MaxIFDDepth = defaultMaxIFDDepth
	}
	return o
}

// Decode parses the Exif block of the JPEG image in data and returns
// its semantic record. Fields with no usable backing tag are absent
// from the record, and a corrupt sub-IFD only loses its own fields.
func Decode(data []byte) (*Record, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions is Decode with explicit Options.
func DecodeWithOptions(data []byte, opts Options) (*Record, error) {
	tags, err := DecodeTags(data, opts)
	if err != nil {
		return nil, err
	}
	return tags.Record(), nil
}

// DecodeTags parses the Exif block of the JPEG image in data and
// returns the raw tag tables, one per IFD.
func DecodeTags(data []byte, opts Options) (*Tags, error) {
	opts = opts.withDefaults()

	tiff, err := findExifPayload(data)
	if err != nil {
		return nil, err
	}

	byteOrder, firstIFD, err := parseTIFFHeader(tiff)
	if err != nil {
		return nil, err
	}

	tags := &Tags{}
	d := &ifdDecoder{
		tiff:      tiff,
		byteOrder: byteOrder,
		opts:      opts,
		tags:      tags,
		visited:   make(map[uint32]struct{}),
	}

	if err := d.decode(IFDPrimary, firstIFD, 0); err != nil {
		if errors.Is(err, ErrStopWalking) {
			return tags, nil
		}
		return tags, err
	}

	return tags, nil
}
