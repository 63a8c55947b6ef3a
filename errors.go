// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExif is returned when the JPEG stream contains no APP1 segment
	// with an Exif payload before the start-of-scan marker.
	ErrNoExif = errors.New("exifprobe: no Exif segment found")

	// ErrInvalidJPEG is returned when the top-level JPEG marker structure
	// is broken and scanning for the Exif segment cannot continue.
	ErrInvalidJPEG = errors.New("exifprobe: invalid JPEG structure")

	// ErrInvalidTIFFHeader is returned on a bad byte-order mark or a
	// missing TIFF magic number at the start of the Exif payload.
	ErrInvalidTIFFHeader = errors.New("exifprobe: invalid TIFF header")

	// ErrInvalidIFDOffset is returned when the first IFD offset in the
	// TIFF header points outside the Exif payload.
	ErrInvalidIFDOffset = errors.New("exifprobe: IFD offset out of bounds")

	// ErrOutOfBounds is returned when any read would exceed the buffer.
	ErrOutOfBounds = errors.New("exifprobe: read out of bounds")

	// ErrTagDataOutOfBounds classifies a tag whose out-of-line value
	// offset points outside the Exif payload. It is reported through
	// Options.Warnf only; the entry is skipped and the parse continues.
	ErrTagDataOutOfBounds = errors.New("exifprobe: tag data out of bounds")

	// ErrStopWalking is a sentinel error a HandleTag callback can return
	// to stop the walk early without failing the decode.
	ErrStopWalking = errors.New("exifprobe: stop walking")
)

func outOfBoundsf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfBounds, fmt.Sprintf(format, args...))
}

// IsInvalidFormat reports whether err means the input was malformed
// beyond recovery, as opposed to merely carrying no Exif metadata.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidJPEG) ||
		errors.Is(err, ErrInvalidTIFFHeader) ||
		errors.Is(err, ErrInvalidIFDOffset) ||
		errors.Is(err, ErrOutOfBounds)
}
