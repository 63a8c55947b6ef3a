// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import (
	"fmt"
	"math"
	"strconv"
)

// Record is the semantic view of an Exif block. Every sub-record is nil
// when nothing usable backs it, so absence is distinguishable from a
// zero value. Field names are stable for JSON consumers.
type Record struct {
	GPS      *GPSInfo        `json:"gps,omitempty"`
	Device   *DeviceInfo     `json:"device,omitempty"`
	DateTime *DateTimeInfo   `json:"datetime,omitempty"`
	Camera   *CameraSettings `json:"camera,omitempty"`
}

// GPSInfo is the decoded GPS position. It is only emitted when the full
// latitude/longitude pair decodes cleanly; a zero-denominator rational
// in either coordinate drops the whole record rather than emitting NaN.
type GPSInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	MapsURL   string  `json:"maps_url"`

	// AltitudeMeters is negative below sea level. Nil when the altitude
	// tag is missing or unusable.
	AltitudeMeters *float64 `json:"altitude_meters,omitempty"`
}

// DeviceInfo describes the recording device.
type DeviceInfo struct {
	Make      string `json:"make,omitempty"`
	Model     string `json:"model,omitempty"`
	Software  string `json:"software,omitempty"`
	LensMake  string `json:"lens_make,omitempty"`
	LensModel string `json:"lens_model,omitempty"`
}

// DateTimeInfo carries timestamps in the raw Exif string format,
// "2006:01:02 15:04:05".
type DateTimeInfo struct {
	Original  string `json:"original,omitempty"`
	Digitized string `json:"digitized,omitempty"`
	Modified  string `json:"modified,omitempty"`
}

// CameraSettings are the exposure and geometry settings of the shot.
type CameraSettings struct {
	ISO           uint32  `json:"iso,omitempty"`
	FNumber       float64 `json:"f_number,omitempty"`
	FocalLengthMM float64 `json:"focal_length_mm,omitempty"`
	// ExposureTime keeps the rational form, e.g. "1/200".
	ExposureTime string `json:"exposure_time,omitempty"`
	Width        uint32 `json:"width,omitempty"`
	Height       uint32 `json:"height,omitempty"`
	Orientation  uint32 `json:"orientation,omitempty"`

	// Flash and WhiteBalance have meaningful zero values, so absence is
	// a nil pointer.
	Flash        *uint32 `json:"flash,omitempty"`
	WhiteBalance *uint32 `json:"white_balance,omitempty"`
}

// Record maps the raw tag tables to the semantic record. The returned
// record is never nil; with no usable tags every sub-record is.
func (t *Tags) Record() *Record {
	return &Record{
		GPS:      t.gpsInfo(),
		Device:   t.deviceInfo(),
		DateTime: t.dateTimeInfo(),
		Camera:   t.cameraSettings(),
	}
}

// lookup checks the primary IFD first and then the Exif sub-IFD; some
// writers put tags in either.
func (t *Tags) lookup(id uint16) (Value, bool) {
	if v, ok := t.Primary()[id]; ok {
		return v, true
	}
	v, ok := t.Exif()[id]
	return v, ok
}

func (t *Tags) lookupText(id uint16) string {
	v, ok := t.lookup(id)
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}

func (t *Tags) lookupUint(id uint16) (uint32, bool) {
	v, ok := t.lookup(id)
	if !ok {
		return 0, false
	}
	return v.Uint(0)
}

// lookupFloat resolves a single-rational tag to a float, omitting it on
// a zero denominator.
func (t *Tags) lookupFloat(id uint16) (float64, bool) {
	v, ok := t.lookup(id)
	if !ok {
		return 0, false
	}
	return v.Float(0)
}

func (t *Tags) deviceInfo() *DeviceInfo {
	d := &DeviceInfo{
		Make:      t.lookupText(tagMake),
		Model:     t.lookupText(tagModel),
		Software:  t.lookupText(tagSoftware),
		LensMake:  t.lookupText(tagLensMake),
		LensModel: t.lookupText(tagLensModel),
	}
	if *d == (DeviceInfo{}) {
		return nil
	}
	return d
}

func (t *Tags) dateTimeInfo() *DateTimeInfo {
	d := &DateTimeInfo{
		Original:  t.lookupText(tagDateTimeOriginal),
		Digitized: t.lookupText(tagDateTimeDigitized),
		Modified:  t.lookupText(tagDateTime),
	}
	if *d == (DateTimeInfo{}) {
		return nil
	}
	return d
}

func (t *Tags) cameraSettings() *CameraSettings {
	c := &CameraSettings{}
	var set bool

	if iso, ok := t.lookupUint(tagISOSpeedRatings); ok {
		c.ISO, set = iso, true
	}
	if f, ok := t.lookupFloat(tagFNumber); ok {
		c.FNumber, set = f, true
	}
	if f, ok := t.lookupFloat(tagFocalLength); ok {
		c.FocalLengthMM, set = f, true
	}
	if v, ok := t.lookup(tagExposureTime); ok {
		if r, ok := v.URat(0); ok && r.Den() != 0 {
			c.ExposureTime, set = r.String(), true
		}
	}
	if w, ok := t.lookupUint(tagPixelXDimension); ok {
		c.Width, set = w, true
	}
	if h, ok := t.lookupUint(tagPixelYDimension); ok {
		c.Height, set = h, true
	}
	if o, ok := t.lookupUint(tagOrientation); ok {
		c.Orientation, set = o, true
	}
	if f, ok := t.lookupUint(tagFlash); ok {
		c.Flash, set = &f, true
	}
	if wb, ok := t.lookupUint(tagWhiteBalance); ok {
		c.WhiteBalance, set = &wb, true
	}

	if !set {
		return nil
	}
	return c
}

func (t *Tags) gpsInfo() *GPSInfo {
	gps := t.GPS()

	lat, okLat := dmsToDecimal(gps[gpsTagLatitude], t.gpsRef(gpsTagLatitudeRef))
	lon, okLon := dmsToDecimal(gps[gpsTagLongitude], t.gpsRef(gpsTagLongitudeRef))
	if !okLat || !okLon {
		return nil
	}

	g := &GPSInfo{
		Latitude:  lat,
		Longitude: lon,
		MapsURL:   fmt.Sprintf("https://maps.google.com/?q=%s,%s", formatCoord(lat), formatCoord(lon)),
	}

	if alt, ok := gps[gpsTagAltitude]; ok {
		if f, ok := alt.Float(0); ok {
			if ref, ok := gps[gpsTagAltitudeRef]; ok {
				if below, ok := ref.Uint(0); ok && below == 1 {
					f = -f
				}
			}
			f = math.Round(f*100) / 100
			g.AltitudeMeters = &f
		}
	}

	return g
}

func (t *Tags) gpsRef(id uint16) string {
	v, ok := t.GPS()[id]
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}

// dmsToDecimal converts a degrees/minutes/seconds triple of unsigned
// rationals to decimal degrees, negated for the S and W hemispheres.
// Any component with a zero denominator makes the whole coordinate
// unusable.
func dmsToDecimal(v Value, ref string) (float64, bool) {
	if v.Count() != 3 {
		return 0, false
	}
	var parts [3]float64
	for i := range parts {
		f, ok := v.Float(i)
		if !ok {
			return 0, false
		}
		parts[i] = f
	}

	dec := parts[0] + parts[1]/60 + parts[2]/3600
	if ref == "S" || ref == "W" {
		dec = -dec
	}
	if math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, false
	}
	// Six decimals keep the original camera resolution, about 11 cm.
	return math.Round(dec*1e6) / 1e6, true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
