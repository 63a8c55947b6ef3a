// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

// Command exifprobe extracts Exif metadata from a JPEG file and prints
// it as an aligned text report or as JSON. All parsing happens in the
// exifprobe package; this command only renders the resulting record.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/exifprobe/exifprobe"
)

type fileInfo struct {
	Filename string  `json:"filename"`
	Path     string  `json:"path"`
	SizeKB   float64 `json:"size_kb"`
}

type report struct {
	File fileInfo `json:"file"`
	*exifprobe.Record
}

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <image.jpg>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract Exif metadata from a JPEG file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	asJSON := flag.Bool("json", false, "Print the record as JSON")
	verbose := flag.Bool("v", false, "Log recoverable corruption warnings")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("error reading file: %v", err)
	}

	opts := exifprobe.Options{}
	if *verbose {
		opts.Warnf = log.Printf
	}

	rec, err := exifprobe.DecodeWithOptions(data, opts)
	switch {
	case errors.Is(err, exifprobe.ErrNoExif):
		log.Fatalf("%s: no Exif metadata found", path)
	case err != nil:
		log.Fatalf("error parsing %s: %v", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	rep := report{
		File: fileInfo{
			Filename: filepath.Base(path),
			Path:     abs,
			SizeKB:   float64(len(data)) / 1024,
		},
		Record: rec,
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("error encoding JSON: %v", err)
		}
		return
	}

	printReport(rep)
}

func printReport(rep report) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer w.Flush()

	section := func(title string) {
		fmt.Fprintf(w, "\n[ %s ]\n", title)
	}
	row := func(key string, value any) {
		fmt.Fprintf(w, "  %s\t%v\n", key, value)
	}

	section("File Info")
	row("Filename", rep.File.Filename)
	row("Path", rep.File.Path)
	row("Size", fmt.Sprintf("%.2f KB", rep.File.SizeKB))

	section("GPS Location")
	if gps := rep.GPS; gps != nil {
		row("Latitude", gps.Latitude)
		row("Longitude", gps.Longitude)
		row("Google Maps", gps.MapsURL)
		if gps.AltitudeMeters != nil {
			row("Altitude (m)", *gps.AltitudeMeters)
		}
	} else {
		fmt.Fprintln(w, "  No GPS data found.")
	}

	if d := rep.Device; d != nil {
		section("Device / Camera")
		row("Make", d.Make)
		row("Model", d.Model)
		if d.Software != "" {
			row("Software", d.Software)
		}
		if d.LensMake != "" {
			row("LensMake", d.LensMake)
		}
		if d.LensModel != "" {
			row("LensModel", d.LensModel)
		}
	}

	if dt := rep.DateTime; dt != nil {
		section("Date & Time")
		if dt.Original != "" {
			row("Original", dt.Original)
		}
		if dt.Digitized != "" {
			row("Digitized", dt.Digitized)
		}
		if dt.Modified != "" {
			row("Modified", dt.Modified)
		}
	}

	if c := rep.Camera; c != nil {
		section("Image Settings")
		if c.ISO != 0 {
			row("ISO", c.ISO)
		}
		if c.FNumber != 0 {
			row("FNumber", fmt.Sprintf("f/%.2f", c.FNumber))
		}
		if c.FocalLengthMM != 0 {
			row("FocalLength", fmt.Sprintf("%.1f mm", c.FocalLengthMM))
		}
		if c.ExposureTime != "" {
			row("ExposureTime", c.ExposureTime+" s")
		}
		if c.Width != 0 && c.Height != 0 {
			row("Dimensions", fmt.Sprintf("%dx%d", c.Width, c.Height))
		}
		if c.Orientation != 0 {
			row("Orientation", c.Orientation)
		}
		if c.Flash != nil {
			row("Flash", *c.Flash)
		}
		if c.WhiteBalance != nil {
			row("WhiteBalance", *c.WhiteBalance)
		}
	}
}
