package main

import (
	"flag"
	"image"
	"os"

	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-cel/imageprint"
)

var (
	preview  = flag.Bool("preview", false, "print every decoded frame on the terminal")
	col      = flag.Bool("col", true, "whether to use color when previewing")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with the rasterm library (kitty, iterm, sixel)")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink frames larger than the terminal")
)

func out(img image.Image) {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if (termSize.WSXPixel != 0 && termSize.WSYPixel != 0) && (*rasterm || *iterm) {
				// Images printed natively can use the pixel size of the terminal.
				img = resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.NearestNeighbor)
			} else {
				// Each pixel takes two columns.
				img = resize.Thumbnail(termSize.WSCol/2, termSize.WSRow, img, resize.NearestNeighbor)
			}
		}
	}

	mode := imageprint.Mode24bit
	switch {
	case *rasterm:
		mode = imageprint.ModeRasTerm
	case !*col:
		mode = imageprint.ModeNoColor
	case *iterm:
		mode = imageprint.ModeITerm
	case *col256:
		mode = imageprint.Mode256Color
	}
	if err := imageprint.Print(os.Stdout, img, mode, *blanks); err != nil {
		glog.Warningf("could not preview frame: %v", err)
	}
}
