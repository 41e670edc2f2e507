// Command celtool converts between CEL sprite containers and BMP files.
//
// Every .cel file passed is decoded into one BMP per frame, named
// <file name>.frame<N>.bmp. All .bmp files passed are encoded, in the order
// given, into the frames of a single CEL file.
package main

import (
	"flag"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-cel/cel"
	"badc0de.net/pkg/go-cel/palette"
	"badc0de.net/pkg/go-cel/paths"
)

var (
	outputPath  = flag.String("output", "output.cel", "CEL file to encode the passed BMP files into")
	outputDir   = flag.String("output_dir", ".", "directory to write decoded frames to")
	frameHeader = flag.String("frame_header", "auto", "whether encoded frames get a frame header: auto, always or never")
	workers     = flag.Int("workers", 4, "frames decoded in parallel")
	describe    = flag.Bool("describe", false, "print the commands of every decoded frame")
	opaque      = flag.Bool("opaque", false, "draw index 0xFF with its palette color instead of as transparent")

	palettePath string
)

// fileKind is what a command line argument is treated as.
type fileKind int

const (
	kindUnknown fileKind = iota
	kindCel
	kindBmp
)

func classify(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cel":
		return kindCel
	case ".bmp":
		return kindBmp
	}
	return kindUnknown
}

// frameFileName returns the name decoded frame i of celPath is written to.
func frameFileName(celPath string, i int) string {
	return filepath.Base(celPath) + ".frame" + strconv.Itoa(i) + ".bmp"
}

// loadPalette loads the palette named by -palette_path, or returns nil if
// there is none.
func loadPalette() (color.Palette, error) {
	if palettePath == "" {
		return nil, nil
	}
	f, err := paths.Open(palettePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening palette")
	}
	defer f.Close()
	pal, err := palette.Load(f, !*opaque)
	if err != nil {
		return nil, errors.Wrapf(err, "loading palette %q", palettePath)
	}
	return pal, nil
}

func main() {
	paths.SetupFilePathFlag("palette.pal", "palette_path", &palettePath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if flag.NArg() == 0 {
		glog.Errorf("too few arguments: need at least one .cel or .bmp file")
		os.Exit(2)
	}

	headerMode, err := cel.ParseHeaderMode(*frameHeader)
	if err != nil {
		glog.Errorf("bad -frame_header: %v", err)
		os.Exit(2)
	}

	pal, err := loadPalette()
	if err != nil {
		glog.Errorf("%v", err)
		os.Exit(1)
	}

	var cels, bmps []string
	for _, arg := range flag.Args() {
		switch classify(arg) {
		case kindCel:
			cels = append(cels, arg)
		case kindBmp:
			bmps = append(bmps, arg)
		default:
			glog.Warningf("skipping %q: unknown file type %q", arg, filepath.Ext(arg))
		}
	}

	failed := false
	decodePal := pal
	if decodePal == nil {
		glog.Infof("no palette given; decoding with a grayscale palette")
		decodePal = palette.Grayscale(!*opaque)
	}
	for _, p := range cels {
		if err := decodeCel(p, decodePal); err != nil {
			glog.Errorf("error decoding %q: %v", p, err)
			failed = true
		}
	}

	if len(bmps) > 0 {
		if err := encodeBmps(bmps, *outputPath, pal, headerMode); err != nil {
			glog.Errorf("error encoding %q: %v", *outputPath, err)
			failed = true
		}
	}

	glog.Flush()
	if failed {
		os.Exit(1)
	}
}
