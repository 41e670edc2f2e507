package main

import (
	"image"
	"image/color"
	"io/ioutil"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"badc0de.net/pkg/go-cel/cel"
	"badc0de.net/pkg/go-cel/palette"
)

// encodeBmps encodes bmpPaths into the frames of a single CEL file at
// outPath. Files that cannot be read or encoded are logged and left out.
//
// Paletted BMPs contribute their indices as they are. True-color BMPs are
// mapped onto pal; if there is none, a palette is generated from the first
// such image and written next to the output.
func encodeBmps(bmpPaths []string, outPath string, pal color.Palette, mode cel.HeaderMode) error {
	w := cel.NewWriter()
	skipped := 0
	for _, p := range bmpPaths {
		img, err := readBMP(p)
		if err != nil {
			glog.Errorf("skipping %q: %v", p, err)
			skipped++
			continue
		}

		if _, ok := img.(*image.Paletted); !ok && pal == nil {
			pal = palette.FromImage(img)
			palPath := outPath + ".pal"
			if err := writePalette(palPath, pal); err != nil {
				return err
			}
			glog.Warningf("%q is not paletted and no palette was given; generated %s", p, palPath)
		}

		g, err := cel.GridFromImage(img, pal)
		if err != nil {
			glog.Errorf("skipping %q: %v", p, err)
			skipped++
			continue
		}
		frame, err := cel.EncodeFrameWithHeader(g, mode)
		if err != nil {
			glog.Errorf("skipping %q: %v", p, err)
			skipped++
			continue
		}
		glog.Infof("%s: frame %d (%dx%d), %d bytes", p, w.Len(), g.Width, g.Height, len(frame))
		w.Add(frame)
	}

	if err := ioutil.WriteFile(outPath, w.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "writing cel")
	}
	glog.Infof("wrote %d frames to %s", w.Len(), outPath)
	if skipped > 0 {
		return errors.Errorf("%d of %d files skipped", skipped, len(bmpPaths))
	}
	return nil
}

func readBMP(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decoding bmp")
	}
	return img, nil
}

func writePalette(path string, pal color.Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating palette file")
	}
	if err := palette.Write(f, pal); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
