// Package palette loads and builds the 256 color palettes CEL frames are
// drawn with.
//
// The cel package never holds a palette of its own; callers load one here
// and pass it along.
package palette

import (
	"image"
	"image/color"
	"io"
	"io/ioutil"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// Size is the number of entries in a CEL palette.
	Size = 256
	// TransparentIndex is the entry used for transparent pixels.
	TransparentIndex = 0xFF

	rawSize = 3 * Size
)

// Load reads a raw palette file: 256 RGB triples, 768 bytes in total. Index
// TransparentIndex is replaced with color.Transparent if transparent is set.
func Load(r io.Reader, transparent bool) (color.Palette, error) {
	buf, err := ioutil.ReadAll(io.LimitReader(r, rawSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "could not read palette")
	}
	if len(buf) != rawSize {
		return nil, errors.Errorf("palette is %d bytes; want %d", len(buf), rawSize)
	}
	pal := make(color.Palette, Size)
	for i := range pal {
		pal[i] = color.RGBA{R: buf[3*i], G: buf[3*i+1], B: buf[3*i+2], A: 0xFF}
	}
	if transparent {
		pal[TransparentIndex] = color.Transparent
	}
	return pal, nil
}

// Write writes pal as a raw palette file. Missing entries are written as
// black; transparent entries are written with their premultiplied color.
func Write(w io.Writer, pal color.Palette) error {
	buf := make([]byte, rawSize)
	for i := 0; i < Size && i < len(pal); i++ {
		c := color.RGBAModel.Convert(pal[i]).(color.RGBA)
		buf[3*i], buf[3*i+1], buf[3*i+2] = c.R, c.G, c.B
	}
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "could not write palette")
	}
	return nil
}

// Grayscale returns a palette ramping from black to white, used when no
// palette file is available.
func Grayscale(transparent bool) color.Palette {
	pal := make(color.Palette, Size)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	if transparent {
		pal[TransparentIndex] = color.Transparent
	}
	return pal
}

// FromImage builds a palette for a true-color image with median cut
// quantization. Only the first 255 entries are filled from the image; the
// last one is reserved for transparency.
func FromImage(img image.Image) color.Palette {
	q := quantize.MedianCutQuantizer{}
	colors := q.Quantize(make(color.Palette, 0, TransparentIndex), img)
	glog.V(2).Infof("palette: quantized %v image to %d colors", img.Bounds(), len(colors))

	pal := make(color.Palette, Size)
	for i := range pal {
		if i < len(colors) {
			pal[i] = colors[i]
		} else {
			pal[i] = color.Black
		}
	}
	pal[TransparentIndex] = color.Transparent
	return pal
}
