package cel

// This file contains the conversion between grids and image.Image, as well
// as whole-file decoding and encoding modeled after the public interface of
// the image/gif package.

import (
	"image"
	"image/color"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// Options configures EncodeAll.
type Options struct {
	// Header selects whether frames get a frame header.
	Header HeaderMode
	// Palette maps non-paletted images onto palette indices.
	Palette color.Palette
}

// FrameSet is the decoded content of a CEL file.
type FrameSet struct {
	Images []*image.Paletted
}

// Image returns the grid as a top-down paletted image using pal. The pixel
// indices are copied verbatim; whatever pal holds at index Transparent is
// what transparent pixels will look like.
func (g *Grid) Image(pal color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, g.Width, g.Height), pal)
	for y := 0; y < g.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+g.Width], g.Row(g.Height-1-y))
	}
	return img
}

// GridFromImage converts img into a bottom-up grid.
//
// Paletted images have their indices copied as they are. Other images are
// mapped onto the first 255 entries of pal, with fully transparent pixels
// becoming Transparent.
func GridFromImage(img image.Image, pal color.Palette) (*Grid, error) {
	b := img.Bounds()
	g := &Grid{Width: b.Dx(), Height: b.Dy(), Pix: make([]byte, b.Dx()*b.Dy())}

	if p, ok := img.(*image.Paletted); ok {
		for y := 0; y < g.Height; y++ {
			off := p.PixOffset(b.Min.X, b.Min.Y+y)
			copy(g.Row(g.Height-1-y), p.Pix[off:off+g.Width])
		}
		return g, nil
	}

	if len(pal) == 0 {
		return nil, errors.Wrapf(ErrNoPalette, "image is %T", img)
	}
	opaque := pal
	if len(opaque) > Transparent {
		opaque = opaque[:Transparent]
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if _, _, _, a := c.RGBA(); a == 0 {
				g.Set(x, y, Transparent)
				continue
			}
			g.Set(x, y, byte(opaque.Index(c)))
		}
	}
	return g, nil
}

// DecodeConfig returns the dimensions of the first frame of a CEL file.
func DecodeConfig(r io.Reader) (image.Config, error) {
	f, err := readFile(r)
	if err != nil {
		return image.Config{}, err
	}
	frame, err := f.Frame(0)
	if err != nil {
		return image.Config{}, err
	}
	g, err := DecodeFrame(frame)
	if err != nil {
		return image.Config{}, errors.Wrap(err, "could not decode first frame")
	}
	return image.Config{Width: g.Width, Height: g.Height, ColorModel: color.Palette(nil)}, nil
}

// Decode returns the first frame of a CEL file as an image using pal.
func Decode(r io.Reader, pal color.Palette) (image.Image, error) {
	f, err := readFile(r)
	if err != nil {
		return nil, err
	}
	frame, err := f.Frame(0)
	if err != nil {
		return nil, err
	}
	g, err := DecodeFrame(frame)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode first frame")
	}
	return g.Image(pal), nil
}

// DecodeAll decodes every frame in the passed reader.
func DecodeAll(r io.Reader, pal color.Palette) (*FrameSet, error) {
	f, err := readFile(r)
	if err != nil {
		return nil, err
	}
	s := &FrameSet{Images: make([]*image.Paletted, f.Len())}
	for i := range s.Images {
		frame, err := f.Frame(i)
		if err != nil {
			return nil, err
		}
		g, err := DecodeFrame(frame)
		if err != nil {
			return nil, errors.Wrapf(err, "could not decode frame %d", i)
		}
		s.Images[i] = g.Image(pal)
	}
	return s, nil
}

// EncodeAll encodes all images in the frame set and writes the container to w.
func (s *FrameSet) EncodeAll(w io.Writer, o *Options) error {
	if o == nil {
		o = &Options{}
	}
	cw := NewWriter()
	for i, img := range s.Images {
		g, err := GridFromImage(img, o.Palette)
		if err != nil {
			return errors.Wrapf(err, "could not convert image %d", i)
		}
		frame, err := EncodeFrameWithHeader(g, o.Header)
		if err != nil {
			return errors.Wrapf(err, "could not encode image %d", i)
		}
		cw.Add(frame)
	}
	if _, err := w.Write(cw.Bytes()); err != nil {
		return errors.Wrap(err, "could not write cel")
	}
	return nil
}

func readFile(r io.Reader) (*File, error) {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read cel")
	}
	return Parse(buf)
}
