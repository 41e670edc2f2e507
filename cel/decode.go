package cel

// This file contains the frame decoder: width inference and expansion of a
// frame's command stream into palette indices.

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// Transparent is the palette index written for transparent pixels.
	Transparent = 0xFF

	// maxLiteralRun is the longest literal run, and the only literal
	// command that does not end a scanline.
	maxLiteralRun = 0x7F
	// maxTransparentRun is the longest transparency run, and the only
	// transparency command that does not end a scanline.
	maxTransparentRun = 0x80
)

// FrameWidth returns the width of frame in pixels.
//
// Frames are encoded one scanline at a time and the last run of every
// scanline is shorter than the maximum, so the pixels up to and including the
// first short run make up the first scanline.
func FrameWidth(frame []byte) (int, error) {
	cmds, err := SkipHeader(frame)
	if err != nil {
		return 0, err
	}
	return StreamWidth(cmds)
}

// StreamWidth is like FrameWidth, but operates on a command stream known not
// to start with a header.
func StreamWidth(cmds []byte) (int, error) {
	width := 0
	for i := 0; i < len(cmds); {
		c := cmds[i]
		i++
		if c <= maxLiteralRun {
			width += int(c)
			if c < maxLiteralRun {
				return width, nil
			}
			if i+int(c) > len(cmds) {
				return 0, errors.Wrapf(ErrUnexpectedEndOfFrame, "literal run of %d at %d; %d bytes left", c, i-1, len(cmds)-i)
			}
			i += int(c)
		} else {
			n := 0x100 - int(c)
			width += n
			if n < maxTransparentRun {
				return width, nil
			}
		}
	}
	return 0, errors.Wrapf(ErrUnexpectedEndOfFrame, "no scanline terminator in %d bytes", len(cmds))
}

// Decompress expands every command of frame, returning a flat bottom-up
// array of palette indices. Transparent pixels are written as Transparent.
//
// The result is expected to hold a whole number of scanlines; this is not
// checked here (see DecodeFrame).
func Decompress(frame []byte) ([]byte, error) {
	cmds, err := SkipHeader(frame)
	if err != nil {
		return nil, err
	}
	return Expand(cmds)
}

// Expand is like Decompress, but operates on a command stream known not to
// start with a header.
func Expand(cmds []byte) ([]byte, error) {
	// Literal runs never expand, and transparency runs expand at most 128x.
	pix := make([]byte, 0, 2*len(cmds))
	for i := 0; i < len(cmds); {
		c := cmds[i]
		i++
		if c <= maxLiteralRun {
			if i+int(c) > len(cmds) {
				return nil, errors.Wrapf(ErrUnexpectedEndOfFrame, "literal run of %d at %d; %d bytes left", c, i-1, len(cmds)-i)
			}
			pix = append(pix, cmds[i:i+int(c)]...)
			i += int(c)
		} else {
			for n := 0x100 - int(c); n > 0; n-- {
				pix = append(pix, Transparent)
			}
		}
	}
	return pix, nil
}

// DecodeFrame decodes frame into a Grid, checking that the expanded pixels
// form whole scanlines of the inferred width.
func DecodeFrame(frame []byte) (*Grid, error) {
	cmds, err := SkipHeader(frame)
	if err != nil {
		return nil, err
	}
	width, err := StreamWidth(cmds)
	if err != nil {
		return nil, errors.Wrap(err, "could not infer frame width")
	}
	pix, err := Expand(cmds)
	if err != nil {
		return nil, errors.Wrap(err, "could not expand frame")
	}
	if width == 0 {
		if len(pix) != 0 {
			return nil, errors.Wrapf(ErrDimensionMismatch, "zero width frame with %d pixels", len(pix))
		}
		return &Grid{}, nil
	}
	if len(pix)%width != 0 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d pixels do not divide into rows of %d", len(pix), width)
	}
	glog.V(3).Infof("cel: decoded %dx%d frame from %d bytes", width, len(pix)/width, len(frame))
	return &Grid{Width: width, Height: len(pix) / width, Pix: pix}, nil
}
