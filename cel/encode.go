package cel

// This file contains the frame encoder, the inverse of Expand.

import (
	"github.com/pkg/errors"
)

// CompressBlock compresses a block of pixels which are either all
// Transparent or all opaque.
//
// Full runs are emitted while they fit, followed by one shorter run for the
// remainder. When the block length is an exact multiple of the full run
// length, the remainder is empty and encodes as the single byte 0x00, a
// zero-length run which still ends the scanline.
func CompressBlock(block []byte) []byte {
	out := make([]byte, 0, len(block)+len(block)/maxLiteralRun+1)
	if len(block) > 0 && block[0] == Transparent {
		r := len(block)
		for ; r >= maxTransparentRun; r -= maxTransparentRun {
			out = append(out, maxTransparentRun)
		}
		// For r == 0 this wraps to 0x00.
		return append(out, byte(0x100-r))
	}

	for len(block) >= maxLiteralRun {
		out = append(out, maxLiteralRun)
		out = append(out, block[:maxLiteralRun]...)
		block = block[maxLiteralRun:]
	}
	out = append(out, byte(len(block)))
	return append(out, block...)
}

// CompressRow compresses one scanline.
//
// The row splits into sub-blocks wherever transparency changes between
// neighbouring pixels. Only the last command of a row may be shorter than
// the maximum, otherwise FrameWidth would stop in the middle of the row. So
// while more than one sub-block is left, the row is consumed in full runs: a
// transparency run when the next 128 pixels are transparent, and otherwise a
// literal run over the next 127 pixels, carrying any transparent pixels among
// them as literal Transparent bytes. Once the rest is a single sub-block it
// is handed to CompressBlock; once fewer than 127 mixed pixels are left they
// go into one short literal run.
func CompressRow(row []byte) []byte {
	var out []byte
	for {
		if homogeneous(row) {
			return append(out, CompressBlock(row)...)
		}
		switch {
		case len(row) < maxLiteralRun:
			out = append(out, byte(len(row)))
			return append(out, row...)
		case len(row) >= maxTransparentRun && transparentRun(row[:maxTransparentRun]) == maxTransparentRun:
			out = append(out, maxTransparentRun)
			row = row[maxTransparentRun:]
		default:
			out = append(out, maxLiteralRun)
			out = append(out, row[:maxLiteralRun]...)
			row = row[maxLiteralRun:]
		}
	}
}

// SplitRow partitions row into maximal sub-blocks that are either all
// Transparent or contain no Transparent pixel.
func SplitRow(row []byte) [][]byte {
	var blocks [][]byte
	start := 0
	for i := 1; i <= len(row); i++ {
		if i == len(row) || (row[i] == Transparent) != (row[start] == Transparent) {
			blocks = append(blocks, row[start:i])
			start = i
		}
	}
	return blocks
}

func homogeneous(row []byte) bool {
	for i := 1; i < len(row); i++ {
		if (row[i] == Transparent) != (row[0] == Transparent) {
			return false
		}
	}
	return true
}

// transparentRun returns the number of leading Transparent pixels in row.
func transparentRun(row []byte) int {
	n := 0
	for n < len(row) && row[n] == Transparent {
		n++
	}
	return n
}

// EncodeFrame compresses grid into a headerless command stream. Rows are
// written in the order they are stored in, bottom row first.
func EncodeFrame(grid *Grid) ([]byte, error) {
	cmds, _, err := encodeRows(grid)
	return cmds, err
}

// EncodeFrameWithHeader is like EncodeFrame, but prefixes the command stream
// with a frame header according to mode.
func EncodeFrameWithHeader(grid *Grid, mode HeaderMode) ([]byte, error) {
	cmds, rowStarts, err := encodeRows(grid)
	if err != nil {
		return nil, err
	}
	switch mode {
	case HeaderNever:
		return cmds, nil
	case HeaderAuto:
		if !HasHeader(cmds) {
			return cmds, nil
		}
	}
	return append(buildHeader(rowStarts), cmds...), nil
}

// encodeRows returns the command stream of grid and the offset at which each
// stored row begins within it.
func encodeRows(grid *Grid) ([]byte, []int, error) {
	if err := grid.check(); err != nil {
		return nil, nil, err
	}
	var cmds []byte
	rowStarts := make([]int, grid.Height)
	for y := 0; y < grid.Height; y++ {
		rowStarts[y] = len(cmds)
		cmds = append(cmds, CompressRow(grid.Row(y))...)
	}
	return cmds, rowStarts, nil
}

func (g *Grid) check() error {
	if g == nil {
		return errors.Wrap(ErrDimensionMismatch, "nil grid")
	}
	if g.Width < 0 || g.Height < 0 || len(g.Pix) != g.Width*g.Height {
		return errors.Wrapf(ErrDimensionMismatch, "%d pixels for a %dx%d grid", len(g.Pix), g.Width, g.Height)
	}
	return nil
}
