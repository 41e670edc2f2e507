// Package imageprint prints decoded frames on a terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
)

// Mode selects how pixels are drawn.
type Mode int

const (
	// Mode24bit changes the background color with 24 bit escape sequences.
	Mode24bit Mode = iota
	// Mode256Color uses the closest color the terminal library can offer.
	Mode256Color
	// ModeNoColor prints only the shade characters. Only useful with blanks=false.
	ModeNoColor
	// ModeITerm sends the image as a PNG using iTerm2's escape sequences.
	ModeITerm
	// ModeRasTerm lets the RasTerm library pick kitty, iTerm or sixel output.
	ModeRasTerm
)

// Print draws img on w. With blanks set, pixels are drawn as colored blanks
// instead of some bad ascii art.
func Print(w io.Writer, img image.Image, mode Mode, blanks bool) error {
	switch mode {
	case ModeITerm:
		return PrintITerm(w, img, "frame.png")
	case ModeRasTerm:
		return PrintRasTerm(w, img)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fmt.Fprint(w, shade(img.At(x, y), mode, blanks))
		}
		if mode != ModeNoColor {
			fmt.Fprint(w, "\x1b[0m")
		}
		fmt.Fprint(w, "\n")
	}
	return nil
}

// shade returns the two character cell drawing one pixel.
func shade(col ic.Color, mode Mode, blanks bool) string {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if mode == ModeNoColor {
			return "  "
		}
		return "\x1b[0m  "
	}

	cell := "  "
	if !blanks {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			cell = ".."
		case a < 64:
			cell = "--"
		case a < 128:
			cell = "=="
		default:
			cell = "##"
		}
	}

	switch mode {
	case ModeNoColor:
		return cell
	case Mode256Color:
		return color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true).Sprint(cell)
	default:
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), cell)
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return err
	}
	bEnc.Close()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Dx(), i.Bounds().Dy(), b.String())
	return err
}
