//go:build !windows
// +build !windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

// PrintRasTerm draws an image using the RasTerm library.
//
// This should enable drawing in Kitty terminal. Sixel output needs a
// paletted image; frames already are, anything else is quantized first.
func PrintRasTerm(w io.Writer, i image.Image) error {
	if rasterm.IsTermKitty() {
		defer fmt.Fprintf(w, "\n")
		return rasterm.Settings{}.KittyWriteImage(w, i)
	}
	if rasterm.IsTermItermWez() {
		defer fmt.Fprintf(w, "\n")
		return rasterm.Settings{}.ItermWriteImage(w, i)
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage, ok := i.(*image.Paletted)
		if !ok {
			palettedImage = image.NewPaletted(i.Bounds(), nil)
			quantizer := gogif.MedianCutQuantizer{NumColor: 64}
			quantizer.Quantize(palettedImage, i.Bounds(), i, image.ZP)
		}
		defer fmt.Fprintf(w, "\n")
		return rasterm.Settings{}.SixelWriteImage(w, palettedImage)
	}
	return fmt.Errorf("terminal supports none of kitty, iterm or sixel images")
}
