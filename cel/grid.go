package cel

// Grid is a frame's pixels as palette indices, one byte per pixel.
//
// Rows are stored bottom-up, the way the format stores scanlines: row 0 is
// the bottom row of the picture. Images produced by Image, and accepted by
// GridFromImage, are top-down as usual.
type Grid struct {
	Width, Height int
	Pix           []byte
}

// NewGrid returns a grid of the passed size with every pixel transparent.
func NewGrid(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, Pix: make([]byte, width*height)}
	for i := range g.Pix {
		g.Pix[i] = Transparent
	}
	return g
}

// Row returns stored row y (counted from the bottom of the picture).
func (g *Grid) Row(y int) []byte {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// At returns the palette index at (x, y) in top-down picture coordinates.
func (g *Grid) At(x, y int) byte {
	return g.Pix[(g.Height-1-y)*g.Width+x]
}

// Set sets the palette index at (x, y) in top-down picture coordinates.
func (g *Grid) Set(x, y int, idx byte) {
	g.Pix[(g.Height-1-y)*g.Width+x] = idx
}
