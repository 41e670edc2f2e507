// Package cel implements a reader and a writer for CEL sprite containers.
//
// A CEL file starts with a frame count and an offset table, followed by the
// frames themselves. Each frame is an independently run-length encoded block
// of palette indices, stored one scanline at a time starting with the bottom
// row. Frames carry no explicit width; it is recovered from the way the
// encoder terminates each scanline.
//
// The palette is not part of the container. Functions that produce displayable
// images take a color.Palette explicitly.
package cel
