package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"badc0de.net/pkg/go-cel/cel"
	"badc0de.net/pkg/go-cel/palette"
	"badc0de.net/pkg/go-cel/ttesting"
)

func TestClassify(t *testing.T) {
	for path, want := range map[string]fileKind{
		"data/towners.cel": kindCel,
		"DATA/TOWNERS.CEL": kindCel,
		"frame.bmp":        kindBmp,
		"frame.BMP":        kindBmp,
		"frame.png":        kindUnknown,
		"cel":              kindUnknown,
	} {
		if got := classify(path); got != want {
			t.Errorf("classify(%q) = %d; want %d", path, got, want)
		}
	}
}

func TestFrameFileName(t *testing.T) {
	if got, want := frameFileName("data/towners.cel", 3), "towners.cel.frame3.bmp"; got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func writeTestBMP(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %s", path, err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %s", path, err)
	}
}

func TestEncodeThenDecode(t *testing.T) {
	dir := t.TempDir()
	*outputDir = dir
	defer func() { *outputDir = "." }()

	pal := palette.Grayscale(false)
	img := image.NewPaletted(image.Rect(0, 0, 10, 4), pal)
	for i := range img.Pix {
		img.Pix[i] = byte(i * 3)
	}
	img.Pix[5] = cel.Transparent
	writeTestBMP(t, filepath.Join(dir, "a.bmp"), img)

	celPath := filepath.Join(dir, "out.cel")
	if err := encodeBmps([]string{filepath.Join(dir, "a.bmp"), filepath.Join(dir, "missing.bmp")}, celPath, nil, cel.HeaderAuto); err == nil {
		t.Errorf("encoding with a missing input succeeded; want error")
	}

	if err := decodeCel(celPath, pal); err != nil {
		t.Fatalf("failed to decode: %s", err)
	}

	f, err := os.Open(filepath.Join(dir, "out.cel.frame0.bmp"))
	if err != nil {
		t.Fatalf("failed to open decoded frame: %s", err)
	}
	defer f.Close()
	got, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode frame bmp: %s", err)
	}
	p, ok := got.(*image.Paletted)
	if !ok {
		t.Fatalf("decoded frame is %T; want *image.Paletted", got)
	}
	ttesting.AssertEqualBytes(t, "frame pixels", p.Pix, img.Pix)
}

func TestEncodeTrueColorGeneratesPalette(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 16; i++ {
		img.Set(i%4, i/4, color.RGBA{uint8(i * 16), 0x40, 0x80, 0xFF})
	}
	writeTestBMP(t, filepath.Join(dir, "rgb.bmp"), img)

	celPath := filepath.Join(dir, "out.cel")
	if err := encodeBmps([]string{filepath.Join(dir, "rgb.bmp")}, celPath, nil, cel.HeaderAuto); err != nil {
		t.Fatalf("failed to encode: %s", err)
	}
	if _, err := os.Stat(celPath + ".pal"); err != nil {
		t.Errorf("generated palette missing: %s", err)
	}

	buf, err := os.ReadFile(celPath)
	if err != nil {
		t.Fatalf("failed to read cel: %s", err)
	}
	f, err := cel.Parse(buf)
	if err != nil {
		t.Fatalf("failed to parse cel: %s", err)
	}
	frame, _ := f.Frame(0)
	g, err := cel.DecodeFrame(frame)
	if err != nil {
		t.Fatalf("failed to decode frame: %s", err)
	}
	ttesting.AssertEqualInt(t, "width", g.Width, 4)
	ttesting.AssertEqualInt(t, "height", g.Height, 4)
}
