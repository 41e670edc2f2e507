package palette

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"badc0de.net/pkg/go-cel/ttesting"
)

func TestLoadWrite(t *testing.T) {
	raw := make([]byte, rawSize)
	for i := range raw {
		raw[i] = byte(i)
	}

	pal, err := Load(bytes.NewReader(raw), true)
	if err != nil {
		t.Fatalf("failed to load palette: %s", err)
	}
	ttesting.AssertEqualInt(t, "size", len(pal), Size)
	if got, want := pal[1], (color.RGBA{3, 4, 5, 0xFF}); got != want {
		t.Errorf("entry 1: got %v; want %v", got, want)
	}
	if _, _, _, a := pal[TransparentIndex].RGBA(); a != 0 {
		t.Errorf("transparent entry has alpha %d; want 0", a)
	}

	opaque, err := Load(bytes.NewReader(raw), false)
	if err != nil {
		t.Fatalf("failed to load palette: %s", err)
	}
	buf := &bytes.Buffer{}
	if err := Write(buf, opaque); err != nil {
		t.Fatalf("failed to write palette: %s", err)
	}
	ttesting.AssertEqualBytes(t, "written palette", buf.Bytes(), raw)
}

func TestLoadWrongSize(t *testing.T) {
	if _, err := Load(bytes.NewReader(make([]byte, 767)), false); err == nil {
		t.Errorf("loading a short palette succeeded; want error")
	}
	if _, err := Load(bytes.NewReader(make([]byte, 769)), false); err == nil {
		t.Errorf("loading a long palette succeeded; want error")
	}
}

func TestGrayscale(t *testing.T) {
	pal := Grayscale(false)
	r, g, b, _ := pal[0x80].RGBA()
	if r != g || g != b || r>>8 != 0x80 {
		t.Errorf("entry 0x80: got %d %d %d; want gray 0x80", r, g, b)
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{0xFF, 0, 0, 0xFF})
	img.Set(1, 0, color.RGBA{0, 0, 0xFF, 0xFF})

	pal := FromImage(img)
	ttesting.AssertEqualInt(t, "size", len(pal), Size)
	if _, _, _, a := pal[TransparentIndex].RGBA(); a != 0 {
		t.Errorf("transparent entry has alpha %d; want 0", a)
	}
}
