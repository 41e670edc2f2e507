package cel

import (
	"context"
	"math/rand"
	"testing"

	"badc0de.net/pkg/go-cel/ttesting"
)

func TestDecodeFrames(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var want []*Grid
	w := NewWriter()
	for i := 0; i < 12; i++ {
		g := randomGrid(r, 1+r.Intn(300), 1+r.Intn(20), 0.4)
		frame, err := EncodeFrameWithHeader(g, HeaderAuto)
		if err != nil {
			t.Fatalf("failed to encode frame %d: %s", i, err)
		}
		w.Add(frame)
		want = append(want, g)
	}
	f, err := Parse(w.Bytes())
	if err != nil {
		t.Fatalf("failed to parse: %s", err)
	}

	grids, err := DecodeFrames(context.Background(), f, 4)
	if err != nil {
		t.Fatalf("failed to decode frames: %s", err)
	}
	ttesting.AssertEqualInt(t, "frame count", len(grids), len(want))
	for i, g := range grids {
		ttesting.AssertEqualInt(t, "width", g.Width, want[i].Width)
		ttesting.AssertEqualInt(t, "height", g.Height, want[i].Height)
		ttesting.AssertEqualBytes(t, "pixels", g.Pix, want[i].Pix)
	}
}

func TestDecodeFramesError(t *testing.T) {
	f, err := Parse(WriteOffsets([][]byte{{0x81}, {0x80, 0x80}, {0x82}}))
	if err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	_, err = DecodeFrames(context.Background(), f, 0)
	ttesting.AssertErrorIs(t, "frame without terminator", err, ErrUnexpectedEndOfFrame)
}
