package cel

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// HeaderSize is the size of the optional frame header.
	HeaderSize = 10

	// headerThreshold is the largest first byte for which a frame is
	// considered to start with a header. Command streams are expected to
	// open with something larger.
	headerThreshold = 0x10

	// headerRowStep is the number of stored rows between the row offsets
	// recorded in a generated header.
	headerRowStep = 32
)

// HeaderMode selects whether an encoded frame is prefixed with a header.
type HeaderMode int

const (
	// HeaderAuto writes a header only if the command stream starts with a
	// byte that would otherwise be taken as the start of a header.
	HeaderAuto HeaderMode = iota
	// HeaderAlways always writes a header.
	HeaderAlways
	// HeaderNever never writes a header.
	HeaderNever
)

func (m HeaderMode) String() string {
	switch m {
	case HeaderAuto:
		return "auto"
	case HeaderAlways:
		return "always"
	case HeaderNever:
		return "never"
	}
	return "bad value"
}

// ParseHeaderMode is the inverse of HeaderMode.String.
func ParseHeaderMode(s string) (HeaderMode, error) {
	for _, m := range []HeaderMode{HeaderAuto, HeaderAlways, HeaderNever} {
		if m.String() == s {
			return m, nil
		}
	}
	return HeaderAuto, errors.Errorf("unknown frame header mode %q; want auto, always or never", s)
}

// HasHeader reports whether frame starts with the 10 byte header.
//
// The header carries no marker of its own. Its first byte is small, and the
// format's decoders rely on command streams not starting with a byte at or
// below 0x10; this exact threshold is kept as is.
func HasHeader(frame []byte) bool {
	return len(frame) > 0 && frame[0] <= headerThreshold
}

// SkipHeader returns the command stream of frame, without the header if one
// is present.
func SkipHeader(frame []byte) ([]byte, error) {
	if !HasHeader(frame) {
		return frame, nil
	}
	if len(frame) < HeaderSize {
		return nil, errors.Wrapf(ErrUnexpectedEndOfFrame, "frame header needs %d bytes, have %d", HeaderSize, len(frame))
	}
	return frame[HeaderSize:], nil
}

// buildHeader returns a header for a command stream whose stored rows start
// at the passed offsets (relative to the start of the command stream).
//
// The layout is the header size as a u16, followed by four u16 offsets
// (relative to the start of the frame) of the rows 32, 64, 96 and 128, or 0
// where the frame is not that tall.
func buildHeader(rowStarts []int) []byte {
	h := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(h, HeaderSize)
	for i := 1; i <= 4; i++ {
		row := i * headerRowStep
		if row >= len(rowStarts) || HeaderSize+rowStarts[row] > 0xFFFF {
			continue
		}
		binary.LittleEndian.PutUint16(h[2*i:], uint16(HeaderSize+rowStarts[row]))
	}
	return h
}
