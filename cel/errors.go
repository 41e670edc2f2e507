package cel

import (
	"github.com/pkg/errors"
)

var (
	// ErrMalformedContainer is returned when the offset table does not fit
	// the buffer it describes.
	ErrMalformedContainer = errors.New("cel: malformed container")
	// ErrIndexOutOfRange is returned when a frame index is not below the frame count.
	ErrIndexOutOfRange = errors.New("cel: frame index out of range")
	// ErrUnexpectedEndOfFrame is returned when a command stream ends before
	// a scanline terminator, or in the middle of a literal run.
	ErrUnexpectedEndOfFrame = errors.New("cel: unexpected end of frame")
	// ErrDimensionMismatch is returned when a pixel count does not match the frame dimensions.
	ErrDimensionMismatch = errors.New("cel: dimension mismatch")
	// ErrNoPalette is returned when a true-color image needs to be mapped onto palette indices but no palette was given.
	ErrNoPalette = errors.New("cel: no palette to map colors onto")
)
