package cel

// This file contains the container level framing: the frame count and the
// offset table which lets a single frame be sliced out of a CEL file without
// touching any of the others.

import (
	"encoding/binary"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// File is a parsed CEL container. Frames returned from it are sub-slices of
// the buffer passed to Parse; they are not copied.
type File struct {
	buf     []byte
	offsets []uint32
}

// ReadOffsets reads the frame count from the start of buf, followed by the
// count+1 frame boundary offsets. The returned slice holds the boundaries
// only; frame i spans offsets[i] up to offsets[i+1].
func ReadOffsets(buf []byte) ([]uint32, error) {
	if len(buf) < 4 {
		return nil, errors.Wrapf(ErrMalformedContainer, "could not read frame count: have %d bytes, want 4", len(buf))
	}
	count := binary.LittleEndian.Uint32(buf)

	// Computed in 64 bits; a garbage count must not wrap around.
	want := 4 + 4*(uint64(count)+1)
	if uint64(len(buf)) < want {
		return nil, errors.Wrapf(ErrMalformedContainer, "offset table for %d frames needs %d bytes, have %d", count, want, len(buf))
	}

	offsets := make([]uint32, count+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(buf[4+4*i:])
	}
	glog.V(3).Infof("cel: %d frames, offsets %v", count, offsets)
	return offsets, nil
}

// FrameBytes returns the raw bytes of frame i, as delimited by offsets.
func FrameBytes(buf []byte, offsets []uint32, i int) ([]byte, error) {
	if i < 0 || i >= len(offsets)-1 {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "got frame %d; have %d frames", i, frameCount(offsets))
	}
	start, end := offsets[i], offsets[i+1]
	if start > end || uint64(end) > uint64(len(buf)) {
		return nil, errors.Wrapf(ErrMalformedContainer, "frame %d spans [%d,%d) in a %d byte buffer", i, start, end, len(buf))
	}
	return buf[start:end], nil
}

// WriteOffsets lays out frames into a complete CEL container.
//
// The header is reserved first, with room for the count, one start offset
// per frame and the closing end-of-data offset. Each frame's start is written
// as the frame is appended, and the closing slot is backpatched at the end.
func WriteOffsets(frames [][]byte) []byte {
	headerSize := 4 * (len(frames) + 2)

	size := headerSize
	for _, fr := range frames {
		size += len(fr)
	}
	buf := make([]byte, headerSize, size)

	binary.LittleEndian.PutUint32(buf, uint32(len(frames)))
	for i, fr := range frames {
		binary.LittleEndian.PutUint32(buf[4+4*i:], uint32(len(buf)))
		buf = append(buf, fr...)
	}
	binary.LittleEndian.PutUint32(buf[4+4*len(frames):], uint32(len(buf)))
	return buf
}

// Parse reads the offset table of a CEL container and checks that every
// frame lies within buf.
func Parse(buf []byte) (*File, error) {
	offsets, err := ReadOffsets(buf)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, errors.Wrapf(ErrMalformedContainer, "offset %d (%d) is below offset %d (%d)", i, offsets[i], i-1, offsets[i-1])
		}
	}
	if last := offsets[len(offsets)-1]; uint64(last) > uint64(len(buf)) {
		return nil, errors.Wrapf(ErrMalformedContainer, "end of data at %d, past the %d byte buffer", last, len(buf))
	} else if int(last) != len(buf) {
		glog.V(2).Infof("cel: %d trailing bytes after end of data", len(buf)-int(last))
	}
	return &File{buf: buf, offsets: offsets}, nil
}

// Len returns the number of frames in the file.
func (f *File) Len() int {
	return frameCount(f.offsets)
}

// Offsets returns the frame boundary offsets. The slice must not be modified.
func (f *File) Offsets() []uint32 {
	return f.offsets
}

// Frame returns the raw, still compressed bytes of frame i.
func (f *File) Frame(i int) ([]byte, error) {
	return FrameBytes(f.buf, f.offsets, i)
}

func frameCount(offsets []uint32) int {
	if len(offsets) == 0 {
		return 0
	}
	return len(offsets) - 1
}

// Writer accumulates encoded frames and lays them out into a container.
type Writer struct {
	frames [][]byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Add appends one encoded frame. The slice is retained until Bytes is called.
func (w *Writer) Add(frame []byte) {
	w.frames = append(w.frames, frame)
}

// Len returns the number of frames added so far.
func (w *Writer) Len() int {
	return len(w.frames)
}

// Bytes returns the complete container.
func (w *Writer) Bytes() []byte {
	return WriteOffsets(w.frames)
}
