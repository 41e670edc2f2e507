package cel

import (
	"fmt"

	"github.com/pkg/errors"
)

// Op is the kind of a command.
type Op int

const (
	// OpLiteral copies the following bytes into the frame.
	OpLiteral Op = iota
	// OpTransparent skips over transparent pixels.
	OpTransparent
)

func (o Op) String() string {
	switch o {
	case OpLiteral:
		return "literal"
	case OpTransparent:
		return "transparent"
	}
	return "bad value"
}

// Command is one decoded command of a frame's command stream.
type Command struct {
	Offset int // Position of the command byte within the command stream.
	Op     Op
	Length int // Number of pixels produced.
}

// Terminates reports whether the command ends a scanline.
func (c Command) Terminates() bool {
	if c.Op == OpLiteral {
		return c.Length < maxLiteralRun
	}
	return c.Length < maxTransparentRun
}

func (c Command) String() string {
	s := fmt.Sprintf("%6d: %-11s %3d", c.Offset, c.Op, c.Length)
	if c.Terminates() {
		s += " (end of row)"
	}
	return s
}

// Commands lists the commands in a command stream known not to start with a
// header.
func Commands(cmds []byte) ([]Command, error) {
	var out []Command
	for i := 0; i < len(cmds); {
		c := cmds[i]
		if c <= maxLiteralRun {
			if i+1+int(c) > len(cmds) {
				return out, errors.Wrapf(ErrUnexpectedEndOfFrame, "literal run of %d at %d; %d bytes left", c, i, len(cmds)-i-1)
			}
			out = append(out, Command{Offset: i, Op: OpLiteral, Length: int(c)})
			i += 1 + int(c)
		} else {
			out = append(out, Command{Offset: i, Op: OpTransparent, Length: 0x100 - int(c)})
			i++
		}
	}
	return out, nil
}

// DescribeFrame lists the commands of frame, skipping its header if present.
func DescribeFrame(frame []byte) ([]Command, error) {
	cmds, err := SkipHeader(frame)
	if err != nil {
		return nil, err
	}
	return Commands(cmds)
}
