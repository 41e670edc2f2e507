package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"badc0de.net/pkg/go-cel/cel"
)

func decodeCel(path string, pal color.Palette) error {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading cel")
	}
	f, err := cel.Parse(buf)
	if err != nil {
		return errors.Wrap(err, "parsing cel")
	}
	glog.Infof("%s: %d frames", path, f.Len())

	grids, err := cel.DecodeFrames(context.Background(), f, *workers)
	if err != nil {
		return errors.Wrap(err, "decoding frames")
	}

	for i, g := range grids {
		if *describe {
			if err := describeFrame(f, i); err != nil {
				return err
			}
		}
		img := g.Image(pal)
		name := filepath.Join(*outputDir, frameFileName(path, i))
		if err := writeBMP(name, img); err != nil {
			return errors.Wrapf(err, "writing frame %d", i)
		}
		glog.Infof("%s: frame %d (%dx%d) written to %s", path, i, g.Width, g.Height, name)

		if *preview {
			out(img)
		}
	}
	return nil
}

func describeFrame(f *cel.File, i int) error {
	frame, err := f.Frame(i)
	if err != nil {
		return err
	}
	cmds, err := cel.DescribeFrame(frame)
	if err != nil {
		return errors.Wrapf(err, "describing frame %d", i)
	}
	fmt.Printf("frame %d: %d bytes, header: %t\n", i, len(frame), cel.HasHeader(frame))
	for _, c := range cmds {
		fmt.Printf("  %s\n", c)
	}
	return nil
}

func writeBMP(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
