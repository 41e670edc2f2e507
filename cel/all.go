package cel

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DecodeFrames decodes every frame of f, using up to workers goroutines.
// Frames share nothing but the read-only file buffer. The first failure
// cancels the remaining work and is returned.
func DecodeFrames(ctx context.Context, f *File, workers int) ([]*Grid, error) {
	if workers < 1 {
		workers = 1
	}
	grids := make([]*Grid, f.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range grids {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frame, err := f.Frame(i)
			if err != nil {
				return err
			}
			grid, err := DecodeFrame(frame)
			if err != nil {
				return errors.Wrapf(err, "frame %d", i)
			}
			glog.V(2).Infof("cel: frame %d is %dx%d", i, grid.Width, grid.Height)
			grids[i] = grid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grids, nil
}
