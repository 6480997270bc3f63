package colorstats

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"qualitea/internal/segment"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// CollectRegions gathers the filled-contour pixels of img for every contour,
// using up to workers goroutines (GOMAXPROCS when workers < 1). Results are
// indexed like contours.
func CollectRegions(ctx context.Context, img gocv.Mat, contours []segment.Contour, workers int) ([]Pixels, error) {
	if img.Channels() != 3 {
		return nil, fmt.Errorf("want 3-channel image, got %d", img.Channels())
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	data := img.ToBytes()
	cols := img.Cols()
	out := make([]Pixels, len(contours))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range contours {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = collectContour(data, cols, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// collectContour rasterizes c inside its bounding rectangle only and reads
// the covered pixels from the full image bytes, in row-major order.
func collectContour(data []byte, cols int, c segment.Contour) Pixels {
	if len(c.Points) == 0 {
		return Pixels{}
	}
	pv := gocv.NewPointVectorFromPoints(c.Points)
	r := gocv.BoundingRect(pv)
	pv.Close()

	shifted := make([]image.Point, len(c.Points))
	for i, p := range c.Points {
		shifted[i] = p.Sub(r.Min)
	}
	mask := segment.FillMask(r.Dx(), r.Dy(), segment.Contour{Points: shifted})
	m := mask.ToBytes()
	mask.Close()

	var p Pixels
	w := r.Dx()
	for y := 0; y < r.Dy(); y++ {
		row := (r.Min.Y + y) * cols
		for x := 0; x < w; x++ {
			if m[y*w+x] == 0 {
				continue
			}
			off := 3 * (row + r.Min.X + x)
			p.bgr = append(p.bgr, data[off:off+3]...)
		}
	}
	return p
}
