package stroke

import (
	"context"
	"testing"

	"qualitea/internal/segment"
	"qualitea/internal/testimg"
	"qualitea/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var (
	brown = testimg.RGB(150, 100, 60)
	gray  = testimg.RGB(120, 120, 120)
)

func classify(t *testing.T, img gocv.Mat) *Result {
	t.Helper()
	set, err := segment.Segment(img, segment.ParticleThreshold)
	require.NoError(t, err)
	res, err := Classify(context.Background(), img, set, segment.FindReferenceBox(set), DefaultParams(), 2)
	require.NoError(t, err)
	t.Cleanup(res.Close)
	return res
}

func TestIsBrown(t *testing.T) {
	p := DefaultParams()
	assert.True(t, p.IsBrown(colorutil.RGB{R: 150, G: 100, B: 60}))
	assert.False(t, p.IsBrown(colorutil.RGB{R: 128, G: 128, B: 128}), "achromatic")
	assert.False(t, p.IsBrown(colorutil.RGB{R: 100, G: 60, B: 110}), "blue over green")
	assert.False(t, p.IsBrown(colorutil.RGB{R: 250, G: 200, B: 100}), "red out of band")
	assert.True(t, p.IsBrown(colorutil.RGB{R: 95, G: 100, B: 60}), "red may trail green slightly")
	assert.False(t, p.WithMinSpread(50).IsBrown(colorutil.RGB{R: 130, G: 100, B: 90}))
}

func TestUpperArea(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1500.0, p.UpperArea(&segment.ContourSet{}))

	set := &segment.ContourSet{Contours: []segment.Contour{
		{Area: 0}, {Area: 100}, {Area: 200}, {Area: 300},
	}}
	// p90 of 100, 200, 300 is 280
	assert.InDelta(t, 420, p.UpperArea(set), 1e-9)
}

func TestBrownAndGray(t *testing.T) {
	img := testimg.Canvas(300, 300)
	defer img.Close()
	testimg.FillRect(&img, 50, 50, 69, 69, brown)
	testimg.FillRect(&img, 150, 150, 169, 169, gray)

	res := classify(t, img)
	assert.Equal(t, Report{
		Eligible: 2,
		Brown:    1,
		Ratio:    50,
		AllR:     135,
		AllG:     110,
		AllB:     90,
		BrownR:   150,
		BrownG:   100,
		BrownB:   60,
	}, res.Report)

	assert.Equal(t, gocv.Vecb{60, 100, 150}, res.Overlay.GetVecbAt(60, 60))
	assert.Equal(t, gocv.Vecb{255, 255, 255}, res.Overlay.GetVecbAt(160, 160))
}

func TestExclusions(t *testing.T) {
	img := testimg.Canvas(300, 300)
	defer img.Close()
	testimg.Frame(&img, 3, 3, 120, 120, 4, testimg.RGB(0, 0, 0))
	testimg.FillRect(&img, 40, 40, 59, 59, brown)  // inside the reference box
	testimg.FillRect(&img, 200, 0, 219, 19, brown) // clipped by the top edge
	testimg.FillRect(&img, 200, 200, 219, 219, brown)

	res := classify(t, img)
	assert.Equal(t, 1, res.Report.Eligible)
	assert.Equal(t, 1, res.Report.Brown)
	assert.Equal(t, 100.0, res.Report.Ratio)
	require.Len(t, res.Particles, 1)
	assert.Equal(t, 400, res.Particles[0].Pixels)
}

func TestNothingEligible(t *testing.T) {
	img := testimg.Canvas(100, 100)
	defer img.Close()
	testimg.FillRect(&img, 40, 40, 44, 44, brown)

	res := classify(t, img)
	assert.Equal(t, Report{}, res.Report)
	assert.Empty(t, res.Particles)
}
