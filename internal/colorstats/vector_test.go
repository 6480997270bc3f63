package colorstats

import (
	"context"
	"testing"

	"qualitea/internal/segment"
	"qualitea/internal/testimg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(b, g, r byte, n int) Pixels {
	bgr := make([]byte, 0, 3*n)
	for i := 0; i < n; i++ {
		bgr = append(bgr, b, g, r)
	}
	return FromBGR(bgr)
}

func TestComputeConstantRegion(t *testing.T) {
	v, err := Compute(constant(60, 100, 150, 25))
	require.NoError(t, err)
	assert.Equal(t, 25, v.Pixels)

	values := v.Values()
	require.Len(t, values, VectorLen)
	assert.Equal(t, 60, VectorLen)

	rgb := v.Spaces[0]
	assert.Equal(t, "RGB", rgb.Name)
	assert.Equal(t, 150.0, rgb.Channels[0].Mean)
	assert.Equal(t, 100.0, rgb.Channels[1].Median)
	assert.Equal(t, 60.0, rgb.Channels[2].Mean)

	for _, s := range v.Spaces {
		for _, ch := range s.Channels {
			assert.Zero(t, ch.StdDev, s.Name)
			assert.Zero(t, ch.Skewness, s.Name)
			assert.Zero(t, ch.Kurtosis, s.Name)
		}
	}
}

func TestValuesOrder(t *testing.T) {
	v, err := Compute(constant(10, 20, 30, 4))
	require.NoError(t, err)
	values := v.Values()
	// RGB means then RGB medians
	assert.Equal(t, []float64{30, 20, 10, 30, 20, 10}, values[:6])
	// HSV block starts at 15; V of (30,20,10) is 30
	assert.Equal(t, 30.0, values[17])
}

func TestComputeEmpty(t *testing.T) {
	_, err := Compute(Pixels{})
	assert.ErrorIs(t, err, ErrNoPixels)

	_, err = Compute(constant(255, 255, 255, 10).WithoutWhite())
	assert.ErrorIs(t, err, ErrNoPixels)
}

func TestCollectUnderMask(t *testing.T) {
	img := testimg.Canvas(50, 50)
	defer img.Close()
	testimg.FillRect(&img, 10, 10, 19, 19, testimg.RGB(150, 100, 60))

	set, err := segment.Segment(img, segment.ParticleThreshold)
	require.NoError(t, err)
	require.Len(t, set.Contours, 1)

	mask := segment.FillMask(set.Width, set.Height, set.Contours[0])
	defer mask.Close()

	p, err := Collect(img, mask)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Len())

	ch, err := p.Channels(RGB)
	require.NoError(t, err)
	for i := range ch[0] {
		assert.Equal(t, 150.0, ch[0][i])
		assert.Equal(t, 60.0, ch[2][i])
	}
}

func TestCollectSizeMismatch(t *testing.T) {
	img := testimg.Canvas(10, 10)
	defer img.Close()
	mask := segment.NewMask(5, 5)
	defer mask.Close()
	_, err := Collect(img, mask)
	assert.Error(t, err)
}

func TestConcatAndFilter(t *testing.T) {
	p := Concat(constant(1, 2, 3, 2), constant(255, 255, 255, 3))
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, 2, p.WithoutWhite().Len())
}

func TestMeanRGB(t *testing.T) {
	p := Concat(constant(60, 100, 150, 3), constant(0, 0, 0, 1))
	mean, err := p.MeanRGB()
	require.NoError(t, err)
	assert.InDelta(t, 112.5, mean.R, 1e-12)
	assert.InDelta(t, 75, mean.G, 1e-12)
	assert.InDelta(t, 45, mean.B, 1e-12)

	_, err = Pixels{}.MeanRGB()
	assert.ErrorIs(t, err, ErrNoPixels)
}

func TestCollectRegionsMatchesFullMask(t *testing.T) {
	img := testimg.Canvas(120, 80)
	defer img.Close()
	testimg.FillPolygon(&img, testimg.LShape(10, 10), testimg.RGB(150, 100, 60))
	testimg.FillRect(&img, 50, 30, 70, 50, testimg.RGB(40, 80, 120))

	set, err := segment.Segment(img, segment.ParticleThreshold)
	require.NoError(t, err)

	regions, err := CollectRegions(context.Background(), img, set.Contours, 2)
	require.NoError(t, err)
	require.Len(t, regions, len(set.Contours))

	for i, c := range set.Contours {
		mask := segment.FillMask(set.Width, set.Height, c)
		want, err := Collect(img, mask)
		mask.Close()
		require.NoError(t, err)
		assert.Equal(t, want, regions[i], "contour %d", c.Index)
	}
}
