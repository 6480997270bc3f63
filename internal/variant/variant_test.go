package variant

import (
	"context"
	"testing"

	"qualitea/internal/colorstats"
	"qualitea/internal/segment"
	"qualitea/internal/sizecluster"
	"qualitea/internal/testimg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var leaf = testimg.RGB(150, 100, 60)

func segmentImage(t *testing.T, img gocv.Mat) *segment.ContourSet {
	t.Helper()
	set, err := segment.Segment(img, segment.ParticleThreshold)
	require.NoError(t, err)
	return set
}

func TestColorProfileUniformParticle(t *testing.T) {
	img := testimg.Canvas(200, 200)
	defer img.Close()
	testimg.FillRect(&img, 50, 50, 79, 79, leaf)
	// too small to profile
	testimg.FillRect(&img, 150, 150, 159, 159, testimg.RGB(0, 0, 0))

	p, err := ColorProfile(context.Background(), img, segmentImage(t, img), 300, 2)
	require.NoError(t, err)
	assert.Equal(t, 900, p.Pixels)
	assert.Equal(t, Channel{Mean: 150, Median: 150}, p.R)
	assert.Equal(t, Channel{Mean: 100, Median: 100}, p.G)
	assert.Equal(t, Channel{Mean: 60, Median: 60}, p.B)
	assert.Equal(t, 150.0, p.V.Mean)
	assert.Equal(t, 153.0, p.S.Mean)
	assert.InDelta(t, 13, p.H.Mean, 1)
	assert.Equal(t, p.V, p.Brightness)

	v := p.Values()
	require.Len(t, v, ProfileLen)
	assert.Equal(t, []float64{150, 150, 0, 100, 100, 0, 60, 60, 0}, v[:9])
	assert.Equal(t, []float64{150, 150, 0}, v[18:])
}

func TestColorProfileEmpty(t *testing.T) {
	img := testimg.Canvas(200, 200)
	defer img.Close()
	testimg.FillRect(&img, 50, 50, 59, 59, leaf)
	testimg.FillRect(&img, 0, 100, 40, 140, leaf) // touches the border

	_, err := ColorProfile(context.Background(), img, segmentImage(t, img), 300, 1)
	assert.ErrorIs(t, err, colorstats.ErrNoPixels)
}

func TestVectorNeedsBothParts(t *testing.T) {
	_, err := Features{Size: &sizecluster.Stats{}}.Vector()
	assert.ErrorIs(t, err, colorstats.ErrNoPixels)
	_, err = Features{Profile: &Profile{}}.Vector()
	assert.ErrorIs(t, err, colorstats.ErrNoPixels)

	v, err := Features{Profile: &Profile{R: Channel{Mean: 7}}, Size: &sizecluster.Stats{Count: 3}}.Vector()
	require.NoError(t, err)
	require.Len(t, v, VectorLen)
	assert.Equal(t, 7.0, v[0])
	assert.Equal(t, 3.0, v[ProfileLen])
}

func TestExtract(t *testing.T) {
	img := testimg.Canvas(500, 200)
	defer img.Close()
	x := 10
	for _, side := range []int{8, 10, 13, 16, 20, 24, 28, 32, 36} {
		testimg.FillRect(&img, x, 60, x+side-1, 60+side-1, leaf)
		x += side + 15
	}

	f, err := Extract(context.Background(), img, segmentImage(t, img), DefaultParams(), 2)
	require.NoError(t, err)
	require.NotNil(t, f.Profile)
	require.NotNil(t, f.Size)
	assert.Positive(t, f.Size.Count)

	v, err := f.Vector()
	require.NoError(t, err)
	assert.Len(t, v, VectorLen)
}

func TestExtractTooFewParticles(t *testing.T) {
	img := testimg.Canvas(200, 200)
	defer img.Close()
	testimg.FillRect(&img, 50, 50, 79, 79, leaf)

	f, err := Extract(context.Background(), img, segmentImage(t, img), DefaultParams(), 1)
	require.NoError(t, err)
	assert.NotNil(t, f.Profile)
	assert.Nil(t, f.Size)
	_, err = f.Vector()
	assert.ErrorIs(t, err, colorstats.ErrNoPixels)
}
