package liquor

import (
	"image"
	"testing"

	"qualitea/internal/colorstats"
	"qualitea/internal/segment"
	"qualitea/internal/testimg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestInfusionUniformLeaves(t *testing.T) {
	img := testimg.Canvas(200, 200)
	defer img.Close()
	testimg.FillRect(&img, 20, 20, 49, 49, testimg.RGB(40, 60, 80))
	// below the area floor
	testimg.FillRect(&img, 150, 150, 159, 159, testimg.RGB(0, 0, 0))

	v, err := Infusion(img, DefaultInfusionParams())
	require.NoError(t, err)
	assert.Equal(t, 900, v.Pixels)
	rgb := v.Spaces[0].Channels
	assert.Equal(t, 40.0, rgb[0].Mean)
	assert.Equal(t, 60.0, rgb[1].Mean)
	assert.Equal(t, 80.0, rgb[2].Mean)
	assert.Zero(t, rgb[0].StdDev)
}

func TestInfusionBlanksHoles(t *testing.T) {
	img := testimg.Canvas(200, 200)
	defer img.Close()
	testimg.FillRect(&img, 50, 50, 109, 109, testimg.RGB(40, 60, 80))
	testimg.FillRect(&img, 70, 70, 89, 89, testimg.White)

	v, err := Infusion(img, DefaultInfusionParams())
	require.NoError(t, err)
	// the hole is filled white together with its boundary ring
	assert.Equal(t, 60*60-22*22, v.Pixels)
}

func TestInfusionBlank(t *testing.T) {
	img := testimg.Canvas(100, 100)
	defer img.Close()
	_, err := Infusion(img, DefaultInfusionParams())
	assert.ErrorIs(t, err, segment.ErrNoContours)

	testimg.FillRect(&img, 10, 10, 14, 14, testimg.RGB(0, 0, 0))
	_, err = Infusion(img, DefaultInfusionParams())
	assert.ErrorIs(t, err, colorstats.ErrNoPixels)
}

func TestLiquidCup(t *testing.T) {
	img := testimg.Canvas(400, 400)
	defer img.Close()
	gocv.Circle(&img, image.Pt(200, 200), 130, testimg.RGB(30, 40, 50), -1)

	res, err := Liquid(img, DefaultLiquidParams())
	require.NoError(t, err)
	require.NotNil(t, res.Cup)
	assert.InDelta(t, 200, res.Cup.Center.X, 5)
	assert.InDelta(t, 200, res.Cup.Center.Y, 5)

	rgb := res.Vector.Spaces[0].Channels
	assert.Equal(t, 30.0, rgb[0].Mean)
	assert.Equal(t, 40.0, rgb[1].Mean)
	assert.Equal(t, 50.0, rgb[2].Mean)
}

func TestLiquidWithoutCup(t *testing.T) {
	img := testimg.Canvas(300, 300)
	defer img.Close()

	res, err := Liquid(img, DefaultLiquidParams())
	assert.ErrorIs(t, err, colorstats.ErrNoPixels)
	require.NotNil(t, res)
	assert.Nil(t, res.Cup)
}

func TestCenterWindow(t *testing.T) {
	assert.Equal(t, image.Rect(140, 70, 260, 130), centerWindow(400, 200, 0.15))
	assert.True(t, centerWindow(3, 3, 0.15).Empty())
}

func TestRoundPxHalvesToEven(t *testing.T) {
	assert.Equal(t, 200, roundPx(200.5))
	assert.Equal(t, 202, roundPx(201.5))
	assert.Equal(t, 130, roundPx(129.6))
	assert.Equal(t, 129, roundPx(129.4))
}
