package mitre_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirambel/stitchify/internal/fabric"
	"github.com/mirambel/stitchify/internal/mitre"
)

// solidImage is a square fabric.Image of a single color, used to probe
// mitre.Image's geometry without sampler noise.
type solidImage struct {
	size  int
	color fabric.Color
}

func (s *solidImage) Width() int  { return s.size }
func (s *solidImage) Height() int { return s.size }

func (s *solidImage) Pixel(x, y int) (fabric.Color, bool) {
	if x < 0 || x >= s.size || y < 0 || y >= s.size {
		return fabric.Color{}, false
	}
	return s.color, true
}

func TestMitreImageDimensions(t *testing.T) {
	src := &solidImage{size: 12, color: fabric.Color{R: 1, G: 2, B: 3}}
	img := mitre.NewImage(src, 4)

	assert.Equal(t, 8, img.Width())
	assert.Equal(t, 4, img.Height())
}

func TestMitreImageTriangleLayoutIsSolidOnASolidSource(t *testing.T) {
	src := &solidImage{size: 12, color: fabric.Color{R: 5, G: 6, B: 7}}
	img := mitre.NewImage(src, 4)

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c, present := img.Pixel(x, y)
			if !present {
				continue
			}
			assert.Equal(t, src.color, c, "pixel (%d,%d)", x, y)
		}
	}
}

func TestMitreImageOutOfBoundsIsAbsent(t *testing.T) {
	src := &solidImage{size: 12, color: fabric.Color{R: 1, G: 1, B: 1}}
	img := mitre.NewImage(src, 4)

	_, present := img.Pixel(-1, 0)
	assert.False(t, present)

	_, present = img.Pixel(img.Width(), 0)
	assert.False(t, present)

	_, present = img.Pixel(0, img.Height())
	assert.False(t, present)
}

func TestMitreImageRowWidthGrowsWithY(t *testing.T) {
	src := &solidImage{size: 16, color: fabric.Color{R: 9, G: 9, B: 9}}
	img := mitre.NewImage(src, 4)

	n := img.Height()
	for y := 0; y < n; y++ {
		rowWidth := y + 1
		gapEnd := 2*n - rowWidth

		for x := rowWidth; x < gapEnd; x++ {
			_, present := img.Pixel(x, y)
			assert.False(t, present, "gap pixel (%d,%d) should be absent", x, y)
		}
	}
}

func TestMitreDriverBuildsDoubledFabric(t *testing.T) {
	src := &solidImage{size: 12, color: fabric.Color{R: 8, G: 8, B: 8}}
	dims := fabric.Dimensions{
		Stitches:      6,
		GaugeStitches: 22,
		GaugeRows:     30,
		DuplicateRows: 1,
	}

	var driver mitre.Driver
	f, builtDims, err := driver.Build(src, dims)
	require.NoError(t, err)

	assert.Equal(t, 12, f.NStitches())
	assert.Equal(t, dims.GaugeStitches*2, builtDims.GaugeRows)
	assert.Equal(t, 2, builtDims.DuplicateRows)
	assert.True(t, builtDims.AllowLinkGaps)
}
