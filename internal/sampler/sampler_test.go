package sampler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mirambel/stitchify/internal/fabric"
	"github.com/mirambel/stitchify/internal/sampler"
)

// fakeImage is a 12x12 diagonal split: a run of 'a' (red) pixels
// followed by a run of 'b' (green) pixels in each row, the run lengths
// shifting by one pixel per row.
type fakeImage struct {
	rows []string
}

func newFakeImage() *fakeImage {
	rows := make([]string, 12)
	for y := 0; y < 12; y++ {
		aCount := y + 1
		rows[y] = strings.Repeat("a", aCount) + strings.Repeat("b", 12-aCount)
	}
	return &fakeImage{rows: rows}
}

func (im *fakeImage) Width() int  { return 12 }
func (im *fakeImage) Height() int { return 12 }

func (im *fakeImage) Pixel(x, y int) (fabric.Color, bool) {
	switch im.rows[y][x] {
	case 'a':
		return fabric.Color{R: 255, G: 0, B: 0}, true
	case 'b':
		return fabric.Color{R: 0, G: 255, B: 0}, true
	default:
		return fabric.Color{}, false
	}
}

var red = fabric.Color{R: 255, G: 0, B: 0}
var green = fabric.Color{R: 0, G: 255, B: 0}

func TestSampleLowerLeftTriangle(t *testing.T) {
	image := newFakeImage()
	s := sampler.New(image, 4.0, 4.0)

	assertColor := func(c fabric.Color, present bool, want fabric.Color) {
		t.Helper()
		assert.True(t, present)
		assert.Equal(t, want, c)
	}

	c, present := s.SampleLowerLeftTriangle(0, 0)
	assertColor(c, present, red)

	c, present = s.Sample(1, 0, 1)
	assertColor(c, present, green)

	c, present = s.Sample(0, 1, 1)
	assertColor(c, present, red)

	c, present = s.SampleLowerLeftTriangle(1, 1)
	assertColor(c, present, red)

	c, present = s.Sample(2, 1, 1)
	assertColor(c, present, green)

	c, present = s.Sample(1, 2, 1)
	assertColor(c, present, red)

	c, present = s.SampleLowerLeftTriangle(2, 2)
	assertColor(c, present, red)
}

func TestSampleUpperRightTriangle(t *testing.T) {
	image := newFakeImage()
	s := sampler.New(image, 4.0, 4.0)

	assertColor := func(c fabric.Color, present bool, want fabric.Color) {
		t.Helper()
		assert.True(t, present)
		assert.Equal(t, want, c)
	}

	c, present := s.SampleUpperRightTriangle(0, 0)
	assertColor(c, present, green)

	c, present = s.Sample(1, 0, 1)
	assertColor(c, present, green)

	c, present = s.Sample(0, 1, 1)
	assertColor(c, present, red)

	c, present = s.SampleUpperRightTriangle(1, 1)
	assertColor(c, present, green)

	c, present = s.Sample(2, 1, 1)
	assertColor(c, present, green)

	c, present = s.Sample(1, 2, 1)
	assertColor(c, present, red)

	c, present = s.SampleUpperRightTriangle(2, 2)
	assertColor(c, present, green)
}

func TestSampleOutsideImageIsAbsent(t *testing.T) {
	image := newFakeImage()
	s := sampler.New(image, 4.0, 4.0)

	_, present := s.Sample(3, 3, 1)
	assert.False(t, present)
}
