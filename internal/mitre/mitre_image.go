// Package mitre implements the mitred-square projection: an optional
// geometric remapping of a square source image into the two-triangle
// layout a mitred-square knit is charted from, plus the driver that
// wires it up with gauge overrides and automatic center-seam links.
package mitre

import (
	"github.com/mirambel/stitchify/internal/fabric"
	"github.com/mirambel/stitchify/internal/sampler"
)

// Image adapts a source fabric.Image into the mitred layout: width 2N,
// height N, two triangular halves separated by an empty gap that
// narrows to nothing at the bottom row. See spec §4.2.
type Image struct {
	sampler *sampler.Sampler
	n       int
}

// NewImage builds a mitre projection of side n (the target stitch
// count) over source.
func NewImage(source fabric.Image, n int) *Image {
	minDim := source.Width()
	if source.Height() < minDim {
		minDim = source.Height()
	}

	sampleSize := float64(minDim) / float64(n)

	return &Image{
		sampler: sampler.New(source, sampleSize, sampleSize),
		n:       n,
	}
}

func (m *Image) Width() int  { return m.n * 2 }
func (m *Image) Height() int { return m.n }

// Pixel implements fabric.Image. Coordinates outside the image bounds
// are absent rather than a panic.
func (m *Image) Pixel(x, y int) (fabric.Color, bool) {
	n := m.n

	if x < 0 || x >= 2*n || y < 0 || y >= n {
		return fabric.Color{}, false
	}

	rowWidth := y + 1

	if x < n {
		if x >= rowWidth {
			return fabric.Color{}, false
		}

		if x == rowWidth-1 {
			return m.sampler.SampleLowerLeftTriangle(x, y)
		}

		return m.sampler.Sample(x, y, 1)
	}

	gapEnd := 2*n - rowWidth
	if x < gapEnd {
		return fabric.Color{}, false
	}

	xPrime := x - gapEnd
	srcY := rowWidth - 1 - xPrime

	if xPrime == 0 {
		return m.sampler.SampleUpperRightTriangle(y, srcY)
	}

	return m.sampler.Sample(y, srcY, 1)
}
