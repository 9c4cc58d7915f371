package mitre

import "github.com/mirambel/stitchify/internal/fabric"

// Driver builds a Fabric from a square source image using the
// mitred-square layout (spec §4.4): the image is projected through
// Image, the overridden dimensions double the stitch count and set the
// row gauge to twice the stitch gauge to keep the garter-stitch halves
// square, and the two seam edges
// are auto-linked wherever they carry matching colors. Any links the
// caller already supplied in dims are preserved, reinterpreted in the
// doubled mitre coordinate space, and knitted alongside the seam links.
type Driver struct{}

// Build runs the mitre pipeline and returns both the resulting Fabric
// and the dimensions it was built with (the overrides applied, for
// callers that need to report the actual stitch/row count).
func (Driver) Build(source fabric.Image, dims fabric.Dimensions) (*fabric.Fabric, fabric.Dimensions, error) {
	n := dims.Stitches

	image := NewImage(source, n)
	overridden := dims.Clone()
	overridden.GaugeRows = dims.GaugeStitches * 2
	overridden.DuplicateRows = 2
	overridden.Stitches = 2 * n
	overridden.AllowLinkGaps = true
	overridden.Links = append(overridden.Links, seamLinks(image, n)...)

	f, err := fabric.Build(image, overridden)
	if err != nil {
		return nil, fabric.Dimensions{}, err
	}

	return f, overridden, nil
}

// seamLinks walks the two triangular halves from the cast-on edge
// toward the tip of the mitre, linking every pair of cells straddling the
// center gap that share a color. center is the mitre image's half-width
// (equal to n, the image's height); the link coordinates it derives are
// already in the user coordinate space of the overridden, double-width
// fabric this seam belongs to.
func seamLinks(image *Image, n int) []fabric.Link {
	height := image.Height()
	center := n

	var links []fabric.Link

	for y := 0; y <= height-2; y++ {
		leftX := center - y - 2
		rightX := center + y + 1
		imageY := height - 2 - y

		leftColor, leftPresent := image.Pixel(leftX, imageY)
		rightColor, rightPresent := image.Pixel(rightX, imageY)

		if !leftPresent || !rightPresent || leftColor != rightColor {
			continue
		}

		links = append(links,
			fabric.Link{
				Source: fabric.Position{X: rightX + 1, Y: 2*y + 3},
				Dest:   fabric.Position{X: leftX + 1, Y: 2*y + 3},
			},
			fabric.Link{
				Source: fabric.Position{X: leftX + 1, Y: 2*y + 4},
				Dest:   fabric.Position{X: rightX + 1, Y: 2*y + 4},
			},
		)
	}

	return links
}
