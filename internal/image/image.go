// Package image adapts a decoded raster (any standard image.Image) into
// the fabric.Image pixel source stitchify's core operates on, and
// registers the raster formats this module can decode.
package image

import (
	"fmt"
	"image"
	stdcolor "image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "github.com/deepteams/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/mirambel/stitchify/internal/fabric"
)

func init() {
	// golang.org/x/image/bmp does not self-register with the standard
	// library's image.RegisterFormat the way image/png, image/jpeg,
	// image/gif, and github.com/deepteams/webp do, so it is wired in
	// here explicitly.
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

// transparencyThreshold is the alpha value (out of 255) at or above
// which a pixel counts as opaque. Anything below is an absent stitch.
const transparencyThreshold = 128

// Raster wraps a decoded image.Image as a fabric.Image, normalizing
// every supported color model down to RGBA8 at decode time per spec.
type Raster struct {
	img image.Image
}

// Decode reads and decodes a raster from r, returning it ready for use
// as a fabric.Image. Any registered format (PNG, JPEG, GIF, BMP, WebP)
// is accepted.
func Decode(r io.Reader) (*Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return wrap(img)
}

// wrap normalizes img to an RGBA-backed Raster, converting unsupported
// color depths via golang.org/x/image/draw rather than hand-rolling the
// channel math (matches spec §6's "other color depths are
// pre-converted to RGBA8"). *image.RGBA and *image.NRGBA pass through
// untouched since Pixel already converts through color.NRGBAModel.
func wrap(img image.Image) (*Raster, error) {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return &Raster{img: img}, nil
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return &Raster{img: rgba}, nil
}

func (r *Raster) Width() int  { return r.img.Bounds().Dx() }
func (r *Raster) Height() int { return r.img.Bounds().Dy() }

// Pixel implements fabric.Image: alpha >= 128 maps to opaque, else the
// cell is absent.
func (r *Raster) Pixel(x, y int) (fabric.Color, bool) {
	bounds := r.img.Bounds()
	c := stdcolor.NRGBAModel.Convert(
		r.img.At(bounds.Min.X+x, bounds.Min.Y+y),
	).(stdcolor.NRGBA)

	if c.A < transparencyThreshold {
		return fabric.Color{}, false
	}

	return fabric.Color{R: c.R, G: c.G, B: c.B}, true
}
