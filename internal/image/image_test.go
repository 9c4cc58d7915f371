package image_test

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mirambel/stitchify/internal/image"
)

func encodePNG(t *testing.T, img stdimage.Image) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestDecodePNGOpaqueAndTransparent(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	raster, err := image.Decode(encodePNG(t, src))
	require.NoError(t, err)
	require.Equal(t, 2, raster.Width())
	require.Equal(t, 1, raster.Height())

	c, present := raster.Pixel(0, 0)
	require.True(t, present)
	require.Equal(t, uint8(10), c.R)
	require.Equal(t, uint8(20), c.G)
	require.Equal(t, uint8(30), c.B)

	_, present = raster.Pixel(1, 0)
	require.False(t, present)
}

func TestDecodeAlphaThreshold(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 127})
	src.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 128})

	raster, err := image.Decode(encodePNG(t, src))
	require.NoError(t, err)

	_, present := raster.Pixel(0, 0)
	require.False(t, present)

	_, present = raster.Pixel(1, 0)
	require.True(t, present)
}
