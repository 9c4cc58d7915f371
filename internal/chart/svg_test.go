package chart

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirambel/stitchify/internal/fabric"
)

// checkerImage is a 4x4 image alternating between two colors, with one
// transparent corner pixel so the missing-stitch layer has something to
// draw.
type checkerImage struct{}

func (checkerImage) Width() int  { return 4 }
func (checkerImage) Height() int { return 4 }

func (checkerImage) Pixel(x, y int) (fabric.Color, bool) {
	if x == 0 && y == 0 {
		return fabric.Color{}, false
	}
	if (x+y)%2 == 0 {
		return fabric.Color{R: 200, G: 0, B: 0}, true
	}
	return fabric.Color{R: 0, G: 0, B: 200}, true
}

func buildTestFabric(t *testing.T, stitchText fabric.StitchText, showColorCounts bool) (fabric.Dimensions, *fabric.Fabric) {
	t.Helper()

	dims := fabric.Dimensions{
		Stitches:         4,
		GaugeStitches:    22,
		GaugeRows:        30,
		DuplicateRows:    1,
		StitchText:       stitchText,
		ShowThreadCounts: true,
		ShowColorCounts:  showColorCounts,
	}

	f, err := fabric.Build(checkerImage{}, dims)
	require.NoError(t, err)

	return dims, f
}

func TestGenerateProducesWellFormedXML(t *testing.T) {
	dims, f := buildTestFabric(t, fabric.StitchTextThread, true)

	doc := Generate(dims, f)

	var buf bytes.Buffer
	require.NoError(t, doc.WriteTo(&buf))

	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	dec := xml.NewDecoder(&buf)
	for {
		_, err := dec.Token()
		if err != nil {
			require.ErrorIs(t, err, io.EOF, "document should parse cleanly to EOF")
			break
		}
	}
}

func TestGenerateStitchTextModes(t *testing.T) {
	for _, mode := range []fabric.StitchText{
		fabric.StitchTextNone,
		fabric.StitchTextThread,
		fabric.StitchTextRuns,
		fabric.StitchTextRuler,
	} {
		dims, f := buildTestFabric(t, mode, false)
		doc := Generate(dims, f)

		var buf bytes.Buffer
		require.NoError(t, doc.WriteTo(&buf))
		assert.Contains(t, buf.String(), `id="stitch-text"`)
	}
}

func TestThreadGlyphBase26(t *testing.T) {
	assert.Equal(t, "A", threadGlyph(0))
	assert.Equal(t, "B", threadGlyph(1))
	assert.Equal(t, "Z", threadGlyph(25))
	assert.Equal(t, "BA", threadGlyph(26))
}

func TestColorTotalsGroupsByColorNotThread(t *testing.T) {
	dims, f := buildTestFabric(t, fabric.StitchTextThread, true)
	g := &generator{dims: dims, f: f, boxWidth: boxWidth, boxHeight: boxWidth * dims.GaugeStitches / dims.GaugeRows}

	totals := g.colorTotals()

	colorSet := make(map[fabric.Color]bool)
	for _, total := range totals {
		assert.False(t, colorSet[total.color], "color %v listed twice", total.color)
		colorSet[total.color] = true
	}
}
