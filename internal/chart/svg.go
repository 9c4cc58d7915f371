package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mirambel/stitchify/internal/fabric"
)

// boxWidth and lineWidth are the chart's unit geometry (spec §4.5); box
// height is derived per-chart from the row/stitch gauge ratio so a
// square source pixel maps to a square-ish knitted stitch.
const (
	boxWidth  = 20.0
	lineWidth = boxWidth / 6.0
)

const gridStroke = "rgb(71%, 71%, 71%)"

type colorTotal struct {
	color fabric.Color
	count uint32
}

type generator struct {
	dims      fabric.Dimensions
	f         *fabric.Fabric
	boxWidth  float64
	boxHeight float64
}

// Generate builds the full chart element tree for f under dims: defs,
// boxes, grid, rulers, missing-stitch crosses, the stitch-text layer,
// and the optional tally panels, in the layer order spec §4.5 lists.
func Generate(dims fabric.Dimensions, f *fabric.Fabric) *Document {
	g := &generator{
		dims:      dims,
		f:         f,
		boxWidth:  boxWidth,
		boxHeight: boxWidth * dims.GaugeStitches / dims.GaugeRows,
	}

	doc := NewDocument()

	threads := f.Threads()
	totals := g.colorTotals()

	tallyRows := 0
	if dims.ShowThreadCounts {
		tallyRows += len(threads)
	}
	if dims.ShowColorCounts {
		tallyRows += len(totals)
	}

	nStitches := float64(f.NStitches())
	nRows := float64(f.NRows())

	// One box of margin on every side for rulers, one more box below
	// the bottom ruler as a gap before any tally panel.
	svgWidth := (nStitches+2)*g.boxWidth + lineWidth/2
	svgHeight := (nRows+3+float64(tallyRows))*g.boxHeight + lineWidth

	svg := doc.CreateElement("svg")
	svg.AddAttribute("xmlns", "http://www.w3.org/2000/svg")
	svg.AddNamespace("xlink", "http://www.w3.org/1999/xlink")
	svg.AddAttribute("width", Float(svgWidth))
	svg.AddAttribute("height", Float(svgHeight))
	svg.AddAttribute("viewBox", fmt.Sprintf("0 0 %s %s", Float(svgWidth), Float(svgHeight)))

	svg.AddChild(g.generateDefs())

	content := doc.CreateElement("g")
	content.AddAttribute("transform", fmt.Sprintf(
		"translate(%s %s)", Float(g.boxWidth+lineWidth/2), Float(g.boxHeight+lineWidth/2),
	))

	content.AddChild(g.generateBoxes())
	content.AddChild(g.generateGrid(f.NStitches(), f.NRows(), "grid"))
	content.AddChild(g.generateRulers())
	content.AddChild(g.generateMissing())
	content.AddChild(g.generateStitchText())

	rowOffset := f.NRows() + 2

	if dims.ShowThreadCounts {
		content.AddChild(g.generateThreadCounts(rowOffset))
		rowOffset += len(threads)
	}

	if dims.ShowColorCounts {
		content.AddChild(g.generateColorCounts(totals, rowOffset))
	}

	svg.AddChild(content)
	doc.SetRoot(svg)

	return doc
}

func colorToRGB(c fabric.Color) string {
	return fmt.Sprintf(
		"rgb(%s%%, %s%%, %s%%)",
		Float(float64(c.R)*100/255),
		Float(float64(c.G)*100/255),
		Float(float64(c.B)*100/255),
	)
}

// threadGlyph encodes id in base 26, digits A..Z most significant
// first, 0 -> "A". See DESIGN.md for why the A=0 ambiguity is accepted
// rather than switched to a bijective base-26 encoding.
func threadGlyph(id int) string {
	if id == 0 {
		return "A"
	}

	var digits []byte
	for id > 0 {
		digits = append(digits, byte('A'+id%26))
		id /= 26
	}

	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return string(digits)
}

func (g *generator) box(x, y float64, c fabric.Color) *Element {
	path := newElement("path")
	path.AddAttribute("fill", colorToRGB(c))
	path.AddAttribute("d", fmt.Sprintf(
		"M %s %s l %s 0 l 0 %s l -%s 0 z",
		Float(x*g.boxWidth), Float(y*g.boxHeight),
		Float(g.boxWidth), Float(g.boxHeight), Float(g.boxWidth),
	))
	return path
}

func (g *generator) setTextAppearance(e *Element) {
	e.AddAttribute("font-family", "Sans")
	e.AddAttribute("font-size", Float(g.boxHeight*0.6))
}

func (g *generator) setTextY(e *Element, y float64) {
	e.AddAttribute("y", Float(y+0.7*g.boxHeight))
}

func (g *generator) setTextPosition(e *Element, x, y float64) {
	e.AddAttribute("x", Float(x+0.5*g.boxWidth))
	g.setTextY(e, y)
	e.AddAttribute("text-anchor", "middle")
}

// boxThreadUse draws the <use> reference to a thread's glyph (defined
// once in <defs>), switching to white fill per the text-on-dark rule
// when the box color's channel sum is below 384.
func (g *generator) boxThreadUse(threadID int, x, y float64, c fabric.Color) *Element {
	use := newElement("use")
	use.AddAttributeNS("xlink", "href", fmt.Sprintf("#thread-%d", threadID))
	use.AddAttribute("x", Float(x))
	use.AddAttribute("y", Float(y))

	if c.ChannelSum() < 384 {
		use.AddAttribute("fill", "rgb(100%, 100%, 100%)")
	}

	return use
}

func (g *generator) generateDefs() *Element {
	defs := newElement("defs")

	for _, t := range g.f.Threads() {
		el := newElement("text")
		g.setTextAppearance(el)
		g.setTextPosition(el, 0, 0)
		el.AddText(threadGlyph(t.ID))
		el.AddAttribute("id", fmt.Sprintf("thread-%d", t.ID))
		defs.AddChild(el)
	}

	return defs
}

func (g *generator) generateBoxes() *Element {
	group := newElement("g")
	group.AddAttribute("id", "boxes")

	nStitches := g.f.NStitches()
	for i, stitch := range g.f.Stitches() {
		if !stitch.Present {
			continue
		}

		x, y := i%nStitches, i/nStitches
		group.AddChild(g.box(float64(x), float64(y), stitch.Color))
	}

	return group
}

// generateMissing draws an X across every absent cell.
func (g *generator) generateMissing() *Element {
	group := newElement("g")
	group.AddAttribute("id", "missing")
	group.AddAttribute("stroke", gridStroke)
	group.AddAttribute("stroke-width", Float(lineWidth/2))

	nStitches := g.f.NStitches()
	for i, stitch := range g.f.Stitches() {
		if stitch.Present {
			continue
		}

		x, y := float64(i%nStitches), float64(i/nStitches)

		path := newElement("path")
		path.AddAttribute("d", fmt.Sprintf(
			"M %s %s l %s %s M %s %s l -%s %s",
			Float(x*g.boxWidth), Float(y*g.boxHeight), Float(g.boxWidth), Float(g.boxHeight),
			Float((x+1)*g.boxWidth), Float(y*g.boxHeight), Float(g.boxWidth), Float(g.boxHeight),
		))
		group.AddChild(path)
	}

	return group
}

func (g *generator) generateGrid(nColumns, nRows int, id string) *Element {
	path := newElement("path")
	path.AddAttribute("id", id)
	path.AddAttribute("stroke-width", Float(lineWidth))
	path.AddAttribute("stroke-linecap", "square")
	path.AddAttribute("stroke-linejoin", "miter")
	path.AddAttribute("stroke", gridStroke)

	var b strings.Builder

	for x := 0; x <= nColumns; x++ {
		if x != 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "M %s 0 l 0 %s",
			Float(float64(x)*g.boxWidth), Float(float64(nRows)*g.boxHeight))
	}

	for y := 0; y <= nRows; y++ {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "M 0 %s l %s 0",
			Float(float64(y)*g.boxHeight), Float(float64(nColumns)*g.boxWidth))
	}

	path.AddAttribute("d", b.String())

	return path
}

// generateRulers numbers all four sides in user coordinates: stitch 1
// on the right, row 1 on the bottom (spec §4.5 layer 4).
func (g *generator) generateRulers() *Element {
	group := newElement("g")
	group.AddAttribute("id", "rulers")
	g.setTextAppearance(group)

	nStitches := g.f.NStitches()
	nRows := g.f.NRows()

	for y := 0; y < nRows; y++ {
		rowNumber := nRows - y
		group.AddChild(g.rulerText(float64(nStitches)*g.boxWidth, float64(y)*g.boxHeight, rowNumber))
		group.AddChild(g.rulerText(-g.boxWidth, float64(y)*g.boxHeight, rowNumber))
	}

	for x := 0; x < nStitches; x++ {
		stitchNumber := nStitches - x
		group.AddChild(g.rulerText(float64(x)*g.boxWidth, float64(nRows)*g.boxHeight, stitchNumber))
		group.AddChild(g.rulerText(float64(x)*g.boxWidth, -g.boxHeight, stitchNumber))
	}

	return group
}

func (g *generator) rulerText(x, y float64, n int) *Element {
	text := newElement("text")
	g.setTextPosition(text, x, y)
	text.AddText(Int(n))
	return text
}

// generateStitchText dispatches on dims.StitchText. None still emits
// an (empty) group so downstream consumers can always find a
// "stitch-text" group regardless of mode.
func (g *generator) generateStitchText() *Element {
	group := newElement("g")
	group.AddAttribute("id", "stitch-text")

	switch g.dims.StitchText {
	case fabric.StitchTextThread:
		g.fillThreadGlyphs(group)
	case fabric.StitchTextRuns:
		g.setTextAppearance(group)
		g.fillRuns(group)
	case fabric.StitchTextRuler:
		g.setTextAppearance(group)
		g.fillRulerLabels(group)
	case fabric.StitchTextNone:
	}

	return group
}

func (g *generator) fillThreadGlyphs(group *Element) {
	nStitches := g.f.NStitches()

	for i, stitch := range g.f.Stitches() {
		if !stitch.Present {
			continue
		}

		x, y := i%nStitches, i/nStitches
		group.AddChild(g.boxThreadUse(
			stitch.Thread, float64(x)*g.boxWidth, float64(y)*g.boxHeight, stitch.Color,
		))
	}
}

// fillRuns labels each row's maximal same-color runs with the run
// length, centered over the run's middle cell.
func (g *generator) fillRuns(group *Element) {
	nStitches := g.f.NStitches()
	nRows := g.f.NRows()
	stitches := g.f.Stitches()

	for y := 0; y < nRows; y++ {
		base := y * nStitches

		for x := 0; x < nStitches; {
			stitch := stitches[base+x]
			if !stitch.Present {
				x++
				continue
			}

			start, color := x, stitch.Color
			for x < nStitches && stitches[base+x].Present && stitches[base+x].Color == color {
				x++
			}

			mid := start + (x-start-1)/2

			text := newElement("text")
			g.setTextPosition(text, float64(mid)*g.boxWidth, float64(y)*g.boxHeight)
			text.AddText(Int(x - start))

			if color.ChannelSum() < 384 {
				text.AddAttribute("fill", "rgb(100%, 100%, 100%)")
			}

			group.AddChild(text)
		}
	}
}

// fillRulerLabels drops the row's user-space row number at the first
// color change found scanning left to right.
func (g *generator) fillRulerLabels(group *Element) {
	nStitches := g.f.NStitches()
	nRows := g.f.NRows()
	stitches := g.f.Stitches()

	for y := 0; y < nRows; y++ {
		base := y * nStitches

		var prevColor fabric.Color
		havePrev := false

		for x := 0; x < nStitches; x++ {
			stitch := stitches[base+x]
			if !stitch.Present {
				havePrev = false
				continue
			}

			if havePrev && stitch.Color != prevColor {
				text := newElement("text")
				g.setTextPosition(text, float64(x)*g.boxWidth, float64(y)*g.boxHeight)
				text.AddText(Int(nRows - y))

				if stitch.Color.ChannelSum() < 384 {
					text.AddAttribute("fill", "rgb(100%, 100%, 100%)")
				}

				group.AddChild(text)
				break
			}

			prevColor, havePrev = stitch.Color, true
		}
	}
}

// generateThreadCounts renders the per-thread tally panel (spec §4.5
// layer 7): one row per bobbin, swatch + glyph + "{count} (length)".
func (g *generator) generateThreadCounts(rowOffset int) *Element {
	threads := g.f.Threads()

	group := newElement("g")
	group.AddAttribute("id", "thread-counts")
	group.AddAttribute("transform", fmt.Sprintf("translate(0 %s)", Float(float64(rowOffset)*g.boxHeight)))

	counts := newElement("g")
	g.setTextAppearance(counts)

	for y, t := range threads {
		group.AddChild(g.box(0, float64(y), t.Color))
		group.AddChild(g.boxThreadUse(t.ID, 0, float64(y)*g.boxHeight, t.Color))

		text := newElement("text")
		text.AddAttribute("x", Float(g.boxWidth*1.5))
		g.setTextY(text, float64(y)*g.boxHeight)
		text.AddText(stitchCountText(g.dims, t.StitchCount))
		counts.AddChild(text)
	}

	group.AddChild(g.generateGrid(1, len(threads), "thread-counts-grid"))
	group.AddChild(counts)

	return group
}

// colorTotals groups present stitches by color (not by thread id, so
// multiple bobbins of one color collapse into a single row), sorted by
// descending stitch count with a deterministic tie-break.
func (g *generator) colorTotals() []colorTotal {
	byColor := make(map[fabric.Color]uint32)

	for _, stitch := range g.f.Stitches() {
		if stitch.Present {
			byColor[stitch.Color]++
		}
	}

	totals := make([]colorTotal, 0, len(byColor))
	for c, n := range byColor {
		totals = append(totals, colorTotal{color: c, count: n})
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].count != totals[j].count {
			return totals[i].count > totals[j].count
		}
		return totals[i].color.Less(totals[j].color)
	})

	return totals
}

// generateColorCounts renders the per-color tally panel (spec §4.5
// layer 8, a supplemented feature — see SPEC_FULL.md): swatch + yarn
// length only, no thread glyph, since a color may span many threads.
func (g *generator) generateColorCounts(totals []colorTotal, rowOffset int) *Element {
	group := newElement("g")
	group.AddAttribute("id", "color-counts")
	group.AddAttribute("transform", fmt.Sprintf("translate(0 %s)", Float(float64(rowOffset)*g.boxHeight)))

	counts := newElement("g")
	g.setTextAppearance(counts)

	for y, total := range totals {
		group.AddChild(g.box(0, float64(y), total.color))

		text := newElement("text")
		text.AddAttribute("x", Float(g.boxWidth*1.5))
		g.setTextY(text, float64(y)*g.boxHeight)
		text.AddText(yarnLengthText(g.dims, total.count))
		counts.AddChild(text)
	}

	group.AddChild(g.generateGrid(1, len(totals), "color-counts-grid"))
	group.AddChild(counts)

	return group
}
