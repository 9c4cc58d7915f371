// Package sampler quantizes a raster image down to the colors of a
// stitch grid, picking the plurality color over each cell's pixel
// footprint.
package sampler

import (
	"sort"

	"github.com/mirambel/stitchify/internal/fabric"
)

// Sampler samples a fabric.Image at a fixed cell size given in source
// pixels. A Sampler is cheap to construct and the count map it reuses
// between calls is not shared across goroutines.
type Sampler struct {
	image        fabric.Image
	sampleWidth  float64
	sampleHeight float64
	counts       map[colorKey]uint32
}

// colorKey is the map key for the plurality count: present colors carry
// their RGB triple, the absent pixel uses a dedicated sentinel so it can
// never collide with a real color.
type colorKey struct {
	present bool
	color   fabric.Color
}

// New returns a Sampler over image with the given cell size, measured in
// source pixels per stitch column / row.
func New(image fabric.Image, sampleWidth, sampleHeight float64) *Sampler {
	return &Sampler{
		image:        image,
		sampleWidth:  sampleWidth,
		sampleHeight: sampleHeight,
		counts:       make(map[colorKey]uint32),
	}
}

type sampleRange struct {
	startX, endX int
	startY, endY int
}

func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

func clampMax(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}

// rangeFor computes the pixel footprint for cell (cx, cy) spanning
// rowHeight stitch rows. cy may go negative in the duplicate-row
// resampling block (see fabric.Build); the start of the range clamps
// to 0 the same way the end clamps to the image bounds.
func (s *Sampler) rangeFor(cx, cy int, rowHeight float64) sampleRange {
	return sampleRange{
		startX: clampMin(roundHalfAwayFromZero(float64(cx)*s.sampleWidth), 0),
		endX: clampMax(
			roundHalfAwayFromZero(float64(cx+1)*s.sampleWidth),
			s.image.Width(),
		),
		startY: clampMin(roundHalfAwayFromZero(float64(cy)*s.sampleHeight), 0),
		endY: clampMax(
			roundHalfAwayFromZero((float64(cy)+rowHeight)*s.sampleHeight),
			s.image.Height(),
		),
	}
}

func (s *Sampler) startCounting() {
	for k := range s.counts {
		delete(s.counts, k)
	}
}

func (s *Sampler) add(x, y int) {
	color, present := s.image.Pixel(x, y)
	key := colorKey{present: present, color: color}
	s.counts[key]++
}

// endCounting picks the plurality color from the accumulated counts.
// Ties break deterministically: absent loses to any present color, and
// among present colors the lexicographically smaller (R, G, B) wins.
func (s *Sampler) endCounting() (fabric.Color, bool) {
	if len(s.counts) == 0 {
		return fabric.Color{}, false
	}

	keys := make([]colorKey, 0, len(s.counts))
	for k := range s.counts {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keyLess(keys[i], keys[j])
	})

	best := keys[0]
	bestCount := s.counts[best]

	for _, k := range keys[1:] {
		if c := s.counts[k]; c > bestCount {
			best = k
			bestCount = c
		}
	}

	return best.color, best.present
}

// keyLess orders every present color before absent, and present colors
// lexicographically, giving sort.Slice (and therefore the tie-break
// scan above) a stable starting order.
func keyLess(a, b colorKey) bool {
	if a.present != b.present {
		return a.present
	}
	if !a.present {
		return false
	}
	return a.color.Less(b.color)
}

// Sample returns the plurality color over the axis-aligned rectangle
// spanning rowHeight stitch rows starting at (cx, cy).
func (s *Sampler) Sample(cx, cy int, rowHeight float64) (fabric.Color, bool) {
	r := s.rangeFor(cx, cy, rowHeight)

	s.startCounting()

	for y := r.startY; y < r.endY; y++ {
		for x := r.startX; x < r.endX; x++ {
			s.add(x, y)
		}
	}

	return s.endCounting()
}

// SampleLowerLeftTriangle returns the plurality color over the
// lower-left triangle of the single cell (cx, cy): row y within the
// cell (0-based, yRange rows total) takes the first
// round((y+1)/yRange * rectWidth) pixels from the left.
func (s *Sampler) SampleLowerLeftTriangle(cx, cy int) (fabric.Color, bool) {
	r := s.rangeFor(cx, cy, 1)

	if r.endY <= r.startY {
		return fabric.Color{}, false
	}

	s.startCounting()

	yRange := r.endY - r.startY
	rectWidth := r.endX - r.startX

	for y := r.startY; y < r.endY; y++ {
		rowLength := roundedDiv((y+1-r.startY)*rectWidth, yRange)

		for x := r.startX; x < r.startX+rowLength; x++ {
			s.add(x, y)
		}
	}

	return s.endCounting()
}

// SampleUpperRightTriangle mirrors SampleLowerLeftTriangle: row y takes
// the last round((yRange-y)/yRange * rectWidth) pixels from the right.
func (s *Sampler) SampleUpperRightTriangle(cx, cy int) (fabric.Color, bool) {
	r := s.rangeFor(cx, cy, 1)

	if r.endY <= r.startY {
		return fabric.Color{}, false
	}

	s.startCounting()

	yRange := r.endY - r.startY
	rectWidth := r.endX - r.startX

	for y := r.startY; y < r.endY; y++ {
		rowLength := roundedDiv((yRange-(y-r.startY))*rectWidth, yRange)

		for x := r.endX - rowLength; x < r.endX; x++ {
			s.add(x, y)
		}
	}

	return s.endCounting()
}

// roundedDiv computes round(n/d) for non-negative n, d using integer
// arithmetic, matching the original sampler's "+ half the divisor"
// rounding.
func roundedDiv(n, d int) int {
	return (n + d/2) / d
}
