package fabric

import (
	"sort"

	"github.com/mirambel/stitchify/internal/sampler"
)

// Stitch is one cell of the grid. Present is false for a cell with no
// backing pixel (transparent source, or a mitred triangle's empty
// corner); Color and Thread are meaningless when Present is false.
type Stitch struct {
	Present bool
	Color   Color
	Thread  int
}

// Thread is one yarn bobbin: the color it carries, the last fabric cell
// it was assigned to (in internal coordinates), and how many stitches
// reference it.
type Thread struct {
	ID          int
	Color       Color
	X, Y        int
	StitchCount uint32
}

// Fabric is the stitch grid once it has been resampled, link-checked,
// and swept for thread assignment. It is built in one pass by Build and
// is read-only afterward.
type Fabric struct {
	nStitches int
	nRows     int
	stitches  []Stitch
	threads   []Thread
}

func (f *Fabric) NStitches() int { return f.nStitches }
func (f *Fabric) NRows() int     { return f.nRows }

// Stitches returns the row-major stitch grid: index iy*NStitches()+ix.
func (f *Fabric) Stitches() []Stitch { return f.stitches }

// StitchAt returns the stitch at internal coordinates (ix, iy).
func (f *Fabric) StitchAt(ix, iy int) Stitch {
	return f.stitches[iy*f.nStitches+ix]
}

// Threads returns the bobbins in creation-order (by ID).
func (f *Fabric) Threads() []Thread { return f.threads }

type linkEntry struct {
	earlierIndex int
	link         Link
}

// Build resamples image to the grid described by dims, validates dims'
// links, and runs the thread-assignment sweep. See spec §4.3.
func Build(image Image, dims Dimensions) (*Fabric, error) {
	stitches, nRows := resample(image, dims)

	f := &Fabric{
		nStitches: dims.Stitches,
		nRows:     nRows,
		stitches:  stitches,
	}

	links, err := f.normalizeLinks(dims)
	if err != nil {
		return nil, err
	}

	if err := f.sweep(links); err != nil {
		return nil, err
	}

	return f, nil
}

func round(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

func resample(image Image, dims Dimensions) ([]Stitch, int) {
	sampleWidth := float64(image.Width()) / float64(dims.Stitches)
	sampleHeight := sampleWidth * dims.GaugeStitches / dims.GaugeRows
	nRows := round(float64(image.Height()) / sampleHeight)

	stitches := make([]Stitch, nRows*dims.Stitches)

	s := sampler.New(image, sampleWidth, sampleHeight)

	for y := nRows - 1; y >= 0; y -= dims.DuplicateRows {
		row := stitches[y*dims.Stitches : (y+1)*dims.Stitches]

		for x := 0; x < dims.Stitches; x++ {
			color, present := s.Sample(
				x,
				y-(dims.DuplicateRows-1),
				float64(dims.DuplicateRows),
			)
			row[x] = Stitch{Present: present, Color: color}
		}

		repeats := dims.DuplicateRows - 1
		if repeats > y {
			repeats = y
		}

		for i := 0; i < repeats; i++ {
			destRow := stitches[(y-i-1)*dims.Stitches : (y-i)*dims.Stitches]
			copy(destRow, row)
		}
	}

	return stitches, nRows
}

// sweepTime gives a monotonically increasing "time" for internal
// position (ix, iy) in knit order, so two positions can be compared for
// which is visited later regardless of whether they share a row.
func sweepTime(ix, iy, nRows, nStitches int) int {
	rowVisitIndex := (nRows - 1) - iy
	rightToLeft := rowVisitIndex%2 == 0

	within := ix
	if rightToLeft {
		within = (nStitches - 1) - ix
	}

	return rowVisitIndex*nStitches + within
}

func (f *Fabric) toInternal(pos Position) (ix, iy int) {
	return f.nStitches - pos.X, f.nRows - pos.Y
}

// validatePosition converts a user-coordinate position to an internal
// stitch index, rejecting out-of-range and absent cells.
func (f *Fabric) validatePosition(pos Position) (int, error) {
	if pos.X < 1 || pos.X > f.nStitches || pos.Y < 1 || pos.Y > f.nRows {
		return 0, &PosOutsideOfFabricError{X: pos.X, Y: pos.Y}
	}

	ix, iy := f.toInternal(pos)
	index := iy*f.nStitches + ix

	if !f.stitches[index].Present {
		return 0, &PosOutsideOfFabricError{X: pos.X, Y: pos.Y}
	}

	return index, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// normalizeLinks validates every link in dims and returns a map keyed by
// the later-knitted endpoint's internal stitch index.
func (f *Fabric) normalizeLinks(dims Dimensions) (map[int]linkEntry, error) {
	links := make(map[int]linkEntry, len(dims.Links))

	for _, link := range dims.Links {
		srcIndex, err := f.validatePosition(link.Source)
		if err != nil {
			return nil, err
		}

		destIndex, err := f.validatePosition(link.Dest)
		if err != nil {
			return nil, err
		}

		if !dims.AllowLinkGaps {
			dx := absInt(link.Source.X - link.Dest.X)
			dy := absInt(link.Source.Y - link.Dest.Y)

			if dx > MaxStitchGap || dy > MaxRowGap {
				return nil, &LinkTooFarError{Link: link}
			}
		}

		if f.stitches[srcIndex].Color != f.stitches[destIndex].Color {
			return nil, &LinkToDifferentColorError{Link: link}
		}

		srcIx, srcIy := srcIndex%f.nStitches, srcIndex/f.nStitches
		destIx, destIy := destIndex%f.nStitches, destIndex/f.nStitches

		srcTime := sweepTime(srcIx, srcIy, f.nRows, f.nStitches)
		destTime := sweepTime(destIx, destIy, f.nRows, f.nStitches)

		laterIndex, earlierIndex := destIndex, srcIndex
		if srcTime > destTime {
			laterIndex, earlierIndex = srcIndex, destIndex
		}

		links[laterIndex] = linkEntry{earlierIndex: earlierIndex, link: link}
	}

	return links, nil
}

// sweep walks the fabric in knit order, assigning each present stitch to
// a thread: one bound by a link, or the nearest compatible recent
// neighbor, or a freshly created bobbin. See spec §4.3 step 3.
func (f *Fabric) sweep(links map[int]linkEntry) error {
	for iy := f.nRows - 1; iy >= 0; iy-- {
		rowVisitIndex := (f.nRows - 1) - iy
		rightToLeft := rowVisitIndex%2 == 0

		for i := 0; i < f.nStitches; i++ {
			ix := i
			if rightToLeft {
				ix = f.nStitches - 1 - i
			}

			index := iy*f.nStitches + ix
			stitch := f.stitches[index]

			if !stitch.Present {
				continue
			}

			threadIndex, err := f.findThread(links, index, stitch.Color, ix, iy)
			if err != nil {
				return err
			}

			f.threads[threadIndex].StitchCount++
			f.stitches[index].Thread = f.threads[threadIndex].ID
		}
	}

	sort.Slice(f.threads, func(i, j int) bool {
		return f.threads[i].ID < f.threads[j].ID
	})

	return nil
}

// findThread resolves the thread that stitch (ix, iy) should belong to,
// relocating it to (ix, iy) and moving it to the recency tail, or
// creating a fresh thread if nothing matches.
func (f *Fabric) findThread(
	links map[int]linkEntry,
	stitchIndex int,
	color Color,
	ix, iy int,
) (int, error) {
	if entry, ok := links[stitchIndex]; ok {
		earlierIx := entry.earlierIndex % f.nStitches
		earlierIy := entry.earlierIndex / f.nStitches

		for i, t := range f.threads {
			if t.X == earlierIx && t.Y == earlierIy {
				return f.relocate(i, ix, iy), nil
			}
		}

		return 0, &LinkNotFoundError{Link: entry.link}
	}

	if i, ok := f.findNeighbor(color, ix, iy); ok {
		return f.relocate(i, ix, iy), nil
	}

	f.threads = append(f.threads, Thread{
		ID:    len(f.threads),
		Color: color,
		X:     ix,
		Y:     iy,
	})

	return len(f.threads) - 1, nil
}

// findNeighbor walks the thread list from most to least recently
// touched, stopping as soon as a candidate is more than MaxRowGap rows
// above iy — threads are kept ordered by recency, and the sweep visits
// rows monotonically, so no older thread can ever qualify either.
func (f *Fabric) findNeighbor(color Color, ix, iy int) (int, bool) {
	for i := len(f.threads) - 1; i >= 0; i-- {
		t := f.threads[i]

		if t.Y-iy > MaxRowGap {
			break
		}

		if t.Color != color {
			continue
		}

		if absInt(t.X-ix) <= MaxStitchGap {
			return i, true
		}
	}

	return 0, false
}

// relocate moves the thread at list index i to (ix, iy) and to the tail
// of the recency list, returning its new index.
func (f *Fabric) relocate(i, ix, iy int) int {
	t := f.threads[i]
	t.X, t.Y = ix, iy

	f.threads = append(f.threads[:i], f.threads[i+1:]...)
	f.threads = append(f.threads, t)

	return len(f.threads) - 1
}
