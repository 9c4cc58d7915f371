// Command stitchify converts a raster image into an intarsia knitting
// chart: an SVG grid of colored boxes with per-stitch thread labels
// and yarn-length tallies. See spec §6 for the flag table this CLI
// implements.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mirambel/stitchify/internal/chart"
	"github.com/mirambel/stitchify/internal/fabric"
	"github.com/mirambel/stitchify/internal/gauge"
	"github.com/mirambel/stitchify/internal/image"
	"github.com/mirambel/stitchify/internal/mitre"
)

// linkList collects repeated --link flags into fabric.Link values, via
// flag.Value's Set/String pair.
type linkList []fabric.Link

func (l *linkList) String() string {
	parts := make([]string, len(*l))
	for i, link := range *l {
		parts[i] = fmt.Sprintf("%d,%d,%d,%d", link.Source.X, link.Source.Y, link.Dest.X, link.Dest.Y)
	}
	return strings.Join(parts, " ")
}

func (l *linkList) Set(value string) error {
	fields := strings.Split(value, ",")
	if len(fields) != 4 {
		return fmt.Errorf("link %q must be of the form x,y,x,y", value)
	}

	nums := make([]int, 4)
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return fmt.Errorf("link %q: %w", value, err)
		}
		nums[i] = n
	}

	*l = append(*l, fabric.Link{
		Source: fabric.Position{X: nums[0], Y: nums[1]},
		Dest:   fabric.Position{X: nums[2], Y: nums[3]},
	})

	return nil
}

func stitchTextFlag(value *fabric.StitchText) *stitchTextValue {
	return &stitchTextValue{dest: value}
}

type stitchTextValue struct {
	dest *fabric.StitchText
}

func (v *stitchTextValue) String() string {
	if v.dest == nil {
		return "thread"
	}
	switch *v.dest {
	case fabric.StitchTextNone:
		return "none"
	case fabric.StitchTextRuns:
		return "runs"
	case fabric.StitchTextRuler:
		return "ruler"
	default:
		return "thread"
	}
}

func (v *stitchTextValue) Set(value string) error {
	switch value {
	case "none":
		*v.dest = fabric.StitchTextNone
	case "thread":
		*v.dest = fabric.StitchTextThread
	case "runs":
		*v.dest = fabric.StitchTextRuns
	case "ruler":
		*v.dest = fabric.StitchTextRuler
	default:
		return fmt.Errorf("unknown --stitch-text mode %q (want none|thread|runs|ruler)", value)
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		inputPath      = flag.String("input", "", "source raster file (required)")
		outputPath     = flag.String("output", "", "destination SVG file (required)")
		stitches       = flag.Int("stitches", 22, "target stitches per row")
		gaugeStitches  = flag.String("gauge-stitches", "22", "stitch gauge, see gauge grammar")
		gaugeRows      = flag.String("gauge-rows", "30", "row gauge, see gauge grammar")
		cmPerStitch    = flag.Float64("cm-per-stitch", 0, "override the yarn-length estimate (0 = use gauge)")
		garter         = flag.Bool("garter", false, "duplicate each image row into two fabric rows")
		useMitre       = flag.Bool("mitre", false, "enable the mitred-square pipeline")
		allowLinkGaps  = flag.Bool("allow-link-gaps", false, "relax link gap checks")
		showColorCount = flag.Bool("show-color-counts", false, "emit the per-color yarn-length tally panel")
	)

	links := linkList{}
	flag.Var(&links, "link", "user link in user coordinates, x,y,x,y (repeatable)")

	stitchText := fabric.StitchTextThread
	flag.Var(stitchTextFlag(&stitchText), "stitch-text", "none|thread|runs|ruler")

	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "stitchify: --input and --output are required")
		flag.Usage()
		return 1
	}

	if *stitches < 1 {
		fmt.Fprintln(os.Stderr, "stitchify: --stitches must be at least 1")
		return 1
	}

	gaugeStitchesValue, err := gauge.Parse(*gaugeStitches)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stitchify: parsing --gauge-stitches: %v\n", err)
		return 1
	}

	gaugeRowsValue, err := gauge.Parse(*gaugeRows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stitchify: parsing --gauge-rows: %v\n", err)
		return 1
	}

	duplicateRows := 1
	if *garter {
		duplicateRows = 2
	}

	dims := fabric.Dimensions{
		Stitches:         *stitches,
		GaugeStitches:    gaugeStitchesValue,
		GaugeRows:        gaugeRowsValue,
		CmPerStitch:      *cmPerStitch,
		DuplicateRows:    duplicateRows,
		AllowLinkGaps:    *allowLinkGaps,
		Links:            links,
		StitchText:       stitchText,
		ShowThreadCounts: true,
		ShowColorCounts:  *showColorCount,
	}

	f, builtDims, err := build(*inputPath, dims, *useMitre)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stitchify: %v\n", err)
		return 1
	}

	log.Printf("built fabric: %d stitches x %d rows, %d threads", f.NStitches(), f.NRows(), len(f.Threads()))

	if err := writeChart(*outputPath, builtDims, f); err != nil {
		fmt.Fprintf(os.Stderr, "stitchify: %v\n", err)
		return 1
	}

	return 0
}

func build(inputPath string, dims fabric.Dimensions, useMitre bool) (*fabric.Fabric, fabric.Dimensions, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fabric.Dimensions{}, fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	raster, err := image.Decode(in)
	if err != nil {
		return nil, fabric.Dimensions{}, fmt.Errorf("decoding input: %w", err)
	}

	if useMitre {
		var driver mitre.Driver
		f, builtDims, err := driver.Build(raster, dims)
		if err != nil {
			return nil, fabric.Dimensions{}, fmt.Errorf("building mitre fabric: %w", err)
		}
		return f, builtDims, nil
	}

	f, err := fabric.Build(raster, dims)
	if err != nil {
		return nil, fabric.Dimensions{}, fmt.Errorf("building fabric: %w", err)
	}

	return f, dims, nil
}

func writeChart(outputPath string, dims fabric.Dimensions, f *fabric.Fabric) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	exporter := chart.NewExporter(dims, f)
	if err := exporter.Export(out); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("writing chart: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	return nil
}
