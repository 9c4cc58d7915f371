package chart

import (
	"fmt"
	"io"

	"github.com/mirambel/stitchify/internal/fabric"
)

// Exporter writes a Fabric's chart to SVG. It holds no state beyond
// its construction arguments; NewExporter and Export mirror the teacher
// pipeline's exporter shape (construct once, Export(w io.Writer)
// error).
type Exporter struct {
	dims fabric.Dimensions
	f    *fabric.Fabric
}

// NewExporter returns an Exporter for f under dims.
func NewExporter(dims fabric.Dimensions, f *fabric.Fabric) *Exporter {
	return &Exporter{dims: dims, f: f}
}

// Export writes the chart's SVG document to w.
func (e *Exporter) Export(w io.Writer) error {
	doc := Generate(e.dims, e.f)

	if err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}

	return nil
}
