package chart

import (
	"strconv"
	"strings"

	"github.com/mirambel/stitchify/internal/fabric"
)

// yarnLengthMM estimates how many millimeters of yarn n stitches
// consume, per spec §4.5.
func yarnLengthMM(dims fabric.Dimensions, n uint32) int {
	if dims.CmPerStitch > 0 {
		return roundInt(float64(n) * dims.CmPerStitch * 10)
	}

	// Integer division throughout, matching the reference: the added
	// gauge/2 term biases the truncating division to round to nearest
	// rather than down.
	gauge := int(dims.GaugeStitches)
	return (int(n)*100*3 + gauge/2) / gauge
}

func roundInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

// mmToText formats a millimeter length as the shortest of mm/cm/m,
// peeling cm-tens digits after the decimal point for the meter form.
// Examples: 1→"1mm", 994→"99cm", 995→"1m", 1126→"1.13m".
func mmToText(mm int) string {
	if mm < 10 {
		return strconv.Itoa(mm) + "mm"
	}

	cm := (mm + 5) / 10
	if cm < 100 {
		return strconv.Itoa(cm) + "cm"
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(cm / 100))

	if rem := cm % 100; rem > 0 {
		b.WriteByte('.')
		for rem > 0 {
			b.WriteString(strconv.Itoa(rem / 10))
			rem = rem * 10 % 100
		}
	}

	b.WriteByte('m')

	return b.String()
}

// yarnLengthText is the length-only rendering used by the color tally
// panel: "30cm", "1.13m", and so on.
func yarnLengthText(dims fabric.Dimensions, n uint32) string {
	return mmToText(yarnLengthMM(dims, n))
}

// stitchCountText is the per-thread tally panel's label: the stitch
// count followed by the estimated yarn length in parentheses.
func stitchCountText(dims fabric.Dimensions, n uint32) string {
	return strconv.FormatUint(uint64(n), 10) + " (" + yarnLengthText(dims, n) + ")"
}
