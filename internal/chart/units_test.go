package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mirambel/stitchify/internal/fabric"
)

func TestMmToText(t *testing.T) {
	cases := []struct {
		mm   int
		want string
	}{
		{1, "1mm"},
		{9, "9mm"},
		{10, "1cm"},
		{994, "99cm"},
		{995, "1m"},
		{1126, "1.13m"},
		{100000, "100m"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, mmToText(c.mm), "mmToText(%d)", c.mm)
	}
}

func TestStitchCountTextByGauge(t *testing.T) {
	dims := fabric.Dimensions{GaugeStitches: 31}

	assert.Equal(t, "31 (30cm)", stitchCountText(dims, 31))
	assert.Equal(t, "46 (45cm)", stitchCountText(dims, 46))
}

func TestStitchCountTextByCmPerStitch(t *testing.T) {
	dims := fabric.Dimensions{CmPerStitch: 100}

	assert.Equal(t, "345 (345m)", stitchCountText(dims, 345))
}
