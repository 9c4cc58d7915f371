package gauge_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirambel/stitchify/internal/gauge"
)

func TestParseItemsPerLength(t *testing.T) {
	v, err := gauge.Parse("5/10cm")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-9)
}

func TestParseItemsPerInches(t *testing.T) {
	v, err := gauge.Parse("30/4\"")
	require.NoError(t, err)
	assert.InDelta(t, 29.52756, v, 1e-4)
}

func TestParseBothPartsLength(t *testing.T) {
	_, err := gauge.Parse("12in/6cm")
	require.Error(t, err)

	var bothLength *gauge.BothPartsLengthError
	require.ErrorAs(t, err, &bothLength)
}

func TestParseBothPartsItems(t *testing.T) {
	_, err := gauge.Parse("12/6")
	require.Error(t, err)

	var bothItems *gauge.BothPartsItemsError
	require.ErrorAs(t, err, &bothItems)
}

func TestParseTooSmall(t *testing.T) {
	_, err := gauge.Parse("-1")
	require.Error(t, err)

	var tooSmall *gauge.TooSmallError
	require.ErrorAs(t, err, &tooSmall)
	assert.Equal(t, -1.0, tooSmall.Value)
}

func TestParseAbnormal(t *testing.T) {
	_, err := gauge.Parse("inf")
	require.Error(t, err)

	var abnormal *gauge.AbnormalError
	require.ErrorAs(t, err, &abnormal)
	assert.True(t, math.IsInf(abnormal.Value, 1))
}

func TestParseBareRate(t *testing.T) {
	v, err := gauge.Parse("22")
	require.NoError(t, err)
	assert.Equal(t, 22.0, v)
}
