package main

import (
	"testing"

	flashfinder "github.com/next-exp/flashfinder_go/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrid(t *testing.T) {
	base := flashfinder.DefaultParams()

	grid, err := parseGrid("0.5, 1,2", "0.25,1", base)
	require.NoError(t, err)
	require.Len(t, grid, 6)
	assert.Equal(t, 0.5, grid[0].BinWidth)
	assert.Equal(t, 0.25, grid[0].WidthTolerance)
	assert.Equal(t, 2.0, grid[5].BinWidth)
	assert.Equal(t, 1.0, grid[5].WidthTolerance)
	assert.Equal(t, base.FlashThreshold, grid[3].FlashThreshold)

	grid, err = parseGrid("", "", base)
	require.NoError(t, err)
	assert.Equal(t, []flashfinder.Params{base}, grid)
}

func TestParseGridErrors(t *testing.T) {
	base := flashfinder.DefaultParams()

	_, err := parseGrid("1,x", "", base)
	assert.Error(t, err)

	_, err = parseGrid("0", "", base)
	assert.ErrorIs(t, err, flashfinder.ErrInvalidParams)
}

func TestOutputName(t *testing.T) {
	params := flashfinder.DefaultParams()
	params.BinWidth = 0.5
	params.WidthTolerance = 1
	assert.Equal(t, "out/flashes_bw0.5_tol1.h5", outputName("out/flashes.h5", params))
}

func TestSweepWithoutWriting(t *testing.T) {
	calib := &flashfinder.Calibration{Geometry: flashfinder.NewDetectorGeometry(2, 1)}
	clock := flashfinder.DetectorClock{Tick: 1, FrameTicks: 100}
	hits := []flashfinder.Hit{
		{Channel: 0, PeakTime: 10, PE: 20, Width: 0.2},
		{Channel: 1, PeakTime: 60, PE: 20, Width: 0.2, Frame: 1},
	}

	point := sweep(flashfinder.DefaultParams(), hits, calib, clock, false)
	assert.NoError(t, point.Err)
	assert.Equal(t, 2, point.Flashes)
	assert.Zero(t, point.FileSize)
	assert.Contains(t, point.String(), "Flashes: 2")
}
