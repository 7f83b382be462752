package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	flashfinder "github.com/next-exp/flashfinder_go/pkg"
)

type sweepPoint struct {
	BinWidth       float64
	WidthTolerance float64
	Flashes        int
	Duration       time.Duration
	FileSize       int64
	Err            error
}

func (p sweepPoint) String() string {
	if p.Err != nil {
		return fmt.Sprintf("(bin width %g, tolerance %g) error: %v", p.BinWidth, p.WidthTolerance, p.Err)
	}
	s := fmt.Sprintf("(bin width %g, tolerance %g) Flashes: %d, time: %d ms",
		p.BinWidth, p.WidthTolerance, p.Flashes, p.Duration.Milliseconds())
	if p.FileSize > 0 {
		s += fmt.Sprintf(", size %d bytes", p.FileSize)
	}
	return s
}

func parseList(list string) ([]float64, error) {
	values := make([]float64, 0)
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// parseGrid returns one parameter set per (bin width, tolerance) pair. Empty
// lists fall back to the value in base.
func parseGrid(binWidths string, tolerances string, base flashfinder.Params) ([]flashfinder.Params, error) {
	widths, err := parseList(binWidths)
	if err != nil {
		return nil, fmt.Errorf("bin widths: %w", err)
	}
	if len(widths) == 0 {
		widths = []float64{base.BinWidth}
	}
	tols, err := parseList(tolerances)
	if err != nil {
		return nil, fmt.Errorf("tolerances: %w", err)
	}
	if len(tols) == 0 {
		tols = []float64{base.WidthTolerance}
	}

	grid := make([]flashfinder.Params, 0, len(widths)*len(tols))
	for _, w := range widths {
		for _, t := range tols {
			params := base
			params.BinWidth = w
			params.WidthTolerance = t
			if err := params.Validate(); err != nil {
				return nil, err
			}
			grid = append(grid, params)
		}
	}
	return grid, nil
}

func outputName(fileOut string, params flashfinder.Params) string {
	base := strings.TrimSuffix(fileOut, ".h5")
	return fmt.Sprintf("%s_bw%g_tol%g.h5", base, params.BinWidth, params.WidthTolerance)
}

func sweep(params flashfinder.Params, hits []flashfinder.Hit, calib *flashfinder.Calibration,
	clock flashfinder.Clock, write bool) sweepPoint {
	point := sweepPoint{BinWidth: params.BinWidth, WidthTolerance: params.WidthTolerance}

	start := time.Now()
	res, err := flashfinder.RunFlashFinderParallel(hits, calib.Geometry, clock, params, configuration.NumWorkers)
	point.Duration = time.Since(start)
	point.Flashes = res.Len()
	if err != nil && VerbosityLevel > 0 {
		logger.Error(fmt.Sprintf("some frames were discarded: %v", err))
	}
	if !write {
		return point
	}

	filename := outputName(configuration.FileOut, params)
	writer, err := flashfinder.NewWriter(filename, calib.Geometry.NChannels(), calib.Geometry.NPlanes())
	if err != nil {
		point.Err = err
		return point
	}
	if err := writer.WriteFlashes(res); err != nil {
		point.Err = err
	}
	if err := writer.Close(); err != nil && point.Err == nil {
		point.Err = err
	}
	if point.Err != nil {
		return point
	}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		point.Err = fmt.Errorf("error getting file info: %w", err)
		return point
	}
	point.FileSize = fileInfo.Size()
	return point
}
