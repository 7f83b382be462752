package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	flashfinder "github.com/next-exp/flashfinder_go/pkg"
)

var configuration flashfinder.Configuration

var (
	logger         flashfinder.SlogLogger
	VerbosityLevel int
)

func init() {
	logger = flashfinder.NewSlogLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = flashfinder.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	flashfinder.SetConfiguration(configuration)
	flashfinder.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		flashfinder.PrintConfiguration(configuration, logger)
	}

	if err := run(configuration); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(config flashfinder.Configuration) error {
	start := time.Now()

	params := config.Params()
	if err := params.Validate(); err != nil {
		return err
	}
	clock := config.Clock()

	calib, err := flashfinder.LoadCalibration(config)
	if err != nil {
		return fmt.Errorf("error loading calibration: %w", err)
	}

	pulses, err := flashfinder.ReadPulses(config.FileIn)
	if err != nil {
		return err
	}
	pulses = selectFrames(pulses, config.SkipFrames, config.MaxFrames)
	hits := flashfinder.BuildHits(pulses, calib, clock, params.HitThreshold)

	res, err := flashfinder.RunFlashFinderParallel(hits, calib.Geometry, clock, params, config.NumWorkers)
	if err != nil {
		// Failed frames are already logged and left out of res.
		logger.Error(fmt.Sprintf("some frames were discarded: %v", err))
	}

	writer, err := flashfinder.NewWriter(config.FileOut, calib.Geometry.NChannels(), calib.Geometry.NPlanes())
	if err != nil {
		return err
	}
	werr := writeOutput(writer, config.RunNumber, hits, res)
	if cerr := writer.Close(); cerr != nil && werr == nil {
		werr = cerr
	}
	if werr != nil {
		return werr
	}

	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Wrote %d hits and %d flashes in %d ms", len(hits), res.Len(), time.Since(start).Milliseconds())
		logger.Info(message, "main")
	}
	return nil
}

func writeOutput(writer *flashfinder.Writer, runNumber int, hits []flashfinder.Hit, res flashfinder.Result) error {
	if err := writer.WriteRunInfo(runNumber); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	if err := writer.WriteHits(hits); err != nil {
		return err
	}
	return writer.WriteFlashes(res)
}
