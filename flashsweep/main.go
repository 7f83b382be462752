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
	binWidths := flag.String("bin-widths", "", "Comma separated bin widths (default: value in config)")
	tolerances := flag.String("tolerances", "", "Comma separated width tolerances (default: value in config)")
	write := flag.Bool("write", false, "Write one output file per parameter set and report its size")
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
		flashfinder.PrintConfiguration(configuration, logger)
	}

	grid, err := parseGrid(*binWidths, *tolerances, configuration.Params())
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	calib, err := flashfinder.LoadCalibration(configuration)
	if err != nil {
		logger.Error(fmt.Sprintf("Error loading calibration: %v", err))
		os.Exit(1)
	}
	pulses, err := flashfinder.ReadPulses(configuration.FileIn)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	clock := configuration.Clock()
	hits := flashfinder.BuildHits(pulses, calib, clock, configuration.HitThreshold)
	fmt.Println("Total hits: ", len(hits))

	start := time.Now()
	for _, params := range grid {
		point := sweep(params, hits, calib, clock, *write)
		fmt.Println(point)
	}
	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}
