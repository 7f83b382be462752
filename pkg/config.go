package flashfinder

import (
	"encoding/json"
	"fmt"
	"os"
)

type Configuration struct {
	FileIn             string  `json:"file_in"`
	FileOut            string  `json:"file_out"`
	Verbosity          int     `json:"verbosity"`
	NoDB               bool    `json:"no_db"`
	Host               string  `json:"host"`
	User               string  `json:"user"`
	Passwd             string  `json:"pass"`
	DBName             string  `json:"dbname"`
	RunNumber          int     `json:"run_number"`
	GeometryFile       string  `json:"geometry_file"`
	NumWorkers         int     `json:"num_workers"`
	CompressionLevel   int     `json:"compression_level"`
	MaxFrames          int     `json:"max_frames"`
	SkipFrames         int     `json:"skip_frames"`
	BinWidth           float64 `json:"bin_width"`
	HitThreshold       float64 `json:"hit_threshold"`
	FlashThreshold     float64 `json:"flash_threshold"`
	WidthTolerance     float64 `json:"width_tolerance"`
	TrigCoincidence    float64 `json:"trigger_coincidence"`
	DecayConstant      float64 `json:"decay_constant"`
	SignificanceCutoff float64 `json:"significance_cutoff"`
	TickPeriod         float64 `json:"tick_period"`
	FrameTicks         int     `json:"frame_ticks"`
	TriggerFrame       int     `json:"trigger_frame"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

// Params returns the clustering parameters carried by the configuration.
func (c Configuration) Params() Params {
	return Params{
		BinWidth:           c.BinWidth,
		HitThreshold:       c.HitThreshold,
		FlashThreshold:     c.FlashThreshold,
		WidthTolerance:     c.WidthTolerance,
		TrigCoincidence:    c.TrigCoincidence,
		DecayConstant:      c.DecayConstant,
		SignificanceCutoff: c.SignificanceCutoff,
	}
}

// Clock returns the frame clock described by the configuration.
func (c Configuration) Clock() DetectorClock {
	return DetectorClock{
		Tick:       c.TickPeriod,
		FrameTicks: c.FrameTicks,
		TrigFrame:  c.TriggerFrame,
	}
}

// LoadConfiguration reads a JSON configuration file on top of the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values
	params := DefaultParams()
	config.Verbosity = 0
	config.NoDB = false
	config.Host = "next.ific.uv.es"
	config.User = "nextreader"
	config.Passwd = "readonly"
	config.DBName = "NEXT100"
	config.NumWorkers = 1
	config.CompressionLevel = 4
	config.MaxFrames = 1000000000
	config.SkipFrames = 0
	config.BinWidth = params.BinWidth
	config.HitThreshold = params.HitThreshold
	config.FlashThreshold = params.FlashThreshold
	config.WidthTolerance = params.WidthTolerance
	config.TrigCoincidence = params.TrigCoincidence
	config.DecayConstant = params.DecayConstant
	config.SignificanceCutoff = params.SignificanceCutoff
	config.TickPeriod = 0.015625
	config.FrameTicks = 102400
	config.TriggerFrame = 0

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	if config.NoDB {
		logger.Info(fmt.Sprintf("Geometry file: %s", config.GeometryFile), "config")
	} else {
		logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
		logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	}
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("Skip frames: %d", config.SkipFrames), "config")
	logger.Info(fmt.Sprintf("Max frames: %d", config.MaxFrames), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Bin width: %g", config.BinWidth), "config")
	logger.Info(fmt.Sprintf("Hit threshold: %g", config.HitThreshold), "config")
	logger.Info(fmt.Sprintf("Flash threshold: %g", config.FlashThreshold), "config")
	logger.Info(fmt.Sprintf("Width tolerance: %g", config.WidthTolerance), "config")
	logger.Info(fmt.Sprintf("Trigger coincidence: %g", config.TrigCoincidence), "config")
	logger.Info(fmt.Sprintf("Decay constant: %g", config.DecayConstant), "config")
	logger.Info(fmt.Sprintf("Significance cutoff: %g", config.SignificanceCutoff), "config")
	logger.Info(fmt.Sprintf("Tick period: %g", config.TickPeriod), "config")
	logger.Info(fmt.Sprintf("Frame ticks: %d", config.FrameTicks), "config")
	logger.Info(fmt.Sprintf("Trigger frame: %d", config.TriggerFrame), "config")
}
