package flashfinder

import (
	"fmt"
	"math"
)

const (
	// Argon scintillation slow component, in µs.
	DefaultDecayConstant      = 1.6
	DefaultSignificanceCutoff = 3.0
)

// Params are the tunable thresholds of the flash finder.
type Params struct {
	BinWidth           float64 // coarse accumulator bin width
	HitThreshold       float64 // minimum pulse peak to build a hit
	FlashThreshold     float64 // minimum PE to commit a flash
	WidthTolerance     float64 // refiner merge laxity, in units of hit widths
	TrigCoincidence    float64 // |time| below this flags a flash on beam time
	DecayConstant      float64
	SignificanceCutoff float64
}

func DefaultParams() Params {
	return Params{
		BinWidth:           1.0,
		HitThreshold:       0,
		FlashThreshold:     10,
		WidthTolerance:     0.5,
		TrigCoincidence:    5.0,
		DecayConstant:      DefaultDecayConstant,
		SignificanceCutoff: DefaultSignificanceCutoff,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.BinWidth > 0) || math.IsInf(p.BinWidth, 0):
		return fmt.Errorf("bin width %v must be positive: %w", p.BinWidth, ErrInvalidParams)
	case p.WidthTolerance < 0 || math.IsNaN(p.WidthTolerance):
		return fmt.Errorf("width tolerance %v must not be negative: %w", p.WidthTolerance, ErrInvalidParams)
	case !(p.DecayConstant > 0):
		return fmt.Errorf("decay constant %v must be positive: %w", p.DecayConstant, ErrInvalidParams)
	case math.IsNaN(p.FlashThreshold) || math.IsNaN(p.SignificanceCutoff):
		return fmt.Errorf("thresholds must be numbers: %w", ErrInvalidParams)
	}
	return nil
}
