package flashfinder

import "math"

// Accumulator is a coarse time histogram of hit PE. Two accumulators offset
// by half a bin are filled so that a flash split by one grid's bin boundary
// is seen whole by the other.
type Accumulator struct {
	BinWidth     float64
	Offset       float64
	Binned       []float64
	Contributors [][]int
	// Flashes lists the bins that crossed the flash threshold, in the order
	// they crossed it.
	Flashes []int
}

// NewAccumulator sizes an accumulator to cover a frame of the given length.
func NewAccumulator(frameLength float64, binWidth float64, offset float64) *Accumulator {
	nBins := int(math.Floor((frameLength+binWidth)/binWidth)) + 1
	return &Accumulator{
		BinWidth:     binWidth,
		Offset:       offset,
		Binned:       make([]float64, nBins),
		Contributors: make([][]int, nBins),
	}
}

func (a *Accumulator) Index(peakTime float64) int {
	return int(math.Floor((peakTime + a.Offset) / a.BinWidth))
}

// InRange reports whether a hit at peakTime falls into a bin of a.
func (a *Accumulator) InRange(peakTime float64) bool {
	idx := a.Index(peakTime)
	return idx >= 0 && idx < len(a.Binned)
}

// Fill adds a hit to its bin and records the bin as a flash candidate the
// first time its total reaches threshold.
func (a *Accumulator) Fill(hitIndex int, peakTime float64, pe float64, threshold float64) {
	bin := a.Index(peakTime)
	a.Contributors[bin] = append(a.Contributors[bin], hitIndex)

	before := a.Binned[bin]
	after := before + pe
	a.Binned[bin] = after

	if after >= threshold && before < threshold {
		a.Flashes = append(a.Flashes, bin)
	}
}

// FillAccumulators bins every hit into two half-bin-offset accumulators.
// Peak times must lie within [0, frameLength].
func FillAccumulators(hits []Hit, frameLength float64, params Params) [2]*Accumulator {
	accums := [2]*Accumulator{
		NewAccumulator(frameLength, params.BinWidth, 0),
		NewAccumulator(frameLength, params.BinWidth, params.BinWidth/2),
	}
	for i, hit := range hits {
		for _, acc := range accums {
			acc.Fill(i, hit.PeakTime, hit.PE, params.FlashThreshold)
		}
	}
	return accums
}
