package flashfinder

import "gonum.org/v1/gonum/floats"

type Flash struct {
	Time        float64
	TimeWidth   float64
	AbsTime     float64
	Frame       int
	PEs         []float64 // indexed by channel
	InBeamFrame bool
	OnBeamTime  bool
	FastToTotal float64
	YCenter     float64
	YWidth      float64
	ZCenter     float64
	ZWidth      float64
	WireCenters []float64 // indexed by plane
	WireWidths  []float64
}

// TotalPE is the sum of the per-channel PEs.
func (f *Flash) TotalPE() float64 {
	return floats.Sum(f.PEs)
}

// Result holds flashes and, index for index, the hits they were built from.
type Result struct {
	Flashes []Flash
	Assocs  [][]int
}

func (r *Result) Len() int {
	return len(r.Flashes)
}

func (r *Result) append(other Result) {
	r.Flashes = append(r.Flashes, other.Flashes...)
	r.Assocs = append(r.Assocs, other.Assocs...)
}
