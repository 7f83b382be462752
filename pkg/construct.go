package flashfinder

import (
	"fmt"
	"math"
)

// flashSums accumulates the PE weighted sums a flash is built from.
type flashSums struct {
	maxTime, minTime float64
	time, absTime    float64
	fastToTotal      float64
	totalPE          float64
	pes              []float64
	sumY, sumY2      float64
	sumZ, sumZ2      float64
	sumW, sumW2      []float64
}

func newFlashSums(nChannels int, nPlanes int) *flashSums {
	return &flashSums{
		maxTime: math.Inf(-1),
		minTime: math.Inf(1),
		pes:     make([]float64, nChannels),
		sumW:    make([]float64, nPlanes),
		sumW2:   make([]float64, nPlanes),
	}
}

func (s *flashSums) addHit(hit Hit) {
	pe := hit.PE
	s.maxTime = max(s.maxTime, hit.PeakTime)
	s.minTime = min(s.minTime, hit.PeakTime)

	s.time += hit.PeakTime * pe
	s.fastToTotal += hit.FastToTotal * pe
	s.absTime += hit.PeakTimeAbs * pe

	s.totalPE += pe
	s.pes[hit.Channel] += pe
}

func (s *flashSums) addGeometry(hit Hit, geom Geometry) {
	pe := hit.PE
	xyz := geom.Center(hit.Channel)
	for p := range s.sumW {
		w := float64(geom.NearestWire(hit.Channel, p))
		s.sumW[p] += w * pe
		s.sumW2[p] += w * w * pe
	}
	s.sumY += xyz[1] * pe
	s.sumY2 += xyz[1] * xyz[1] * pe
	s.sumZ += xyz[2] * pe
	s.sumZ2 += xyz[2] * xyz[2] * pe
}

// CalculateWidth is the spread estimate stored with flashes. The sum term is
// added, as in existing flash productions.
func CalculateWidth(sum float64, sumSquared float64, weightsSum float64) float64 {
	return math.Sqrt(sumSquared*weightsSum+sum*sum) / weightsSum
}

// ConstructFlash reduces the hits of one refined flash into a Flash.
func ConstructFlash(hitIDs []int, hits []Hit, geom Geometry, clock Clock, frame int, trigCoincidence float64) (Flash, error) {
	sums := newFlashSums(geom.NChannels(), geom.NPlanes())
	for _, hitID := range hitIDs {
		sums.addHit(hits[hitID])
		sums.addGeometry(hits[hitID], geom)
	}
	if !(sums.totalPE > 0) {
		return Flash{}, fmt.Errorf("%d hits in frame %d: %w", len(hitIDs), frame, ErrDegenerateFlash)
	}

	totalPE := sums.totalPE
	flash := Flash{
		Time:        sums.time / totalPE,
		TimeWidth:   (sums.maxTime - sums.minTime) / 2,
		AbsTime:     sums.absTime / totalPE,
		Frame:       frame,
		PEs:         sums.pes,
		InBeamFrame: frame == clock.TriggerFrame(),
		FastToTotal: sums.fastToTotal / totalPE,
		YCenter:     sums.sumY / totalPE,
		YWidth:      CalculateWidth(sums.sumY, sums.sumY2, totalPE),
		ZCenter:     sums.sumZ / totalPE,
		ZWidth:      CalculateWidth(sums.sumZ, sums.sumZ2, totalPE),
		WireCenters: make([]float64, len(sums.sumW)),
		WireWidths:  make([]float64, len(sums.sumW)),
	}
	for p := range sums.sumW {
		flash.WireCenters[p] = sums.sumW[p] / totalPE
		flash.WireWidths[p] = CalculateWidth(sums.sumW[p], sums.sumW2[p], totalPE)
	}
	flash.OnBeamTime = math.Abs(flash.Time) < trigCoincidence

	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Flash in frame %d: time %.3f, width %.3f, PE %.2f, %d hits",
			frame, flash.Time, flash.TimeWidth, totalPE, len(hitIDs))
		logger.Info(message, "construct")
	}
	return flash, nil
}
