package flashfinder

// testClock has 100 µs frames of 1 µs ticks; frame 0 is the beam frame.
var testClock = DetectorClock{Tick: 1, FrameTicks: 100, TrigFrame: 0}

func newHit(channel int, peakTime float64, pe float64, width float64) Hit {
	return Hit{
		Channel:     channel,
		PeakTime:    peakTime,
		PeakTimeAbs: peakTime,
		Width:       width,
		Amplitude:   pe,
		Area:        pe,
		PE:          pe,
		FastToTotal: 0.3,
	}
}

func inFrame(frame int, hits ...Hit) []Hit {
	for i := range hits {
		hits[i].Frame = frame
		hits[i].PeakTimeAbs = float64(frame)*testClock.PartitionLength() + hits[i].PeakTime
	}
	return hits
}

// testGeometry places channel i at (0, i, 10*i) with wire 2*i+plane.
func testGeometry(nChannels int, nPlanes int) *DetectorGeometry {
	geom := NewDetectorGeometry(nChannels, nPlanes)
	for ch := 0; ch < nChannels; ch++ {
		geom.Centers[ch] = [3]float64{0, float64(ch), 10 * float64(ch)}
		for p := 0; p < nPlanes; p++ {
			geom.Wires[ch][p] = 2*ch + p
		}
	}
	return geom
}
