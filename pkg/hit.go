package flashfinder

import (
	"fmt"
	"math"
)

// Hit is a single optical pulse calibrated to photoelectrons. Hits are only
// ever referenced by their index in the slice they were built into.
type Hit struct {
	Channel     int
	PeakTime    float64 // relative to frame start
	PeakTimeAbs float64
	Frame       int
	Width       float64
	Area        float64
	Amplitude   float64
	PE          float64
	FastToTotal float64
}

// Pulse is a reconstructed waveform pulse as delivered by the pulse finder.
// Times are in ticks relative to the readout time slice.
type Pulse struct {
	ElecID      int
	Frame       int
	TimeSlice   uint32
	TStart      float64
	TMax        float64
	TEnd        float64
	Peak        float64
	Area        float64
	FastToTotal float64
}

// ConstructHit converts a pulse into a hit. ok is false when the pulse is
// below the hit threshold; err is set when the pulse cannot be calibrated.
func ConstructHit(pulse Pulse, channel int, speSize float64, clock Clock, hitThreshold float64) (Hit, bool, error) {
	if pulse.Peak < hitThreshold {
		return Hit{}, false, nil
	}
	if speSize <= 0 || math.IsNaN(speSize) {
		return Hit{}, false, fmt.Errorf("channel %d has SPE size %v: %w", channel, speSize, ErrInvalidChannel)
	}

	tick := clock.TickPeriod()
	relTime := (float64(pulse.TimeSlice) + pulse.TMax) * tick
	hit := Hit{
		Channel:     channel,
		PeakTime:    relTime,
		PeakTimeAbs: float64(pulse.Frame)*clock.PartitionLength() + relTime,
		Frame:       pulse.Frame,
		Width:       (pulse.TEnd - pulse.TStart) * tick,
		Area:        pulse.Area,
		Amplitude:   pulse.Peak,
		PE:          pulse.Peak / speSize,
		FastToTotal: pulse.FastToTotal,
	}
	return hit, true, nil
}

// BuildHits calibrates every pulse with the detector calibration. Pulses from
// unknown electronic channels or without an SPE size are skipped with a warning.
func BuildHits(pulses []Pulse, calib *Calibration, clock Clock, hitThreshold float64) []Hit {
	hits := make([]Hit, 0, len(pulses))
	for _, pulse := range pulses {
		channel, ok := calib.ChannelMap.ToChannel[pulse.ElecID]
		if !ok {
			message := fmt.Errorf("pulse in frame %d from elecID %d: %w", pulse.Frame, pulse.ElecID, ErrInvalidChannel)
			logger.Error(message.Error())
			continue
		}
		hit, ok, err := ConstructHit(pulse, channel, calib.SPESize[channel], clock, hitThreshold)
		if err != nil {
			logger.Error(err.Error())
			continue
		}
		if !ok {
			continue
		}
		hits = append(hits, hit)
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Built %d hits from %d pulses", len(hits), len(pulses))
		logger.Info(message, "hits")
	}
	return hits
}
