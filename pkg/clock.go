package flashfinder

// Clock describes the optical readout timing.
type Clock interface {
	// PartitionLength is the duration of one frame.
	PartitionLength() float64
	TickPeriod() float64
	// TriggerFrame is the frame that contains the beam gate.
	TriggerFrame() int
}

type DetectorClock struct {
	Tick       float64
	FrameTicks int
	TrigFrame  int
}

func (c DetectorClock) PartitionLength() float64 {
	return float64(c.FrameTicks) * c.Tick
}

func (c DetectorClock) TickPeriod() float64 {
	return c.Tick
}

func (c DetectorClock) TriggerFrame() int {
	return c.TrigFrame
}
