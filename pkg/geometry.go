package flashfinder

import (
	"encoding/json"
	"fmt"
	"os"
)

// Geometry maps optical channels to detector coordinates.
type Geometry interface {
	NChannels() int
	NPlanes() int
	// Center returns the (x, y, z) position of the optical detector.
	Center(channel int) [3]float64
	// NearestWire returns the wire of plane closest to the optical detector.
	NearestWire(channel int, plane int) int
}

// DetectorGeometry is a table backed Geometry.
type DetectorGeometry struct {
	Centers [][3]float64
	Wires   [][]int // channel -> plane -> wire
	Planes  int
}

func NewDetectorGeometry(nChannels int, nPlanes int) *DetectorGeometry {
	g := &DetectorGeometry{
		Centers: make([][3]float64, nChannels),
		Wires:   make([][]int, nChannels),
		Planes:  nPlanes,
	}
	for i := range g.Wires {
		g.Wires[i] = make([]int, nPlanes)
	}
	return g
}

func (g *DetectorGeometry) NChannels() int {
	return len(g.Centers)
}

func (g *DetectorGeometry) NPlanes() int {
	return g.Planes
}

func (g *DetectorGeometry) Center(channel int) [3]float64 {
	return g.Centers[channel]
}

func (g *DetectorGeometry) NearestWire(channel int, plane int) int {
	return g.Wires[channel][plane]
}

// ChannelMapping translates between electronic ids and optical channels.
type ChannelMapping struct {
	ToChannel map[int]int
	ToElecID  map[int]int
}

// Calibration bundles everything needed to turn pulses into hits and hits
// into flashes for one run.
type Calibration struct {
	ChannelMap ChannelMapping
	SPESize    map[int]float64
	Geometry   *DetectorGeometry
}

type geometryFileChannel struct {
	Channel int     `json:"channel"`
	ElecID  int     `json:"elec_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	SPE     float64 `json:"spe"`
	Wires   []int   `json:"wires"`
}

type geometryFile struct {
	NPlanes  int                   `json:"n_planes"`
	Channels []geometryFileChannel `json:"channels"`
}

// LoadGeometryFile reads the calibration from a JSON file, used when running
// without database access.
func LoadGeometryFile(filename string) (*Calibration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	var gf geometryFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("error parsing geometry file %q: %w", filename, err)
	}

	nChannels := 0
	for _, ch := range gf.Channels {
		if ch.Channel < 0 {
			return nil, fmt.Errorf("geometry file %q, channel %d: %w", filename, ch.Channel, ErrInvalidChannel)
		}
		if ch.Channel+1 > nChannels {
			nChannels = ch.Channel + 1
		}
	}

	calib := newCalibration(nChannels, gf.NPlanes)
	for _, ch := range gf.Channels {
		if len(ch.Wires) != gf.NPlanes {
			return nil, fmt.Errorf("geometry file %q: channel %d has %d wires, expected %d",
				filename, ch.Channel, len(ch.Wires), gf.NPlanes)
		}
		calib.ChannelMap.ToChannel[ch.ElecID] = ch.Channel
		calib.ChannelMap.ToElecID[ch.Channel] = ch.ElecID
		calib.SPESize[ch.Channel] = ch.SPE
		calib.Geometry.Centers[ch.Channel] = [3]float64{ch.X, ch.Y, ch.Z}
		copy(calib.Geometry.Wires[ch.Channel], ch.Wires)
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Geometry read from %s: %d channels, %d planes", filename, nChannels, gf.NPlanes)
		logger.Info(message, "geometry")
	}
	return calib, nil
}

func newCalibration(nChannels int, nPlanes int) *Calibration {
	return &Calibration{
		ChannelMap: ChannelMapping{
			ToChannel: make(map[int]int),
			ToElecID:  make(map[int]int),
		},
		SPESize:  make(map[int]float64),
		Geometry: NewDetectorGeometry(nChannels, nPlanes),
	}
}
