package flashfinder

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

const pulsesDataset = "/Pulses/pulses"

// ReadPulses loads the pulse table written by the pulse finder.
func ReadPulses(filename string) ([]Pulse, error) {
	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	rows, err := readTable[PulseHDF5](file, pulsesDataset)
	if err != nil {
		return nil, err
	}

	pulses := make([]Pulse, len(rows))
	for i, row := range rows {
		pulses[i] = Pulse{
			ElecID:      int(row.elec_id),
			Frame:       int(row.frame),
			TimeSlice:   row.time_slice,
			TStart:      row.t_start,
			TMax:        row.t_max,
			TEnd:        row.t_end,
			Peak:        row.peak,
			Area:        row.area,
			FastToTotal: row.fast_to_total,
		}
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Read %d pulses from %s", len(pulses), filename), "reader")
	}
	return pulses, nil
}
