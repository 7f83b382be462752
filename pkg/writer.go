package flashfinder

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type Writer struct {
	File          *hdf5.File
	Filename      string
	NChannels     int
	NPlanes       int
	RunGroup      *hdf5.Group
	HitsGroup     *hdf5.Group
	FlashesGroup  *hdf5.Group
	RunInfoTable  *hdf5.Dataset
	HitTable      *hdf5.Dataset
	FlashTable    *hdf5.Dataset
	FlashHitTable *hdf5.Dataset
	PEs           *hdf5.Dataset
	WireCenters   *hdf5.Dataset
	WireWidths    *hdf5.Dataset
	HitCounter    int
	FlashCounter  int
	AssocCounter  int
}

// NewWriter creates filename and the output layout for a detector with
// nChannels optical channels and nPlanes wire planes.
func NewWriter(filename string, nChannels int, nPlanes int) (*Writer, error) {
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Creating file: %s", filename), "writer")
	}

	writer := &Writer{Filename: filename, NChannels: nChannels, NPlanes: nPlanes}
	var err error
	if writer.File, err = createFile(filename); err != nil {
		return nil, err
	}
	if err = writer.createLayout(); err != nil {
		return nil, fmt.Errorf("%w (close: %v)", err, writer.Close())
	}
	return writer, nil
}

func (w *Writer) createLayout() error {
	var err error
	if w.RunGroup, err = createGroup(w.File, "Run"); err != nil {
		return err
	}
	if w.HitsGroup, err = createGroup(w.File, "Hits"); err != nil {
		return err
	}
	if w.FlashesGroup, err = createGroup(w.File, "Flashes"); err != nil {
		return err
	}
	if w.RunInfoTable, err = createTable(w.RunGroup, "runInfo", RunInfoHDF5{}); err != nil {
		return err
	}
	if w.HitTable, err = createTable(w.HitsGroup, "hits", HitHDF5{}); err != nil {
		return err
	}
	if w.FlashTable, err = createTable(w.FlashesGroup, "flashes", FlashHDF5{}); err != nil {
		return err
	}
	if w.FlashHitTable, err = createTable(w.FlashesGroup, "hits", FlashHitHDF5{}); err != nil {
		return err
	}
	if w.NChannels > 0 {
		if w.PEs, err = create2dArray(w.FlashesGroup, "pes", hdf5.T_NATIVE_DOUBLE, w.NChannels); err != nil {
			return err
		}
	}
	if w.NPlanes > 0 {
		if w.WireCenters, err = create2dArray(w.FlashesGroup, "wire_centers", hdf5.T_NATIVE_DOUBLE, w.NPlanes); err != nil {
			return err
		}
		if w.WireWidths, err = create2dArray(w.FlashesGroup, "wire_widths", hdf5.T_NATIVE_DOUBLE, w.NPlanes); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) WriteRunInfo(runNumber int) error {
	return writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(runNumber)}, 0)
}

// WriteHits appends hits. Flash associations written afterwards refer to
// positions in the order hits were written.
func (w *Writer) WriteHits(hits []Hit) error {
	rows := make([]HitHDF5, len(hits))
	for i, hit := range hits {
		rows[i] = HitHDF5{
			frame:         int32(hit.Frame),
			channel:       int32(hit.Channel),
			peak_time:     hit.PeakTime,
			peak_time_abs: hit.PeakTimeAbs,
			width:         hit.Width,
			area:          hit.Area,
			amplitude:     hit.Amplitude,
			pe:            hit.PE,
			fast_to_total: hit.FastToTotal,
		}
	}
	if err := writeArrayToTable(w.HitTable, &rows, w.HitCounter); err != nil {
		return fmt.Errorf("error writing hits: %w", err)
	}
	w.HitCounter += len(rows)
	return nil
}

// WriteFlashes appends the flashes of res and their associations. Flash ids
// continue from the flashes already written.
func (w *Writer) WriteFlashes(res Result) error {
	nFlashes := res.Len()
	if nFlashes == 0 {
		return nil
	}

	flashes := make([]FlashHDF5, nFlashes)
	assocs := make([]FlashHitHDF5, 0)
	pes := make([]float64, 0, nFlashes*w.NChannels)
	wireCenters := make([]float64, 0, nFlashes*w.NPlanes)
	wireWidths := make([]float64, 0, nFlashes*w.NPlanes)

	for i, flash := range res.Flashes {
		flashID := int32(w.FlashCounter + i)
		flashes[i] = FlashHDF5{
			flash_id:      flashID,
			frame:         int32(flash.Frame),
			time:          flash.Time,
			time_width:    flash.TimeWidth,
			abs_time:      flash.AbsTime,
			total_pe:      flash.TotalPE(),
			fast_to_total: flash.FastToTotal,
			y_center:      flash.YCenter,
			y_width:       flash.YWidth,
			z_center:      flash.ZCenter,
			z_width:       flash.ZWidth,
			in_beam_frame: boolToInt32(flash.InBeamFrame),
			on_beam_time:  boolToInt32(flash.OnBeamTime),
		}
		for _, hitIndex := range res.Assocs[i] {
			assocs = append(assocs, FlashHitHDF5{flash_id: flashID, hit_index: int32(hitIndex)})
		}
		pes = appendPadded(pes, flash.PEs, w.NChannels)
		wireCenters = appendPadded(wireCenters, flash.WireCenters, w.NPlanes)
		wireWidths = appendPadded(wireWidths, flash.WireWidths, w.NPlanes)
	}

	if err := writeArrayToTable(w.FlashTable, &flashes, w.FlashCounter); err != nil {
		return fmt.Errorf("error writing flashes: %w", err)
	}
	if err := writeArrayToTable(w.FlashHitTable, &assocs, w.AssocCounter); err != nil {
		return fmt.Errorf("error writing flash hits: %w", err)
	}
	if w.PEs != nil {
		if err := write2dArray(w.PEs, &pes, w.FlashCounter, w.NChannels); err != nil {
			return fmt.Errorf("error writing flash PEs: %w", err)
		}
	}
	if w.WireCenters != nil {
		if err := write2dArray(w.WireCenters, &wireCenters, w.FlashCounter, w.NPlanes); err != nil {
			return fmt.Errorf("error writing wire centers: %w", err)
		}
		if err := write2dArray(w.WireWidths, &wireWidths, w.FlashCounter, w.NPlanes); err != nil {
			return fmt.Errorf("error writing wire widths: %w", err)
		}
	}

	w.FlashCounter += nFlashes
	w.AssocCounter += len(assocs)
	return nil
}

// appendPadded appends exactly n values of row to dst, zero filling or
// truncating as needed.
func appendPadded(dst []float64, row []float64, n int) []float64 {
	for i := 0; i < n; i++ {
		if i < len(row) {
			dst = append(dst, row[i])
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}

func (w *Writer) Close() error {
	var resources []namedCloser
	datasets := []struct {
		name string
		dset *hdf5.Dataset
	}{
		{"runInfo", w.RunInfoTable},
		{"hits", w.HitTable},
		{"flashes", w.FlashTable},
		{"flash hits", w.FlashHitTable},
		{"pes", w.PEs},
		{"wire_centers", w.WireCenters},
		{"wire_widths", w.WireWidths},
	}
	for _, d := range datasets {
		if d.dset != nil {
			resources = append(resources, namedCloser{d.name, d.dset})
		}
	}
	groups := []struct {
		name  string
		group *hdf5.Group
	}{
		{"Run", w.RunGroup},
		{"Hits", w.HitsGroup},
		{"Flashes", w.FlashesGroup},
	}
	for _, g := range groups {
		if g.group != nil {
			resources = append(resources, namedCloser{g.name, g.group})
		}
	}
	if w.File != nil {
		resources = append(resources, namedCloser{w.Filename, w.File})
	}
	return closeAll(resources)
}
