package flashfinder

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type RunInfoHDF5 struct {
	run_number int32
}

type HitHDF5 struct {
	frame         int32
	channel       int32
	peak_time     float64
	peak_time_abs float64
	width         float64
	area          float64
	amplitude     float64
	pe            float64
	fast_to_total float64
}

type FlashHDF5 struct {
	flash_id      int32
	frame         int32
	time          float64
	time_width    float64
	abs_time      float64
	total_pe      float64
	fast_to_total float64
	y_center      float64
	y_width       float64
	z_center      float64
	z_width       float64
	in_beam_frame int32
	on_beam_time  int32
}

type FlashHitHDF5 struct {
	flash_id  int32
	hit_index int32
}

type PulseHDF5 struct {
	elec_id       int32
	frame         int32
	time_slice    uint32
	t_start       float64
	t_max         float64
	t_end         float64
	peak          float64
	area          float64
	fast_to_total float64
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func createFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func datasetCreateProps(chunks []uint) (*hdf5.PropList, error) {
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	if err := plist.SetChunk(chunks); err != nil {
		plist.Close()
		return nil, err
	}
	if configuration.CompressionLevel > 0 {
		if err := plist.SetDeflate(configuration.CompressionLevel); err != nil {
			plist.Close()
			return nil, err
		}
	}
	return plist, nil
}

// create2dArray creates an extensible (rows, nColumns) dataset.
func create2dArray(group *hdf5.Group, name string, dtype *hdf5.Datatype, nColumns int) (*hdf5.Dataset, error) {
	dimsArray := []uint{0, uint(nColumns)}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDimsArray := []uint{uint(unlimitedDims), uint(nColumns)}
	chunks := []uint{1024, uint(nColumns)}

	fileSpace, err := hdf5.CreateSimpleDataspace(dimsArray, maxDimsArray)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := datasetCreateProps(chunks)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

// createTable creates an extensible 1-D dataset of the compound type of datatype.
func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := datasetCreateProps([]uint{32768})
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, rowsInFile int) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array, rowsInFile)
}

// writeArrayToTable appends data after the first rowsInFile rows.
func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, rowsInFile int) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("error creating memory dataspace: %w", err)
	}
	defer dataspace.Close()

	// extend
	start := uint(rowsInFile)
	if err := dataset.Resize([]uint{start + length}); err != nil {
		return fmt.Errorf("error extending table: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	if err := filespace.SelectHyperslab([]uint{start}, nil, []uint{length}, nil); err != nil {
		return fmt.Errorf("error selecting hyperslab: %w", err)
	}
	return dataset.WriteSubset(data, dataspace, filespace)
}

// write2dArray appends len(data)/nColumns rows after the first rowsInFile rows.
func write2dArray[T any](dataset *hdf5.Dataset, data *[]T, rowsInFile int, nColumns int) error {
	if nColumns == 0 || len(*data) == 0 {
		return nil
	}
	nRows := uint(len(*data) / nColumns)

	// extend
	newsize := []uint{uint(rowsInFile) + nRows, uint(nColumns)}
	if err := dataset.Resize(newsize); err != nil {
		return fmt.Errorf("error extending array: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(rowsInFile), 0}
	count := []uint{nRows, uint(nColumns)}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("error selecting hyperslab: %w", err)
	}

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return fmt.Errorf("error creating memory dataspace: %w", err)
	}
	defer dataspace.Close()

	return dataset.WriteSubset(data, dataspace, filespace)
}

// readTable reads a whole 1-D compound dataset.
func readTable[T any](file *hdf5.File, name string) ([]T, error) {
	dset, err := file.OpenDataset(name)
	if err != nil {
		return nil, &ErrReadDataset{Dataset: name, Err: err}
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, &ErrReadDataset{Dataset: name, Err: err}
	}
	if len(dims) != 1 {
		return nil, &ErrReadDataset{Dataset: name, Err: fmt.Errorf("expected 1 dimension, got %d", len(dims))}
	}

	rows := make([]T, dims[0])
	if len(rows) == 0 {
		return rows, nil
	}
	if err := dset.Read(&rows); err != nil {
		return nil, &ErrReadDataset{Dataset: name, Err: err}
	}
	return rows, nil
}

type namedCloser struct {
	name string
	c    interface{ Close() error }
}

// closeAll closes resources in order, children before parents.
func closeAll(resources []namedCloser) error {
	var errs []error
	for _, r := range resources {
		if err := r.c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", r.name, err))
		}
	}
	return errors.Join(errs...)
}
