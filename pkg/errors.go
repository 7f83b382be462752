package flashfinder

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChannel is reported for hits whose channel is outside the geometry.
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrTimeOutOfRange is reported for hits whose peak time is outside the frame.
	ErrTimeOutOfRange = errors.New("time outside frame window")
	// ErrDegenerateFlash means a hit group with no charge reached the constructor.
	ErrDegenerateFlash = errors.New("flash with zero total PE")
	ErrInvalidParams   = errors.New("invalid flash finder parameters")
)

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error { return e.Err }

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error { return e.Err }

// ErrReadDataset represents an error when reading a dataset from an input file.
type ErrReadDataset struct {
	Dataset string
	Err     error
}

func (e *ErrReadDataset) Error() string {
	return fmt.Sprintf("error reading dataset %q: %v", e.Dataset, e.Err)
}

func (e *ErrReadDataset) Unwrap() error { return e.Err }

// ErrFrame wraps a failure that discarded a whole frame.
type ErrFrame struct {
	Frame int
	Err   error
}

func (e *ErrFrame) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
}

func (e *ErrFrame) Unwrap() error { return e.Err }
