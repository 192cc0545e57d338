package jsonstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by services when a record id is absent from its collection.
// The store itself signals absence with a boolean and never returns this error.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate reports a record clashing with an existing one on a unique value.
var ErrDuplicate = errors.New("duplicate record")

// StorageReadError reports a backing file that exists but could not be read or parsed.
type StorageReadError struct {
	Path string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError reports a failed write of a backing file. The caller must not
// assume the mutation that triggered it took effect.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is a read or write failure of a backing file.
func IsStorageError(err error) bool {
	var rerr *StorageReadError
	var werr *StorageWriteError
	return errors.As(err, &rerr) || errors.As(err, &werr)
}
