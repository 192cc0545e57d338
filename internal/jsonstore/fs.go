package jsonstore

import "os"

// Filesystem is the set of file operations the store needs. Tests swap it to inject failures.
type Filesystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// OSFilesystem is the Filesystem backed by the os package.
type OSFilesystem struct{}

func (OSFilesystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OSFilesystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OSFilesystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
