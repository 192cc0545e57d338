// Package jsonstoretest provides helpers for tests that exercise jsonstore failure paths.
package jsonstoretest

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// ErrInjected is returned by FailingFS for every blocked write.
var ErrInjected = errors.New("injected write failure")

// FailingFS wraps the os filesystem and fails writes to the named files.
type FailingFS struct {
	jsonstore.OSFilesystem

	mu     sync.Mutex
	failOn map[string]bool
}

// NewFailingFS fails writes to files whose base name (without .json) is listed.
func NewFailingFS(names ...string) *FailingFS {
	f := &FailingFS{failOn: make(map[string]bool)}
	for _, n := range names {
		f.failOn[n] = true
	}
	return f
}

// Fail adds name to the set of files whose writes fail.
func (f *FailingFS) Fail(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[name] = true
}

// Heal stops failing writes to name.
func (f *FailingFS) Heal(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failOn, name)
}

func (f *FailingFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	base := filepath.Base(name)
	base = base[:len(base)-len(filepath.Ext(base))]
	f.mu.Lock()
	fail := f.failOn[base]
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.OSFilesystem.WriteFile(name, data, perm)
}

// WriteRaw writes content directly to <dir>/<name>.json, bypassing any store.
func WriteRaw(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644)
}

// ReadRaw returns the bytes of <dir>/<name>.json.
func ReadRaw(dir, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, name+".json"))
}
