// Package jsonstore persists entity collections as flat JSON documents, one file per entity type.
//
// A file holds a JSON object. Collection files keep their records under a key equal to the file's
// base name ({"customers": [...]}); a file may carry secondary arrays under other keys, which are
// preserved on every rewrite. Every mutation is a full read-modify-write of the document.
package jsonstore

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const fileExtension = ".json"

// DB hands out one File per name inside a data directory.
type DB struct {
	dir   string
	fs    Filesystem
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	files map[string]*File
}

// Option customises a DB.
type Option func(*DB)

// WithFilesystem replaces the os-backed filesystem.
func WithFilesystem(fs Filesystem) Option { return func(db *DB) { db.fs = fs } }

// WithClock replaces time.Now for timestamp assignment.
func WithClock(now func() time.Time) Option { return func(db *DB) { db.now = now } }

// WithIDGenerator replaces the uuid generator used for new records.
func WithIDGenerator(gen func() string) Option { return func(db *DB) { db.newID = gen } }

// Open prepares dir for use as a data directory, creating it if needed.
func Open(dir string, opts ...Option) (*DB, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	db := &DB{
		dir:   dir,
		fs:    OSFilesystem{},
		now:   time.Now,
		newID: uuid.NewString,
		files: make(map[string]*File),
	}
	for _, opt := range opts {
		opt(db)
	}
	if err := db.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return db, nil
}

// Dir returns the data directory.
func (db *DB) Dir() string { return db.dir }

// File returns the collection file called name (customers -> customers.json).
// A missing file is bootstrapped as {"<name>": []}.
func (db *DB) File(name string) *File {
	return db.file(name, func() (Document, error) {
		return Document{name: emptyArray}, nil
	})
}

// Names lists every file handed out so far, sorted.
func (db *DB) Names() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	names := make([]string, 0, len(db.files))
	for name := range db.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (db *DB) file(name string, bootstrap func() (Document, error)) *File {
	db.mu.Lock()
	defer db.mu.Unlock()
	if f, ok := db.files[name]; ok {
		return f
	}
	f := &File{
		name:      name,
		path:      filepath.Join(db.dir, name+fileExtension),
		fs:        db.fs,
		bootstrap: bootstrap,
	}
	db.files[name] = f
	return f
}

func (db *DB) timestamp() time.Time { return db.now().UTC() }
