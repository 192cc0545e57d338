package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"sync"
)

var emptyArray = json.RawMessage("[]")

// Document is the top-level JSON object of a file, key by key.
type Document map[string]json.RawMessage

// File is the single owner of one JSON file. Its mutex serialises the
// read-modify-write cycle of every mutation made through it.
type File struct {
	name      string
	path      string
	fs        Filesystem
	bootstrap func() (Document, error)

	mu sync.Mutex
}

// Name is the file's base name without extension.
func (f *File) Name() string { return f.name }

// Path is the file's location on disk.
func (f *File) Path() string { return f.path }

// Read returns the current document, creating the file from its bootstrap document if missing.
func (f *File) Read(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// Update reads the document, applies fn and writes the result back.
// Nothing is written when fn returns an error.
func (f *File) Update(ctx context.Context, fn func(doc Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return f.save(doc)
}

func (f *File) load() (Document, error) {
	data, err := f.fs.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc, err := f.bootstrap()
		if err != nil {
			return nil, &StorageWriteError{Path: f.path, Err: err}
		}
		if err := f.save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, &StorageReadError{Path: f.path, Err: err}
	}

	doc := Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &StorageReadError{Path: f.path, Err: errors.New("file is empty")}
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StorageReadError{Path: f.path, Err: err}
	}
	return doc, nil
}

func (f *File) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &StorageWriteError{Path: f.path, Err: err}
	}
	data = append(data, '\n')
	if err := f.fs.WriteFile(f.path, data, 0o644); err != nil {
		return &StorageWriteError{Path: f.path, Err: err}
	}
	return nil
}

// records decodes the array stored under key. An absent key is an empty collection.
func (d Document) records(key string) ([]json.RawMessage, error) {
	raw, ok := d[key]
	if !ok || len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var recs []json.RawMessage
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (d Document) setRecords(key string, recs []json.RawMessage) error {
	if recs == nil {
		d[key] = emptyArray
		return nil
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	d[key] = raw
	return nil
}
