package jsonstore

import (
	"context"
	"encoding/json"
)

// Object is a single JSON object file, such as settings. Reads are merged over defaults,
// so fields added to T later pick up their default value.
type Object[T any] struct {
	file     *File
	defaults T
}

// NewObject returns the object stored in <name>.json. A missing file is created from defaults;
// defaults that do not encode as a JSON object fail that first read with a StorageWriteError.
func NewObject[T any](db *DB, name string, defaults T) *Object[T] {
	f := db.file(name, func() (Document, error) {
		return toDocument(defaults)
	})
	return &Object[T]{file: f, defaults: defaults}
}

// Defaults returns the default value.
func (o *Object[T]) Defaults() T { return o.defaults }

// File returns the backing file.
func (o *Object[T]) File() *File { return o.file }

// Load reads the object, filling absent fields from the defaults.
func (o *Object[T]) Load(ctx context.Context) (T, error) {
	v := o.defaults
	doc, err := o.file.Read(ctx)
	if err != nil {
		return v, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return v, &StorageReadError{Path: o.file.Path(), Err: err}
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return o.defaults, &StorageReadError{Path: o.file.Path(), Err: err}
	}
	return v, nil
}

// Save writes v. Top-level keys unknown to T are kept.
func (o *Object[T]) Save(ctx context.Context, v T) error {
	next, err := toDocument(v)
	if err != nil {
		return &StorageWriteError{Path: o.file.Path(), Err: err}
	}
	return o.file.Update(ctx, func(doc Document) error {
		for k, raw := range next {
			doc[k] = raw
		}
		return nil
	})
}

func toDocument(v any) (Document, error) {
	obj, err := toObject(v)
	if err != nil {
		return nil, err
	}
	return Document(obj), nil
}
