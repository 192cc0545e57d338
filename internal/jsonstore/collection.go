package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	fieldID        = "id"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

// errSkipWrite aborts a File.Update without writing and without failing the caller.
var errSkipWrite = errors.New("skip write")

// Meta carries the store-assigned fields. Entity types embed it.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch is a partial record: top-level JSON fields to overwrite.
type Patch map[string]json.RawMessage

// Set marshals v under field.
func (p Patch) Set(field string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("patch field %s: %w", field, err)
	}
	p[field] = raw
	return nil
}

// Collection is a typed view over the array stored under one key of a File.
type Collection[T any] struct {
	db   *DB
	file *File
	key  string
}

// NewCollection returns the collection stored in <name>.json under the key name.
func NewCollection[T any](db *DB, name string) *Collection[T] {
	return &Collection[T]{db: db, file: db.File(name), key: name}
}

// NewNestedCollection returns a secondary collection stored under key inside the file
// owned by the primary collection fileName.
func NewNestedCollection[T any](db *DB, fileName, key string) *Collection[T] {
	return &Collection[T]{db: db, file: db.File(fileName), key: key}
}

// Name is the collection key.
func (c *Collection[T]) Name() string { return c.key }

// File returns the backing file.
func (c *Collection[T]) File() *File { return c.file }

// FindAll returns every record in insertion order.
func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	doc, err := c.file.Read(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := c.records(doc)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, raw := range recs {
		v, err := c.decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Filter returns the records for which keep returns true.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	all, err := c.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Count returns the number of records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	doc, err := c.file.Read(ctx)
	if err != nil {
		return 0, err
	}
	recs, err := c.records(doc)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// FindByID returns the first record whose id matches. The bool is false when none does.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	doc, err := c.file.Read(ctx)
	if err != nil {
		return zero, false, err
	}
	recs, err := c.records(doc)
	if err != nil {
		return zero, false, err
	}
	i, err := c.indexOf(recs, id)
	if err != nil || i < 0 {
		return zero, false, err
	}
	v, err := c.decode(recs[i])
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Create stores rec with a fresh id and createdAt = updatedAt = now.
// Any id or timestamps already set on rec are replaced.
func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T
	err := c.file.Update(ctx, func(doc Document) error {
		recs, err := c.records(doc)
		if err != nil {
			return err
		}
		obj, err := toObject(rec)
		if err != nil {
			return err
		}
		id := c.db.newID()
		if i, err := c.indexOf(recs, id); err != nil {
			return err
		} else if i >= 0 {
			return fmt.Errorf("%s id %s: %w", c.key, id, ErrDuplicate)
		}
		now := c.db.timestamp()
		if err := setField(obj, fieldID, id); err != nil {
			return err
		}
		if err := setField(obj, fieldCreatedAt, now); err != nil {
			return err
		}
		if err := setField(obj, fieldUpdatedAt, now); err != nil {
			return err
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		if created, err = c.decode(raw); err != nil {
			return err
		}
		return doc.setRecords(c.key, append(recs, raw))
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update shallow-merges patch onto the record with the given id.
// id and createdAt are never changed; updatedAt is always refreshed.
// The bool is false, and nothing is written, when the id is absent.
func (c *Collection[T]) Update(ctx context.Context, id string, patch Patch) (T, bool, error) {
	return c.mutate(ctx, id, func(obj map[string]json.RawMessage) error {
		for k, v := range patch {
			obj[k] = v
		}
		return nil
	})
}

// Modify decodes the record, lets fn change it and stores the result.
// An error from fn aborts the write and is returned as is. A field fn sets back to
// its zero value is cleared even when T omits it from JSON. Keys T does not know
// about are kept.
func (c *Collection[T]) Modify(ctx context.Context, id string, fn func(rec *T) error) (T, bool, error) {
	return c.mutate(ctx, id, func(obj map[string]json.RawMessage) error {
		return c.modifyObject(obj, fn)
	})
}

// modifyObject runs fn on the decoded form of obj and writes the result back into obj.
// Keys T encoded before fn but not after are removed.
func (c *Collection[T]) modifyObject(obj map[string]json.RawMessage, fn func(rec *T) error) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	rec, err := c.decode(raw)
	if err != nil {
		return err
	}
	before, err := toObject(rec)
	if err != nil {
		return err
	}
	if err := fn(&rec); err != nil {
		return err
	}
	next, err := toObject(rec)
	if err != nil {
		return err
	}
	for k := range before {
		if _, ok := next[k]; !ok {
			delete(obj, k)
		}
	}
	for k, v := range next {
		obj[k] = v
	}
	return nil
}

// Delete removes the record with the given id. The bool is false, and nothing
// is written, when the id is absent.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := c.file.Update(ctx, func(doc Document) error {
		recs, err := c.records(doc)
		if err != nil {
			return err
		}
		i, err := c.indexOf(recs, id)
		if err != nil {
			return err
		}
		if i < 0 {
			return errSkipWrite
		}
		found = true
		recs = append(recs[:i:i], recs[i+1:]...)
		return doc.setRecords(c.key, recs)
	})
	if errors.Is(err, errSkipWrite) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return found, nil
}

func (c *Collection[T]) mutate(ctx context.Context, id string, apply func(obj map[string]json.RawMessage) error) (T, bool, error) {
	var zero, updated T
	err := c.file.Update(ctx, func(doc Document) error {
		recs, err := c.records(doc)
		if err != nil {
			return err
		}
		i, err := c.indexOf(recs, id)
		if err != nil {
			return err
		}
		if i < 0 {
			return errSkipWrite
		}
		if recs[i], updated, err = c.rewrite(recs[i], apply); err != nil {
			return err
		}
		return doc.setRecords(c.key, recs)
	})
	if errors.Is(err, errSkipWrite) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return updated, true, nil
}

// ModifyWhere applies fn to every record for which match returns true, in a single write.
// It returns the number of records changed; nothing is written when none match.
func (c *Collection[T]) ModifyWhere(ctx context.Context, match func(T) bool, fn func(rec *T) error) (int, error) {
	n := 0
	err := c.file.Update(ctx, func(doc Document) error {
		recs, err := c.records(doc)
		if err != nil {
			return err
		}
		for i, raw := range recs {
			rec, err := c.decode(raw)
			if err != nil {
				return err
			}
			if !match(rec) {
				continue
			}
			recs[i], _, err = c.rewrite(raw, func(obj map[string]json.RawMessage) error {
				return c.modifyObject(obj, fn)
			})
			if err != nil {
				return err
			}
			n++
		}
		if n == 0 {
			return errSkipWrite
		}
		return doc.setRecords(c.key, recs)
	})
	if errors.Is(err, errSkipWrite) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// rewrite applies apply to the JSON object of one record, restoring id and createdAt
// and refreshing updatedAt.
func (c *Collection[T]) rewrite(raw json.RawMessage, apply func(obj map[string]json.RawMessage) error) (json.RawMessage, T, error) {
	var zero T
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, zero, c.readErr(err)
	}
	keepID, keepCreated, prevUpdated := obj[fieldID], obj[fieldCreatedAt], obj[fieldUpdatedAt]

	if err := apply(obj); err != nil {
		return nil, zero, err
	}

	obj[fieldID] = keepID
	if keepCreated != nil {
		obj[fieldCreatedAt] = keepCreated
	} else {
		delete(obj, fieldCreatedAt)
	}
	if err := setField(obj, fieldUpdatedAt, c.nextStamp(prevUpdated)); err != nil {
		return nil, zero, err
	}
	next, err := json.Marshal(obj)
	if err != nil {
		return nil, zero, err
	}
	rec, err := c.decode(next)
	if err != nil {
		return nil, zero, fmt.Errorf("%s %s: %w", c.key, keepID, err)
	}
	return next, rec, nil
}

// nextStamp returns now, or the previous updatedAt if the clock went backwards.
func (c *Collection[T]) nextStamp(prev json.RawMessage) time.Time {
	now := c.db.timestamp()
	var last time.Time
	if prev != nil && json.Unmarshal(prev, &last) == nil && now.Before(last) {
		return last
	}
	return now
}

func (c *Collection[T]) records(doc Document) ([]json.RawMessage, error) {
	recs, err := doc.records(c.key)
	if err != nil {
		return nil, c.readErr(fmt.Errorf("collection %q: %w", c.key, err))
	}
	return recs, nil
}

func (c *Collection[T]) indexOf(recs []json.RawMessage, id string) (int, error) {
	for i, raw := range recs {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return -1, c.readErr(err)
		}
		if probe.ID == id {
			return i, nil
		}
	}
	return -1, nil
}

func (c *Collection[T]) decode(raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, c.readErr(err)
	}
	return v, nil
}

func (c *Collection[T]) readErr(err error) error {
	return &StorageReadError{Path: c.file.Path(), Err: err}
}

func toObject(v any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("record must encode as a JSON object: %w", err)
	}
	return obj, nil
}

func setField(obj map[string]json.RawMessage, field string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	obj[field] = raw
	return nil
}
