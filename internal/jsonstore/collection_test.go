package jsonstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore/jsonstoretest"
)

type widget struct {
	jsonstore.Meta
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags,omitempty"`
}

// steppingClock advances one second on every call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openDB(t *testing.T, opts ...jsonstore.Option) (*jsonstore.DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := jsonstore.Open(dir, append([]jsonstore.Option{jsonstore.WithClock(steppingClock())}, opts...)...)
	require.NoError(t, err)
	return db, dir
}

func TestFindAll_MissingFileBootstrapsEmptyCollection(t *testing.T) {
	db, dir := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")

	all, err := widgets.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)

	raw, err := os.ReadFile(filepath.Join(dir, "widgets.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"widgets": []}`, string(raw))
}

func TestFindAll_CorruptFileIsReadError(t *testing.T) {
	db, dir := openDB(t)
	require.NoError(t, jsonstoretest.WriteRaw(dir, "widgets", `{"widgets": [`))
	widgets := jsonstore.NewCollection[widget](db, "widgets")

	_, err := widgets.FindAll(context.Background())
	var rerr *jsonstore.StorageReadError
	require.ErrorAs(t, err, &rerr)

	raw, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	assert.Equal(t, `{"widgets": [`, string(raw), "corrupt file must not be reset")
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	created, err := widgets.Create(ctx, widget{Meta: jsonstore.Meta{ID: "caller-id"}, Name: "bolt", Price: 2.5})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "caller-id", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	found, ok, err := widgets.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created, found)
	assert.Equal(t, "bolt", found.Name)
}

func TestCreate_PreservesInsertionOrder(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		_, err := widgets.Create(ctx, widget{Name: name})
		require.NoError(t, err)
	}
	all, err := widgets.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestFindByID_Absent(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")

	_, ok, err := widgets.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate_EmptyPatchOnlyBumpsUpdatedAt(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	created, err := widgets.Create(ctx, widget{Name: "nut", Price: 1, Tags: []string{"m4"}})
	require.NoError(t, err)

	updated, ok, err := widgets.Update(ctx, created.ID, jsonstore.Patch{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	updated.UpdatedAt = created.UpdatedAt
	assert.Equal(t, created, updated)
}

func TestUpdate_MergesAndKeepsImmutableFields(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	created, err := widgets.Create(ctx, widget{Name: "nut", Price: 1})
	require.NoError(t, err)

	patch := jsonstore.Patch{
		"price":     json.RawMessage(`9.75`),
		"id":        json.RawMessage(`"hijack"`),
		"createdAt": json.RawMessage(`"1999-01-01T00:00:00Z"`),
	}
	updated, ok, err := widgets.Update(ctx, created.ID, patch)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "nut", updated.Name)
	assert.Equal(t, 9.75, updated.Price)

	stored, _, err := widgets.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdate_AbsentIDLeavesFileUntouched(t *testing.T) {
	db, dir := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()
	_, err := widgets.Create(ctx, widget{Name: "a"})
	require.NoError(t, err)
	before, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)

	_, ok, err := widgets.Update(ctx, "missing", jsonstore.Patch{"name": json.RawMessage(`"x"`)})
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestModify_ErrorAbortsWrite(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()
	created, err := widgets.Create(ctx, widget{Name: "a", Price: 3})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, _, err = widgets.Modify(ctx, created.ID, func(w *widget) error {
		w.Price = 100
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, _, err := widgets.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.Price)

	modified, ok, err := widgets.Modify(ctx, created.ID, func(w *widget) error {
		w.Price = 4
		w.ID = "hijack"
		return nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, modified.ID)
	assert.Equal(t, 4.0, modified.Price)
}

func TestDelete(t *testing.T) {
	db, dir := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	a, err := widgets.Create(ctx, widget{Name: "a"})
	require.NoError(t, err)
	_, err = widgets.Create(ctx, widget{Name: "b"})
	require.NoError(t, err)

	before, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	ok, err := widgets.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	after, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	ok, err = widgets.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := widgets.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, found)

	n, err := widgets.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreate_WriteFailureIsStorageWriteError(t *testing.T) {
	failing := jsonstoretest.NewFailingFS()
	db, _ := openDB(t, jsonstore.WithFilesystem(failing))
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	_, err := widgets.FindAll(ctx)
	require.NoError(t, err)

	failing.Fail("widgets")
	_, err = widgets.Create(ctx, widget{Name: "a"})
	var werr *jsonstore.StorageWriteError
	require.ErrorAs(t, err, &werr)
	assert.ErrorIs(t, err, jsonstoretest.ErrInjected)
	assert.True(t, jsonstore.IsStorageError(err))

	failing.Heal("widgets")
	n, err := widgets.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNestedCollection_SharesFileAndPreservesSiblings(t *testing.T) {
	db, dir := openDB(t)
	type entry struct {
		jsonstore.Meta
		Note string `json:"note"`
	}
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	history := jsonstore.NewNestedCollection[entry](db, "widgets", "history")
	ctx := context.Background()

	w, err := widgets.Create(ctx, widget{Name: "a"})
	require.NoError(t, err)
	_, err = history.Create(ctx, entry{Note: "created " + w.ID})
	require.NoError(t, err)
	_, _, err = widgets.Update(ctx, w.ID, jsonstore.Patch{"name": json.RawMessage(`"b"`)})
	require.NoError(t, err)

	assert.Same(t, widgets.File(), history.File())

	raw, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc["widgets"], 1)
	assert.Len(t, doc["history"], 1)
}

func TestModify_KeepsUnknownFields(t *testing.T) {
	db, dir := openDB(t)
	require.NoError(t, jsonstoretest.WriteRaw(dir, "widgets",
		`{"widgets":[{"id":"w1","name":"old","price":1,"legacyCode":"X9","createdAt":"2023-01-01T00:00:00Z","updatedAt":"2023-01-01T00:00:00Z"}]}`))
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	_, ok, err := widgets.Modify(ctx, "w1", func(w *widget) error {
		w.Name, w.Price = "new", 2
		return nil
	})
	require.NoError(t, err)
	require.True(t, ok)

	raw, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	var doc struct {
		Widgets []map[string]any `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Widgets, 1)
	assert.Equal(t, "X9", doc.Widgets[0]["legacyCode"])
	assert.Equal(t, "new", doc.Widgets[0]["name"])
	assert.Equal(t, "w1", doc.Widgets[0]["id"])
	assert.Equal(t, "2023-01-01T00:00:00Z", doc.Widgets[0]["createdAt"])
}

func TestModify_ClearsOmittedField(t *testing.T) {
	db, dir := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	w, err := widgets.Create(ctx, widget{Name: "a", Price: 1, Tags: []string{"red"}})
	require.NoError(t, err)

	updated, ok, err := widgets.Modify(ctx, w.ID, func(w *widget) error {
		w.Tags = nil
		return nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, updated.Tags)

	stored, _, err := widgets.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Tags)

	raw, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "red")
}

func TestModifyWhere_ClearsOmittedField(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	w, err := widgets.Create(ctx, widget{Name: "a", Tags: []string{"red"}})
	require.NoError(t, err)

	n, err := widgets.ModifyWhere(ctx,
		func(w widget) bool { return len(w.Tags) > 0 },
		func(w *widget) error {
			w.Tags = nil
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, _, err := widgets.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Tags)
}

func TestUpdate_UpdatedAtNeverGoesBackwards(t *testing.T) {
	frozen := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	db, dir := openDB(t, jsonstore.WithClock(func() time.Time { return frozen }))
	require.NoError(t, jsonstoretest.WriteRaw(dir, "widgets",
		`{"widgets":[{"id":"w1","name":"a","price":1,"createdAt":"2023-01-01T00:00:00Z","updatedAt":"2023-06-01T00:00:00Z"}]}`))
	widgets := jsonstore.NewCollection[widget](db, "widgets")

	updated, ok, err := widgets.Update(context.Background(), "w1", jsonstore.Patch{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), updated.UpdatedAt)
}

func TestDB_FileIsSingleOwner(t *testing.T) {
	db, _ := openDB(t)
	assert.Same(t, db.File("widgets"), db.File("widgets"))
	assert.Equal(t, []string{"widgets"}, db.Names())
}

func TestModifyWhere_SingleWriteForMatches(t *testing.T) {
	db, dir := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()

	for _, p := range []float64{1, 5, 10} {
		_, err := widgets.Create(ctx, widget{Name: "w", Price: p})
		require.NoError(t, err)
	}

	n, err := widgets.ModifyWhere(ctx, func(w widget) bool { return w.Price >= 5 }, func(w *widget) error {
		w.Price *= 2
		w.ID = "hijacked"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := widgets.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 10, 20}, []float64{all[0].Price, all[1].Price, all[2].Price})
	for _, w := range all {
		assert.NotEqual(t, "hijacked", w.ID)
	}
	assert.True(t, all[1].UpdatedAt.After(all[1].CreatedAt))
	assert.Equal(t, all[0].CreatedAt, all[0].UpdatedAt)

	before, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	n, err = widgets.ModifyWhere(ctx, func(widget) bool { return false }, func(*widget) error { return nil })
	require.NoError(t, err)
	assert.Zero(t, n)
	after, err := jsonstoretest.ReadRaw(dir, "widgets")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestModifyWhere_ErrorAbortsWholeBatch(t *testing.T) {
	db, _ := openDB(t)
	widgets := jsonstore.NewCollection[widget](db, "widgets")
	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		_, err := widgets.Create(ctx, widget{Name: name, Price: 1})
		require.NoError(t, err)
	}

	boom := errors.New("boom")
	_, err := widgets.ModifyWhere(ctx, func(widget) bool { return true }, func(w *widget) error {
		if w.Name == "b" {
			return boom
		}
		w.Price = 99
		return nil
	})
	require.ErrorIs(t, err, boom)

	all, err := widgets.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, all[0].Price)
}
