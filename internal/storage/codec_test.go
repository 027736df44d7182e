package storage_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/storage"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	base := time.Date(2024, 11, 2, 8, 15, 30, 123456789, time.UTC)

	tables := map[string]map[string]model.Bookmark{
		"empty": {},
		"single": {
			"rust-lang": {CreatedAt: base, URL: "https://rust-lang.org"},
		},
		"mixed keys and schemes": {
			"Go":           {CreatedAt: base, URL: "https://go.dev/doc/"},
			"go":           {CreatedAt: base.Add(time.Hour), URL: "https://pkg.go.dev/?q=a&b=c"},
			"notes":        {CreatedAt: base.Add(-48 * time.Hour), URL: "file:///home/me/notes.txt"},
			"toot":         {CreatedAt: base.Add(time.Nanosecond), URL: "mastodon://social.example/@me"},
			"unicode 🔖":    {CreatedAt: base, URL: "https://例え.jp/パス"},
			"with \"quote": {CreatedAt: base, URL: "https://example.com/#frag"},
		},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			store := model.NewStore()
			for title, b := range table {
				assert.NilError(t, store.Put(title, b))
			}

			data, err := storage.Encode(store)
			assert.NilError(t, err)

			got, err := storage.Decode(data)
			assert.NilError(t, err)

			assert.DeepEqual(t, got.Bookmarks, store.Bookmarks)
			assert.Equal(t, got.SchemaVersion, storage.SchemaVersion)

			s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "bm.json"))
			assert.NilError(t, s.Save(store))
			loaded, err := s.Load()
			assert.NilError(t, err)
			assert.DeepEqual(t, loaded.Bookmarks, store.Bookmarks)
		})
	}
}

func TestEncode_Format(t *testing.T) {
	store := model.NewStore()
	assert.NilError(t, store.Put("b", model.Bookmark{
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		URL:       "https://b.example",
	}))
	assert.NilError(t, store.Put("a", model.Bookmark{
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		URL:       "https://a.example",
	}))

	data, err := storage.Encode(store)
	assert.NilError(t, err)

	want := `{
  "schema_version": 1,
  "bookmarks": {
    "a": {
      "timestamp": "2025-01-02T03:04:05Z",
      "url": "https://a.example"
    },
    "b": {
      "timestamp": "2025-01-02T03:04:05Z",
      "url": "https://b.example"
    }
  }
}
`
	assert.Equal(t, string(data), want)
}

func TestEncode_AlwaysCurrentVersion(t *testing.T) {
	store := model.NewStore()
	store.MarkLoaded(0)
	store.SchemaVersion = 0

	data, err := storage.Encode(store)
	assert.NilError(t, err)

	version, err := storage.ProbeVersion(data)
	assert.NilError(t, err)
	assert.Equal(t, version, storage.SchemaVersion)
}

func TestEncode_NilTable(t *testing.T) {
	data, err := storage.Encode(&model.Store{})
	assert.NilError(t, err)

	var raw map[string]any
	assert.NilError(t, json.Unmarshal(data, &raw))
	assert.DeepEqual(t, raw["bookmarks"], map[string]any{})
}

func TestDecode_Older(t *testing.T) {
	data := `{
  "schema_version": 0,
  "bookmarks": {
    "rust-lang": {"timestamp": "2023-05-01T10:00:00Z", "url": "https://rust-lang.org"},
    "undated": {"url": "https://example.com"}
  }
}`

	store, err := storage.Decode([]byte(data))
	assert.NilError(t, err)

	assert.Assert(t, store.Upgraded())
	assert.Equal(t, store.LoadedVersion(), 0)
	assert.Equal(t, store.SchemaVersion, storage.SchemaVersion)

	got, ok := store.Get("rust-lang")
	assert.Assert(t, ok)
	assert.Assert(t, got.CreatedAt.Equal(time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)))

	undated, ok := store.Get("undated")
	assert.Assert(t, ok)
	assert.Assert(t, undated.CreatedAt.Equal(time.Unix(0, 0)))
}

func TestDecode_Newer(t *testing.T) {
	data := fmt.Sprintf(`{"schema_version": %d, "bookmarks": ["a", "totally", "different", "shape"]}`,
		storage.SchemaVersion+1)

	_, err := storage.Decode([]byte(data))
	assert.ErrorIs(t, err, storage.ErrSchemaNewer)

	assert.Assert(t, !errors.Is(err, storage.ErrCorrupt))

	var schemaErr *storage.SchemaError
	assert.Assert(t, errors.As(err, &schemaErr))
	assert.Equal(t, schemaErr.Comparison.By, uint(1))
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bookmarks wrong shape", data: `{"schema_version": 1, "bookmarks": [1, 2]}`},
		{name: "invalid url", data: `{"schema_version": 1, "bookmarks": {"x": {"timestamp": "2025-01-01T00:00:00Z", "url": "nope"}}}`},
		{name: "missing timestamp", data: `{"schema_version": 1, "bookmarks": {"x": {"url": "https://x.example"}}}`},
		{name: "bad timestamp", data: `{"schema_version": 1, "bookmarks": {"x": {"timestamp": "yesterday", "url": "https://x.example"}}}`},
		{name: "v0 invalid url", data: `{"schema_version": 0, "bookmarks": {"x": {"url": "x.example"}}}`},
		{name: "negative version", data: `{"schema_version": -1, "bookmarks": {}}`},
		{name: "no version", data: `{"bookmarks": {}}`},
		{name: "bookmarks is a string", data: `{"schema_version":1,"bookmarks":"oops"}`},
		{name: "empty", data: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.Decode([]byte(tt.data))
			assert.ErrorIs(t, err, storage.ErrMalformed)
			assert.ErrorIs(t, err, storage.ErrCorrupt)

			// Load goes through Decode and only adds the path.
			dir := fs.NewDir(t, "bm", fs.WithFile("bm.json", tt.data))
			_, loadErr := storage.NewJSONStorage(dir.Join("bm.json")).Load()
			assert.ErrorIs(t, loadErr, storage.ErrCorrupt)
			assert.ErrorIs(t, loadErr, storage.ErrMalformed)
			assert.ErrorContains(t, loadErr, dir.Join("bm.json"))
			assert.ErrorContains(t, loadErr, err.Error())
		})
	}
}

func TestDecode_ByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, `{"schema_version": 1, "bookmarks": {
  "go": {"timestamp": "2025-01-01T00:00:00Z", "url": "https://go.dev"},
}}`...)
	original := bytes.Clone(data)

	version, err := storage.ProbeVersion(data)
	assert.NilError(t, err)
	assert.Equal(t, version, 1)

	store, err := storage.Decode(data)
	assert.NilError(t, err)
	assert.Equal(t, store.Len(), 1)
	assert.DeepEqual(t, data, original)
}
