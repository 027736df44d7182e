package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/bmark/internal/model"
)

func mustBookmark(t *testing.T, rawURL string) model.Bookmark {
	t.Helper()
	b, err := model.NewBookmark(rawURL, time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))
	assert.NilError(t, err)
	return b
}

func TestNewBookmark_StampsUTC(t *testing.T) {
	berlin := time.FixedZone("CET", 60*60)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, berlin)

	b, err := model.NewBookmark("https://rust-lang.org", now)
	assert.NilError(t, err)

	assert.Equal(t, b.CreatedAt.Location(), time.UTC)
	assert.Assert(t, b.CreatedAt.Equal(now))
	assert.Equal(t, b.URL, "https://rust-lang.org")
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{name: "https", url: "https://example.com/a", valid: true},
		{name: "file", url: "file:///home/me/notes.txt", valid: true},
		{name: "custom scheme", url: "mastodon://social.example/@me", valid: true},
		{name: "empty", url: "", valid: false},
		{name: "no scheme", url: "rust-lang.org", valid: false},
		{name: "relative path", url: "/docs/index.html", valid: false},
		{name: "unparseable", url: "http://[::1", valid: false},
		{name: "mailto", url: "mailto:me@example.com", valid: true},
		{name: "ftp", url: "ftp://ftp.example.org/pub", valid: true},
		{name: "https no host", url: "https://", valid: false},
		{name: "http opaque", url: "http:", valid: false},
		{name: "https empty host with path", url: "https:///path", valid: false},
		{name: "wss no host", url: "wss:///socket", valid: false},
		{name: "uppercase scheme no host", url: "HTTPS://", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateURL(tt.url)
			if tt.valid {
				assert.NilError(t, err)
				return
			}
			assert.ErrorIs(t, err, model.ErrInvalidURL)
		})
	}
}

func TestBookmark_JSONFieldNames(t *testing.T) {
	b := mustBookmark(t, "https://example.com")

	data, err := json.Marshal(b)
	assert.NilError(t, err)

	assert.Equal(t, string(data), `{"timestamp":"2025-01-15T10:30:00Z","url":"https://example.com"}`)
}

func TestNewStore_Empty(t *testing.T) {
	store := model.NewStore()

	assert.Equal(t, store.SchemaVersion, model.CurrentSchemaVersion)
	assert.Equal(t, store.Len(), 0)
	assert.Equal(t, store.LoadedVersion(), model.CurrentSchemaVersion)
	assert.Assert(t, !store.Upgraded())
}

func TestStore_PutGet(t *testing.T) {
	store := model.NewStore()
	b := mustBookmark(t, "https://rust-lang.org")

	assert.NilError(t, store.Put("rust-lang", b))

	got, ok := store.Get("rust-lang")
	assert.Assert(t, ok)
	assert.DeepEqual(t, got, b)

	_, ok = store.Get("Rust-Lang")
	assert.Assert(t, !ok, "titles are case-sensitive")
}

func TestStore_PutOverwrites(t *testing.T) {
	store := model.NewStore()
	assert.NilError(t, store.Put("docs", mustBookmark(t, "https://old.example.com")))
	assert.NilError(t, store.Put("docs", mustBookmark(t, "https://new.example.com")))

	assert.Equal(t, store.Len(), 1)
	got, _ := store.Get("docs")
	assert.Equal(t, got.URL, "https://new.example.com")
}

func TestStore_PutRejectsInvalid(t *testing.T) {
	store := model.NewStore()

	err := store.Put("bad", model.Bookmark{URL: "not a url"})
	assert.ErrorIs(t, err, model.ErrInvalidURL)

	err = store.Put("", mustBookmark(t, "https://example.com"))
	assert.ErrorIs(t, err, model.ErrEmptyTitle)

	assert.Equal(t, store.Len(), 0, "rejected writes must not reach the table")
}

func TestStore_PutOnZeroValueStore(t *testing.T) {
	var store model.Store
	assert.NilError(t, store.Put("a", mustBookmark(t, "https://a.example")))
	assert.Equal(t, store.Len(), 1)
}

func TestStore_Remove(t *testing.T) {
	store := model.NewStore()
	assert.NilError(t, store.Put("a", mustBookmark(t, "https://a.example")))

	assert.Assert(t, store.Remove("a"))
	assert.Assert(t, !store.Remove("a"), "second delete reports absence")
	assert.Equal(t, store.Len(), 0)
}

func TestStore_ListSortedByTitle(t *testing.T) {
	store := model.NewStore()
	for _, title := range []string{"zig", "Go", "rust", "ada"} {
		assert.NilError(t, store.Put(title, mustBookmark(t, "https://"+title+".example")))
	}

	var titles []string
	for _, e := range store.List() {
		titles = append(titles, e.Title)
	}

	assert.DeepEqual(t, titles, []string{"Go", "ada", "rust", "zig"})
	assert.DeepEqual(t, store.Titles(), titles)
}

func TestStore_Count(t *testing.T) {
	store := model.NewStore()
	assert.NilError(t, store.Put("Example A", mustBookmark(t, "https://example.com/a")))
	assert.NilError(t, store.Put("Other B", mustBookmark(t, "https://other.com/b")))
	assert.NilError(t, store.Put("local notes", mustBookmark(t, "file:///home/me/notes.txt")))
	assert.NilError(t, store.Put("ported", mustBookmark(t, "http://EXAMPLE.com:8080/x")))

	tests := []struct {
		name   string
		filter model.Filter
		want   int
	}{
		{name: "all", filter: model.MatchAll(), want: 4},
		{name: "domain", filter: model.Domain("example.com"), want: 2},
		{name: "domain case-insensitive", filter: model.Domain("Other.COM"), want: 1},
		{name: "domain no match", filter: model.Domain("example.org"), want: 0},
		{name: "contains title", filter: model.Contains("NOTES"), want: 1},
		{name: "contains url", filter: model.Contains("other.com"), want: 1},
		{name: "scheme https", filter: model.Scheme("https"), want: 2},
		{name: "scheme with colon", filter: model.Scheme("file:"), want: 1},
		{name: "unknown kind", filter: model.Filter{Kind: model.FilterKind(99)}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, store.Count(tt.filter), tt.want)
		})
	}

	assert.Equal(t, store.Count(model.MatchAll()), len(store.List()))
}

func TestStore_CountDomainExample(t *testing.T) {
	store := model.NewStore()
	assert.NilError(t, store.Put("a", mustBookmark(t, "https://example.com/a")))
	assert.NilError(t, store.Put("b", mustBookmark(t, "https://other.com/b")))

	assert.Equal(t, store.Count(model.Domain("example.com")), 1)
}

func TestFilter_DomainNormalized(t *testing.T) {
	store := model.NewStore()
	assert.NilError(t, store.Put("ported", mustBookmark(t, "http://example.com:8080/x")))
	assert.NilError(t, store.Put("plain", mustBookmark(t, "https://example.com/")))
	assert.NilError(t, store.Put("mail", mustBookmark(t, "mailto:me@example.com")))
	assert.NilError(t, store.Put("notes", mustBookmark(t, "file:///home/me/notes.txt")))

	tests := []struct {
		domain string
		want   int
	}{
		{domain: "example.com:8080", want: 2},
		{domain: "https://Example.com/path", want: 2},
		{domain: "example.com.", want: 2},
		{domain: "", want: 0},
		{domain: "   ", want: 0},
		{domain: ":8080", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, store.Count(model.Domain(tt.domain)), tt.want)
		})
	}
}

func TestStore_MarkLoaded(t *testing.T) {
	store := model.NewStore()
	store.MarkLoaded(model.CurrentSchemaVersion - 1)

	assert.Assert(t, store.Upgraded())
	assert.Equal(t, store.LoadedVersion(), model.CurrentSchemaVersion-1)
	assert.Equal(t, store.SchemaVersion, model.CurrentSchemaVersion)
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, model.MatchAll().String(), "all")
	assert.Assert(t, is.Contains(model.Domain("example.com").String(), "example.com"))
}
