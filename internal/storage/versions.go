package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

// Each schema version bm has ever written gets its own document type and a
// case in decodeDocument. Older documents are upgraded one version at a time
// until they reach the current shape.

// documentV0 is the shape written while the schema was still unstable.
// Timestamps were optional.
type documentV0 struct {
	SchemaVersion int                   `json:"schema_version"`
	Bookmarks     map[string]bookmarkV0 `json:"bookmarks"`
}

type bookmarkV0 struct {
	Timestamp *time.Time `json:"timestamp"`
	URL       string     `json:"url"`
}

// upgrade converts a v0 document to v1. Missing timestamps become the Unix
// epoch so the record keeps a valid created_at.
func (d documentV0) upgrade() documentV1 {
	next := documentV1{
		SchemaVersion: 1,
		Bookmarks:     make(map[string]model.Bookmark, len(d.Bookmarks)),
	}
	for title, b := range d.Bookmarks {
		createdAt := time.Unix(0, 0).UTC()
		if b.Timestamp != nil {
			createdAt = b.Timestamp.UTC()
		}
		next.Bookmarks[title] = model.Bookmark{CreatedAt: createdAt, URL: b.URL}
	}
	return next
}

// documentV1 is the current shape.
type documentV1 struct {
	SchemaVersion int                       `json:"schema_version"`
	Bookmarks     map[string]model.Bookmark `json:"bookmarks"`
}

func (d documentV1) store() (*model.Store, error) {
	store := model.NewStore()
	for title, b := range d.Bookmarks {
		if b.CreatedAt.IsZero() {
			return nil, fmt.Errorf("bookmark %q: missing timestamp", title)
		}
		if err := store.Put(title, b); err != nil {
			return nil, fmt.Errorf("bookmark %q: %w", title, err)
		}
	}
	return store, nil
}

// decodeDocument fully decodes data using the reader for version and returns
// the store in the current shape. data must already be standard JSON.
func decodeDocument(version int, data []byte) (*model.Store, error) {
	var current documentV1

	switch version {
	case 0:
		var doc documentV0
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		current = doc.upgrade()
	case 1:
		if err := json.Unmarshal(data, &current); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no reader for schema version %d", version)
	}

	store, err := current.store()
	if err != nil {
		return nil, err
	}
	store.MarkLoaded(version)
	return store, nil
}
