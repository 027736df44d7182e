package storage

import (
	"encoding/json"
	"fmt"

	"github.com/nikbrunner/bmark/internal/model"
)

// Encode serializes the whole store tagged with the current SchemaVersion,
// whatever version it was loaded from.
func Encode(store *model.Store) ([]byte, error) {
	bookmarks := store.Bookmarks
	if bookmarks == nil {
		bookmarks = map[string]model.Bookmark{}
	}

	doc := documentV1{
		SchemaVersion: SchemaVersion,
		Bookmarks:     bookmarks,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a serialized document of any known schema version into a
// store in the current shape. Documents from a newer release are refused
// with a *SchemaError before their payload is looked at; anything that is
// not a bookmark document of a known version matches ErrCorrupt.
func Decode(data []byte) (*model.Store, error) {
	version, err := ProbeVersion(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	cmp := CompareVersions(version, SchemaVersion)
	if cmp.Relation == Newer {
		return nil, &SchemaError{Stored: version, Expected: SchemaVersion, Comparison: cmp}
	}

	standardized, err := standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	store, err := decodeDocument(version, standardized)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: schema version %d: %w", ErrCorrupt, ErrMalformed, version, err)
	}
	return store, nil
}
