package model

import (
	"sort"
)

// CurrentSchemaVersion is the shape new documents are written in.
// Bump it together with a new reader in internal/storage whenever the
// on-disk shape changes.
const CurrentSchemaVersion = 1

// Store holds all bookmarks keyed by title, plus the schema version
// they will be written with on the next save.
type Store struct {
	SchemaVersion int                 `json:"schema_version"`
	Bookmarks     map[string]Bookmark `json:"bookmarks"`

	loadedVersion int
}

// Entry is a title and its bookmark, as returned by List.
type Entry struct {
	Title    string
	Bookmark Bookmark
}

// NewStore creates an empty Store at the current schema version.
func NewStore() *Store {
	return &Store{
		SchemaVersion: CurrentSchemaVersion,
		Bookmarks:     map[string]Bookmark{},
		loadedVersion: CurrentSchemaVersion,
	}
}

// MarkLoaded records the schema version the store was read from.
// The store itself is always held in the current shape.
func (s *Store) MarkLoaded(version int) {
	s.loadedVersion = version
	s.SchemaVersion = CurrentSchemaVersion
}

// LoadedVersion returns the schema version found on disk when the store was loaded.
func (s *Store) LoadedVersion() int {
	return s.loadedVersion
}

// Upgraded reports whether the store was read from an older schema version
// and will be rewritten at the current version on the next save.
func (s *Store) Upgraded() bool {
	return s.loadedVersion < CurrentSchemaVersion
}

// Get returns the bookmark stored under title.
func (s *Store) Get(title string) (Bookmark, bool) {
	b, ok := s.Bookmarks[title]
	return b, ok
}

// Put inserts or overwrites the bookmark stored under title.
// The URL is validated before the table is touched.
func (s *Store) Put(title string, b Bookmark) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if err := ValidateURL(b.URL); err != nil {
		return err
	}

	if s.Bookmarks == nil {
		s.Bookmarks = map[string]Bookmark{}
	}
	b.CreatedAt = b.CreatedAt.UTC()
	s.Bookmarks[title] = b
	return nil
}

// Remove deletes the bookmark stored under title.
// Returns false if there was nothing to delete.
func (s *Store) Remove(title string) bool {
	if _, ok := s.Bookmarks[title]; !ok {
		return false
	}
	delete(s.Bookmarks, title)
	return true
}

// Titles returns all titles in sorted order.
func (s *Store) Titles() []string {
	titles := make([]string, 0, len(s.Bookmarks))
	for title := range s.Bookmarks {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// List returns all bookmarks sorted by title.
func (s *Store) List() []Entry {
	titles := s.Titles()
	entries := make([]Entry, len(titles))
	for i, title := range titles {
		entries[i] = Entry{Title: title, Bookmark: s.Bookmarks[title]}
	}
	return entries
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.Bookmarks)
}

// Count returns the number of bookmarks matching f.
func (s *Store) Count(f Filter) int {
	n := 0
	for title, b := range s.Bookmarks {
		if f.Match(title, b) {
			n++
		}
	}
	return n
}
