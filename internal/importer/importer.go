package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

// ErrUnknownFormat is returned for files that are neither HTML nor YAML.
var ErrUnknownFormat = errors.New("unknown import format")

// Result summarizes a merge into the store.
type Result struct {
	Added   []string
	Skipped []string // title already present
	Invalid []string // rejected by validation
}

// ParseFile picks the parser from the file extension.
func ParseFile(path string, now time.Time) ([]model.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ParseHTML(f, now)
	case ".yaml", ".yml":
		return ParseHomepageYAML(f, now)
	default:
		return nil, fmt.Errorf("%w: %s (want .html or .yaml)", ErrUnknownFormat, path)
	}
}

// Merge adds entries whose titles are not yet stored. Existing bookmarks are
// never overwritten, and the first occurrence of a repeated title wins.
func Merge(store *model.Store, entries []model.Entry) Result {
	var res Result
	for _, e := range entries {
		if _, exists := store.Get(e.Title); exists {
			res.Skipped = append(res.Skipped, e.Title)
			continue
		}
		if err := store.Put(e.Title, e.Bookmark); err != nil {
			res.Invalid = append(res.Invalid, e.Title)
			continue
		}
		res.Added = append(res.Added, e.Title)
	}
	return res
}
