package importer

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/bmark/internal/model"
)

// homepageEntry is a single bookmark entry in a Homepage bookmarks.yaml.
type homepageEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// homepageCategory is - CategoryName: [ - BookmarkName: [ {icon, abbr, href} ] ]
type homepageCategory map[string][]map[string][]homepageEntry

// homepageConfig is the root structure for bookmarks.yaml.
type homepageConfig []homepageCategory

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// ParseHomepageYAML parses a Homepage dashboard bookmarks.yaml. The bookmark
// name is the title; template variables ({{HOMEPAGE_VAR_...}}) are blanked.
func ParseHomepageYAML(r io.Reader, now time.Time) ([]model.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks yaml: %w", err)
	}
	data = templateVar.ReplaceAll(data, []byte(`""`))

	var config homepageConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}

	var entries []model.Entry
	for _, category := range config {
		for _, bookmarkList := range category {
			for _, bookmarkMap := range bookmarkList {
				for name, entryList := range bookmarkMap {
					if len(entryList) == 0 || entryList[0].Href == "" {
						continue
					}
					entries = append(entries, model.Entry{
						Title:    name,
						Bookmark: model.Bookmark{CreatedAt: now.UTC(), URL: entryList[0].Href},
					})
				}
			}
		}
	}

	return entries, nil
}
