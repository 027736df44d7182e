package importer_test

import (
	"strings"
	"testing"

	"github.com/nikbrunner/bmark/internal/importer"
)

func TestParseHomepageYAML(t *testing.T) {
	yaml := `
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Private:
        - abbr: PV
          href: https://{{HOMEPAGE_VAR_HOST}}/
- Social:
    - Reddit:
        - icon: reddit.png
          href: https://reddit.com/
    - Empty:
        - abbr: EM
`

	entries, err := importer.ParseHomepageYAML(strings.NewReader(yaml), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[string]string{}
	for _, e := range entries {
		got[e.Title] = e.Bookmark.URL
		if !e.Bookmark.CreatedAt.Equal(now) {
			t.Errorf("%s: expected import time, got %v", e.Title, e.Bookmark.CreatedAt)
		}
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(got), got)
	}
	if got["Github"] != "https://github.com/" {
		t.Errorf("unexpected Github URL %q", got["Github"])
	}
	if got["Reddit"] != "https://reddit.com/" {
		t.Errorf("unexpected Reddit URL %q", got["Reddit"])
	}
	if _, ok := got["Empty"]; ok {
		t.Error("expected entry without href to be skipped")
	}
}

func TestParseHomepageYAML_Invalid(t *testing.T) {
	_, err := importer.ParseHomepageYAML(strings.NewReader("bookmarks: {not: [a list"), now)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse bookmarks yaml") {
		t.Errorf("unexpected error: %v", err)
	}
}
