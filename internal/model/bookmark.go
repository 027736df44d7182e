package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Bookmark represents a saved URL. The title is the key it is stored under,
// not part of the record.
type Bookmark struct {
	CreatedAt time.Time `json:"timestamp"`
	URL       string    `json:"url"`
}

// NewBookmark validates rawURL and creates a Bookmark stamped with now in UTC.
func NewBookmark(rawURL string, now time.Time) (Bookmark, error) {
	if err := ValidateURL(rawURL); err != nil {
		return Bookmark{}, err
	}

	return Bookmark{
		CreatedAt: now.UTC(),
		URL:       rawURL,
	}, nil
}

// hostSchemes are the schemes whose URLs are meaningless without a host.
var hostSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ws":    true,
	"wss":   true,
}

// ValidateURL reports whether rawURL parses as an absolute URL with a scheme.
// Web schemes also need a host; mailto: and file:/// URLs do not.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if !u.IsAbs() {
		return fmt.Errorf("%w %q: missing scheme (e.g. https://)", ErrInvalidURL, rawURL)
	}

	if hostSchemes[strings.ToLower(u.Scheme)] && u.Host == "" {
		return fmt.Errorf("%w %q: missing host", ErrInvalidURL, rawURL)
	}

	return nil
}

// Host returns the bookmark's lower-cased hostname without port,
// or an empty string if the URL cannot be parsed.
func (b Bookmark) Host() string {
	u, err := url.Parse(b.URL)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

// Scheme returns the bookmark's URL scheme, or an empty string if the URL
// cannot be parsed.
func (b Bookmark) Scheme() string {
	u, err := url.Parse(b.URL)
	if err != nil {
		return ""
	}
	return u.Scheme
}
