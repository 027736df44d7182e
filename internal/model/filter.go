package model

import (
	"net/url"
	"strings"
)

// FilterKind selects which predicate a Filter applies.
type FilterKind int

const (
	FilterAll      FilterKind = iota // every bookmark
	FilterContains                   // title or URL contains the text (case-insensitive)
	FilterDomain                     // URL hostname equals the domain
	FilterScheme                     // URL scheme equals the scheme, e.g. https, file, mastodon
)

// Filter is a predicate over bookmarks used by Store.Count.
type Filter struct {
	Kind  FilterKind
	Value string
}

// MatchAll returns a filter matching every bookmark.
func MatchAll() Filter {
	return Filter{Kind: FilterAll}
}

// Contains returns a filter matching bookmarks whose title or URL contains text.
func Contains(text string) Filter {
	return Filter{Kind: FilterContains, Value: text}
}

// Domain returns a filter matching bookmarks whose URL host is domain.
func Domain(domain string) Filter {
	return Filter{Kind: FilterDomain, Value: domain}
}

// Scheme returns a filter matching bookmarks whose URL scheme is scheme.
func Scheme(scheme string) Filter {
	return Filter{Kind: FilterScheme, Value: scheme}
}

// Match reports whether the bookmark stored under title satisfies the filter.
func (f Filter) Match(title string, b Bookmark) bool {
	switch f.Kind {
	case FilterAll:
		return true
	case FilterContains:
		needle := strings.ToLower(f.Value)
		return strings.Contains(strings.ToLower(title), needle) ||
			strings.Contains(strings.ToLower(b.URL), needle)
	case FilterDomain:
		domain := domainOf(f.Value)
		return domain != "" && b.Host() == domain
	case FilterScheme:
		return strings.EqualFold(b.Scheme(), strings.TrimSuffix(f.Value, ":"))
	default:
		return false
	}
}

// String describes the filter for log output.
func (f Filter) String() string {
	switch f.Kind {
	case FilterAll:
		return "all"
	case FilterContains:
		return "contains:" + f.Value
	case FilterDomain:
		return "domain:" + f.Value
	case FilterScheme:
		return "scheme:" + f.Value
	default:
		return "unknown"
	}
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(host), ".")
}

// domainOf reduces a --domain value to the hostname Bookmark.Host compares
// against, so "Example.com:8080" and "https://example.com/x" both work.
func domainOf(value string) string {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "://") {
		value = "//" + value
	}
	u, err := url.Parse(value)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}
