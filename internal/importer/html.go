package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/bmark/internal/model"
)

// ParseHTML parses Netscape bookmark HTML into title/bookmark entries in
// document order. Folder structure is flattened; the link text is the title.
// Links without ADD_DATE get now as their creation time.
func ParseHTML(r io.Reader, now time.Time) ([]model.Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var entries []model.Entry

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "a") {
			href := getAttr(n, "href")
			if href == "" {
				return
			}

			title := getTextContent(n)
			if title == "" {
				title = href
			}

			createdAt := now
			if addDate := getAttr(n, "add_date"); addDate != "" {
				if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
					createdAt = time.Unix(ts, 0)
				}
			}

			entries = append(entries, model.Entry{
				Title:    title,
				Bookmark: model.Bookmark{CreatedAt: createdAt.UTC(), URL: href},
			})
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return entries, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
