package exporter

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

// DefaultExportPath returns the default export file path under home.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath(home string, now time.Time) string {
	filename := fmt.Sprintf("bookmarks-export-%s.html", now.Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename)
}

// ExportHTML exports the store to Netscape bookmark HTML format, one flat
// list in title order.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, e := range store.List() {
		fmt.Fprintf(&b,
			"    <DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			html.EscapeString(e.Bookmark.URL),
			e.Bookmark.CreatedAt.Unix(),
			html.EscapeString(e.Title),
		)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}
