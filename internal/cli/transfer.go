package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/exporter"
	"github.com/nikbrunner/bmark/internal/importer"
	"github.com/nikbrunner/bmark/internal/logger"
	"github.com/nikbrunner/bmark/internal/model"
)

// ImportCmd returns the import command.
func ImportCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("import", flag.ContinueOnError),
		Usage: "import <file>",
		Short: "Import Netscape HTML or Homepage YAML",
		Long: "Import bookmarks from a browser export (.html) or a Homepage dashboard\n" +
			"bookmarks.yaml (.yaml). Titles that already exist are left alone.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execImport(o, args)
		},
	}
}

func (a *app) execImport(o *IO, args []string) error {
	switch {
	case len(args) == 0:
		return ErrFileRequired
	case len(args) > 1:
		return ErrTooManyArgs
	}

	entries, err := importer.ParseFile(args[0], a.deps.Now())
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var res importer.Result
	err = db.Update(func(store *model.Store) (bool, error) {
		res = importer.Merge(store, entries)
		return len(res.Added) > 0, nil
	})
	if err != nil {
		return err
	}

	for _, title := range res.Invalid {
		a.log.Debug("skipped invalid entry", logger.String("title", title))
	}
	if len(res.Invalid) > 0 {
		o.Warn("%d entries without a title or absolute URL were skipped", len(res.Invalid))
	}

	o.Printf("Imported %d bookmarks", len(res.Added))
	if len(res.Skipped) > 0 {
		o.Printf(" (%d existing titles skipped)", len(res.Skipped))
	}
	o.Println()
	return nil
}

// ExportCmd returns the export command.
func ExportCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("export", flag.ContinueOnError),
		Usage: "export [path]",
		Short: "Export bookmarks as Netscape HTML",
		Long:  "Export bookmarks as Netscape HTML. Defaults to ~/Downloads/bookmarks-export-<date>.html.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execExport(o, args)
		},
	}
}

func (a *app) execExport(o *IO, args []string) error {
	if len(args) > 1 {
		return ErrTooManyArgs
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		home := a.env["HOME"]
		if home == "" {
			return ErrNoExportDir
		}
		path = exporter.DefaultExportPath(home, a.deps.Now())
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var (
		html string
		n    int
	)
	err = db.View(func(store *model.Store) error {
		html = exporter.ExportHTML(store)
		n = store.Len()
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(html)); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	o.Printf("Exported %d bookmarks to %s\n", n, path)
	return nil
}
