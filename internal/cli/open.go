package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/model"
)

// OpenCmd returns the open command.
func OpenCmd(a *app) *Command {
	flags := flag.NewFlagSet("open", flag.ContinueOnError)
	printURL := flags.BoolP("print", "p", false, "print the URL instead of opening it")
	copyURL := flags.BoolP("copy", "c", false, "copy the URL to the clipboard instead of opening it")

	return &Command{
		Flags: flags,
		Usage: "open <title> [flags]",
		Short: "Open a bookmark in the browser",
		Long: "Open a bookmark in the browser. The title may be partial: an exact title wins,\n" +
			"otherwise it is fuzzy matched and several matches open a picker.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execOpen(o, args, *printURL, *copyURL)
		},
	}
}

func (a *app) execOpen(o *IO, args []string, printURL, copyURL bool) error {
	query, err := titleArg(args)
	if err != nil {
		return err
	}

	title, err := a.resolveTitle(query)
	if err != nil || title == "" {
		return err
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var b model.Bookmark
	err = db.View(func(store *model.Store) error {
		var ok bool
		if b, ok = store.Get(title); !ok {
			return fmt.Errorf("%w %q", ErrNotFound, title)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if printURL {
		o.Println(b.URL)
	}
	if copyURL {
		if err := a.deps.Copy(b.URL); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		o.ErrPrintln("Copied", b.URL)
	}
	if printURL || copyURL {
		return nil
	}

	o.ErrPrintln("Opening", b.URL)
	return a.deps.OpenURL(b.URL)
}

// titleArg returns the single title argument; titles with spaces are quoted.
func titleArg(args []string) (string, error) {
	switch {
	case len(args) == 0:
		return "", ErrTitleRequired
	case len(args) > 1:
		return "", fmt.Errorf("%w: quote titles that contain spaces", ErrTooManyArgs)
	}
	return args[0], nil
}
