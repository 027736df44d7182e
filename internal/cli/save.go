package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/model"
)

// SaveCmd returns the save command.
func SaveCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("save", flag.ContinueOnError),
		Usage: "save <title> <url>",
		Short: "Save a bookmark under a title",
		Long:  "Save a bookmark under a title. An existing bookmark with the same title is replaced.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execSave(o, args)
		},
	}
}

func (a *app) execSave(o *IO, args []string) error {
	switch {
	case len(args) == 0:
		return ErrTitleRequired
	case len(args) == 1:
		return ErrURLRequired
	case len(args) > 2:
		return fmt.Errorf("%w: quote titles that contain spaces", ErrTooManyArgs)
	}

	title, rawURL := args[0], args[1]

	b, err := model.NewBookmark(rawURL, a.deps.Now())
	if err != nil {
		return err
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var replaced bool
	err = db.Update(func(store *model.Store) (bool, error) {
		_, replaced = store.Get(title)
		if err := store.Put(title, b); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	if replaced {
		o.Printf("Replaced %q\n", title)
	} else {
		o.Printf("Saved %q\n", title)
	}
	return nil
}
