package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/model"
)

// DeleteCmd returns the delete command.
func DeleteCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("delete", flag.ContinueOnError),
		Usage: "delete <title>",
		Short: "Delete a bookmark",
		Long:  "Delete a bookmark. The title is resolved the same way as for open.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execDelete(o, args)
		},
	}
}

func (a *app) execDelete(o *IO, args []string) error {
	query, err := titleArg(args)
	if err != nil {
		return err
	}

	// Resolve outside the write lock so the picker never holds it.
	title, err := a.resolveTitle(query)
	if err != nil || title == "" {
		return err
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	err = db.Update(func(store *model.Store) (bool, error) {
		if !store.Remove(title) {
			return false, fmt.Errorf("%w %q", ErrNotFound, title)
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	o.Printf("Deleted %q\n", title)
	return nil
}
