package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/storage"
)

// UpgradeCmd returns the upgrade command.
func UpgradeCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("upgrade", flag.ContinueOnError),
		Usage: "upgrade",
		Short: "Rewrite an older bookmark file in the current format",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execUpgrade(o, args)
		},
	}
}

func (a *app) execUpgrade(o *IO, args []string) error {
	if len(args) > 0 {
		return ErrTooManyArgs
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var from int
	var upgraded bool
	err = db.Update(func(store *model.Store) (bool, error) {
		from, upgraded = store.LoadedVersion(), store.Upgraded()
		return upgraded, nil
	})
	if err != nil {
		return err
	}

	if upgraded {
		o.Printf("Upgraded %s from schema version %d to %d\n", db.Path(), from, storage.SchemaVersion)
	} else {
		o.Printf("%s is already at schema version %d\n", db.Path(), storage.SchemaVersion)
	}
	return nil
}

// PathCmd returns the path command.
func PathCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("path", flag.ContinueOnError),
		Usage: "path",
		Short: "Print the bookmark file location",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return ErrTooManyArgs
			}
			db, err := a.db()
			if err != nil {
				return err
			}
			o.Println(db.Path())
			return nil
		},
	}
}
