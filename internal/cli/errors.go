package cli

import (
	"errors"

	"github.com/nikbrunner/bmark/internal/storage"
)

var (
	ErrNotFound        = errors.New("no bookmark matches")
	ErrAmbiguous       = errors.New("ambiguous title")
	ErrTitleRequired   = errors.New("title is required")
	ErrURLRequired     = errors.New("url is required")
	ErrFileRequired    = errors.New("file is required")
	ErrTooManyArgs     = errors.New("too many arguments")
	ErrTooManyFilters  = errors.New("only one of --contains, --domain, --scheme may be given")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrNoExportDir     = errors.New("no export path given and $HOME is not set")
	ErrInvalidArgument = errors.New("invalid argument")
)

// hintFor returns a recovery hint for errors the user can act on.
func hintFor(err error) string {
	switch {
	case errors.Is(err, storage.ErrSchemaNewer):
		return "this file was written by a newer bm; upgrade bm to read it (the file was left untouched)"
	case errors.Is(err, storage.ErrSchemaOlder):
		return "drop --no-upgrade to read it as is, or run `bm upgrade` without it to rewrite the file"
	case errors.Is(err, storage.ErrCorrupt):
		return "fix the file by hand or move it aside; bm starts a fresh file when none exists"
	case errors.Is(err, storage.ErrNoDataDir):
		return "set $XDG_DATA_HOME or $HOME, or pass --db <path>"
	case errors.Is(err, storage.ErrLockTimeout):
		return "another bm process is using the file; try again"
	case errors.Is(err, ErrAmbiguous):
		return "use the exact title, or run from a terminal to pick interactively"
	default:
		return ""
	}
}
