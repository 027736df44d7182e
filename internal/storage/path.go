package storage

import (
	"fmt"
	"path/filepath"
)

// DBFilename is the name of the bookmark database file.
const DBFilename = "bm.json"

// ResolvePath returns the database path derived from env.
//
// BM_DB, if set, is used as-is. Otherwise $XDG_DATA_HOME/bm.json is preferred,
// falling back to $HOME/.local/share/bm.json. Only env is consulted; the
// filesystem is not touched.
func ResolvePath(env map[string]string) (string, error) {
	if explicit := env["BM_DB"]; explicit != "" {
		return explicit, nil
	}

	if dataHome := env["XDG_DATA_HOME"]; dataHome != "" {
		return filepath.Join(dataHome, DBFilename), nil
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", DBFilename), nil
	}

	return "", fmt.Errorf("%w: neither $XDG_DATA_HOME nor $HOME is set; set $XDG_DATA_HOME to the directory %s should live in",
		ErrNoDataDir, DBFilename)
}
