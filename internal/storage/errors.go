package storage

import (
	"errors"
	"fmt"
)

// Error variables for storage operations.
var (
	// ErrNoDataDir means no base directory could be derived from the environment.
	ErrNoDataDir = errors.New("cannot locate bookmark database")
	// ErrLoadIO wraps filesystem failures while reading an existing database.
	ErrLoadIO = errors.New("cannot read bookmark database")
	// ErrCorrupt means the file exists but is not a bookmark document of any version.
	ErrCorrupt = errors.New("bookmark database is corrupt")
	// ErrMalformed is returned by ProbeVersion when no version tag can be read.
	ErrMalformed = errors.New("malformed document")
	// ErrSchemaNewer means the file was written by a newer release of bm.
	ErrSchemaNewer = errors.New("database schema is newer than this release")
	// ErrSchemaOlder means the file was written by an older release of bm.
	// Load never returns it; callers that refuse to upgrade can.
	ErrSchemaOlder = errors.New("database schema is older than this release")
	// ErrSaveIO wraps filesystem failures while writing the database.
	ErrSaveIO = errors.New("cannot write bookmark database")
	// ErrLockTimeout means another bm process held the database lock too long.
	ErrLockTimeout = errors.New("timed out waiting for database lock")
)

// SchemaError describes a schema version mismatch between a file and this release.
type SchemaError struct {
	Path       string
	Stored     int
	Expected   int
	Comparison Comparison
}

func (e *SchemaError) Error() string {
	switch e.Comparison.Relation {
	case Newer:
		return fmt.Sprintf("%s: %s is at schema version %d, this release reads up to %d (%d ahead); upgrade bm to open it",
			ErrSchemaNewer, e.Path, e.Stored, e.Expected, e.Comparison.By)
	case Older:
		return fmt.Sprintf("%s: %s is at schema version %d, this release writes %d (%d behind); run `bm upgrade` to rewrite it",
			ErrSchemaOlder, e.Path, e.Stored, e.Expected, e.Comparison.By)
	default:
		return fmt.Sprintf("%s is at schema version %d", e.Path, e.Stored)
	}
}

// Is lets errors.Is match ErrSchemaNewer and ErrSchemaOlder.
func (e *SchemaError) Is(target error) bool {
	switch target {
	case ErrSchemaNewer:
		return e.Comparison.Relation == Newer
	case ErrSchemaOlder:
		return e.Comparison.Relation == Older
	}
	return false
}
