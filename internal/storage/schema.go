package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/nikbrunner/bmark/internal/model"
)

// SchemaVersion is the schema version this release writes.
const SchemaVersion = model.CurrentSchemaVersion

// Relation is the outcome of comparing a stored schema version with the expected one.
type Relation int

const (
	Same  Relation = iota // file matches this release
	Newer                 // file was written by a newer release
	Older                 // file was written by an older release
)

func (r Relation) String() string {
	switch r {
	case Same:
		return "same"
	case Newer:
		return "newer"
	case Older:
		return "older"
	default:
		return "unknown"
	}
}

// Comparison is the result of CompareVersions. By is zero only for Same.
type Comparison struct {
	Relation Relation
	By       uint
}

// CompareVersions compares the version stored in a file against the version
// this release expects.
func CompareVersions(stored, expected int) Comparison {
	switch {
	case stored > expected:
		return Comparison{Relation: Newer, By: uint(stored - expected)}
	case stored < expected:
		return Comparison{Relation: Older, By: uint(expected - stored)}
	default:
		return Comparison{Relation: Same}
	}
}

// versionProbe is the minimal shape shared by every schema version.
// It must never grow fields beyond schema_version.
type versionProbe struct {
	SchemaVersion *int `json:"schema_version"`
}

// ProbeVersion reads only the schema_version field of a serialized document.
// The rest of the document may have any shape.
func ProbeVersion(data []byte) (int, error) {
	standardized, err := standardize(data)
	if err != nil {
		return 0, err
	}

	var probe versionProbe
	if err := json.Unmarshal(standardized, &probe); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if probe.SchemaVersion == nil {
		return 0, fmt.Errorf("%w: no schema_version field", ErrMalformed)
	}

	return *probe.SchemaVersion, nil
}

// utf8BOM is prepended by some editors when a file is saved by hand.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// standardize turns JSONC (comments, trailing commas) into plain JSON.
// The input is left untouched; hujson rewrites in place.
func standardize(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	standardized, err := hujson.Standardize(bytes.Clone(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return standardized, nil
}
