package cli

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/picker"
	"github.com/nikbrunner/bmark/internal/search"
)

// resolveTitle maps a query onto a stored title: exact title, then a single
// fuzzy match, then the interactive picker when stdin is a terminal.
// Returns "" with a nil error if the user cancelled the picker.
func (a *app) resolveTitle(query string) (string, error) {
	db, err := a.db()
	if err != nil {
		return "", err
	}

	var (
		title      string
		candidates []search.Result
	)
	err = db.View(func(store *model.Store) error {
		title, candidates = search.Resolve(store, query)
		return nil
	})
	if err != nil {
		return "", err
	}

	if title != "" {
		return title, nil
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w %q", ErrNotFound, query)
	}

	if !a.deps.IsTerminal(a.in) {
		titles := make([]string, len(candidates))
		for i, c := range candidates {
			titles[i] = c.Title
		}
		return "", fmt.Errorf("%w %q matches %s", ErrAmbiguous, query, joinQuoted(titles))
	}

	picked, err := a.deps.Pick(a.in, a.errOut, candidates, query)
	if errors.Is(err, picker.ErrCancelled) {
		return "", nil
	}
	return picked, err
}
