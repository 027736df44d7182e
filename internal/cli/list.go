package cli

import (
	"context"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/logger"
	"github.com/nikbrunner/bmark/internal/model"
)

const maxTitleWidth = 40

// filterFlags registers --contains, --domain and --scheme on flags.
type filterFlags struct {
	contains string
	domain   string
	scheme   string
}

func newFilterFlags(flags *flag.FlagSet) *filterFlags {
	f := &filterFlags{}
	flags.StringVar(&f.contains, "contains", "", "title or URL contains text (case-insensitive)")
	flags.StringVar(&f.domain, "domain", "", "URL host equals domain (case-insensitive)")
	flags.StringVar(&f.scheme, "scheme", "", "URL scheme equals scheme (case-insensitive)")
	return f
}

// filter returns the selected filter; at most one may be set.
func (f *filterFlags) filter() (model.Filter, error) {
	var chosen []model.Filter
	if f.contains != "" {
		chosen = append(chosen, model.Contains(f.contains))
	}
	if f.domain != "" {
		chosen = append(chosen, model.Domain(f.domain))
	}
	if f.scheme != "" {
		chosen = append(chosen, model.Scheme(f.scheme))
	}

	switch len(chosen) {
	case 0:
		return model.MatchAll(), nil
	case 1:
		return chosen[0], nil
	default:
		return model.Filter{}, ErrTooManyFilters
	}
}

// ListCmd returns the list command.
func ListCmd(a *app) *Command {
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	ff := newFilterFlags(flags)

	return &Command{
		Flags: flags,
		Usage: "list [flags]",
		Short: "List bookmarks by title",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execList(o, args, ff)
		},
	}
}

func (a *app) execList(o *IO, args []string, ff *filterFlags) error {
	if len(args) > 0 {
		return ErrTooManyArgs
	}

	f, err := ff.filter()
	if err != nil {
		return err
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var entries []model.Entry
	err = db.View(func(store *model.Store) error {
		for _, e := range store.List() {
			if f.Match(e.Title, e.Bookmark) {
				entries = append(entries, e)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Title))
	}
	width = min(width, maxTitleWidth)

	r := lipgloss.NewRenderer(o.out)
	titleStyle := r.NewStyle().Bold(true).Width(width)
	urlStyle := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"})

	for _, e := range entries {
		title := ansi.Truncate(e.Title, width, "…")
		o.Println(titleStyle.Render(title) + "  " + urlStyle.Render(e.Bookmark.URL))
	}
	return nil
}

// CountCmd returns the count command.
func CountCmd(a *app) *Command {
	flags := flag.NewFlagSet("count", flag.ContinueOnError)
	ff := newFilterFlags(flags)

	return &Command{
		Flags: flags,
		Usage: "count [flags]",
		Short: "Count bookmarks, optionally filtered",
		Long:  "Count bookmarks. At most one of --contains, --domain, --scheme may be given.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return a.execCount(o, args, ff)
		},
	}
}

func (a *app) execCount(o *IO, args []string, ff *filterFlags) error {
	if len(args) > 0 {
		return ErrTooManyArgs
	}

	f, err := ff.filter()
	if err != nil {
		return err
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var n int
	err = db.View(func(store *model.Store) error {
		n = store.Count(f)
		return nil
	})
	if err != nil {
		return err
	}

	a.log.Debug("counted bookmarks", logger.String("filter", f.String()), logger.Int("count", n))
	o.Println(strconv.Itoa(n))
	return nil
}
