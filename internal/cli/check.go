package cli

import (
	"context"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/culler"
	"github.com/nikbrunner/bmark/internal/logger"
	"github.com/nikbrunner/bmark/internal/model"
)

// CheckCmd returns the check command.
func CheckCmd(a *app) *Command {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	concurrency := flags.IntP("concurrency", "j", 0, "parallel requests (default from config, 10)")
	timeout := flags.Duration("timeout", 0, "per-request timeout (default from config, 10s)")
	prune := flags.Bool("prune", false, "delete bookmarks whose URL is gone (404/410)")

	return &Command{
		Flags: flags,
		Usage: "check [flags]",
		Short: "Report dead and unreachable bookmarks",
		Long: "Request every http(s) bookmark and report the ones that are dead (404/410)\n" +
			"or unreachable. Domains in cullExcludeDomains never count as dead.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return a.execCheck(ctx, o, args, *concurrency, *timeout, *prune)
		},
	}
}

func (a *app) execCheck(ctx context.Context, o *IO, args []string, concurrency int, timeout time.Duration, prune bool) error {
	if len(args) > 0 {
		return ErrTooManyArgs
	}
	if concurrency <= 0 {
		concurrency = a.cfg.CheckConcurrency
	}
	if timeout <= 0 {
		timeout = time.Duration(a.cfg.CheckTimeout)
	}

	db, err := a.db()
	if err != nil {
		return err
	}

	var entries []model.Entry
	err = db.View(func(store *model.Store) error {
		entries = store.List()
		return nil
	})
	if err != nil {
		return err
	}

	// Network requests run without holding the file lock.
	results := culler.CheckURLs(ctx, entries, culler.Options{
		Concurrency:    concurrency,
		Timeout:        timeout,
		ExcludeDomains: a.cfg.CullExcludeDomains,
		Client:         a.deps.HTTPClient,
	}, func(completed, total int) {
		a.log.Debugf("checked %d/%d", completed, total)
	})

	counts := map[culler.Status]int{}
	for _, r := range results {
		counts[r.Status]++
		switch r.Status {
		case culler.Dead:
			o.Printf("dead         %s  %s (%d)\n", r.Title, r.URL, r.StatusCode)
		case culler.Unreachable:
			o.Printf("unreachable  %s  %s (%s)\n", r.Title, r.URL, r.Error)
		}
	}
	o.Printf("%d checked: %d ok, %d dead, %d unreachable, %d skipped\n", len(results),
		counts[culler.Healthy], counts[culler.Dead], counts[culler.Unreachable], counts[culler.Skipped])

	dead := culler.DeadTitles(results)
	if !prune || len(dead) == 0 {
		return nil
	}

	checked := make(map[string]string, len(results))
	for _, r := range results {
		checked[r.Title] = r.URL
	}

	var removed int
	err = db.Update(func(store *model.Store) (bool, error) {
		for _, title := range dead {
			// Skip records changed by someone else while we were checking.
			if b, ok := store.Get(title); ok && b.URL == checked[title] {
				store.Remove(title)
				removed++
			}
		}
		return removed > 0, nil
	})
	if err != nil {
		return err
	}

	a.log.Info("pruned dead bookmarks", logger.Int("removed", removed))
	o.Printf("Pruned %d dead bookmarks\n", removed)
	return nil
}
