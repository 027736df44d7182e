// Package cli implements the command-line interface for bm.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/nikbrunner/bmark/internal/logger"
	"github.com/nikbrunner/bmark/internal/picker"
	"github.com/nikbrunner/bmark/internal/search"
	"github.com/nikbrunner/bmark/internal/storage"
)

// Deps holds the side effects commands reach outside the bookmark file for.
type Deps struct {
	Now        func() time.Time
	OpenURL    func(url string) error
	Copy       func(text string) error
	Pick       func(in io.Reader, out io.Writer, results []search.Result, query string) (string, error)
	IsTerminal func(r io.Reader) bool
	HTTPClient *http.Client // nil uses the checker's default client
}

// DefaultDeps returns the dependencies used by the bm binary.
func DefaultDeps() Deps {
	return Deps{
		Now:        time.Now,
		OpenURL:    openURL,
		Copy:       clipboard.WriteAll,
		Pick:       picker.Run,
		IsTerminal: isTerminal,
	}
}

// app is the state shared by all commands of one invocation.
type app struct {
	in        io.Reader
	errOut    io.Writer
	env       map[string]string
	dbPath    string
	noUpgrade bool
	cfg       *storage.Config
	log       logger.Logger
	deps      Deps
	storage   *storage.JSONStorage
}

// Run is the main entry point. Returns exit code.
func Run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string, env map[string]string) int {
	return RunWith(ctx, in, out, errOut, args, env, DefaultDeps())
}

// RunWith is Run with explicit dependencies.
func RunWith(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string, env map[string]string, deps Deps) int {
	global := flag.NewFlagSet("bm", flag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	dbFlag := global.String("db", "", "bookmark file (default $BM_DB, $XDG_DATA_HOME/bm.json)")
	verbose := global.BoolP("verbose", "v", false, "debug logging")
	noUpgrade := global.Bool("no-upgrade", false, "refuse files written by an older bm instead of upgrading them")
	help := global.BoolP("help", "h", false, "show help")

	if len(args) > 0 {
		args = args[1:]
	}
	if err := global.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)
		return 1
	}

	rest := global.Args()
	if *help || len(rest) == 0 {
		printUsage(out, nil)
		return 0
	}

	cfg, err := loadConfig(env)
	if err != nil {
		fprintln(errOut, "error:", err)
		return 1
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(errOut, cfg.LogLevel, cfg.Pretty())
	defer func() { _ = log.Sync() }()

	a := &app{
		in:        in,
		errOut:    errOut,
		env:       env,
		dbPath:    *dbFlag,
		noUpgrade: *noUpgrade,
		cfg:       cfg,
		log:       log,
		deps:      deps,
	}

	commands := a.commands()
	o := NewIO(out, errOut)

	name := rest[0]
	if name == "help" {
		printUsage(out, commands)
		return 0
	}

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd.Run(ctx, o, rest[1:])
		}
	}

	fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
	printUsage(errOut, commands)
	return 1
}

func (a *app) commands() []*Command {
	return []*Command{
		SaveCmd(a),
		OpenCmd(a),
		DeleteCmd(a),
		ListCmd(a),
		CountCmd(a),
		ImportCmd(a),
		ExportCmd(a),
		CheckCmd(a),
		UpgradeCmd(a),
		PathCmd(a),
	}
}

// loadConfig layers the config file and environment over the defaults.
func loadConfig(env map[string]string) (*storage.Config, error) {
	var cfg *storage.Config
	if path := storage.ConfigFilePath(env); path != "" {
		loaded, err := storage.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		defaults := storage.DefaultConfig()
		cfg = &defaults
	}

	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	if !logger.ValidLevel(cfg.LogLevel) {
		return nil, fmt.Errorf("%w: log level %q", ErrInvalidArgument, cfg.LogLevel)
	}
	return cfg, nil
}

// db resolves the bookmark file once per invocation.
func (a *app) db() (*storage.JSONStorage, error) {
	if a.storage != nil {
		return a.storage, nil
	}

	path := a.dbPath
	if path == "" {
		resolved, err := storage.ResolvePath(a.env)
		if err != nil {
			return nil, err
		}
		path = resolved
	}

	a.log.Debug("using bookmark file", logger.String("path", path))
	opts := []storage.Option{storage.WithLogger(a.log)}
	if a.noUpgrade {
		opts = append(opts, storage.WithoutUpgrade())
	}
	a.storage = storage.NewJSONStorage(path, opts...)
	return a.storage, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return cmd.Process.Release()
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, commands []*Command) {
	if commands == nil {
		commands = (&app{}).commands()
	}

	fprintln(w, `bm - bookmarks in a single versioned JSON file

Usage: bm [options] <command> [args]

Options:
  --db <path>      Use this bookmark file
  -v, --verbose    Debug logging to stderr
  --no-upgrade     Refuse bookmark files written by an older bm

Commands:`)
	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
	fprintln(w, `
Run "bm <command> --help" for command flags.`)
}

// joinQuoted renders titles for error messages.
func joinQuoted(titles []string) string {
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, ", ")
}
