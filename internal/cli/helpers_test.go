package cli_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/bmark/internal/cli"
	"github.com/nikbrunner/bmark/internal/picker"
	"github.com/nikbrunner/bmark/internal/search"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

// CLI runs bm against a temp directory with recorded side effects.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string

	Terminal bool
	PickWith func(results []search.Result) (string, error)

	Opened  []string
	Copied  []string
	Offered [][]string
}

func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()
	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{
			"BM_DB":           filepath.Join(dir, "data", "bm.json"),
			"XDG_CONFIG_HOME": filepath.Join(dir, "config"),
			"HOME":            dir,
		},
	}
}

func (c *CLI) deps() cli.Deps {
	return cli.Deps{
		Now: func() time.Time { return fixedNow },
		OpenURL: func(url string) error {
			c.Opened = append(c.Opened, url)
			return nil
		},
		Copy: func(text string) error {
			c.Copied = append(c.Copied, text)
			return nil
		},
		Pick: func(_ io.Reader, _ io.Writer, results []search.Result, _ string) (string, error) {
			titles := make([]string, len(results))
			for i, r := range results {
				titles[i] = r.Title
			}
			c.Offered = append(c.Offered, titles)
			if c.PickWith == nil {
				return "", picker.ErrCancelled
			}
			return c.PickWith(results)
		},
		IsTerminal: func(io.Reader) bool { return c.Terminal },
	}
}

// Run executes bm with args and returns stdout, stderr and the exit code.
func (c *CLI) Run(args ...string) (string, string, int) {
	var out, errOut bytes.Buffer

	fullArgs := append([]string{"bm"}, args...)
	code := cli.RunWith(context.Background(), strings.NewReader(""), &out, &errOut, fullArgs, c.Env, c.deps())

	return out.String(), errOut.String(), code
}

// MustRun fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (c *CLI) MustRun(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code != 0 {
		c.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail fails the test if the command succeeds or writes to stdout.
// Returns trimmed stderr.
func (c *CLI) MustFail(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code == 0 {
		c.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		c.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

func (c *CLI) DBPath() string {
	return c.Env["BM_DB"]
}

func (c *CLI) ReadDB() string {
	c.t.Helper()

	data, err := os.ReadFile(c.DBPath())
	if err != nil {
		c.t.Fatalf("failed to read database: %v", err)
	}
	return string(data)
}

func (c *CLI) WriteDB(content string) {
	c.t.Helper()

	if err := os.MkdirAll(filepath.Dir(c.DBPath()), 0o755); err != nil {
		c.t.Fatal(err)
	}
	if err := os.WriteFile(c.DBPath(), []byte(content), 0o600); err != nil {
		c.t.Fatal(err)
	}
}
