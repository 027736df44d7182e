package picker

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/nikbrunner/bmark/internal/search"
)

// ErrCancelled is returned by Run when the user leaves without choosing.
var ErrCancelled = errors.New("selection cancelled")

// Picker is a small TUI for choosing one title out of several matches.
type Picker struct {
	results   []search.Result
	query     string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
	keys      KeyMap
	styles    Styles
}

// New creates a new Picker with the given search results.
func New(results []search.Result, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.cancelled = true
			return p, tea.Quit

		case key.Matches(msg, p.keys.Select):
			if len(p.results) > 0 {
				p.selected = true
			} else {
				p.cancelled = true
			}
			return p, tea.Quit

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.results) > 0 {
				p.cursor = len(p.results) - 1
			}
		}
	}

	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Header.Render(fmt.Sprintf("%q matches %d bookmarks", p.query, len(p.results))))
	b.WriteString("\n")

	first, last := p.visibleRange()
	for i := first; i < last; i++ {
		r := p.results[i]
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}

		b.WriteString(cursor + p.renderTitle(r, i == p.cursor) + "\n")
		b.WriteString("   " + p.styles.URL.Render(ansi.Truncate(r.Bookmark.URL, p.width-4, "…")) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderHints())

	return b.String()
}

// renderTitle highlights the runes fuzzy matching hit.
func (p Picker) renderTitle(r search.Result, current bool) string {
	base := p.styles.Item
	if current {
		base = p.styles.Selected
	}

	matched := make(map[int]bool, len(r.MatchedIndexes))
	for _, idx := range r.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, ch := range r.Title {
		s := base
		if matched[i] {
			s = s.Inherit(p.styles.Match)
		}
		b.WriteString(s.Render(string(ch)))
	}
	return ansi.Truncate(b.String(), p.width-3, "…")
}

// renderHints renders the footer as "key:desc key:desc".
func (p Picker) renderHints() string {
	bindings := p.keys.hints()
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = p.styles.HintKey.Render(h.Key) + ":" + p.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// visibleRange keeps the cursor on screen; every result takes two lines.
func (p Picker) visibleRange() (int, int) {
	rows := (p.height - 4) / 2
	if rows < 1 {
		rows = 1
	}
	if len(p.results) <= rows {
		return 0, len(p.results)
	}

	first := p.cursor - rows + 1
	if first < 0 {
		first = 0
	}
	return first, first + rows
}

// SelectedTitle returns the chosen title, or false if nothing was chosen.
func (p Picker) SelectedTitle() (string, bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return "", false
	}
	return p.results[p.cursor].Title, true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Run shows the picker on the given terminal streams and returns the chosen title.
func Run(in io.Reader, out io.Writer, results []search.Result, query string) (string, error) {
	prog := tea.NewProgram(New(results, query), tea.WithInput(in), tea.WithOutput(out))

	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}

	title, ok := final.(Picker).SelectedTitle()
	if !ok {
		return "", ErrCancelled
	}
	return title, nil
}
