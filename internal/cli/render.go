package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/shop/internal/model"
	"github.com/idilsaglam/shop/internal/tui"
	"github.com/idilsaglam/shop/internal/ui"
)

const maxNameWidth = 60

func stdoutFd() uintptr {
	if f, ok := ui.Stdout().(*os.File); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

// runTUI keeps diagnostics off the alt screen: they go to the configured log
// file, to shop.log in the data dir with --verbose, or nowhere.
func runTUI(s *session) error {
	logger := s.wire.Log
	if s.cfg.Log.File == "" {
		if s.opt.Verbose {
			f, err := tea.LogToFileWith(filepath.Join(s.cfg.Store.DataDir, "shop.log"), "shop", logger)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer f.Close()
		} else {
			logger.SetOutput(io.Discard)
		}
	}
	return tui.Run(s.wire.Lists, s.wire)
}

// listLines renders both lists for the plain panel view.
func listLines(st model.State) []string {
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d",
		ui.C(t.Title, "Shopping list"),
		ui.C(t.Accent, t.Item), len(st.Items),
		ui.C(t.Pending, t.Suggestion), len(st.SuggestedItems),
	)

	var lines []string
	lines = append(lines, header, "")
	lines = append(lines, numbered(st.Items, t.Item, st.SuggestedItems)...)
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Suggested"))
	lines = append(lines, numbered(st.SuggestedItems, t.Suggestion, st.Items)...)
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `shop add \"Oat milk\"`"))
	return lines
}

// numbered renders one list with 1-based indexes. Entries also present in
// other get the "both" symbol.
func numbered(values []string, sym string, other []string) []string {
	if len(values) == 0 {
		return []string{ui.C(ui.Current().Muted, "(none)")}
	}
	in := make(map[string]bool, len(other))
	for _, v := range other {
		in[v] = true
	}
	out := make([]string, 0, len(values))
	for i, v := range values {
		mark := ui.C(ui.Current().Muted, sym)
		if in[v] {
			mark = ui.C(ui.Current().Success, ui.Current().SymBoth)
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.Dim(fmt.Sprintf("%2d.", i+1)), mark, ui.Truncate(v, maxNameWidth)))
	}
	return out
}
