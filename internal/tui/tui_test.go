package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shop/internal/model"
	"github.com/idilsaglam/shop/internal/shoplist"
)

type fakeFiles struct {
	exported []string
	imported []string
	store    *shoplist.Store
	next     model.State
	err      error
}

func (f *fakeFiles) Export(dest string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.exported = append(f.exported, dest)
	return dest + "/ShoppingList.json", nil
}

func (f *fakeFiles) Import(path string) error {
	if f.err != nil {
		return f.err
	}
	f.imported = append(f.imported, path)
	f.store.Replace(f.next)
	return nil
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// send feeds msgs through Update. Returned commands are dropped: most are
// cursor blinks that would sleep.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// drag presses "t" and feeds the resolved payload back, as the program loop would.
func drag(t *testing.T, m Model) Model {
	t.Helper()
	next, cmd := m.Update(runes("t"))
	m = next.(Model)
	require.NotNil(t, cmd)
	msg, ok := cmd().(dropMsg)
	require.True(t, ok)
	return send(t, m, msg)
}

func typeText(s string) []tea.Msg {
	out := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		out = append(out, runes(string(r)))
	}
	return out
}

func newModel(t *testing.T, st model.State) (Model, *shoplist.Store, *fakeFiles) {
	t.Helper()
	s := shoplist.New(nil)
	s.Hydrate(st)
	f := &fakeFiles{store: s}
	m := New(s, f)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, s, f
}

func paneTexts(m Model, k model.ListKind) []string {
	var out []string
	for _, it := range m.panes[k].Items() {
		out = append(out, it.(listItem).Text)
	}
	return out
}

func TestAddThroughInput(t *testing.T) {
	m, s, _ := newModel(t, model.Empty())

	m = send(t, m, runes("a"))
	require.Equal(t, modeAdd, m.mode)
	m = send(t, m, typeText(" milk ")...)
	m = send(t, m, enter)

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"milk"}, s.Items())
	assert.Equal(t, []string{"milk"}, paneTexts(m, model.Shopping))
	assert.Equal(t, []string{"milk"}, paneTexts(m, model.Suggested))
	assert.False(t, m.statusErr)
}

func TestAddEmptyStaysInInput(t *testing.T) {
	m, s, _ := newModel(t, model.Empty())
	m = send(t, m, runes("a"), runes(" "), enter)
	assert.True(t, m.statusErr)
	assert.Empty(t, s.Items())

	m = send(t, m, esc)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestAddShowsHints(t *testing.T) {
	m, _, _ := newModel(t, model.State{SuggestedItems: []string{"bread", "butter"}})
	m = send(t, m, runes("a"))
	m = send(t, m, typeText("bre")...)
	assert.Equal(t, []string{"bread"}, m.hints)
	assert.Contains(t, m.View(), "did you mean: bread")
}

func TestDeleteFromEachPane(t *testing.T) {
	m, s, _ := newModel(t, model.State{Items: []string{"milk", "eggs"}, SuggestedItems: []string{"milk", "eggs"}})

	m = send(t, m, runes("d"))
	assert.Equal(t, []string{"eggs"}, s.Items())
	assert.Equal(t, []string{"milk", "eggs"}, s.Suggested())

	m = send(t, m, tab, runes("d"))
	assert.Equal(t, []string{"eggs"}, s.Suggested())
	assert.Equal(t, []string{"eggs"}, paneTexts(m, model.Suggested))
}

func TestDragToOtherList(t *testing.T) {
	m, s, _ := newModel(t, model.State{Items: []string{"milk"}, SuggestedItems: []string{"bread"}})

	// focus suggestions, drag "bread" onto the shopping list
	m = send(t, m, tab)
	m = drag(t, m)
	assert.Equal(t, []string{"milk", "bread"}, s.Items())
	assert.Equal(t, []string{"bread"}, s.Suggested())
	assert.Equal(t, []string{"milk", "bread"}, paneTexts(m, model.Shopping))
	assert.True(t, m.panes[model.Shopping].Items()[1].(listItem).Both)
}

func TestDropError(t *testing.T) {
	m, s, _ := newModel(t, model.Empty())
	m = send(t, m, dropMsg{target: model.Shopping, err: errors.New("bad payload")})
	assert.True(t, m.statusErr)
	assert.Empty(t, s.Items())
}

func TestReorder(t *testing.T) {
	m, s, _ := newModel(t, model.State{Items: []string{"a", "b", "c"}})

	m = send(t, m, runes("J"))
	assert.Equal(t, []string{"b", "a", "c"}, s.Items())
	assert.Equal(t, 1, m.panes[model.Shopping].Index())

	m = send(t, m, runes("J"))
	assert.Equal(t, []string{"b", "c", "a"}, s.Items())

	// already last: no-op
	m = send(t, m, runes("J"))
	assert.Equal(t, []string{"b", "c", "a"}, s.Items())

	m = send(t, m, runes("K"))
	assert.Equal(t, []string{"b", "a", "c"}, s.Items())
	assert.Equal(t, 1, m.panes[model.Shopping].Index())
}

func TestExportImport(t *testing.T) {
	m, s, f := newModel(t, model.State{Items: []string{"milk"}})
	f.next = model.State{Items: []string{"tea"}, SuggestedItems: []string{"tea", "jam"}}

	m = send(t, m, runes("s"))
	m = send(t, m, typeText("/tmp/x")...)
	m = send(t, m, enter)
	assert.Equal(t, []string{"/tmp/x"}, f.exported)
	assert.Contains(t, m.status, "saved to")

	m = send(t, m, runes("o"))
	m = send(t, m, typeText("in.json")...)
	m = send(t, m, enter)
	assert.Equal(t, []string{"in.json"}, f.imported)
	assert.Equal(t, []string{"tea"}, s.Items())
	assert.Equal(t, []string{"tea", "jam"}, paneTexts(m, model.Suggested))

	f.err = errors.New("permission denied")
	m = send(t, m, runes("o"), enter)
	assert.True(t, m.statusErr)
	assert.Equal(t, []string{"tea"}, s.Items())
}

func TestQuitUnsubscribes(t *testing.T) {
	m, s, _ := newModel(t, model.Empty())
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = next.(Model)
	s.AddItem("milk")
	assert.False(t, m.bind.dirty)
}
