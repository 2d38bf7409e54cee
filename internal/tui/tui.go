package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/idilsaglam/shop/internal/model"
	"github.com/idilsaglam/shop/internal/shoplist"
)

// Files is the export/import surface the TUI drives.
type Files interface {
	Export(dest string) (string, error)
	Import(path string) error
}

// listItem adapts one entry to bubbles/list.Item
type listItem struct {
	Text string
	Kind model.ListKind
	Both bool // also present in the other list
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	mark := markItem
	if it.Kind == model.Suggested {
		mark = markSuggested
	}
	markStyled := mutedStyle.Render(mark)
	if it.Both {
		markStyled = bothStyle.Render(markBoth)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+markStyled+" "+it.Text)
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeExport
	modeImport
)

type keyMap struct {
	Add, Delete, Transfer, Up, Down, Focus, Export, Import, Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Transfer, k.Up, k.Down, k.Focus, k.Export, k.Import, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Delete:   key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "delete")),
	Transfer: key.NewBinding(key.WithKeys("t", "enter"), key.WithHelp("t", "drag to other list")),
	Up:       key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
	Down:     key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
	Export:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save as")),
	Import:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// binding receives store notifications. It is shared by every copy of Model.
type binding struct {
	snap  model.State
	dirty bool
}

// dropMsg carries a resolved drag payload back onto the event loop.
type dropMsg struct {
	text   string
	target model.ListKind
	err    error
}

type Model struct {
	store *shoplist.Store
	files Files

	panes [2]list.Model // indexed by model.ListKind
	focus model.ListKind

	mode  inputMode
	ti    textinput.Model
	hints []string
	help  help.Model

	status    string
	statusErr bool

	bind  *binding
	unsub func()

	width, height int
}

// New builds the model and subscribes it to store.
func New(store *shoplist.Store, files Files) Model {
	bind := &binding{snap: store.Snapshot(), dirty: true}
	m := Model{
		store: store,
		files: files,
		bind:  bind,
		help:  help.New(),
	}
	m.unsub = store.Subscribe(func(st model.State) {
		bind.snap = st
		bind.dirty = true
	})

	for k, title := range map[model.ListKind]string{model.Shopping: "Shopping list", model.Suggested: "Suggested"} {
		l := list.New(nil, itemDelegate{}, 0, 0)
		l.Title = title
		l.SetShowHelp(false)
		l.SetShowStatusBar(false)
		l.SetShowPagination(true)
		l.SetFilteringEnabled(true)
		l.DisableQuitKeybindings()
		l.Styles.Title = titleStyle
		l.Styles.PaginationStyle = helpStyle
		l.FilterInput.Prompt = "/ "
		m.panes[k] = l
	}

	// set up text input for add / save as / open
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200

	m.resize(widthHeight())
	m.refresh()
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(store *shoplist.Store, files Files) error {
	m := New(store, files)
	defer m.unsub()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init and Update and View implement Bubble Tea's Model
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case dropMsg:
		m.applyDrop(msg)
	case tea.KeyMsg:
		switch {
		case m.mode != modeBrowse:
			m, cmd = m.updateInput(msg)
		case m.panes[m.focus].FilterState() == list.Filtering:
			m.panes[m.focus], cmd = m.panes[m.focus].Update(msg)
		default:
			m, cmd = m.updateBrowse(msg)
		}
	default:
		if m.mode != modeBrowse {
			m.ti, cmd = m.ti.Update(msg)
		} else {
			m.panes[m.focus], cmd = m.panes[m.focus].Update(msg)
		}
	}
	if m.bind.dirty {
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.unsub != nil {
			m.unsub()
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Focus):
		m.focus = m.focus.Other()
		return m, nil
	case key.Matches(msg, keys.Add):
		cmd := m.startInput(modeAdd, "New item...", "")
		return m, cmd
	case key.Matches(msg, keys.Export):
		cmd := m.startInput(modeExport, "Save as (empty: ./ShoppingList.json)", "")
		return m, cmd
	case key.Matches(msg, keys.Import):
		cmd := m.startInput(modeImport, "Open file...", "")
		return m, cmd
	case key.Matches(msg, keys.Delete):
		m.deleteSelected()
		return m, nil
	case key.Matches(msg, keys.Transfer):
		if it, ok := m.selected(); ok {
			return m, dropCmd(shoplist.TextPayload(it.Text), m.focus.Other())
		}
		return m, nil
	case key.Matches(msg, keys.Up):
		m.moveSelected(-1)
		return m, nil
	case key.Matches(msg, keys.Down):
		m.moveSelected(+1)
		return m, nil
	}
	var cmd tea.Cmd
	m.panes[m.focus], cmd = m.panes[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopInput()
		return m, nil
	case "enter":
		m.submitInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if m.mode == modeAdd {
		m.hints = m.store.Closest(m.ti.Value(), 3)
	}
	return m, cmd
}

func (m *Model) startInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.hints = nil
	m.ti.Placeholder = placeholder
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	return m.ti.Focus()
}

func (m *Model) stopInput() {
	m.mode = modeBrowse
	m.hints = nil
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m *Model) submitInput() {
	v := m.ti.Value()
	switch m.mode {
	case modeAdd:
		name := strings.TrimSpace(v)
		if name == "" {
			m.setError("Name cannot be empty")
			return
		}
		if !m.store.AddItem(name) {
			m.setStatus(fmt.Sprintf("%q is already on the list", name))
		} else {
			m.setStatus("added " + name)
			m.focus = model.Shopping
		}
	case modeExport:
		path, err := m.files.Export(strings.TrimSpace(v))
		if err != nil {
			m.setError("save: " + err.Error())
		} else {
			m.setStatus("saved to " + path)
		}
	case modeImport:
		if err := m.files.Import(strings.TrimSpace(v)); err != nil {
			m.setError("open: " + err.Error())
		} else {
			m.setStatus("opened " + strings.TrimSpace(v))
		}
	}
	m.stopInput()
	m.checkSave()
}

func (m *Model) selected() (listItem, bool) {
	it, ok := m.panes[m.focus].SelectedItem().(listItem)
	return it, ok
}

func (m *Model) deleteSelected() {
	it, ok := m.selected()
	if !ok {
		return
	}
	switch it.Kind {
	case model.Shopping:
		m.store.RemoveItem(it.Text)
	case model.Suggested:
		idx := indexOf(m.store.Suggested(), it.Text)
		if err := m.store.DeleteSuggested(idx); err != nil {
			m.setError(err.Error())
			return
		}
	}
	m.setStatus("deleted " + it.Text)
	m.checkSave()
}

// moveSelected shifts the selected shopping-list item by delta positions.
func (m *Model) moveSelected(delta int) {
	if m.focus != model.Shopping {
		return
	}
	it, ok := m.selected()
	if !ok {
		return
	}
	items := m.store.Items()
	i := indexOf(items, it.Text)
	dst := i + delta
	if i < 0 || dst < 0 || dst >= len(items) {
		return
	}
	// Move inserts before the element at the offset, so moving down skips one more
	to := dst
	if delta > 0 {
		to = dst + 1
	}
	if err := m.store.Move([]int{i}, to); err != nil {
		m.setError(err.Error())
		return
	}
	m.refresh()
	m.panes[model.Shopping].Select(dst)
	m.checkSave()
}

func (m *Model) applyDrop(msg dropMsg) {
	if msg.err != nil {
		m.setError("drop: " + msg.err.Error())
		return
	}
	if m.store.Transfer(msg.text, msg.target) {
		m.setStatus(fmt.Sprintf("%s → %s", msg.text, msg.target))
	} else {
		m.setStatus(fmt.Sprintf("%s already in %s", msg.text, msg.target))
	}
	m.checkSave()
}

// dropCmd resolves the payload off the event loop; the transfer itself
// happens when dropMsg comes back through Update.
func dropCmd(p shoplist.PayloadProvider, target model.ListKind) tea.Cmd {
	return func() tea.Msg {
		text, err := p.LoadText(context.Background())
		return dropMsg{text: text, target: target, err: err}
	}
}

func (m *Model) checkSave() {
	if err := m.store.LastSaveError(); err != nil {
		m.setError("autosave failed: " + err.Error())
	}
}

func (m *Model) setStatus(s string) { m.status, m.statusErr = s, false }
func (m *Model) setError(s string)  { m.status, m.statusErr = s, true }

// refresh rebuilds both panes from the last snapshot the store pushed.
func (m *Model) refresh() {
	st := m.bind.snap
	m.bind.dirty = false
	build := func(values, other []string, kind model.ListKind) []list.Item {
		out := make([]list.Item, 0, len(values))
		for _, v := range values {
			out = append(out, listItem{Text: v, Kind: kind, Both: indexOf(other, v) >= 0})
		}
		return out
	}
	m.setPane(model.Shopping, build(st.Items, st.SuggestedItems, model.Shopping))
	m.setPane(model.Suggested, build(st.SuggestedItems, st.Items, model.Suggested))
}

func (m *Model) setPane(k model.ListKind, items []list.Item) {
	idx := m.panes[k].Index()
	m.panes[k].SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.panes[k].Select(idx)
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	paneW := w/2 - 4
	if paneW < 10 {
		paneW = 10
	}
	listH := h - 7
	if listH < 3 {
		listH = 3
	}
	for k := range m.panes {
		m.panes[k].SetSize(paneW, listH)
	}
	m.ti.Width = w - 8
	m.help.Width = w
}

func (m Model) View() string {
	st := m.bind.snap
	header := fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Shopping"),
		accentStyle.Render(markItem), len(st.Items),
		pendingStyle.Render(markSuggested), len(st.SuggestedItems),
	)

	panes := make([]string, 2)
	for k := range m.panes {
		style := paneStyle
		if model.ListKind(k) == m.focus {
			style = focusedPaneStyle
		}
		panes[k] = style.Render(m.panes[k].View())
	}
	content := header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	if m.mode != modeBrowse {
		title := map[inputMode]string{modeAdd: "Add item", modeExport: "Save list as", modeImport: "Open list"}[m.mode]
		if len(m.hints) > 0 {
			title += " " + mutedStyle.Render("(did you mean: "+strings.Join(m.hints, ", ")+"?)")
		}
		content += "\n" + inputBarStyle.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		if m.statusErr {
			content += "\n" + errorStyle.Render("✖ "+m.status)
		} else {
			content += "\n" + successStyle.Render("✔ "+m.status)
		}
	}
	return content + "\n" + m.help.View(keys)
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		w, h = tw, th
	}
	return w, h
}

func indexOf(list []string, v string) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
