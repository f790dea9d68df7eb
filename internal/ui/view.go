package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/renamer/internal/app"
	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/fs"
	"github.com/justyntemme/renamer/internal/path"
)

// eventMsg carries one model event into the update loop.
type eventMsg app.Event

// eventsClosedMsg is sent once the model event stream ends.
type eventsClosedMsg struct{}

func waitForEvent(ch <-chan app.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// Options configures the terminal view.
type Options struct {
	Analyzer fs.Options
	Dark     bool
}

// View is the bubbletea model of the main window.
type View struct {
	model    *app.Model
	chain    *builder.Chain
	analyzer fs.Options

	state      State
	rows       []Row
	cursor     int
	offset     int
	width      int
	height     int
	processed  int
	total      int
	collisions int
	message    string
	err        error

	keys     keyMap
	help     help.Model
	progress progress.Model
	input    textinput.Model
	adding   bool
}

// NewView creates the view over model. chain is regenerated whenever the
// rows change.
func NewView(model *app.Model, chain *builder.Chain, opts Options) *View {
	ApplyTheme(opts.Dark)
	in := textinput.New()
	in.Placeholder = "/absolute/path"
	in.Prompt = "add> "

	v := &View{
		model:    model,
		chain:    chain,
		analyzer: opts.Analyzer,
		width:    80,
		height:   24,
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithGradient(string(colAccent), string(colSuccess))),
		input:    in,
	}
	v.progress.Width = 40
	v.rows = Rows(model.Root())
	v.keys.apply(ActionsFor(v.state))
	return v
}

// Run shows the view until the user quits.
func Run(model *app.Model, chain *builder.Chain, opts Options) error {
	v := NewView(model, chain, opts)
	if model.Root().Len() > 0 {
		v.generate()
	}
	_, err := tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}

// State returns the current window phase.
func (v *View) State() State { return v.state }

func (v *View) Init() tea.Cmd {
	return waitForEvent(v.model.Events())
}

func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.help.Width = msg.Width
		return v, nil

	case eventMsg:
		v.handleEvent(app.Event(msg))
		return v, waitForEvent(v.model.Events())

	case eventsClosedMsg:
		return v, tea.Quit

	case tea.KeyMsg:
		if v.adding {
			return v.updateInput(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) setState(s State) {
	if s != v.state {
		debug.Log(debug.UI, "state %s -> %s", v.state, s)
	}
	v.state = s
	v.keys.apply(ActionsFor(s))
}

func (v *View) handleEvent(ev app.Event) {
	v.setState(Next(v.state, ev))
	switch ev.Type {
	case app.NameCreated, app.StateChanged:
		v.refreshRow(ev.Index)
		if ev.Type == app.StateChanged {
			v.processed++
		}
	case app.CollisionDetected:
		v.refreshRow(ev.Index)
		v.refreshRow(ev.Other)
	case app.RenameStarted, app.UndoStarted:
		v.processed = 0
		v.total = len(v.rows)
		v.message = ""
	case app.ReadyToRename:
		v.collisions = ev.Collisions
		v.refreshRows()
	case app.RenameStopped, app.RenameFinished, app.ItemCleared:
		v.refreshRows()
	case app.InternalDataChanged:
		v.refreshRows()
		v.generate()
	case app.ExternalChange:
		v.message = fmt.Sprintf("%s changed on disk; press g to preview again", ev.Dir)
	}
}

func (v *View) refreshRows() {
	v.rows = Rows(v.model.Root())
	v.clampCursor()
}

func (v *View) refreshRow(i int) {
	e, err := v.model.Root().Entity(i)
	if err != nil || i >= len(v.rows) {
		v.refreshRows()
		return
	}
	v.rows[i] = RowFor(e)
}

func (v *View) generate() {
	if v.chain == nil || v.chain.IsEmpty() || v.model.Root().IsEmpty() {
		return
	}
	v.report(v.model.StartGenerate(v.chain))
}

func (v *View) report(err error) {
	v.err = err
	if err != nil {
		debug.Log(debug.UI, "action failed: %v", err)
	}
}

func (v *View) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		v.model.Stop()
		return v, tea.Quit
	}
	v.err = nil

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
	case key.Matches(msg, v.keys.Up):
		v.cursor--
		v.clampCursor()
	case key.Matches(msg, v.keys.Down):
		v.cursor++
		v.clampCursor()
	case key.Matches(msg, v.keys.Generate):
		v.message = ""
		v.generate()
	case key.Matches(msg, v.keys.Rename):
		_, err := v.model.StartRename()
		v.report(err)
	case key.Matches(msg, v.keys.Undo):
		_, err := v.model.StartUndo()
		v.report(err)
	case key.Matches(msg, v.keys.Stop):
		v.model.Stop()
	case key.Matches(msg, v.keys.Clear):
		v.report(v.model.Clear())
	case key.Matches(msg, v.keys.Remove):
		if len(v.rows) > 0 {
			v.report(v.model.Remove([]int{v.cursor}))
		}
	case key.Matches(msg, v.keys.MoveUp):
		v.move(-1)
	case key.Matches(msg, v.keys.MoveDown):
		v.move(1)
	case key.Matches(msg, v.keys.SortName):
		v.report(v.model.Sort(app.SortByName, path.Ascending))
	case key.Matches(msg, v.keys.SortDir):
		v.report(v.model.Sort(app.SortByParentDir, path.Ascending))
	case key.Matches(msg, v.keys.Add):
		v.adding = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// move shifts the selected row by delta inside its directory.
func (v *View) move(delta int) {
	if len(v.rows) == 0 {
		return
	}
	target := v.cursor + delta
	if delta > 0 {
		// Move inserts before target, so skip past the next row
		target = v.cursor + delta + 1
	}
	if !v.model.Root().CanMove([]int{v.cursor}, target) {
		return
	}
	row, err := v.model.Move([]int{v.cursor}, target)
	if err != nil {
		v.report(err)
		return
	}
	v.cursor = row
}

func (v *View) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.adding = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		v.adding = false
		v.input.Blur()
		res := fs.Analyze([]string{strings.TrimSpace(v.input.Value())}, v.analyzer)
		if res.Empty() {
			v.message = "nothing to add"
			return v, nil
		}
		v.report(v.model.AddPaths(res))
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) clampCursor() {
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	visible := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
}

// visibleRows is the table height left after the chrome.
func (v *View) visibleRows() int {
	// title, chain, header (2), status, progress/message, help
	n := v.height - 8
	if n < 3 {
		n = 3
	}
	return n
}

func (v *View) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("renamer"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d items  [%s]", len(v.rows), v.state)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(v.chainLine()))
	b.WriteString("\n")
	b.WriteString(v.renderTable())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString("\n")
	if v.adding {
		b.WriteString(v.input.View())
		b.WriteString("\n")
	}
	b.WriteString(v.help.View(v.keys))
	return b.String()
}

func (v *View) chainLine() string {
	if v.chain == nil || v.chain.IsEmpty() {
		return "no builders"
	}
	return strings.ReplaceAll(v.chain.Describe(), "\n", " | ")
}

func (v *View) columnWidths() (name, newName, state, size int) {
	state, size = 14, 9
	rest := v.width - state - size - 6
	if rest < 20 {
		rest = 20
	}
	return rest / 2, rest - rest/2, state, size
}

func cell(s string, w int) string {
	if lipgloss.Width(s) > w {
		r := []rune(s)
		if len(r) > w-1 && w > 1 {
			s = string(r[:w-1]) + "…"
		}
	}
	return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(s)
}

func (v *View) renderTable() string {
	nw, nnw, sw, zw := v.columnWidths()
	header := headerStyle.Render(strings.Join([]string{
		cell("Name", nw), cell("New name", nnw), cell("State", sw), cell("Size", zw),
	}, " "))
	lines := []string{header}

	if len(v.rows) == 0 {
		lines = append(lines, mutedStyle.Render("Press a to add files or directories."))
		return strings.Join(lines, "\n")
	}

	end := v.offset + v.visibleRows()
	if end > len(v.rows) {
		end = len(v.rows)
	}
	for i := v.offset; i < end; i++ {
		r := v.rows[i]
		name := r.Name
		if r.IsDir {
			name += "/"
		}
		line := strings.Join([]string{
			cell(name, nw),
			cell(r.NewName, nnw),
			stateStyles[r.State].Render(cell(r.State.String(), sw)),
			cell(r.Size, zw),
		}, " ")
		if i == v.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderStatus() string {
	switch {
	case v.err != nil:
		return errorStyle.Render(v.err.Error())
	case v.state == StateRenaming && v.total > 0:
		pct := float64(v.processed) / float64(v.total)
		return v.progress.ViewAs(pct) + mutedStyle.Render(fmt.Sprintf(" %d/%d", v.processed, v.total))
	case v.message != "":
		return statusStyle.Render(v.message)
	case v.collisions > 0 && v.state == StateReady:
		return errorStyle.Render(fmt.Sprintf("%d entries share a new name", v.collisions))
	case v.cursor < len(v.rows):
		return statusStyle.Render(v.rows[v.cursor].Status)
	}
	return ""
}
