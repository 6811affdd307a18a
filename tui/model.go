package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-flexi/flexi"
	"go-flexi/theme"
	"go-flexi/widgets"
)

// Notifications implements flexi.Notifier for the TUI. Notify never blocks;
// messages are dropped when the buffer is full.
type Notifications struct {
	ch chan string
}

func NewNotifications() *Notifications {
	return &Notifications{ch: make(chan string, 16)}
}

func (n *Notifications) Notify(msg string) {
	select {
	case n.ch <- msg:
	default:
	}
}

type row struct {
	index int
	slot  flexi.Slot
	value int
}

// snapshot is a copy of surface state taken on the runner goroutine
type snapshot struct {
	rows       []row
	total      int
	learning   bool
	learnSlot  int
	conflicts  map[int]bool
	suppressed bool
	filename   string
}

type Model struct {
	runner *flexi.Runner
	notes  *Notifications
	Theme  *theme.Theme

	keys keyMap
	help help.Model

	cursor int
	offset int
	height int

	snap     snapshot
	message  string
	quitting bool
}

type UpdateMsg struct{}

type NoteMsg string

type snapshotMsg snapshot

type runnerDoneMsg struct{}

func NewModel(runner *flexi.Runner, notes *Notifications, th *theme.Theme) Model {
	return Model{
		runner: runner,
		notes:  notes,
		Theme:  th,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

func ListenForUpdates(runner *flexi.Runner) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-runner.UpdateChan:
			return UpdateMsg{}
		case <-runner.Done():
			return runnerDoneMsg{}
		}
	}
}

func ListenForNotes(notes *Notifications) tea.Cmd {
	return func() tea.Msg {
		return NoteMsg(<-notes.ch)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.runner),
		ListenForNotes(m.notes),
		m.refresh(),
	)
}

func (m Model) visibleRows() int {
	if m.height <= 0 {
		return 20
	}
	return max(5, m.height-9)
}

// refresh reads the visible part of the table
func (m Model) refresh() tea.Cmd {
	return m.edit(nil)
}

// edit runs fn against the surface, then returns a fresh snapshot.
// Errors from fn are shown as notifications.
func (m Model) edit(fn func(s *flexi.Surface) error) tea.Cmd {
	runner, notes := m.runner, m.notes
	offset, rows := m.offset, m.visibleRows()
	return func() tea.Msg {
		var snap snapshot
		ok := runner.Do(func(s *flexi.Surface) {
			if fn != nil {
				if err := fn(s); err != nil {
					notes.Notify(err.Error())
				}
			}
			snap = takeSnapshot(s, offset, rows)
		})
		if !ok {
			return runnerDoneMsg{}
		}
		return snapshotMsg(snap)
	}
}

func takeSnapshot(s *flexi.Surface, offset, rows int) snapshot {
	t := s.Table()
	snap := snapshot{
		total:      t.Len(),
		learning:   t.Learning(),
		learnSlot:  t.LearnSlot(),
		conflicts:  make(map[int]bool),
		suppressed: s.Suppressed(),
		filename:   s.Filename(),
	}
	for _, i := range t.Conflicts() {
		snap.conflicts[i] = true
	}
	end := min(offset+rows, t.Len())
	for i := offset; i < end; i++ {
		snap.rows = append(snap.rows, row{index: i, slot: t.Slot(i), value: s.Cached(i)})
	}
	return snap
}

// editSlot rewrites the slot under the cursor
func (m Model) editSlot(change func(slot *flexi.Slot)) tea.Cmd {
	idx := m.cursor
	return m.edit(func(s *flexi.Surface) error {
		slot := s.Table().Slot(idx)
		change(&slot)
		return s.Table().SetSlot(idx, slot)
	})
}

func (m Model) moveCursor(delta int) (Model, tea.Cmd) {
	if m.snap.total == 0 {
		return m, nil
	}
	m.cursor = max(0, min(m.snap.total-1, m.cursor+delta))
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if !m.snap.learning {
		return m, m.refresh()
	}
	// the learn slot follows the cursor
	idx := m.cursor
	return m, m.edit(func(s *flexi.Surface) error {
		return s.Table().SetLearnSlot(idx)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.refresh()

	case UpdateMsg:
		return m, tea.Batch(ListenForUpdates(m.runner), m.refresh())

	case NoteMsg:
		m.message = string(msg)
		return m, ListenForNotes(m.notes)

	case snapshotMsg:
		m.snap = snapshot(msg)
		return m, nil

	case runnerDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursor(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursor(m.visibleRows())

	case key.Matches(msg, m.keys.Learn):
		idx := m.cursor
		return m, m.edit(func(s *flexi.Surface) error {
			t := s.Table()
			if t.Learning() {
				t.SetLearning(false)
				return nil
			}
			if err := t.SetLearnSlot(idx); err != nil {
				return err
			}
			t.SetLearning(true)
			return nil
		})

	case key.Matches(msg, m.keys.NextCommand):
		return m, m.editSlot(func(slot *flexi.Slot) { slot.Command = flexi.NextCommand(slot.Command, 1) })
	case key.Matches(msg, m.keys.PrevCommand):
		return m, m.editSlot(func(slot *flexi.Slot) { slot.Command = flexi.NextCommand(slot.Command, -1) })
	case key.Matches(msg, m.keys.NextGroup):
		return m, m.editSlot(func(slot *flexi.Slot) { slot.Command = flexi.NextGroup(slot.Command) })
	case key.Matches(msg, m.keys.KnobMode):
		return m, m.editSlot(func(slot *flexi.Slot) {
			modes := flexi.KnobModes()
			slot.KnobMode = modes[(int(slot.KnobMode)+1)%len(modes)]
		})
	case key.Matches(msg, m.keys.SendValue):
		return m, m.editSlot(func(slot *flexi.Slot) { slot.SendValue = !slot.SendValue })
	case key.Matches(msg, m.keys.WhenRecv):
		return m, m.editSlot(func(slot *flexi.Slot) { slot.SendValueWhenReceived = !slot.SendValueWhenReceived })
	case key.Matches(msg, m.keys.Clear):
		return m, m.editSlot(func(slot *flexi.Slot) { *slot = flexi.Slot{} })

	case key.Matches(msg, m.keys.Import):
		return m, m.edit(func(s *flexi.Surface) error {
			s.ImportFile(true)
			return nil
		})
	case key.Matches(msg, m.keys.Export):
		return m, m.edit(func(s *flexi.Surface) error {
			s.ExportFile()
			return nil
		})

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.Theme
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(th.Cursor())
	warnStyle := lipgloss.NewStyle().Foreground(th.Warning())
	learnStyle := lipgloss.NewStyle().Foreground(th.Active()).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(th.FG()).Background(th.Surface()).Padding(0, 1)

	// Header
	port := dimStyle.Render("no controller")
	if id := m.runner.Connected(); id != "" {
		port = lipgloss.NewStyle().Foreground(th.Success()).Render(id)
	}
	status := []string{headerStyle.Render("go-flexi"), port}
	if m.snap.learning {
		status = append(status, learnStyle.Render(fmt.Sprintf("LEARN slot %d", m.snap.learnSlot+1)))
	}
	if m.snap.suppressed {
		status = append(status, dimStyle.Render("hold"))
	}
	if n := len(m.snap.conflicts); n > 0 {
		status = append(status, warnStyle.Render(fmt.Sprintf("%d conflict(s)", n)))
	}
	file := m.snap.filename
	if file == "" {
		file = "no table file"
	}
	status = append(status, dimStyle.Render(file))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(strings.Join(status, "  "))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("    %5s  %-18s %-34s %-10s %s", "slot", "signature", "command", "knob", "fb  value")))
	out.WriteString("\n")

	for _, r := range m.snap.rows {
		out.WriteString(m.renderRow(r, cursorStyle, warnStyle, learnStyle, dimStyle))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	if m.message != "" {
		out.WriteString(noteStyle.Render(m.message))
	}
	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}

func (m Model) renderRow(r row, cursorStyle, warnStyle, learnStyle, dimStyle lipgloss.Style) string {
	th := m.Theme
	sym := th.Symbols

	cursor := " "
	if r.index == m.cursor {
		cursor = cursorStyle.Render(string(sym.Cursor))
	}
	marker := " "
	switch {
	case m.snap.learning && r.index == m.snap.learnSlot:
		marker = learnStyle.Render(string(sym.Learn))
	case m.snap.conflicts[r.index]:
		marker = warnStyle.Render(string(sym.Conflict))
	}

	sig := fmt.Sprintf("%-18s", widgets.Truncate(r.slot.Signature.String(), 18))
	if !r.slot.Enabled() {
		sig = dimStyle.Render(sig)
	} else if m.snap.conflicts[r.index] {
		sig = warnStyle.Render(sig)
	}
	cmd := fmt.Sprintf("%-34s", widgets.Truncate(r.slot.Command.String(), 34))
	if r.slot.Command.IsOff() {
		cmd = dimStyle.Render(cmd)
	}
	mode := fmt.Sprintf("%-10s", r.slot.KnobMode.String())

	fb := widgets.RenderSwatch(th.Muted(), sym.FeedbackOff)
	switch {
	case r.slot.SendValue && r.slot.SendValueWhenReceived:
		fb = widgets.RenderSwatch(th.Accent(), sym.Received)
	case r.slot.SendValue:
		fb = widgets.RenderSwatch(th.Accent(), sym.FeedbackOn)
	}

	bar := widgets.RenderValueBar(r.value, 8, sym.BarFull, sym.BarEmpty, th.ValueColor(r.value))
	return fmt.Sprintf("%s%s %5d  %s %s %s %s %s %s",
		cursor, marker, r.index+1, sig, cmd, mode, fb, widgets.RenderValue(r.value), bar)
}
