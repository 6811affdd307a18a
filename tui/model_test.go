package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-flexi/daw"
	"go-flexi/flexi"
	"go-flexi/handlers"
	"go-flexi/midi"
	"go-flexi/theme"
)

func newTestModel(t *testing.T) (Model, *flexi.Runner) {
	t.Helper()
	tb := flexi.NewTable(32)
	reg := flexi.NewRegistry()
	handlers.RegisterAll(reg, daw.NewHost(daw.DefaultHostConfig()))

	tasks := flexi.NewTaskScheduler(16)
	s, err := flexi.NewSurface(tb, reg, tasks)
	if err != nil {
		t.Fatal(err)
	}
	notes := NewNotifications()
	s.SetNotifier(notes)

	r := flexi.NewRunner(s, tasks, 30)
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx, nil)
	t.Cleanup(func() {
		cancel()
		<-r.Done()
	})

	m := NewModel(r, notes, theme.New(theme.DefaultPalette()))
	return m, r
}

// step feeds msg to the model and applies the command it returns.
// Only use it for messages answered with a single snapshot command.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLearnAndEdit(t *testing.T) {
	m, r := newTestModel(t)
	m = step(t, m, m.refresh()())
	if m.snap.total != 32 || len(m.snap.rows) != 20 {
		t.Fatalf("snapshot total=%d rows=%d", m.snap.total, len(m.snap.rows))
	}

	m = step(t, m, keyRunes("j"))
	m = step(t, m, keyRunes("l"))
	if !m.snap.learning || m.snap.learnSlot != 1 {
		t.Fatalf("learning=%v slot=%d", m.snap.learning, m.snap.learnSlot)
	}

	// learn slot follows the cursor
	m = step(t, m, keyRunes("j"))
	if m.snap.learnSlot != 2 {
		t.Errorf("learn slot = %d, want 2", m.snap.learnSlot)
	}

	m = step(t, m, keyRunes("]"))
	m = step(t, m, keyRunes("m"))
	m = step(t, m, keyRunes("f"))

	var slot flexi.Slot
	r.Do(func(s *flexi.Surface) {
		s.Table().SetLearnValues(midi.KindCC, 7, 0)
		slot = s.Table().Slot(2)
	})
	if slot.Command != flexi.NextCommand(flexi.Off, 1) || slot.KnobMode != flexi.KnobRelative1 || !slot.SendValue {
		t.Errorf("slot = %+v", slot)
	}
	if slot.Signature != (midi.Signature{Kind: midi.KindCC, Channel: 0, Number: 7}) {
		t.Errorf("learned signature = %v", slot.Signature)
	}

	m = step(t, m, m.refresh()())
	if view := m.View(); !strings.Contains(view, "LEARN slot 3") || !strings.Contains(view, "CC 7 ch 1") {
		t.Errorf("view missing learn state:\n%s", view)
	}

	m = step(t, m, keyRunes("x"))
	r.Do(func(s *flexi.Surface) { slot = s.Table().Slot(2) })
	if !slot.IsEmpty() {
		t.Errorf("cleared slot = %+v", slot)
	}

	m = step(t, m, keyRunes("l"))
	if m.snap.learning {
		t.Error("learn mode still on")
	}
}

func TestModelCursorScrolls(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 14})
	rows := m.visibleRows()
	if rows != 5 {
		t.Fatalf("rows = %d", rows)
	}
	for i := 0; i < 7; i++ {
		m = step(t, m, keyRunes("j"))
	}
	if m.cursor != 7 || m.offset != 3 {
		t.Errorf("cursor=%d offset=%d", m.cursor, m.offset)
	}
	if first := m.snap.rows[0].index; first != 3 {
		t.Errorf("first visible row = %d", first)
	}
	m = step(t, m, keyRunes("K"))
	if m.cursor != 2 || m.offset != 2 {
		t.Errorf("after page up: cursor=%d offset=%d", m.cursor, m.offset)
	}
}

func TestModelImportWithoutFile(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, keyRunes("i"))
	next, _ := m.Update(ListenForNotes(m.notes)())
	m = next.(Model)
	if m.message != "Please enter a filename first." {
		t.Errorf("message = %q", m.message)
	}
}

func TestNotificationsDoNotBlock(t *testing.T) {
	n := NewNotifications()
	for i := 0; i < 100; i++ {
		n.Notify("x")
	}
	if len(n.ch) != cap(n.ch) {
		t.Errorf("buffered %d", len(n.ch))
	}
}

func TestRefreshIsQuietWhenIdle(t *testing.T) {
	m, r := newTestModel(t)
	m = step(t, m, m.refresh()())

	// answer updates the way Update does, counting them
	count := 0
	deadline := time.After(300 * time.Millisecond)
	for {
		select {
		case <-r.UpdateChan:
			count++
			m = step(t, m, m.refresh()())
		case <-deadline:
			if count != 0 {
				t.Errorf("%d updates while idle", count)
			}
			return
		}
	}
}
