package flexi

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"go-flexi/debug"
	"go-flexi/midi"
)

// DefaultSettleDelay is how long feedback is held back after a command
const DefaultSettleDelay = 400 * time.Millisecond

// Surface routes decoded MIDI to command handlers and reflects command
// values back to the controller. It is not safe for concurrent use;
// Runner serializes all calls.
type Surface struct {
	table     *Table
	registry  *Registry
	scheduler Scheduler
	out       midi.Output
	notifier  Notifier
	store     TableStore

	settleDelay time.Duration
	filename    string

	cache      []int // last reflected value per slot, -1 = unknown
	updating   bool  // feedback held back after a command
	generation uint64
}

// NewSurface validates that every command has a handler
func NewSurface(table *Table, registry *Registry, scheduler Scheduler) (*Surface, error) {
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	s := &Surface{
		table:       table,
		registry:    registry,
		scheduler:   scheduler,
		notifier:    NotifyFunc(func(string) {}),
		settleDelay: DefaultSettleDelay,
	}
	s.ResetCache()
	return s, nil
}

// SetOutput sets where feedback goes; nil pauses feedback
func (s *Surface) SetOutput(out midi.Output) {
	s.out = out
}

func (s *Surface) SetNotifier(n Notifier) {
	if n == nil {
		n = NotifyFunc(func(string) {})
	}
	s.notifier = n
}

func (s *Surface) SetStore(store TableStore) {
	s.store = store
}

func (s *Surface) SetSettleDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultSettleDelay
	}
	s.settleDelay = d
}

// SetFilename sets the import/export file
func (s *Surface) SetFilename(name string) {
	s.filename = name
}

func (s *Surface) Filename() string {
	return s.filename
}

func (s *Surface) Table() *Table {
	return s.table
}

// Cached returns the last value reflected for slot i, -1 if unknown
func (s *Surface) Cached(i int) int {
	if i < 0 || i >= len(s.cache) {
		return -1
	}
	return s.cache[i]
}

// Suppressed reports whether feedback is currently held back
func (s *Surface) Suppressed() bool {
	return s.updating
}

// ResetCache forgets all reflected values so the next flush repaints everything
func (s *Surface) ResetCache() {
	if len(s.cache) != s.table.Len() {
		s.cache = make([]int, s.table.Len())
	}
	for i := range s.cache {
		s.cache[i] = -1
	}
}

// Reload replaces the binding table and resets the feedback cache
func (s *Surface) Reload(slots []Slot) error {
	if err := s.table.Load(slots); err != nil {
		return err
	}
	s.ResetCache()
	debug.Log("surface", "table reloaded, %d slots", s.table.Len())
	return nil
}

// Input

// HandleMIDI routes a raw message. Unknown or malformed messages are dropped.
func (s *Surface) HandleMIDI(msg []byte) error {
	if midi.IsSysEx(msg) {
		return s.HandleSysEx(msg)
	}
	ev, ok := midi.Decode(msg)
	if !ok {
		debug.LogEvery(20, "midi", "ignored % X", msg)
		return nil
	}
	return s.HandleEvent(ev)
}

// HandleSysEx routes an MMC message
func (s *Surface) HandleSysEx(data []byte) error {
	ev, ok := midi.DecodeSysEx(data)
	if !ok {
		debug.Log("midi", "ignored sysex % X", data)
		return nil
	}
	return s.HandleEvent(ev)
}

// HandleHexSysEx routes an MMC message given as a hex string
func (s *Surface) HandleHexSysEx(hexStr string) error {
	ev, ok := midi.DecodeHexSysEx(hexStr)
	if !ok {
		debug.Log("midi", "ignored sysex %q", hexStr)
		return nil
	}
	return s.HandleEvent(ev)
}

// HandleEvent learns, resolves and dispatches a decoded event
func (s *Surface) HandleEvent(ev midi.Event) error {
	s.table.SetLearnValues(ev.Kind, ev.Number, ev.Channel)

	idx := s.table.Resolve(ev.Kind, ev.Number, ev.Channel)
	if idx < 0 {
		return nil
	}

	if !ev.Pulse {
		return s.handleCommand(idx, int(ev.Value))
	}

	// No value byte: MMC always pulses, program change only for triggers
	if ev.Kind == midi.KindMMC || s.table.Slot(idx).Command.IsTrigger() {
		if err := s.handleCommand(idx, 127); err != nil {
			return err
		}
		return s.handleCommand(idx, 0)
	}
	return s.handleCommand(idx, int(ev.Value))
}

func (s *Surface) handleCommand(idx, value int) error {
	slot := s.table.Slot(idx)
	cmd := slot.Command
	if cmd.IsOff() {
		return nil
	}

	h, ok := s.registry.Handler(cmd)
	if !ok {
		return errors.Wrapf(ErrMissingHandler, "%s (slot %d)", cmd, idx+1)
	}

	s.updating = true
	s.generation++
	gen := s.generation

	debug.Log("surface", "slot %d %s <- %d (%s)", idx+1, cmd, value, slot.KnobMode)
	h.Handle(cmd, slot.KnobMode, value)

	s.scheduler.Schedule(func() {
		s.settle(idx, cmd, gen)
	}, s.settleDelay)
	return nil
}

// settle stores the value a command produced so it is not echoed back,
// and ends the hold-back unless a newer command restarted it.
func (s *Surface) settle(idx int, cmd Command, gen uint64) {
	if idx < len(s.cache) && s.table.Slot(idx).Command == cmd {
		if h, ok := s.registry.Handler(cmd); ok {
			s.cache[idx] = h.CommandValue(cmd)
		}
	}
	if gen == s.generation {
		s.updating = false
	}
}

// Feedback

// Flush sends every changed slot value to the controller.
// Write errors do not stop the pass; the first one is returned.
func (s *Surface) Flush() error {
	if s.out == nil {
		return nil
	}

	var firstErr error
	for i := 0; i < s.table.Len(); i++ {
		slot := s.table.Slot(i)
		cmd := slot.Command
		if cmd.IsOff() || !slot.SendValue {
			continue
		}
		if s.updating && !(cmd.IsTrigger() && slot.SendValueWhenReceived) {
			continue
		}

		h, ok := s.registry.Handler(cmd)
		if !ok {
			continue
		}
		value := h.CommandValue(cmd)
		if s.cache[i] == value {
			continue
		}
		s.cache[i] = value

		if err := s.reflectValue(slot, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Surface) reflectValue(slot Slot, value int) error {
	if value < 0 || value > 127 || slot.Channel == midi.AnyChannel {
		return nil
	}
	ch := uint8(slot.Channel)
	switch slot.Kind {
	case midi.KindCC:
		debug.LogEvery(10, "feedback", "cc ch=%d num=%d val=%d", ch, slot.Number, value)
		return s.out.SendCC(ch, uint8(slot.Number), uint8(value))
	case midi.KindPitchBend:
		debug.LogEvery(10, "feedback", "pitchbend ch=%d val=%d", ch, value)
		return s.out.SendPitchbend(ch, uint8(value))
	}
	// Other kinds have nothing to light up
	return nil
}

// Files

// ImportFile loads the table from the configured file. The table is only
// replaced when the whole file is valid. Errors are reported to the notifier.
func (s *Surface) ImportFile(showMessage bool) bool {
	path, ok := s.file()
	if !ok || s.store == nil {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		if showMessage {
			s.notifier.Notify("The entered file does not exist.")
		}
		return false
	}

	slots, err := s.store.Import(path)
	if err == nil {
		slots = padSlots(slots, s.table.Len())
		err = s.Reload(slots)
	}
	if err != nil {
		debug.Log("config", "import %s: %v", path, err)
		s.notifier.Notify("Error reading file: " + err.Error())
		return false
	}

	text := "Imported from: " + path
	debug.Log("config", "%s", text)
	if showMessage {
		s.notifier.Notify(text)
	}
	return true
}

// ExportFile writes the table to the configured file
func (s *Surface) ExportFile() bool {
	path, ok := s.file()
	if !ok || s.store == nil {
		return false
	}
	if err := s.store.Export(path, s.table.Slots()); err != nil {
		debug.Log("config", "export %s: %v", path, err)
		s.notifier.Notify("Error writing file: " + err.Error())
		return false
	}
	s.notifier.Notify("Exported to: " + path)
	return true
}

func (s *Surface) file() (string, bool) {
	if strings.TrimSpace(s.filename) == "" {
		s.notifier.Notify("Please enter a filename first.")
		return "", false
	}
	return s.filename, true
}

// padSlots keeps the configured table size when a file lists fewer slots
func padSlots(slots []Slot, n int) []Slot {
	if len(slots) >= n {
		return slots
	}
	out := make([]Slot, n)
	copy(out, slots)
	return out
}
