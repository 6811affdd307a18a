package flexi

import (
	"github.com/pkg/errors"

	"go-flexi/debug"
	"go-flexi/midi"
)

// DefaultSlotCount is the size of a fresh table
const DefaultSlotCount = 1000

// Table is the ordered list of binding slots plus learn state.
// A slot's index is stable; it is the key of the feedback cache.
type Table struct {
	slots []Slot

	learning  bool
	learnSlot int
	learned   midi.Signature
	hasLearn  bool
}

// NewTable creates a table of n empty slots
func NewTable(n int) *Table {
	if n <= 0 {
		n = DefaultSlotCount
	}
	return &Table{slots: make([]Slot, n)}
}

// Len returns the number of slots
func (t *Table) Len() int {
	return len(t.slots)
}

// Slot returns slot i, or an empty slot when i is out of range
func (t *Table) Slot(i int) Slot {
	if i < 0 || i >= len(t.slots) {
		return Slot{}
	}
	return t.slots[i]
}

// Slots returns a copy of all slots
func (t *Table) Slots() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// SetSlot replaces slot i. An enabled slot must not reuse the
// signature of another enabled slot.
func (t *Table) SetSlot(i int, s Slot) error {
	if i < 0 || i >= len(t.slots) {
		return errors.Wrapf(ErrSlotRange, "slot %d of %d", i, len(t.slots))
	}
	if !s.Command.Valid() {
		return errors.Wrapf(ErrUnknownCommand, "slot %d", i+1)
	}
	if s.Enabled() {
		for j, other := range t.slots {
			if j != i && other.Enabled() && other.Signature == s.Signature {
				return errors.Wrapf(ErrDuplicateSignature, "%s used by slot %d", s.Signature, j+1)
			}
		}
	}
	t.slots[i] = s
	return nil
}

// Load replaces the whole table. Nothing changes when the slots are invalid.
func (t *Table) Load(slots []Slot) error {
	if err := validateSlots(slots); err != nil {
		return err
	}
	t.slots = make([]Slot, len(slots))
	copy(t.slots, slots)
	if t.learnSlot >= len(t.slots) {
		t.learnSlot = 0
	}
	return nil
}

func validateSlots(slots []Slot) error {
	seen := make(map[midi.Signature]int, len(slots))
	for i, s := range slots {
		if !s.Enabled() {
			continue
		}
		if !s.Command.Valid() {
			return errors.Wrapf(ErrUnknownCommand, "slot %d", i+1)
		}
		if j, ok := seen[s.Signature]; ok {
			return errors.Wrapf(ErrDuplicateSignature, "%s in slots %d and %d", s.Signature, j+1, i+1)
		}
		seen[s.Signature] = i
	}
	return nil
}

// Resolve finds the slot bound to an incoming signature, or -1.
// A slot on the exact channel wins over an "any channel" slot;
// among equal candidates the lowest index wins.
func (t *Table) Resolve(kind midi.Kind, number, channel int) int {
	wildcard := -1
	for i, s := range t.slots {
		if !s.Matches(kind, number, channel) {
			continue
		}
		if s.Channel != midi.AnyChannel {
			return i
		}
		if wildcard < 0 {
			wildcard = i
		}
	}
	return wildcard
}

// Conflicts returns the indices of enabled slots sharing a signature
// with a lower slot. Learn mode can produce them.
func (t *Table) Conflicts() []int {
	var out []int
	seen := make(map[midi.Signature]bool)
	for i, s := range t.slots {
		if !s.Enabled() {
			continue
		}
		if seen[s.Signature] {
			out = append(out, i)
			continue
		}
		seen[s.Signature] = true
	}
	return out
}

// Learn mode

// SetLearning turns learn mode on or off
func (t *Table) SetLearning(on bool) {
	t.learning = on
	if !on {
		t.hasLearn = false
	}
}

// Learning reports whether learn mode is active
func (t *Table) Learning() bool {
	return t.learning
}

// SetLearnSlot selects the slot that learned signatures are written to
func (t *Table) SetLearnSlot(i int) error {
	if i < 0 || i >= len(t.slots) {
		return errors.Wrapf(ErrSlotRange, "learn slot %d of %d", i, len(t.slots))
	}
	t.learnSlot = i
	return nil
}

// StartLearning turns learn mode on with the first empty slot selected,
// so learning never overwrites an existing binding unasked.
func (t *Table) StartLearning() error {
	for i, s := range t.slots {
		if s.IsEmpty() {
			t.learnSlot = i
			t.learning = true
			return nil
		}
	}
	return errors.Wrapf(ErrSlotRange, "no empty slot among %d", len(t.slots))
}

// LearnSlot returns the slot learned signatures are written to
func (t *Table) LearnSlot() int {
	return t.learnSlot
}

// SetLearnValues is called for every decoded event. In learn mode the
// signature overwrites the learn slot's input, whatever else it matches.
func (t *Table) SetLearnValues(kind midi.Kind, number, channel int) {
	if !t.learning {
		return
	}
	sig := midi.Signature{Kind: kind, Channel: channel, Number: number}
	t.learned = sig
	t.hasLearn = true

	if t.learnSlot < 0 || t.learnSlot >= len(t.slots) {
		return
	}
	t.slots[t.learnSlot].Signature = sig
	debug.Log("learn", "slot %d <- %s", t.learnSlot+1, sig)
}

// Learned returns the last signature seen in learn mode
func (t *Table) Learned() (midi.Signature, bool) {
	return t.learned, t.hasLearn
}
