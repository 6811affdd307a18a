package flexi

import (
	"fmt"
	"time"
)

// valueHandler keeps one value per command and applies the usual
// knob and button policies, enough to drive the surface end to end.
type valueHandler struct {
	values map[Command]int
	calls  []handleCall
}

type handleCall struct {
	cmd   Command
	mode  KnobMode
	value int
}

func newValueHandler() *valueHandler {
	return &valueHandler{values: make(map[Command]int)}
}

func (h *valueHandler) SupportedCommands() []Command {
	return AllCommands()[1:]
}

func (h *valueHandler) CommandValue(c Command) int {
	return h.values[c]
}

func (h *valueHandler) Handle(c Command, mode KnobMode, value int) {
	h.calls = append(h.calls, handleCall{c, mode, value})
	if c.IsTrigger() {
		if IsButtonPressed(mode, value) {
			h.values[c] = 127 - h.values[c]
		}
		return
	}
	if IsAbsolute(mode) {
		h.values[c] = value
		return
	}
	h.values[c] = Limit(h.values[c] + RelativeSpeed(mode, value))
}

type sentMsg struct {
	kind    string
	channel uint8
	number  uint8
	value   uint8
}

func (m sentMsg) String() string {
	return fmt.Sprintf("%s(%d,%d,%d)", m.kind, m.channel, m.number, m.value)
}

type recordingOutput struct {
	sent []sentMsg
}

func (o *recordingOutput) SendCC(channel, number, value uint8) error {
	o.sent = append(o.sent, sentMsg{"cc", channel, number, value})
	return nil
}

func (o *recordingOutput) SendPitchbend(channel, value uint8) error {
	o.sent = append(o.sent, sentMsg{"pb", channel, 0, value})
	return nil
}

func (o *recordingOutput) take() []sentMsg {
	s := o.sent
	o.sent = nil
	return s
}

// manualScheduler holds tasks until the test fires them
type manualScheduler struct {
	tasks  []func()
	delays []time.Duration
}

func (m *manualScheduler) Schedule(task func(), delay time.Duration) {
	m.tasks = append(m.tasks, task)
	m.delays = append(m.delays, delay)
}

func (m *manualScheduler) fire(i int) {
	m.tasks[i]()
}

func (m *manualScheduler) fireAll() {
	tasks := m.tasks
	m.tasks = nil
	m.delays = nil
	for _, t := range tasks {
		t()
	}
}

type notes struct {
	msgs []string
}

func (n *notes) Notify(msg string) {
	n.msgs = append(n.msgs, msg)
}

func (n *notes) last() string {
	if len(n.msgs) == 0 {
		return ""
	}
	return n.msgs[len(n.msgs)-1]
}
