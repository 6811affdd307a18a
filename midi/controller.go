package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go-flexi/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var feedbackSendCount uint64

// Output receives value feedback for the controller's LEDs and motor faders
type Output interface {
	SendCC(channel, number, value uint8) error
	SendPitchbend(channel, value uint8) error
}

// Controller is a connected MIDI controller: raw input plus feedback output
type Controller interface {
	ID() string

	// Raw inbound messages, channel voice and sysex alike
	Messages() <-chan []byte

	Output

	// Lifecycle
	Close() error
}

// ControlChangeMessage builds the outbound CC feedback message
func ControlChangeMessage(channel, number, value uint8) gomidi.Message {
	return gomidi.ControlChange(channel&ChannelMask, number&0x7F, value&0x7F)
}

// PitchbendMessage builds the outbound fader feedback: value is the MSB, the LSB stays 0
func PitchbendMessage(channel, value uint8) gomidi.Message {
	return gomidi.Message([]byte{PitchBend | channel&ChannelMask, 0, value & 0x7F})
}

// PortController drives any controller through a pair of gomidi ports
type PortController struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu      sync.Mutex
	closed  bool
	msgChan chan []byte
}

// NewPortController opens the given ports. Either port may be nil
// (input-only keyboards, output-only displays).
func NewPortController(id string, inPort drivers.In, outPort drivers.Out) (*PortController, error) {
	pc := &PortController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		msgChan: make(chan []byte, 64),
	}

	// Open output
	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		pc.send = send
	}

	// Open input
	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			// the driver reuses its buffer
			raw := make([]byte, len(msg))
			copy(raw, msg)
			pc.mu.Lock()
			defer pc.mu.Unlock()
			if pc.closed {
				return
			}
			select {
			case pc.msgChan <- raw:
			default:
				debug.LogEvery(50, "midi", "input queue full, dropping % X", raw)
			}
		}, gomidi.UseSysEx(), gomidi.HandleError(func(err error) {
			debug.Log("midi", "listener error on %s: %v", id, err)
		}))
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		pc.stopFunc = stop
	}

	return pc, nil
}

func (pc *PortController) ID() string {
	return pc.id
}

func (pc *PortController) Messages() <-chan []byte {
	return pc.msgChan
}

func (pc *PortController) SendCC(channel, number, value uint8) error {
	return pc.write(ControlChangeMessage(channel, number, value))
}

func (pc *PortController) SendPitchbend(channel, value uint8) error {
	return pc.write(PitchbendMessage(channel, value))
}

func (pc *PortController) write(msg gomidi.Message) error {
	if pc.send == nil {
		return nil
	}
	count := atomic.AddUint64(&feedbackSendCount, 1)
	if count%100 == 0 {
		debug.Log("feedback", "sent %d messages", count)
	}
	return pc.send(msg)
}

func (pc *PortController) Close() error {
	if pc.stopFunc != nil {
		pc.stopFunc()
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.closed {
		pc.closed = true
		close(pc.msgChan)
	}
	return nil
}
