package handlers

import (
	"math"

	"go-flexi/daw"
	"go-flexi/flexi"
)

// TempoOffset is the tempo at controller value 0; absolute tempo
// controls cover TempoOffset to TempoOffset+127 BPM.
const TempoOffset = 60

// TransportHandler drives playback. MMC buttons usually bind here.
type TransportHandler struct {
	model    daw.Model
	commands []flexi.Command
}

func NewTransportHandler(model daw.Model) *TransportHandler {
	return &TransportHandler{model: model, commands: commandsOf("Transport")}
}

func (h *TransportHandler) SupportedCommands() []flexi.Command {
	return h.commands
}

func (h *TransportHandler) CommandValue(c flexi.Command) int {
	tr := h.model.Transport()
	switch c.Family {
	case flexi.TransportPlay:
		return boolValue(tr.IsPlaying())
	case flexi.TransportStop:
		return boolValue(!tr.IsPlaying())
	case flexi.TransportRecord:
		return boolValue(tr.IsRecording())
	case flexi.TransportToggleRepeat:
		return boolValue(tr.IsLoop())
	case flexi.TransportToggleMetronome:
		return boolValue(tr.IsMetronome())
	case flexi.TransportSetTempo:
		return flexi.Limit(int(math.Round(tr.Tempo())) - TempoOffset)
	}
	// rewind, fast forward and tap have no state
	return -1
}

func (h *TransportHandler) Handle(c flexi.Command, mode flexi.KnobMode, value int) {
	tr := h.model.Transport()

	if c.Family == flexi.TransportSetTempo {
		if flexi.IsAbsolute(mode) {
			tr.SetTempo(float64(TempoOffset + value))
		} else {
			tr.SetTempo(tr.Tempo() + float64(flexi.RelativeSpeed(mode, value)))
		}
		return
	}

	if !flexi.IsButtonPressed(mode, value) {
		return
	}
	switch c.Family {
	case flexi.TransportPlay:
		tr.Play()
	case flexi.TransportStop:
		tr.Stop()
	case flexi.TransportRecord:
		tr.Record()
	case flexi.TransportToggleRepeat:
		tr.ToggleLoop()
	case flexi.TransportToggleMetronome:
		tr.ToggleMetronome()
	case flexi.TransportRewind:
		tr.Rewind()
	case flexi.TransportFastForward:
		tr.FastForward()
	case flexi.TransportTapTempo:
		tr.TapTempo()
	}
}
