package handlers

import (
	"go-flexi/daw"
	"go-flexi/flexi"
)

type flagCommand struct {
	flag   trackFlag
	toggle bool
}

var trackFlags = map[flexi.Family]flagCommand{
	flexi.TrackToggleActive:      {activeFlag, true},
	flexi.TrackSetActive:         {activeFlag, false},
	flexi.TrackToggleMute:        {muteFlag, true},
	flexi.TrackSetMute:           {muteFlag, false},
	flexi.TrackToggleSolo:        {soloFlag, true},
	flexi.TrackSetSolo:           {soloFlag, false},
	flexi.TrackToggleArm:         {armFlag, true},
	flexi.TrackSetArm:            {armFlag, false},
	flexi.TrackToggleMonitor:     {monitorFlag, true},
	flexi.TrackSetMonitor:        {monitorFlag, false},
	flexi.TrackToggleAutoMonitor: {autoMonitorFlag, true},
	flexi.TrackSetAutoMonitor:    {autoMonitorFlag, false},
}

// TrackHandler drives the track bank: selection, paging, mixer and sends
type TrackHandler struct {
	model    daw.Model
	commands []flexi.Command
	movement flexi.Movement
}

func NewTrackHandler(model daw.Model) *TrackHandler {
	return &TrackHandler{model: model, commands: commandsOf("Track")}
}

func (h *TrackHandler) SupportedCommands() []flexi.Command {
	return h.commands
}

func (h *TrackHandler) CommandValue(c flexi.Command) int {
	tb := h.model.CurrentTrackBank()
	if tb == nil {
		return -1
	}

	if fc, ok := trackFlags[c.Family]; ok {
		return boolValue(fc.flag.get(h.valueTrack(tb, c)))
	}

	switch c.Family {
	case flexi.TrackSelect:
		return boolValue(tb.Item(c.Index).IsSelected())
	case flexi.TrackSetVolume:
		return h.valueTrack(tb, c).Volume()
	case flexi.TrackSetPanorama:
		return h.valueTrack(tb, c).Pan()
	case flexi.TrackSetSend:
		return h.sendValue(c.Index, c.Send)
	}
	return -1
}

func (h *TrackHandler) Handle(c flexi.Command, mode flexi.KnobMode, value int) {
	tb := h.model.CurrentTrackBank()
	if tb == nil {
		return
	}
	pressed := flexi.IsButtonPressed(mode, value)

	if fc, ok := trackFlags[c.Family]; ok {
		if !pressed {
			return
		}
		if t := h.buttonTrack(tb, c); t != nil {
			fc.flag.apply(t, fc.toggle, value)
		}
		return
	}

	switch c.Family {
	case flexi.TrackToggleTrackBank:
		if pressed {
			h.model.ToggleTrackBank()
		}
	case flexi.TrackAddAudioTrack:
		if pressed {
			h.model.Application().AddAudioTrack()
		}
	case flexi.TrackAddEffectTrack:
		if pressed {
			h.model.Application().AddEffectTrack()
		}
	case flexi.TrackAddInstrumentTrack:
		if pressed {
			h.model.Application().AddInstrumentTrack()
		}
	case flexi.TrackSelectPreviousBankPage:
		if pressed {
			h.scrollTrackLeft(tb, true)
		}
	case flexi.TrackSelectNextBankPage:
		if pressed {
			h.scrollTrackRight(tb, true)
		}
	case flexi.TrackSelectPreviousTrack:
		if pressed {
			h.scrollTrackLeft(tb, false)
		}
	case flexi.TrackSelectNextTrack:
		if pressed {
			h.scrollTrackRight(tb, false)
		}
	case flexi.TrackScrollTracks:
		h.scrollTrack(tb, mode, value)
	case flexi.TrackSelect:
		if pressed {
			tb.Item(c.Index).Select()
		}
	case flexi.TrackSetVolume:
		if t := h.getTrack(tb, c.Index); t != nil {
			t.SetVolume(knobValue(mode, t.Volume(), value))
		}
	case flexi.TrackSetPanorama:
		if t := h.getTrack(tb, c.Index); t != nil {
			t.SetPan(knobValue(mode, t.Pan(), value))
		}
	case flexi.TrackSetSend:
		h.changeSendVolume(tb, c.Index, c.Send, mode, value)
	}
}

// valueTrack is the track a value is read from. The Selected variant
// reads the model's selected track, which may live outside the page.
func (h *TrackHandler) valueTrack(tb daw.TrackBank, c flexi.Command) daw.Track {
	if c.Index != flexi.Selected {
		return tb.Item(c.Index)
	}
	if t := h.model.SelectedTrack(); t != nil {
		return t
	}
	return daw.EmptyTrack
}

// buttonTrack is the track a button acts on, nil if there is none
func (h *TrackHandler) buttonTrack(tb daw.TrackBank, c flexi.Command) daw.Track {
	if c.Index != flexi.Selected {
		return tb.Item(c.Index)
	}
	return h.model.SelectedTrack()
}

// getTrack returns track index of the page, or the page's selected track
// for Selected. Nil when nothing on the page is selected.
func (h *TrackHandler) getTrack(tb daw.TrackBank, index int) daw.Track {
	if index == flexi.Selected {
		return tb.SelectedItem()
	}
	return tb.Item(index)
}

func (h *TrackHandler) sendValue(index, sendIndex int) int {
	tb := h.model.CurrentTrackBank()
	if tb == nil {
		return 0
	}
	t := h.getTrack(tb, index)
	if t == nil {
		return 0
	}
	sb := t.SendBank()
	if sendIndex >= sb.PageSize() {
		return 0
	}
	s := sb.Item(sendIndex)
	if s == nil {
		return 0
	}
	return s.Value()
}

func (h *TrackHandler) changeSendVolume(tb daw.TrackBank, index, sendIndex int, mode flexi.KnobMode, value int) {
	t := h.getTrack(tb, index)
	if t == nil {
		return
	}
	sb := t.SendBank()
	if sendIndex >= sb.PageSize() {
		return
	}
	s := sb.Item(sendIndex)
	if s == nil {
		return
	}
	s.SetValue(knobValue(mode, s.Value(), value))
}

// scrollTrack moves the selection with an encoder, one track per ScrollRate ticks
func (h *TrackHandler) scrollTrack(tb daw.TrackBank, mode flexi.KnobMode, value int) {
	if flexi.IsAbsolute(mode) {
		return
	}
	if !h.movement.Increase() {
		return
	}
	if flexi.RelativeSpeed(mode, value) > 0 {
		h.scrollTrackRight(tb, false)
	} else {
		h.scrollTrackLeft(tb, false)
	}
}

func (h *TrackHandler) scrollTrackLeft(tb daw.TrackBank, switchBank bool) {
	index := 0
	if sel := tb.SelectedItem(); sel != nil {
		index = sel.Index() - 1
	}
	if index == -1 || switchBank {
		tb.SelectPreviousPage()
		return
	}
	tb.Item(index).Select()
}

func (h *TrackHandler) scrollTrackRight(tb daw.TrackBank, switchBank bool) {
	index := 0
	if sel := tb.SelectedItem(); sel != nil {
		index = sel.Index() + 1
	}
	if index == tb.PageSize() || switchBank {
		tb.SelectNextPage()
		return
	}
	tb.Item(index).Select()
}
