package handlers

import (
	"go-flexi/daw"
	"go-flexi/flexi"
)

var masterFlags = map[flexi.Family]flagCommand{
	flexi.MasterToggleMute: {muteFlag, true},
	flexi.MasterSetMute:    {muteFlag, false},
	flexi.MasterToggleSolo: {soloFlag, true},
	flexi.MasterSetSolo:    {soloFlag, false},
}

// MasterHandler drives the master track
type MasterHandler struct {
	model    daw.Model
	commands []flexi.Command
}

func NewMasterHandler(model daw.Model) *MasterHandler {
	return &MasterHandler{model: model, commands: commandsOf("Master")}
}

func (h *MasterHandler) SupportedCommands() []flexi.Command {
	return h.commands
}

func (h *MasterHandler) CommandValue(c flexi.Command) int {
	master := h.model.MasterTrack()
	if master == nil {
		return -1
	}
	if fc, ok := masterFlags[c.Family]; ok {
		return boolValue(fc.flag.get(master))
	}
	switch c.Family {
	case flexi.MasterSetVolume:
		return master.Volume()
	case flexi.MasterSetPanorama:
		return master.Pan()
	}
	return -1
}

func (h *MasterHandler) Handle(c flexi.Command, mode flexi.KnobMode, value int) {
	master := h.model.MasterTrack()
	if master == nil {
		return
	}
	if fc, ok := masterFlags[c.Family]; ok {
		if flexi.IsButtonPressed(mode, value) {
			fc.flag.apply(master, fc.toggle, value)
		}
		return
	}
	switch c.Family {
	case flexi.MasterSetVolume:
		master.SetVolume(knobValue(mode, master.Volume(), value))
	case flexi.MasterSetPanorama:
		master.SetPan(knobValue(mode, master.Pan(), value))
	}
}
