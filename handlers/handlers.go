// Package handlers executes flexi commands against a daw.Model.
package handlers

import (
	"go-flexi/daw"
	"go-flexi/flexi"
)

// RegisterAll installs the track, transport and master handlers
func RegisterAll(reg *flexi.Registry, model daw.Model) {
	reg.Register(NewTrackHandler(model))
	reg.Register(NewTransportHandler(model))
	reg.Register(NewMasterHandler(model))
}

// commandsOf returns every command whose family belongs to group
func commandsOf(group string) []flexi.Command {
	var out []flexi.Command
	for _, c := range flexi.AllCommands() {
		if c.Family.Group() == group {
			out = append(out, c)
		}
	}
	return out
}

// knobValue applies an incoming value to current according to the knob mode
func knobValue(mode flexi.KnobMode, current, value int) int {
	if flexi.IsAbsolute(mode) {
		return value
	}
	return flexi.Limit(current + flexi.RelativeSpeed(mode, value))
}

func boolValue(on bool) int {
	if on {
		return 127
	}
	return 0
}

// trackFlag is one boolean property of a track
type trackFlag struct {
	get    func(daw.Track) bool
	set    func(daw.Track, bool)
	toggle func(daw.Track)
}

var (
	activeFlag      = trackFlag{daw.Track.IsActivated, daw.Track.SetActivated, daw.Track.ToggleActivated}
	muteFlag        = trackFlag{daw.Track.IsMute, daw.Track.SetMute, daw.Track.ToggleMute}
	soloFlag        = trackFlag{daw.Track.IsSolo, daw.Track.SetSolo, daw.Track.ToggleSolo}
	armFlag         = trackFlag{daw.Track.IsRecArm, daw.Track.SetRecArm, daw.Track.ToggleRecArm}
	monitorFlag     = trackFlag{daw.Track.IsMonitor, daw.Track.SetMonitor, daw.Track.ToggleMonitor}
	autoMonitorFlag = trackFlag{daw.Track.IsAutoMonitor, daw.Track.SetAutoMonitor, daw.Track.ToggleAutoMonitor}
)

// apply runs a toggle or set button on t
func (f trackFlag) apply(t daw.Track, toggle bool, value int) {
	if toggle {
		f.toggle(t)
		return
	}
	f.set(t, value > 0)
}
