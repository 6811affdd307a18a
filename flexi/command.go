package flexi

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Family groups the variants of a semantic command. Numbered families
// expand into eight indexed commands (tracks 1-8) and optionally a
// Selected variant; send families expand again over eight sends.
type Family int

const (
	FamilyOff Family = iota

	// Track: single commands
	TrackToggleTrackBank
	TrackAddAudioTrack
	TrackAddEffectTrack
	TrackAddInstrumentTrack
	TrackSelectPreviousBankPage
	TrackSelectNextBankPage
	TrackSelectPreviousTrack
	TrackSelectNextTrack
	TrackScrollTracks

	// Track: numbered commands
	TrackSelect
	TrackToggleActive
	TrackSetActive
	TrackSetVolume
	TrackSetPanorama
	TrackToggleMute
	TrackSetMute
	TrackToggleSolo
	TrackSetSolo
	TrackToggleArm
	TrackSetArm
	TrackToggleMonitor
	TrackSetMonitor
	TrackToggleAutoMonitor
	TrackSetAutoMonitor
	TrackSetSend

	// Transport
	TransportPlay
	TransportStop
	TransportRecord
	TransportToggleRepeat
	TransportToggleMetronome
	TransportRewind
	TransportFastForward
	TransportSetTempo
	TransportTapTempo

	// Master
	MasterSetVolume
	MasterSetPanorama
	MasterToggleMute
	MasterSetMute
	MasterToggleSolo
	MasterSetSolo

	familyCount
)

// Selected is the Index of the "selected track" variant of a numbered family
const Selected = -1

// NumberedCount is the number of indexed variants per numbered family
const NumberedCount = 8

// SendCount is the number of sends addressable per track
const SendCount = 8

type familyInfo struct {
	group    string
	name     string
	trigger  bool
	numbered bool // Track 1..8
	selected bool // plus "Track Selected"
	sends    bool // times Send 1..8
}

var families = [familyCount]familyInfo{
	FamilyOff: {name: "Off"},

	TrackToggleTrackBank:        {group: "Track", name: "Toggle Track Bank", trigger: true},
	TrackAddAudioTrack:          {group: "Track", name: "Add Audio Track", trigger: true},
	TrackAddEffectTrack:         {group: "Track", name: "Add Effect Track", trigger: true},
	TrackAddInstrumentTrack:     {group: "Track", name: "Add Instrument Track", trigger: true},
	TrackSelectPreviousBankPage: {group: "Track", name: "Select Previous Bank Page", trigger: true},
	TrackSelectNextBankPage:     {group: "Track", name: "Select Next Bank Page", trigger: true},
	TrackSelectPreviousTrack:    {group: "Track", name: "Select Previous Track", trigger: true},
	TrackSelectNextTrack:        {group: "Track", name: "Select Next Track", trigger: true},
	TrackScrollTracks:           {group: "Track", name: "Scroll Tracks"},

	TrackSelect:            {group: "Track", name: "Select", trigger: true, numbered: true},
	TrackToggleActive:      {group: "Track", name: "Toggle Active", trigger: true, numbered: true, selected: true},
	TrackSetActive:         {group: "Track", name: "Set Active", trigger: true, numbered: true, selected: true},
	TrackSetVolume:         {group: "Track", name: "Set Volume", numbered: true, selected: true},
	TrackSetPanorama:       {group: "Track", name: "Set Panorama", numbered: true, selected: true},
	TrackToggleMute:        {group: "Track", name: "Toggle Mute", trigger: true, numbered: true, selected: true},
	TrackSetMute:           {group: "Track", name: "Set Mute", trigger: true, numbered: true, selected: true},
	TrackToggleSolo:        {group: "Track", name: "Toggle Solo", trigger: true, numbered: true, selected: true},
	TrackSetSolo:           {group: "Track", name: "Set Solo", trigger: true, numbered: true, selected: true},
	TrackToggleArm:         {group: "Track", name: "Toggle Arm", trigger: true, numbered: true, selected: true},
	TrackSetArm:            {group: "Track", name: "Set Arm", trigger: true, numbered: true, selected: true},
	TrackToggleMonitor:     {group: "Track", name: "Toggle Monitor", trigger: true, numbered: true, selected: true},
	TrackSetMonitor:        {group: "Track", name: "Set Monitor", trigger: true, numbered: true, selected: true},
	TrackToggleAutoMonitor: {group: "Track", name: "Toggle Auto Monitor", trigger: true, numbered: true, selected: true},
	TrackSetAutoMonitor:    {group: "Track", name: "Set Auto Monitor", trigger: true, numbered: true, selected: true},
	TrackSetSend:           {group: "Track", name: "Set Send", numbered: true, selected: true, sends: true},

	TransportPlay:            {group: "Transport", name: "Play", trigger: true},
	TransportStop:            {group: "Transport", name: "Stop", trigger: true},
	TransportRecord:          {group: "Transport", name: "Record", trigger: true},
	TransportToggleRepeat:    {group: "Transport", name: "Toggle Repeat", trigger: true},
	TransportToggleMetronome: {group: "Transport", name: "Toggle Metronome", trigger: true},
	TransportRewind:          {group: "Transport", name: "Rewind", trigger: true},
	TransportFastForward:     {group: "Transport", name: "Fast Forward", trigger: true},
	TransportSetTempo:        {group: "Transport", name: "Set Tempo"},
	TransportTapTempo:        {group: "Transport", name: "Tap Tempo", trigger: true},

	MasterSetVolume:   {group: "Master", name: "Set Volume"},
	MasterSetPanorama: {group: "Master", name: "Set Panorama"},
	MasterToggleMute:  {group: "Master", name: "Toggle Mute", trigger: true},
	MasterSetMute:     {group: "Master", name: "Set Mute", trigger: true},
	MasterToggleSolo:  {group: "Master", name: "Toggle Solo", trigger: true},
	MasterSetSolo:     {group: "Master", name: "Set Solo", trigger: true},
}

func (f Family) info() familyInfo {
	if f < 0 || f >= familyCount {
		return familyInfo{}
	}
	return families[f]
}

// IsTrigger reports whether commands of the family have button semantics
func (f Family) IsTrigger() bool { return f.info().trigger }

// IsNumbered reports whether the family addresses tracks 1-8
func (f Family) IsNumbered() bool { return f.info().numbered }

// Group is the handler area of the family ("Track", "Transport", "Master")
func (f Family) Group() string { return f.info().group }

// HasSends reports whether the family addresses sends 1-8
func (f Family) HasSends() bool { return f.info().sends }

func (f Family) String() string {
	inf := f.info()
	if inf.name == "" {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	if inf.group == "" {
		return inf.name
	}
	return inf.group + ": " + inf.name
}

// Command is one member of the semantic command vocabulary.
// Index is the track (0-7) or Selected for numbered families, 0 otherwise.
// Send is the send (0-7) for send families, 0 otherwise.
type Command struct {
	Family Family
	Index  int
	Send   int
}

// Off disables a slot
var Off = Command{}

// IsOff reports whether c is the disabled command
func (c Command) IsOff() bool { return c.Family == FamilyOff }

// IsTrigger reports whether c has down/up pulse semantics
func (c Command) IsTrigger() bool { return c.Family.IsTrigger() }

// IsSelected reports whether c addresses the selected track
func (c Command) IsSelected() bool { return c.Family.IsNumbered() && c.Index == Selected }

func (c Command) String() string {
	inf := c.Family.info()
	if inf.name == "" {
		return fmt.Sprintf("Command(%d,%d,%d)", int(c.Family), c.Index, c.Send)
	}
	if c.IsOff() {
		return "Off"
	}

	group := inf.group
	if inf.numbered {
		if c.Index == Selected {
			group += " Selected"
		} else {
			group += fmt.Sprintf(" %d", c.Index+1)
		}
	}
	name := inf.name
	if inf.sends {
		name += fmt.Sprintf(" %d", c.Send+1)
	}
	return group + ": " + name
}

var (
	allCommands []Command
	byName      map[string]Command
	members     map[Command]bool
)

func init() {
	allCommands = append(allCommands, Off)
	for f := Family(1); f < familyCount; f++ {
		inf := f.info()
		sends := 1
		if inf.sends {
			sends = SendCount
		}
		if !inf.numbered {
			allCommands = append(allCommands, Command{Family: f})
			continue
		}
		for s := 0; s < sends; s++ {
			for i := 0; i < NumberedCount; i++ {
				allCommands = append(allCommands, Command{Family: f, Index: i, Send: s})
			}
		}
		if inf.selected {
			for s := 0; s < sends; s++ {
				allCommands = append(allCommands, Command{Family: f, Index: Selected, Send: s})
			}
		}
	}

	byName = make(map[string]Command, len(allCommands))
	members = make(map[Command]bool, len(allCommands))
	for _, c := range allCommands {
		byName[strings.ToLower(c.String())] = c
		members[c] = true
	}
}

// AllCommands returns the closed command vocabulary, Off first, in display order
func AllCommands() []Command {
	out := make([]Command, len(allCommands))
	copy(out, allCommands)
	return out
}

// Valid reports whether c is exactly a member of the vocabulary.
// Fields a family does not use must be zero.
func (c Command) Valid() bool {
	return members[c]
}

// ParseCommand is the inverse of Command.String (case-insensitive)
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Off, nil
	}
	c, ok := byName[strings.ToLower(s)]
	if !ok {
		return Off, errors.Wrapf(ErrUnknownCommand, "%q", s)
	}
	return c, nil
}

// NextCommand steps through the vocabulary by delta, wrapping around.
func NextCommand(c Command, delta int) Command {
	idx := 0
	for i, cmd := range allCommands {
		if cmd == c {
			idx = i
			break
		}
	}
	n := len(allCommands)
	idx = ((idx+delta)%n + n) % n
	return allCommands[idx]
}

// NextGroup returns the first command of the group after c's, wrapping around.
func NextGroup(c Command) Command {
	next := c
	for range allCommands {
		next = NextCommand(next, 1)
		if next.Family.Group() != c.Family.Group() {
			return next
		}
	}
	return c
}
