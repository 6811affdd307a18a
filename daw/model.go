package daw

// Model is the part of the hosted application the handlers can reach
type Model interface {
	// CurrentTrackBank returns nil while the application has no tracks to offer
	CurrentTrackBank() TrackBank
	// ToggleTrackBank switches between the instrument/audio bank and the effect bank
	ToggleTrackBank()
	// SelectedTrack returns nil when nothing is selected
	SelectedTrack() Track
	MasterTrack() Track
	Application() Application
	Transport() Transport
}

// TrackBank is a page-sized window onto a list of tracks
type TrackBank interface {
	PageSize() int
	// Item returns EmptyTrack for positions without a track
	Item(i int) Track
	// SelectedItem returns the selected track if it is on this page, else nil
	SelectedItem() Track
	SelectPreviousPage()
	SelectNextPage()
}

// Track is a channel strip. Values are in [0,127].
type Track interface {
	// Index is the position within the bank page, -1 for EmptyTrack
	Index() int
	Exists() bool
	Name() string

	Select()
	IsSelected() bool

	IsActivated() bool
	SetActivated(on bool)
	ToggleActivated()

	Volume() int
	SetVolume(v int)
	Pan() int
	SetPan(v int)

	IsMute() bool
	SetMute(on bool)
	ToggleMute()
	IsSolo() bool
	SetSolo(on bool)
	ToggleSolo()
	IsRecArm() bool
	SetRecArm(on bool)
	ToggleRecArm()
	IsMonitor() bool
	SetMonitor(on bool)
	ToggleMonitor()
	IsAutoMonitor() bool
	SetAutoMonitor(on bool)
	ToggleAutoMonitor()

	SendBank() SendBank
}

// SendBank holds the effect sends of a track
type SendBank interface {
	PageSize() int
	// Item returns nil beyond the page
	Item(i int) Send
}

type Send interface {
	Value() int
	SetValue(v int)
}

// Application holds project-level actions
type Application interface {
	AddAudioTrack()
	AddEffectTrack()
	AddInstrumentTrack()
}

// Transport is the playback engine
type Transport interface {
	IsPlaying() bool
	Play()
	Stop()
	IsRecording() bool
	Record()
	IsLoop() bool
	ToggleLoop()
	IsMetronome() bool
	ToggleMetronome()
	Rewind()
	FastForward()
	Tempo() float64
	SetTempo(bpm float64)
	TapTempo()
}

// EmptyTrack stands in for missing tracks: reads are zero, writes are dropped
var EmptyTrack Track = emptyTrack{}

type emptyTrack struct{}

func (emptyTrack) Index() int { return -1 }
func (emptyTrack) Exists() bool { return false }
func (emptyTrack) Name() string { return "" }
func (emptyTrack) Select() {}
func (emptyTrack) IsSelected() bool { return false }
func (emptyTrack) IsActivated() bool { return false }
func (emptyTrack) SetActivated(bool) {}
func (emptyTrack) ToggleActivated() {}
func (emptyTrack) Volume() int { return 0 }
func (emptyTrack) SetVolume(int) {}
func (emptyTrack) Pan() int { return 0 }
func (emptyTrack) SetPan(int) {}
func (emptyTrack) IsMute() bool { return false }
func (emptyTrack) SetMute(bool) {}
func (emptyTrack) ToggleMute() {}
func (emptyTrack) IsSolo() bool { return false }
func (emptyTrack) SetSolo(bool) {}
func (emptyTrack) ToggleSolo() {}
func (emptyTrack) IsRecArm() bool { return false }
func (emptyTrack) SetRecArm(bool) {}
func (emptyTrack) ToggleRecArm() {}
func (emptyTrack) IsMonitor() bool { return false }
func (emptyTrack) SetMonitor(bool) {}
func (emptyTrack) ToggleMonitor() {}
func (emptyTrack) IsAutoMonitor() bool { return false }
func (emptyTrack) SetAutoMonitor(bool) {}
func (emptyTrack) ToggleAutoMonitor() {}
func (emptyTrack) SendBank() SendBank { return emptySendBank{} }

type emptySendBank struct{}

func (emptySendBank) PageSize() int { return 0 }
func (emptySendBank) Item(int) Send { return nil }
