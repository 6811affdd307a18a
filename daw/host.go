package daw

import (
	"fmt"
	"time"
)

// HostConfig sizes a new in-memory host
type HostConfig struct {
	Tracks   int // instrument/audio tracks
	Effects  int // effect (return) tracks
	Sends    int // sends per track
	PageSize int
}

// DefaultHostConfig matches a small project on an 8-channel controller
func DefaultHostConfig() HostConfig {
	return HostConfig{Tracks: 16, Effects: 2, Sends: 2, PageSize: 8}
}

// Host is an in-memory application model. Like the surface that drives
// it, it is owned by a single goroutine.
type Host struct {
	cfg        HostConfig
	trackBank  *trackBank
	effectBank *trackBank
	effectMode bool

	selected  *track
	master    *track
	transport *transport
}

// NewHost creates a host with cfg.Tracks tracks and cfg.Effects effect tracks
func NewHost(cfg HostConfig) *Host {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 8
	}
	h := &Host{cfg: cfg, transport: &transport{tempo: 120}}
	h.trackBank = &trackBank{host: h, pageSize: cfg.PageSize}
	h.effectBank = &trackBank{host: h, pageSize: cfg.PageSize}
	h.master = &track{host: h, name: "Master", volume: 100, pan: 64, activated: true, sends: make([]int, 0)}

	for i := 0; i < cfg.Tracks; i++ {
		h.trackBank.add(fmt.Sprintf("Track %d", i+1), cfg.Sends)
	}
	for i := 0; i < cfg.Effects; i++ {
		h.effectBank.add(fmt.Sprintf("FX %d", i+1), 0)
	}
	return h
}

func (h *Host) CurrentTrackBank() TrackBank {
	if h.effectMode {
		return h.effectBank
	}
	return h.trackBank
}

func (h *Host) ToggleTrackBank() {
	h.effectMode = !h.effectMode
}

// EffectBankActive reports whether the effect bank is the current bank
func (h *Host) EffectBankActive() bool {
	return h.effectMode
}

func (h *Host) SelectedTrack() Track {
	if h.selected == nil {
		return nil
	}
	return h.selected
}

func (h *Host) MasterTrack() Track { return h.master }
func (h *Host) Application() Application { return h }
func (h *Host) Transport() Transport { return h.transport }

func (h *Host) AddAudioTrack() {
	t := h.trackBank.add(fmt.Sprintf("Audio %d", len(h.trackBank.tracks)+1), h.cfg.Sends)
	t.Select()
}

func (h *Host) AddInstrumentTrack() {
	t := h.trackBank.add(fmt.Sprintf("Instrument %d", len(h.trackBank.tracks)+1), h.cfg.Sends)
	t.Select()
}

func (h *Host) AddEffectTrack() {
	t := h.effectBank.add(fmt.Sprintf("FX %d", len(h.effectBank.tracks)+1), 0)
	t.Select()
}

// Bank

type trackBank struct {
	host     *Host
	tracks   []*track
	offset   int
	pageSize int
}

func (b *trackBank) add(name string, sends int) *track {
	t := &track{
		host:      b.host,
		bank:      b,
		position:  len(b.tracks),
		name:      name,
		volume:    100,
		pan:       64,
		activated: true,
		sends:     make([]int, sends),
	}
	b.tracks = append(b.tracks, t)
	return t
}

// Len is the number of tracks in the bank, all pages
func (b *trackBank) Len() int { return len(b.tracks) }

func (b *trackBank) PageSize() int { return b.pageSize }

func (b *trackBank) Item(i int) Track {
	if i < 0 || i >= b.pageSize {
		return EmptyTrack
	}
	pos := b.offset + i
	if pos >= len(b.tracks) {
		return EmptyTrack
	}
	return b.tracks[pos]
}

func (b *trackBank) SelectedItem() Track {
	sel := b.host.selected
	if sel == nil || sel.bank != b || sel.Index() < 0 || sel.Index() >= b.pageSize {
		return nil
	}
	return sel
}

// SelectPreviousPage scrolls back one page and selects its last track
func (b *trackBank) SelectPreviousPage() {
	if b.offset == 0 {
		return
	}
	b.offset = max(0, b.offset-b.pageSize)
	last := min(b.offset+b.pageSize, len(b.tracks)) - 1
	b.tracks[last].Select()
}

// SelectNextPage scrolls forward one page and selects its first track
func (b *trackBank) SelectNextPage() {
	if b.offset+b.pageSize >= len(b.tracks) {
		return
	}
	b.offset += b.pageSize
	b.tracks[b.offset].Select()
}

// Track

type track struct {
	host     *Host
	bank     *trackBank // nil for master
	position int
	name     string

	activated   bool
	volume      int
	pan         int
	mute        bool
	solo        bool
	recArm      bool
	monitor     bool
	autoMonitor bool
	sends       []int
}

func (t *track) Index() int {
	if t.bank == nil {
		return -1
	}
	return t.position - t.bank.offset
}

func (t *track) Exists() bool { return true }
func (t *track) Name() string { return t.name }
func (t *track) Select() { t.host.selected = t }
func (t *track) IsSelected() bool {
	return t.host.selected == t
}

func (t *track) IsActivated() bool { return t.activated }
func (t *track) SetActivated(on bool) { t.activated = on }
func (t *track) ToggleActivated() { t.activated = !t.activated }
func (t *track) Volume() int { return t.volume }
func (t *track) SetVolume(v int) { t.volume = clamp(v) }
func (t *track) Pan() int { return t.pan }
func (t *track) SetPan(v int) { t.pan = clamp(v) }
func (t *track) IsMute() bool { return t.mute }
func (t *track) SetMute(on bool) { t.mute = on }
func (t *track) ToggleMute() { t.mute = !t.mute }
func (t *track) IsSolo() bool { return t.solo }
func (t *track) SetSolo(on bool) { t.solo = on }
func (t *track) ToggleSolo() { t.solo = !t.solo }
func (t *track) IsRecArm() bool { return t.recArm }
func (t *track) SetRecArm(on bool) { t.recArm = on }
func (t *track) ToggleRecArm() { t.recArm = !t.recArm }
func (t *track) IsMonitor() bool { return t.monitor }
func (t *track) SetMonitor(on bool) { t.monitor = on }
func (t *track) ToggleMonitor() { t.monitor = !t.monitor }
func (t *track) IsAutoMonitor() bool { return t.autoMonitor }
func (t *track) SetAutoMonitor(on bool) { t.autoMonitor = on }
func (t *track) ToggleAutoMonitor() { t.autoMonitor = !t.autoMonitor }

func (t *track) SendBank() SendBank {
	return sendBank{t}
}

type sendBank struct {
	t *track
}

func (sb sendBank) PageSize() int { return len(sb.t.sends) }

func (sb sendBank) Item(i int) Send {
	if i < 0 || i >= len(sb.t.sends) {
		return nil
	}
	return send{sb.t, i}
}

type send struct {
	t *track
	i int
}

func (s send) Value() int { return s.t.sends[s.i] }
func (s send) SetValue(v int) { s.t.sends[s.i] = clamp(v) }

func clamp(v int) int {
	return max(0, min(127, v))
}

// Transport

const (
	minTempo = 20.0
	maxTempo = 666.0

	// taps further apart than this start a new measurement
	tapTimeout = 2 * time.Second
)

type transport struct {
	playing   bool
	recording bool
	loop      bool
	metronome bool
	position  float64 // beats
	tempo     float64

	taps []time.Time
	now  func() time.Time
}

func (tr *transport) IsPlaying() bool { return tr.playing }
func (tr *transport) Play() { tr.playing = !tr.playing }
func (tr *transport) Stop() {
	if !tr.playing {
		tr.position = 0
	}
	tr.playing = false
}
func (tr *transport) IsRecording() bool { return tr.recording }
func (tr *transport) Record() { tr.recording = !tr.recording }
func (tr *transport) IsLoop() bool { return tr.loop }
func (tr *transport) ToggleLoop() { tr.loop = !tr.loop }
func (tr *transport) IsMetronome() bool { return tr.metronome }
func (tr *transport) ToggleMetronome() { tr.metronome = !tr.metronome }
func (tr *transport) Rewind() { tr.position = max(0, tr.position-1) }
func (tr *transport) FastForward() { tr.position++ }
func (tr *transport) Tempo() float64 { return tr.tempo }

func (tr *transport) SetTempo(bpm float64) {
	tr.tempo = max(minTempo, min(maxTempo, bpm))
}

// Position returns the play position in beats
func (tr *transport) Position() float64 { return tr.position }

// TapTempo sets the tempo from the average interval of recent taps
func (tr *transport) TapTempo() {
	now := time.Now()
	if tr.now != nil {
		now = tr.now()
	}
	if n := len(tr.taps); n > 0 && now.Sub(tr.taps[n-1]) > tapTimeout {
		tr.taps = tr.taps[:0]
	}
	tr.taps = append(tr.taps, now)
	if len(tr.taps) > 4 {
		tr.taps = tr.taps[len(tr.taps)-4:]
	}
	if len(tr.taps) < 2 {
		return
	}
	span := tr.taps[len(tr.taps)-1].Sub(tr.taps[0])
	interval := span / time.Duration(len(tr.taps)-1)
	if interval > 0 {
		tr.SetTempo(float64(time.Minute) / float64(interval))
	}
}
