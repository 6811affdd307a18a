package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-flexi/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// PortMatch selects the ports of the controller to drive.
// Names are matched case-insensitively as substrings; an empty Out
// reuses the In pattern, which fits most USB controllers.
type PortMatch struct {
	In  string
	Out string
}

func (pm PortMatch) outPattern() string {
	if pm.Out != "" {
		return pm.Out
	}
	return pm.In
}

// DeviceManager handles hot-plug detection of the configured controller
type DeviceManager struct {
	match       PortMatch
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	hotplug     bool
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(match PortMatch) *DeviceManager {
	return &DeviceManager{
		match:       match,
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		hotplug:     true,
	}
}

// SetHotplug turns rescanning after the initial scan on or off.
// Call before Run.
func (dm *DeviceManager) SetHotplug(on bool) {
	dm.hotplug = on
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	snapshot := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		snapshot[k] = v
	}
	return snapshot
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()
	tick := ticker.C
	if !dm.hotplug {
		tick = nil
	}

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-tick:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		debug.Log("ports", "port scan timed out, skipping")
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		if !MatchPortName(inPort.String(), dm.match.In) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		// Find matching output port
		var outPort drivers.Out
		for j, op := range outPorts {
			if MatchPortName(op.String(), dm.match.outPattern()) {
				outPort = outPorts[j]
				break
			}
		}

		pc, err := NewPortController(id, inPorts[i], outPort)
		if err != nil {
			debug.Log("ports", "open %s failed: %v", id, err)
			continue
		}
		debug.Log("ports", "connected %s (feedback=%v)", id, outPort != nil)

		dm.mu.Lock()
		dm.controllers[id] = pc
		dm.mu.Unlock()

		dm.events <- DeviceEvent{
			Type:       DeviceConnected,
			Controller: pc,
			ID:         id,
		}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		debug.Log("ports", "disconnected %s", id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// MatchPortName reports whether a port name contains pattern, ignoring case.
// Virtual through ports never match.
func MatchPortName(name, pattern string) bool {
	if pattern == "" {
		return false
	}
	name = strings.ToLower(name)
	if strings.Contains(name, "midi through") || strings.Contains(name, "through port") {
		return false
	}
	return strings.Contains(name, strings.ToLower(pattern))
}
