package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-flexi/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		if len(os.Args) < 3 {
			usage()
			return
		}
		monitor(os.Args[2])
	case "sysex":
		if len(os.Args) < 3 {
			usage()
			return
		}
		decodeSysEx(strings.Join(os.Args[2:], " "))
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - List all MIDI ports")
	fmt.Println("  monitor <port> - Print decoded signatures from an input port")
	fmt.Println("  sysex <hex>    - Decode an MMC sysex string, e.g. F07F7F0602F7")
	fmt.Println("  poll           - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := gomidi.GetInPorts()
		outs := gomidi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI backend is hung.")
	}
}

func monitor(pattern string) {
	var inPort drivers.In
	for _, p := range gomidi.GetInPorts() {
		if midi.MatchPortName(p.String(), pattern) {
			inPort = p
			break
		}
	}
	if inPort == nil {
		fmt.Printf("No input port matching %q\n", pattern)
		return
	}

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", inPort.String())
	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		raw := msg.Bytes()
		ev, ok := midi.Decode(raw)
		if midi.IsSysEx(raw) {
			ev, ok = midi.DecodeSysEx(raw)
		}
		if !ok {
			fmt.Printf("%8dms  % X  (ignored)\n", timestampms, raw)
			return
		}
		fmt.Printf("%8dms  % X  %s value %d\n", timestampms, raw, ev.Signature, ev.Value)
	}, gomidi.UseSysEx(), gomidi.HandleError(func(err error) {
		fmt.Printf("Error: %v\n", err)
	}))
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func decodeSysEx(s string) {
	ev, ok := midi.DecodeHexSysEx(s)
	if !ok {
		fmt.Println("Not an MMC message (expected F0 7F <device> 06 <command> F7)")
		return
	}
	fmt.Printf("%s\n", ev.Signature)
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a controller to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		var inNames, outNames []string
		for _, p := range gomidi.GetInPorts() {
			inNames = append(inNames, p.String())
		}
		for _, p := range gomidi.GetOutPorts() {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
