package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	ps "github.com/mitchellh/go-ps"

	"go-flexi/config"
	"go-flexi/daw"
	"go-flexi/debug"
	"go-flexi/flexi"
	"go-flexi/handlers"
	"go-flexi/midi"
	"go-flexi/theme"
	"go-flexi/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-flexi/config.json)")
	tablePath := flag.String("table", "", "binding table file (.yaml, .yml, .xlsx or .xml)")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/go-flexi/debug.log")
	inPort := flag.String("in", "", "controller input port name")
	outPort := flag.String("out", "", "controller output port name (default: same as -in)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *tablePath != "" {
		cfg.Table.File = *tablePath
	}
	if *inPort != "" {
		cfg.Controller.InPort = *inPort
	}
	if *outPort != "" {
		cfg.Controller.OutPort = *outPort
	}
	if *debugLog {
		cfg.Debug = true
	}

	if cfg.Debug {
		if err := debug.Enable(""); err != nil {
			fmt.Printf("Debug log disabled: %v\n", err)
		}
		defer debug.Disable()
	}

	palette, err := theme.LoadOrDefault(cfg.Palette)
	if err != nil {
		debug.Log("config", "palette %s: %v", cfg.Palette, err)
	}

	// Hosted application and its command handlers
	host := daw.NewHost(cfg.HostConfig())
	registry := flexi.NewRegistry()
	handlers.RegisterAll(registry, host)

	tasks := flexi.NewTaskScheduler(64)
	table := flexi.NewTable(cfg.Table.Slots)
	surface, err := flexi.NewSurface(table, registry, tasks)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	notes := tui.NewNotifications()
	surface.SetNotifier(notes)
	surface.SetSettleDelay(cfg.SettleDelay())
	surface.SetStore(config.NewStore())
	surface.SetFilename(cfg.Table.File)
	if cfg.Table.File != "" {
		surface.ImportFile(false)
	}
	if cfg.Learn {
		if err := table.StartLearning(); err != nil {
			debug.Log("learn", "not starting learn mode: %v", err)
			notes.Notify("Learn mode off: " + err.Error())
		}
	}

	if pids := otherInstances(); len(pids) > 0 {
		debug.Log("config", "other instances running: %v", pids)
		notes.Notify(fmt.Sprintf("Another go-flexi is running (pid %d); it may hold the controller ports.", pids[0]))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Controller hot-plug
	deviceMgr := midi.NewDeviceManager(midi.PortMatch{In: cfg.Controller.InPort, Out: cfg.Controller.OutPort})
	deviceMgr.SetHotplug(cfg.Controller.AutoConnect)
	go deviceMgr.Run(ctx)

	runner := flexi.NewRunner(surface, tasks, cfg.Feedback.FPS)
	runErr := make(chan error, 1)
	go func() {
		runErr <- runner.Run(ctx, deviceMgr.Events())
	}()

	if cfg.Table.Watch && cfg.Table.File != "" {
		watcher := config.NewTableWatcher(cfg.Table.File, 0)
		go func() {
			err := watcher.Run(ctx, func() {
				runner.Do(func(s *flexi.Surface) { s.ImportFile(false) })
			})
			if err != nil {
				debug.Log("config", "table watcher: %v", err)
				notes.Notify("Table watcher stopped: " + err.Error())
			}
		}()
	}

	// Create and run TUI
	m := tui.NewModel(runner, notes, theme.New(palette))
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cancel()
	if err := <-runErr; err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// otherInstances lists the pids of other processes running this binary
func otherInstances() []int {
	procs, err := ps.Processes()
	if err != nil {
		debug.Log("config", "process list: %v", err)
		return nil
	}
	self := os.Getpid()
	exe := filepath.Base(os.Args[0])
	var pids []int
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == exe {
			pids = append(pids, p.Pid())
		}
	}
	return pids
}
