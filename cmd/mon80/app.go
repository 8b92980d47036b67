package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/mon80/machine"
	"github.com/hexaflex/mon80/memory"
)

// ctrlC ends the session; everything else goes to the firmware.
const ctrlC = 0x03

// App defines application context: the machine plus the host terminal
// driving it.
type App struct {
	config *Config
	m      *machine.Machine
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	return &App{config: config}
}

// Run boots the machine and does not return until the session ends or an
// error occurred during initialization.
func (a *App) Run() error {
	rom, err := os.ReadFile(a.config.ROM)
	if err != nil {
		return errors.Wrapf(err, "load ROM %s", a.config.ROM)
	}
	if len(rom) != memory.ROMSize {
		return errors.Errorf("ROM %s: need %d bytes, have %d", a.config.ROM, memory.ROMSize, len(rom))
	}

	a.m, err = machine.New(rom, a.config.Disks, os.Stdout)
	if err != nil {
		return err
	}
	defer a.m.Close()

	if err := enterRawTerm(); err != nil {
		return err
	}
	defer exitRawTerm()

	log.Println(Version(), "- ctrl-c exits")
	a.mainLoop()
	fmt.Println()
	return nil
}

// mainLoop steps the machine, feeds terminal input between instructions and
// paces execution against the configured clock.
func (a *App) mainLoop() {
	hz := a.config.Clock * 1e6
	start := time.Now()

	var executed uint64
	var pollCountdown int

	for {
		if a.config.Trace && !a.m.CPU.Halted() {
			fmt.Fprintln(os.Stderr, a.m.CPU)
		}

		executed += uint64(a.m.Step())

		// Sample the keyboard at instruction granularity, but not on
		// every instruction; a few thousand steps at 2 MHz is still
		// far below human typing latency.
		if pollCountdown--; pollCountdown <= 0 {
			pollCountdown = 4096
			if a.pumpInput() {
				return
			}

			if hz > 0 {
				ahead := time.Duration(float64(executed)/hz*float64(time.Second)) - time.Since(start)
				if ahead > time.Millisecond {
					time.Sleep(ahead)
				}
			}
		}
	}
}

// pumpInput drains pending terminal bytes into the console queue.
// Returns true when the session should end.
func (a *App) pumpInput() bool {
	var buf [64]byte

	// VMIN=0/VTIME=0 makes this a non-blocking poll.
	n, _ := os.Stdin.Read(buf[:])
	for _, b := range buf[:n] {
		if b == ctrlC {
			return true
		}
		if b == '\n' {
			b = '\r' // the monitor expects CR line endings
		}
		a.m.Console.Push(b)
	}
	return false
}
