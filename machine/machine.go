// Package machine wires the CPU, memory, port bus and device set into the
// complete monitor machine.
package machine

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/hexaflex/mon80/cpu"
	"github.com/hexaflex/mon80/devices"
	"github.com/hexaflex/mon80/memory"
)

// NominalClock is the machine's nominal clock rate, in Hz. Nothing in this
// package paces against it; the front-end paces against its own configured
// rate.
const NominalClock = 2_000_000

// rst7 is the opcode devices place on the bus for their interrupt vector.
const rst7 = 0xFF

// Fixed port assignments.
const (
	consolePortLow = 0x00
	consolePortTop = 0x02
	storagePortLow = 0x08
	storagePortTop = 0x0C
	mountPortLow   = 0x0D
	mountPortTop   = 0x0F
	timerPortLow   = 0x30
	timerPortTop   = 0x32
	sysPortLow     = 0xFE
	sysPortTop     = 0xFF
)

// Machine is a complete system: an 8080, 64 KiB of memory with the monitor
// ROM, and the standard device set on the port bus. One goroutine owns the
// whole machine; devices are sampled at instruction boundaries only.
type Machine struct {
	CPU     *cpu.CPU
	Memory  *memory.Memory
	Bus     *devices.Bus
	Console *devices.Console
	Storage *devices.Storage
	Mount   *devices.StorageMount
	SysCtl  *devices.SysControlDevice
	Timer   *devices.Timer
}

// New builds a machine around the given ROM image. Storage backing files
// are confined to baseDir, which must exist. Console output goes to w.
func New(rom []byte, baseDir string, w io.Writer) (*Machine, error) {
	fi, err := os.Stat(baseDir)
	if err != nil {
		return nil, errors.Wrapf(err, "storage directory %s", baseDir)
	}
	if !fi.IsDir() {
		return nil, errors.Errorf("storage directory %s is not a directory", baseDir)
	}

	mem := memory.New()
	if err := mem.LoadROM(rom); err != nil {
		return nil, err
	}

	m := &Machine{
		Memory:  mem,
		Bus:     devices.NewBus(),
		Console: devices.NewConsole(w),
		Storage: devices.NewStorage(),
		Timer:   devices.NewTimer(),
		SysCtl:  devices.NewSysControl(mem),
	}
	m.Mount = devices.NewStorageMount(m.Storage, baseDir)
	m.CPU = cpu.New(mem, m.Bus)

	mapRange(m.Bus, consolePortLow, consolePortTop, m.Console)
	mapRange(m.Bus, storagePortLow, storagePortTop, m.Storage)
	mapRange(m.Bus, mountPortLow, mountPortTop, m.Mount)
	mapRange(m.Bus, timerPortLow, timerPortTop, m.Timer)
	mapRange(m.Bus, sysPortLow, sysPortTop, m.SysCtl)

	return m, nil
}

func mapRange(bus *devices.Bus, low, high byte, dev devices.Device) {
	for p := low; ; p++ {
		bus.Map(p, dev)
		if p == high {
			return
		}
	}
}

// Step executes one instruction, services the timer and any cold-reset
// request, and returns the T-states consumed.
func (m *Machine) Step() int {
	cycles := m.CPU.Step()

	m.Timer.Tick(cycles)
	if m.Timer.IRQ() && m.CPU.InterruptsEnabled() {
		m.Timer.ClearIRQ()
		m.CPU.Interrupt(rst7)
	}

	if m.SysCtl.ColdResetRequested() {
		m.Reset()
	}

	return cycles
}

// Reset performs a hard reset: CPU to power-on state, overlay re-armed.
// Mounted storage stays mounted and backing files are not touched.
func (m *Machine) Reset() {
	m.Memory.Reset()
	m.CPU.Reset()
}

// Close flushes and releases host resources, unmounting any storage file.
func (m *Machine) Close() {
	m.Storage.Unmount()
}
