// Package memory implements the 64 KiB address space of the machine,
// including the 4 KiB monitor ROM and the boot-time ROM overlay.
package memory

import "github.com/pkg/errors"

const (
	// RAMSize is the size of the full address space.
	RAMSize = 0x10000

	// ROMSize is the size of the monitor ROM image.
	ROMSize = 0x1000

	// ROMBase is the physical address the ROM occupies.
	ROMBase = 0xF000

	// OverlayTop bounds the low region the ROM is mirrored into while the
	// boot overlay is active.
	OverlayTop = 0x1000
)

// Memory is the CPU-visible address space: 64 KiB of RAM with the ROM
// mapped at ROMBase. While the overlay latch is set, reads below OverlayTop
// resolve to ROM so that the reset vector at 0x0000 fetches ROM code.
// Writes that would land in ROM are dropped, as on the real bus.
type Memory struct {
	ram     [RAMSize]byte
	rom     [ROMSize]byte
	overlay bool
}

// New creates zeroed memory with the boot overlay enabled.
func New() *Memory {
	return &Memory{overlay: true}
}

// LoadROM copies a ROM image into the ROM bank. The image must be exactly
// ROMSize bytes; ROM content never changes after a successful load.
func (m *Memory) LoadROM(image []byte) error {
	if len(image) != ROMSize {
		return errors.Errorf("ROM image must be %d bytes; have %d", ROMSize, len(image))
	}
	copy(m.rom[:], image)
	return nil
}

// Read returns the byte at the given address, honouring the ROM mapping
// and the overlay latch.
func (m *Memory) Read(addr uint16) byte {
	if addr >= ROMBase {
		return m.rom[addr-ROMBase]
	}
	if m.overlay && addr < OverlayTop {
		return m.rom[addr]
	}
	return m.ram[addr]
}

// Write stores a byte at the given address. Writes to ROM regions,
// including the overlay-mirrored low region, are silently dropped.
func (m *Memory) Write(addr uint16, value byte) {
	if addr >= ROMBase {
		return
	}
	if m.overlay && addr < OverlayTop {
		return
	}
	m.ram[addr] = value
}

// Overlay returns the state of the boot overlay latch.
func (m *Memory) Overlay() bool {
	return m.overlay
}

// SetOverlay latches the boot overlay on or off. The new state applies to
// the very next access; the system control device is the only writer.
func (m *Memory) SetOverlay(v bool) {
	m.overlay = v
}

// Reset re-enables the boot overlay. RAM content survives a reset, just
// like physical DRAM across a warm restart.
func (m *Memory) Reset() {
	m.overlay = true
}
