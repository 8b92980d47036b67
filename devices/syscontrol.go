package devices

import "github.com/hexaflex/mon80/memory"

// System control ports.
const (
	SysControl = 0xFE // Write: 0x00 drops the overlay, 0xFF requests cold reset.
	SysStatus  = 0xFF // Read: bit 0 = overlay state.
)

// System control commands.
const (
	SysCmdOverlayOff = 0x00
	SysCmdColdReset  = 0xFF
)

// SysControlDevice commands the boot overlay latch in memory. The firmware
// drops the overlay once its stack lives in RAM; writing the cold-reset
// command re-arms the overlay and flags a reset request for the host loop
// to act on, since the device cannot reach into the CPU itself.
type SysControlDevice struct {
	mem        *memory.Memory
	resetAsked bool
}

var _ Device = (*SysControlDevice)(nil)

// NewSysControl creates a system control device commanding mem.
func NewSysControl(mem *memory.Memory) *SysControlDevice {
	return &SysControlDevice{mem: mem}
}

// ColdResetRequested reports and clears the pending cold-reset request.
func (d *SysControlDevice) ColdResetRequested() bool {
	v := d.resetAsked
	d.resetAsked = false
	return v
}

// In reads the status port.
func (d *SysControlDevice) In(port byte) byte {
	if port == SysStatus {
		var status byte
		if d.mem.Overlay() {
			status |= 0x01
		}
		return status
	}
	return 0xFF
}

// Out writes the control port. The latch takes effect immediately: the
// next memory access observes the new mapping.
func (d *SysControlDevice) Out(port, value byte) {
	if port != SysControl {
		return
	}
	switch value {
	case SysCmdOverlayOff:
		d.mem.SetOverlay(false)
	case SysCmdColdReset:
		d.mem.SetOverlay(true)
		d.resetAsked = true
	}
}
