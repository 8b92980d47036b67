package devices

// Bus dispatches port reads and writes to at most one device per port.
// Reads from unmapped ports float high (0xFF); writes to unmapped ports
// are dropped.
type Bus struct {
	ports [256]Device
}

// NewBus creates a bus with all ports unmapped.
func NewBus() *Bus {
	return &Bus{}
}

// Map routes the given port to the given device. Mapping replaces any
// previous device on that port. The same device may be mapped at several
// ports.
func (b *Bus) Map(port byte, dev Device) {
	b.ports[port] = dev
}

// In reads a byte from the device mapped at the given port.
func (b *Bus) In(port byte) byte {
	if dev := b.ports[port]; dev != nil {
		return dev.In(port)
	}
	return 0xFF
}

// Out writes a byte to the device mapped at the given port.
func (b *Bus) Out(port, value byte) {
	if dev := b.ports[port]; dev != nil {
		dev.Out(port, value)
	}
}
