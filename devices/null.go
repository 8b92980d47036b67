package devices

// Null is a device that behaves like an unmapped port: reads float high,
// writes vanish. Useful for claiming a port range without wiring hardware.
type Null struct{}

var _ Device = Null{}

// In returns the floating bus value.
func (Null) In(byte) byte {
	return 0xFF
}

// Out does nothing.
func (Null) Out(byte, byte) {}
