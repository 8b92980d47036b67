package devices

import (
	"os"

	"github.com/pkg/errors"
)

// Storage ports.
const (
	StorageAddrLow  = 0x08 // Address bits 0-7.
	StorageAddrMid  = 0x09 // Address bits 8-15.
	StorageAddrHigh = 0x0A // Address bits 16-23.
	StorageData     = 0x0B // Data; every access post-increments the address.
	StorageStatus   = 0x0C // Read: status. Write: control command.
)

// Storage control commands, written to StorageStatus.
const (
	StorageCmdRewind    = 0x00 // Reset the address to 0.
	StorageCmdDecrement = 0x01 // Decrement the address.
	StorageCmdFlush     = 0x02 // Flush pending writes to the host file.
)

// Storage status bits.
const (
	StorageMounted = 0x01
	StorageReady   = 0x02
	StorageEOF     = 0x80
)

const storageAddrMask = 0x00FFFFFF

// Storage is a linearly-addressed block device backed by a host file.
// 24-bit addressing, no tracks, no sectors: the address register picks a
// byte offset and every data-port access moves it forward by one. Writes
// past end-of-file grow the file, up to the 16 MiB the address can reach.
type Storage struct {
	file  *os.File
	addr  uint32
	size  uint32
	dirty bool
}

var _ Device = (*Storage)(nil)

// NewStorage creates an unmounted storage device.
func NewStorage() *Storage {
	return &Storage{}
}

// Mount opens the given host file read/write, creating it if missing, and
// makes it the backing store. A failed open leaves any current mount
// untouched. The address register rewinds to 0 on success.
func (s *Storage) Mount(path string) error {
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return errors.Wrapf(err, "mount %s", path)
	}

	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return errors.Wrapf(err, "mount %s", path)
	}

	s.Unmount()
	s.file = fd
	s.size = uint32(fi.Size()) & storageAddrMask
	s.addr = 0
	return nil
}

// Unmount flushes and closes the backing file, if any.
func (s *Storage) Unmount() {
	if s.file == nil {
		return
	}
	if s.dirty {
		s.file.Sync()
	}
	s.file.Close()
	s.file = nil
	s.size = 0
	s.addr = 0
	s.dirty = false
}

// Mounted reports whether a backing file is attached.
func (s *Storage) Mounted() bool {
	return s.file != nil
}

// Addr returns the current 24-bit address register.
func (s *Storage) Addr() uint32 {
	return s.addr
}

// In reads an address register byte, a data byte or the status byte.
func (s *Storage) In(port byte) byte {
	switch port {
	case StorageAddrLow:
		return byte(s.addr)
	case StorageAddrMid:
		return byte(s.addr >> 8)
	case StorageAddrHigh:
		return byte(s.addr >> 16)
	case StorageData:
		return s.readData()
	case StorageStatus:
		status := byte(StorageReady)
		if s.file != nil {
			status |= StorageMounted
		}
		if s.addr >= s.size {
			status |= StorageEOF
		}
		return status
	}
	return 0xFF
}

// Out writes an address register byte, a data byte or a control command.
func (s *Storage) Out(port, value byte) {
	switch port {
	case StorageAddrLow:
		s.addr = s.addr&0x00FFFF00 | uint32(value)
	case StorageAddrMid:
		s.addr = s.addr&0x00FF00FF | uint32(value)<<8
	case StorageAddrHigh:
		s.addr = s.addr&0x0000FFFF | uint32(value)<<16
	case StorageData:
		s.writeData(value)
	case StorageStatus:
		switch value {
		case StorageCmdRewind:
			s.addr = 0
		case StorageCmdDecrement:
			s.addr = (s.addr - 1) & storageAddrMask
		case StorageCmdFlush:
			if s.file != nil {
				s.file.Sync()
			}
			s.dirty = false
		}
	}
}

// readData returns the byte at the current address and advances the
// address. Unmounted or past-EOF reads float high; the address advances
// regardless, so the register always counts accesses.
func (s *Storage) readData() byte {
	defer s.advance()

	if s.file == nil || s.addr >= s.size {
		return 0xFF
	}

	var buf [1]byte
	if _, err := s.file.ReadAt(buf[:], int64(s.addr)); err != nil {
		return 0xFF
	}
	return buf[0]
}

// writeData stores a byte at the current address and advances the address.
// Writes past the recorded size grow the file. Host I/O errors drop the
// byte; the firmware sees the truncation through the EOF status bit.
func (s *Storage) writeData(value byte) {
	defer s.advance()

	if s.file == nil {
		return
	}
	if _, err := s.file.WriteAt([]byte{value}, int64(s.addr)); err != nil {
		return
	}
	if s.addr >= s.size {
		s.size = s.addr + 1
	}
	s.dirty = true
}

func (s *Storage) advance() {
	s.addr = (s.addr + 1) & storageAddrMask
}
