package main

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/pkg/errors"
)

var termRestore *unix.Termios

// enterRawTerm puts the controlling terminal in raw mode: no echo, no line
// buffering, reads return immediately with whatever is pending.
func enterRawTerm() error {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), getTermios)
	if err != nil {
		return errors.Wrap(err, "get termios")
	}

	saved := *termios
	termRestore = &saved

	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN | unix.ISIG
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8

	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	return errors.Wrap(
		unix.IoctlSetTermios(int(os.Stdin.Fd()), setTermios, termios),
		"set termios")
}

// exitRawTerm restores the terminal state saved by enterRawTerm.
func exitRawTerm() {
	if termRestore != nil {
		unix.IoctlSetTermios(int(os.Stdin.Fd()), setTermios, termRestore)
	}
}
