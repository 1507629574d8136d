//go:build !windows

package main

import (
	"syscall"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
)

// setRawIO switches stdin to raw mode (no line buffering, no echo), per the
// same termios flag set the teacher's terminal handling used, and returns a
// function that restores the prior settings.
func setRawIO() (func(), error) {
	var saved syscall.Termios
	if err := termios.Tcgetattr(0, &saved); err != nil {
		return nil, errors.Wrap(err, "Tcgetattr failed")
	}

	raw := saved
	raw.Iflag &^= syscall.BRKINT | syscall.ISTRIP | syscall.IXON | syscall.IXOFF
	raw.Iflag |= syscall.IGNBRK | syscall.IGNPAR
	raw.Lflag &^= syscall.ICANON | syscall.ISIG | syscall.IEXTEN | syscall.ECHO
	raw.Cc[syscall.VMIN] = 1
	raw.Cc[syscall.VTIME] = 0

	if err := termios.Tcsetattr(0, termios.TCSANOW, &raw); err != nil {
		termios.Tcsetattr(0, termios.TCSANOW, &saved)
		return nil, errors.Wrap(err, "Tcsetattr failed")
	}

	return func() {
		termios.Tcsetattr(0, termios.TCSANOW, &saved)
	}, nil
}
