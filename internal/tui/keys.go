package tui

import (
	"bufio"
	"os"

	"golang.org/x/term"
)

// Key is one decoded keypress, including the handful of multi-byte escape
// sequences (arrow keys) the dashboard and session viewer respond to.
type Key string

const (
	KeyUp      Key = "up"
	KeyDown    Key = "down"
	KeyLeft    Key = "left"
	KeyRight   Key = "right"
	KeyEnter   Key = "enter"
	KeyEscape  Key = "escape"
	KeyCtrlC   Key = "ctrl+c"
	KeyUnknown Key = ""
)

// KeyReader puts stdin into raw mode for the lifetime of a TUI session and
// decodes keypresses one at a time.
type KeyReader struct {
	fd       int
	oldState *term.State
	reader   *bufio.Reader
}

// NewKeyReader switches fd (typically int(os.Stdin.Fd())) into raw mode.
// Callers must call Close to restore the terminal.
func NewKeyReader(fd int) (*KeyReader, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &KeyReader{fd: fd, oldState: oldState, reader: bufio.NewReader(os.NewFile(uintptr(fd), "stdin"))}, nil
}

// Close restores the terminal's prior mode.
func (k *KeyReader) Close() error {
	return term.Restore(k.fd, k.oldState)
}

// ReadKey blocks for the next keypress and decodes it. Printable runes that
// aren't bound to a named Key are returned verbatim via the rune return
// value (used for "/" search and letter shortcuts).
func (k *KeyReader) ReadKey() (Key, rune, error) {
	r, _, err := k.reader.ReadRune()
	if err != nil {
		return KeyUnknown, 0, err
	}
	switch r {
	case 3:
		return KeyCtrlC, 0, nil
	case 13, 10:
		return KeyEnter, 0, nil
	case 27:
		return k.readEscapeSequence()
	}
	return KeyUnknown, r, nil
}

func (k *KeyReader) readEscapeSequence() (Key, rune, error) {
	b1, err := k.reader.ReadByte()
	if err != nil {
		return KeyUnknown, 0, err
	}
	if b1 != '[' {
		return KeyEscape, 0, nil
	}
	b2, err := k.reader.ReadByte()
	if err != nil {
		return KeyUnknown, 0, err
	}
	switch b2 {
	case 'A':
		return KeyUp, 0, nil
	case 'B':
		return KeyDown, 0, nil
	case 'C':
		return KeyRight, 0, nil
	case 'D':
		return KeyLeft, 0, nil
	default:
		return KeyUnknown, 0, nil
	}
}
