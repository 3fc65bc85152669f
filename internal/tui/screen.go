package tui

import (
	"fmt"
	"io"
	"strings"
)

// Screen is a diff-based repaint buffer: Paint only rewrites terminal rows
// that changed since the previous frame, so a 500 ms dashboard refresh
// doesn't flicker (spec §4.9: "Drawing must be diff-based").
type Screen struct {
	out  io.Writer
	prev []string
}

// NewScreen binds a Screen to an output stream, typically os.Stdout.
func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out}
}

// HideCursor and ShowCursor bracket a TUI session so the terminal cursor
// doesn't visibly jump around during repaints.
func (s *Screen) HideCursor() { fmt.Fprint(s.out, "\x1b[?25l") }
func (s *Screen) ShowCursor() { fmt.Fprint(s.out, "\x1b[?25h") }

// Reset clears the diff state and the visible screen, used when switching
// between views (dashboard <-> session viewer <-> unblock prompt).
func (s *Screen) Reset() {
	s.prev = nil
	fmt.Fprint(s.out, "\x1b[2J\x1b[H")
}

// Paint renders lines, rewriting only the rows that differ from the
// previous frame. Rows beyond the new frame's length are cleared.
func (s *Screen) Paint(lines []string) {
	var b strings.Builder
	for i, line := range lines {
		if i < len(s.prev) && s.prev[i] == line {
			continue
		}
		fmt.Fprintf(&b, "\x1b[%d;1H\x1b[2K%s", i+1, line)
	}
	for i := len(lines); i < len(s.prev); i++ {
		fmt.Fprintf(&b, "\x1b[%d;1H\x1b[2K", i+1)
	}
	if b.Len() > 0 {
		io.WriteString(s.out, b.String())
	}
	s.prev = append([]string(nil), lines...)
}
