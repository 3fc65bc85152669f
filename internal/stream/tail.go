// Package stream implements the Log/Session Streamer (C8, spec §4.8):
// restartable line-oriented tailing, attempt listing, and session
// transcript parsing.
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"
)

// PollInterval is the default sleep between tail polls (spec §5: "configurable 100 ms").
const PollInterval = 100 * time.Millisecond

// Tailer restarts cleanly on truncation or rotation: if the file's inode
// changes, or its size shrinks below the last-read offset, it reopens from
// the start (spec §4.8).
type Tailer struct {
	Path   string
	offset int64
	inode  uint64
}

// NewTailer returns a Tailer starting at the beginning of path.
func NewTailer(path string) *Tailer {
	return &Tailer{Path: path}
}

// Lines streams complete lines from the file until ctx is canceled. Partial
// trailing bytes are withheld until a newline arrives (spec §4.8); the
// channel is closed when ctx is done.
func (t *Tailer) Lines(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			lines, err := t.poll()
			if err != nil && !os.IsNotExist(err) {
				return
			}
			for _, line := range lines {
				select {
				case out <- line:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-time.After(PollInterval):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// poll reads any complete lines newly available since the last call,
// reopening from the start if the file was truncated or rotated.
func (t *Tailer) poll() ([]string, error) {
	info, err := os.Stat(t.Path)
	if err != nil {
		return nil, err
	}

	inode := inodeOf(info)
	if t.inode != 0 && inode != t.inode {
		// Rotated: a new file has replaced the old one at this path.
		t.offset = 0
	}
	if info.Size() < t.offset {
		// Truncated: reopen from the start.
		t.offset = 0
	}
	t.inode = inode

	f, err := os.Open(t.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", t.Path, err)
	}

	reader := bufio.NewReader(f)
	var lines []string
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			lines = append(lines, line[:len(line)-1])
			consumed += int64(len(line))
			continue
		}
		if err == io.EOF {
			// Withhold the trailing partial line until it's terminated.
			break
		}
		return lines, err
	}
	t.offset += consumed
	return lines, nil
}

func inodeOf(info os.FileInfo) uint64 {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return stat.Ino
	}
	return 0
}
