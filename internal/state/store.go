package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/hive/internal/atomicfile"
	"github.com/harrison/hive/internal/filelog"
)

// Store is the State Store (C4) rooted at one drone's directory.
type Store struct {
	DroneDir string
}

// New binds a Store to droneDir. It does not create the directory.
func New(droneDir string) *Store {
	return &Store{DroneDir: droneDir}
}

func (s *Store) statusPath() string      { return filepath.Join(s.DroneDir, "status") }
func (s *Store) pidPath() string         { return filepath.Join(s.DroneDir, ".pid") }
func (s *Store) activityLogPath() string { return filepath.Join(s.DroneDir, "activity.log") }

// DroneLogPath returns the path of the drone's raw stdout/stderr capture.
func (s *Store) DroneLogPath() string { return filepath.Join(s.DroneDir, "drone.log") }

func (s *Store) taskLogDir(taskID string) string {
	return filepath.Join(s.DroneDir, "logs", taskID)
}

// LoadStatus reads and parses the status record.
func (s *Store) LoadStatus() (*DroneStatus, error) {
	data, err := atomicfile.Read(s.statusPath())
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}
	var st DroneStatus
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse status %s: %w", s.statusPath(), err)
	}
	return &st, nil
}

// StoreStatus validates and atomically rewrites the status record. The ring
// of recent events is trimmed to RingSize before being persisted.
func (s *Store) StoreStatus(st *DroneStatus) error {
	if len(st.Logs) > RingSize {
		st.Logs = st.Logs[len(st.Logs)-RingSize:]
	}
	if err := Validate(st); err != nil {
		return fmt.Errorf("invalid status record: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := os.MkdirAll(s.DroneDir, 0o755); err != nil {
		return fmt.Errorf("create drone directory: %w", err)
	}
	return atomicfile.WriteLocked(s.statusPath(), data, 0o644)
}

// WritePid records the supervised process id, written once at launch (spec
// §4.4).
func (s *Store) WritePid(pid int) error {
	return atomicfile.Write(s.pidPath(), []byte(strconv.Itoa(pid)), 0o644)
}

// ReadPid returns the recorded pid. ok is false if no pid file exists.
func (s *Store) ReadPid() (pid int, ok bool, err error) {
	data, err := os.ReadFile(s.pidPath())
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(string(trimNewline(data)))
	if err != nil {
		return 0, false, fmt.Errorf("parse pid file %s: %w", s.pidPath(), err)
	}
	return n, true, nil
}

// ClearPid removes the pid file, done at clean stop (spec §4.4).
func (s *Store) ClearPid() error {
	err := os.Remove(s.pidPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// AppendActivity appends one human-readable record to activity.log via
// internal/filelog (spec §4.4 "append-only, human-readable event stream"),
// and mirrors the same event into the status record's bounded ring
// (DroneStatus.Logs) under a freshly assigned correlation id. The ring
// update is best-effort: a drone directory with no status record yet (or a
// concurrent writer) still gets its activity.log line.
func (s *Store) AppendActivity(e Event) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	logger, err := filelog.New(s.activityLogPath(), "info")
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer logger.Close()

	message := e.Message
	if e.TaskRef != "" {
		message = fmt.Sprintf("[%s] %s", e.TaskRef, message)
	}
	if err := logger.Info(e.Kind, message); err != nil {
		return err
	}

	if st, loadErr := s.LoadStatus(); loadErr == nil {
		st.PushEvent(e)
		_ = s.StoreStatus(st)
	}
	return nil
}

var attemptFilePattern = regexp.MustCompile(`^attempt-(\d+)$`)

// OpenAttemptLog opens a new append-only raw output file for the next
// attempt of taskID and returns it alongside the allocated attempt number.
// Attempt numbers for a given (drone, task) are monotonic: 1, 2, 3, ... with
// no gaps and no reuse (spec testable property #5). Callers are expected to
// serialize lifecycle operations per drone (internal/dirlock), so no
// additional locking is done here.
func (s *Store) OpenAttemptLog(taskID string) (*os.File, int, error) {
	dir := s.taskLogDir(taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("create task log directory: %w", err)
	}

	next, err := nextAttemptNumber(dir)
	if err != nil {
		return nil, 0, err
	}

	path := filepath.Join(dir, fmt.Sprintf("attempt-%d", next))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, 0, fmt.Errorf("create attempt log %s: %w", path, err)
	}
	return f, next, nil
}

// WriteAttemptMeta atomically writes the metadata record for an attempt.
func (s *Store) WriteAttemptMeta(taskID string, attempt int, meta *AttemptMeta) error {
	dir := s.taskLogDir(taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create task log directory: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal attempt metadata: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("attempt-%d.meta", attempt))
	return atomicfile.Write(path, data, 0o644)
}

func nextAttemptNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read task log directory %s: %w", dir, err)
	}
	max := 0
	for _, entry := range entries {
		m := attemptFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1, nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return b
}
