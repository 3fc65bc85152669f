package stream

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
)

// AttemptRecord is one listed attempt: its log path and, when the sibling
// ".meta" file parses, its metadata.
type AttemptRecord struct {
	TaskID  string
	Attempt int
	LogPath string
	Meta    *state.AttemptMeta // nil if no metadata file was written yet
}

var attemptLogPattern = regexp.MustCompile(`^attempt-(\d+)$`)

// ReadAttempts lists every recorded attempt for drone name, across all
// tasks, ordered by task id then attempt number (spec §4.8 read_attempts).
func ReadAttempts(projectRoot, name string) ([]AttemptRecord, error) {
	droneDir := config.DroneDir(projectRoot, name)
	logsDir := filepath.Join(droneDir, "logs")

	taskDirs, err := os.ReadDir(logsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read logs directory %s: %w", logsDir, err)
	}

	var records []AttemptRecord
	for _, taskEntry := range taskDirs {
		if !taskEntry.IsDir() {
			continue
		}
		taskID := taskEntry.Name()
		taskDir := filepath.Join(logsDir, taskID)

		files, err := os.ReadDir(taskDir)
		if err != nil {
			return nil, fmt.Errorf("read task log directory %s: %w", taskDir, err)
		}
		for _, f := range files {
			m := attemptLogPattern.FindStringSubmatch(f.Name())
			if m == nil {
				continue
			}
			attempt, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			rec := AttemptRecord{
				TaskID:  taskID,
				Attempt: attempt,
				LogPath: filepath.Join(taskDir, f.Name()),
			}
			if meta, err := loadAttemptMeta(taskDir, attempt); err == nil {
				rec.Meta = meta
			}
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].TaskID != records[j].TaskID {
			return records[i].TaskID < records[j].TaskID
		}
		return records[i].Attempt < records[j].Attempt
	})
	return records, nil
}

func loadAttemptMeta(taskDir string, attempt int) (*state.AttemptMeta, error) {
	path := filepath.Join(taskDir, fmt.Sprintf("attempt-%d.meta", attempt))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta state.AttemptMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse attempt metadata %s: %w", path, err)
	}
	return &meta, nil
}
