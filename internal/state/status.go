// Package state implements the per-drone State Store (spec §4.4): the
// status record, pid file, activity log, and per-task attempt logs rooted
// at a drone's directory.
package state

import (
	"fmt"
	"time"
)

// Status is one of a DroneStatus's allowed lifecycle values. "zombie" is
// never persisted — it is derived by the Status Aggregator at read time.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusInProgress Status = "in_progress"
	StatusResuming   Status = "resuming"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusBlocked    Status = "blocked"
	StatusStopped    Status = "stopped"
	StatusZombie     Status = "zombie"
)

// RingSize bounds the number of recent events kept inline in the status
// record (spec §4.4: "policy: 500").
const RingSize = 500

// FailedTask names a task that failed and why.
type FailedTask struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

// Event is one entry in the status record's bounded ring of recent events.
// ID identifies an event within the ring; it is assigned once, by
// Store.AppendActivity, and left blank by callers. The event's activity.log
// line carries only its kind and message, not the ID.
type Event struct {
	ID      string    `json:"id,omitempty"`
	Time    time.Time `json:"time"`
	Kind    string    `json:"kind"`
	TaskRef string    `json:"task_ref,omitempty"`
	Message string    `json:"message"`
}

// DroneStatus is the mutable progress record, atomically rewritten as a
// whole (spec §3 DroneStatus). It also carries the immutable-after-creation
// Drone attributes (plan_ref, worktree_path, branch, …): the persisted
// layout names a single per-drone "status" file, so rather than invent an
// extra drone-metadata file this record is the one durable home for both.
type DroneStatus struct {
	Status        Status       `json:"status"`
	Total         int          `json:"total"`
	Completed     []string     `json:"completed"`
	Failed        []FailedTask `json:"failed"`
	CurrentTask   string       `json:"current_task,omitempty"`
	BlockedReason string       `json:"blocked_reason,omitempty"`
	Logs          []Event      `json:"logs"`

	// LastBlockedReason records the most recent blocked_reason across a
	// start-on-blocked resume (spec §9 Open Question: "start on blocked"
	// behaves like resume and carries the reason forward for display until
	// the child clears it). It is informational only and, unlike
	// BlockedReason, is not subject to the blocked-iff invariant below.
	LastBlockedReason string `json:"last_blocked_reason,omitempty"`

	PlanRef      string `json:"plan_ref"`
	WorktreePath string `json:"worktree_path"`
	Branch       string `json:"branch"`
	BaseBranch   string `json:"base_branch"`
	Profile      string `json:"profile"`
	Model        string `json:"model,omitempty"`

	CreatedAt     time.Time `json:"created_at"`
	StartedAt     time.Time `json:"started_at,omitempty"`
	LastResumedAt time.Time `json:"last_resumed_at,omitempty"`
}

// PushEvent appends an event to the ring, trimming the oldest entries once
// RingSize is exceeded.
func (s *DroneStatus) PushEvent(e Event) {
	s.Logs = append(s.Logs, e)
	if len(s.Logs) > RingSize {
		s.Logs = s.Logs[len(s.Logs)-RingSize:]
	}
}

// Validate enforces the DroneStatus invariants from spec §3:
//   - |completed| + |failed| ≤ total
//   - current_task may only be set when status ∈ {in_progress, resuming}
//   - blocked_reason is required iff status == blocked
func Validate(s *DroneStatus) error {
	if len(s.Completed)+len(s.Failed) > s.Total {
		return fmt.Errorf("completed+failed (%d) exceeds total (%d)", len(s.Completed)+len(s.Failed), s.Total)
	}
	if s.CurrentTask != "" && s.Status != StatusInProgress && s.Status != StatusResuming {
		return fmt.Errorf("current_task set while status is %q", s.Status)
	}
	if s.Status == StatusBlocked && s.BlockedReason == "" {
		return fmt.Errorf("status is blocked but blocked_reason is empty")
	}
	if s.Status != StatusBlocked && s.BlockedReason != "" {
		return fmt.Errorf("blocked_reason set while status is %q, not blocked", s.Status)
	}
	return nil
}
