package state

import "time"

// AttemptMeta is the sibling metadata record written alongside an attempt's
// raw output log (spec §3 Attempt).
type AttemptMeta struct {
	TaskID        string    `json:"task_id"`
	Attempt       int       `json:"attempt"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at,omitempty"`
	ElapsedSecs   float64   `json:"elapsed_seconds,omitempty"`
	Model         string    `json:"model,omitempty"`
	ExitCode      int       `json:"exit_code,omitempty"`
	ExitCodeKnown bool      `json:"exit_code_known"`
	Iteration     int       `json:"iteration,omitempty"`
}

// Finish stamps EndedAt/ElapsedSecs/ExitCode once the attempt's process
// exits.
func (m *AttemptMeta) Finish(exitCode int) {
	m.EndedAt = time.Now()
	if !m.StartedAt.IsZero() {
		m.ElapsedSecs = m.EndedAt.Sub(m.StartedAt).Seconds()
	}
	m.ExitCode = exitCode
	m.ExitCodeKnown = true
}
