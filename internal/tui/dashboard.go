package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrison/hive/internal/aggregator"
)

// RefreshInterval is the dashboard's poll cadence (spec §4.7: "every 500 ms
// by default").
const RefreshInterval = 500 * time.Millisecond

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	blockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	zombieStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Dashboard is the drone-list view (spec §4.9 Dashboard).
type Dashboard struct {
	ProjectRoot string
	Selected    int
}

// NewDashboard constructs a Dashboard positioned at the first drone.
func NewDashboard(projectRoot string) *Dashboard {
	return &Dashboard{ProjectRoot: projectRoot}
}

// Refresh asks the aggregator for a fresh snapshot and reconciles the
// current selection against it: if the selected drone disappeared, the
// next one (or the last remaining one) is selected instead (spec §4.9 step
// 3).
func (d *Dashboard) Refresh() ([]aggregator.Snapshot, error) {
	snaps, err := aggregator.Scan(d.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		d.Selected = 0
		return snaps, nil
	}
	if d.Selected >= len(snaps) {
		d.Selected = len(snaps) - 1
	}
	return snaps, nil
}

// MoveUp and MoveDown implement keyboard navigation over the drone list.
func (d *Dashboard) MoveUp() {
	if d.Selected > 0 {
		d.Selected--
	}
}

func (d *Dashboard) MoveDown(count int) {
	if d.Selected < count-1 {
		d.Selected++
	}
}

// SelectedName returns the name of the currently selected drone, or "" if
// there are none.
func (d *Dashboard) SelectedName(snaps []aggregator.Snapshot) string {
	if d.Selected < 0 || d.Selected >= len(snaps) {
		return ""
	}
	return snaps[d.Selected].Name
}

// Render produces the dashboard's frame as a slice of lines, suitable for
// Screen.Paint.
func (d *Dashboard) Render(snaps []aggregator.Snapshot, width int) []string {
	lines := []string{
		headerStyle.Render(fmt.Sprintf("%-20s %-12s %-8s %-10s %s", "DRONE", "STATUS", "PROGRESS", "RUNNING", "LAST ACTIVITY")),
	}
	if len(snaps) == 0 {
		lines = append(lines, dimStyle.Render("  no drones — run `hive start <name>` to launch one"))
		return lines
	}
	for i, snap := range snaps {
		row := formatRow(snap)
		if i == d.Selected {
			row = selectedStyle.Render(row)
		}
		lines = append(lines, row)
	}
	lines = append(lines, "", dimStyle.Render("↑/↓ select · enter open session · u unblock · q quit"))
	return lines
}

func formatRow(snap aggregator.Snapshot) string {
	status := snap.StatusText()
	styled := styleForStatus(status).Render(status)
	progress := "—"
	if snap.Status != nil && snap.Status.Total > 0 {
		progress = fmt.Sprintf("%d/%d", len(snap.Status.Completed), snap.Status.Total)
	}
	running := "—"
	if snap.RunningDuration > 0 {
		running = snap.RunningDuration.Round(time.Second).String()
	}
	lastActivity := "—"
	if !snap.LastActivity.IsZero() {
		lastActivity = snap.LastActivity.Format("15:04:05")
	}
	name := snap.Name
	if snap.Orphan {
		name += " (orphan)"
	}
	return fmt.Sprintf("%-20s %-21s %-8s %-10s %s", name, styled, progress, running, lastActivity)
}

func styleForStatus(status string) lipgloss.Style {
	switch status {
	case "in_progress", "starting", "resuming":
		return runningStyle
	case "blocked":
		return blockedStyle
	case "failed":
		return failedStyle
	case "zombie":
		return zombieStyle
	default:
		return dimStyle
	}
}
