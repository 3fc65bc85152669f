// Package tui implements the TUI Presenter (C9): a poll-driven,
// diff-repainted renderer over Dashboard, Session Viewer, and Unblock
// Workflow views.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"github.com/harrison/hive/internal/aggregator"
	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/lifecycle"
	"github.com/harrison/hive/internal/state"
)

type mode int

const (
	modeDashboard mode = iota
	modeSession
	modeUnblock
	modeSearch
)

// App is the top-level cooperative event loop described in spec §4.9: on
// every tick or keypress it refreshes the aggregator snapshot, pulls any
// pending session lines, reconciles the selection, and repaints.
type App struct {
	ProjectRoot string
	Screen      *Screen
	dashboard   *Dashboard
	session     *SessionViewer
	mode        mode

	snapshots []aggregator.Snapshot

	// searchInput buffers the query line while mode == modeSearch (spec
	// §4.9 Session Viewer: "scroll and search").
	searchInput string
}

// NewApp constructs an App ready to Run against the project at projectRoot.
func NewApp(projectRoot string) *App {
	return &App{
		ProjectRoot: projectRoot,
		Screen:      NewScreen(os.Stdout),
		dashboard:   NewDashboard(projectRoot),
		mode:        modeDashboard,
	}
}

// Run drives the event loop until ctx is canceled or the user quits. It
// takes over the terminal (raw mode + alternate framing) for its duration.
func (a *App) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	keys, err := NewKeyReader(fd)
	if err != nil {
		return fmt.Errorf("enter raw terminal mode: %w", err)
	}
	defer keys.Close()

	a.Screen.HideCursor()
	defer a.Screen.ShowCursor()
	a.Screen.Reset()

	type keyEvent struct {
		key Key
		r   rune
		err error
	}
	keyCh := make(chan keyEvent)
	go func() {
		for {
			k, r, err := keys.ReadKey()
			select {
			case keyCh <- keyEvent{k, r, err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	if err := a.refresh(); err != nil {
		return err
	}
	a.draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.refresh(); err != nil {
				return err
			}
			a.draw()
		case ev := <-keyCh:
			if ev.err != nil {
				return nil
			}
			quit, err := a.handleKey(ev.key, ev.r)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			a.draw()
		}
	}
}

func (a *App) refresh() error {
	snaps, err := a.dashboard.Refresh()
	if err != nil {
		return err
	}
	a.snapshots = snaps
	return nil
}

func (a *App) draw() {
	width, height := termSize()
	var lines []string
	switch a.mode {
	case modeSession:
		lines = a.renderSession(height)
	case modeSearch:
		lines = append(a.renderSession(height-1), dimStyle.Render("/"+a.searchInput))
	default:
		lines = a.dashboard.Render(a.snapshots, width)
	}
	a.Screen.Paint(lines)
}

func (a *App) renderSession(height int) []string {
	if a.session == nil {
		return []string{dimStyle.Render("no session selected")}
	}
	all := a.session.Render(0)
	return a.session.Window(all, height-2)
}

func (a *App) handleKey(k Key, r rune) (quit bool, err error) {
	if k == KeyCtrlC {
		return true, nil
	}
	if r == 'q' && a.mode != modeUnblock && a.mode != modeSearch {
		return true, nil
	}

	switch a.mode {
	case modeDashboard:
		return a.handleDashboardKey(k, r)
	case modeSession:
		return a.handleSessionKey(k, r)
	case modeSearch:
		return a.handleSearchKey(k, r)
	}
	return false, nil
}

func (a *App) handleDashboardKey(k Key, r rune) (bool, error) {
	switch {
	case k == KeyUp || r == 'k':
		a.dashboard.MoveUp()
	case k == KeyDown || r == 'j':
		a.dashboard.MoveDown(len(a.snapshots))
	case k == KeyEnter:
		return false, a.openSelectedSession()
	case r == 'u':
		return false, a.unblockSelected()
	}
	return false, nil
}

func (a *App) handleSessionKey(k Key, r rune) (bool, error) {
	_, height := termSize()
	switch {
	case k == KeyUp || r == 'k':
		a.session.ScrollUp(1)
	case k == KeyDown || r == 'j':
		a.session.ScrollDown(1, len(a.session.Render(0)), height-2)
	case k == KeyEscape:
		a.mode = modeDashboard
		a.Screen.Reset()
	case r == '/':
		a.searchInput = a.session.Query
		a.mode = modeSearch
	}
	return false, nil
}

// handleSearchKey edits the buffered query line for the Session Viewer's
// substring search (spec §4.9). Enter commits the query via
// SessionViewer.Search and returns to the session view; Escape discards the
// edit and leaves the previous query in effect.
func (a *App) handleSearchKey(k Key, r rune) (bool, error) {
	switch {
	case k == KeyEnter:
		a.session.Search(a.searchInput)
		a.mode = modeSession
	case k == KeyEscape:
		a.mode = modeSession
	case r == 127 || r == 8:
		if n := len(a.searchInput); n > 0 {
			a.searchInput = a.searchInput[:n-1]
		}
	case r != 0:
		a.searchInput += string(r)
	}
	return false, nil
}

func (a *App) openSelectedSession() error {
	name := a.dashboard.SelectedName(a.snapshots)
	if name == "" {
		return nil
	}
	path := filepath.Join(config.DroneDir(a.ProjectRoot, name), "drone.log")
	viewer, err := NewSessionViewer(path)
	if err != nil {
		return nil // nothing to show yet; stay on the dashboard
	}
	a.session = viewer
	a.mode = modeSession
	a.Screen.Reset()
	return nil
}

func (a *App) unblockSelected() error {
	idx := a.dashboard.Selected
	if idx < 0 || idx >= len(a.snapshots) {
		return nil
	}
	snap := a.snapshots[idx]
	if snap.Status == nil || snap.Status.Status != state.StatusBlocked {
		return nil
	}

	a.Screen.ShowCursor()
	defer a.Screen.HideCursor()
	resolution, err := PromptUnblock(snap)
	if err != nil {
		return nil // user canceled; stay on the dashboard
	}
	return UnblockAndRespawn(a.ProjectRoot, snap.Name, resolution)
}

// UnblockAndRespawn loads the user config and drives the lifecycle engine's
// Unblock orchestration for name, carrying the collected resolution string.
func UnblockAndRespawn(projectRoot, name, resolution string) error {
	userCfg, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("load user config: %w", err)
	}
	engine := lifecycle.New(projectRoot, userCfg)
	return engine.Unblock(name, resolution)
}

func termSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}
