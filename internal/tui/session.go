package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrison/hive/internal/stream"
)

var (
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	matchStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
)

// SessionViewer shows one session transcript's turns with scroll and
// substring search (spec §4.9 Session Viewer).
type SessionViewer struct {
	Path   string
	turns  []stream.Turn
	Offset int
	Query  string
}

// NewSessionViewer loads the transcript at path.
func NewSessionViewer(path string) (*SessionViewer, error) {
	turns, err := stream.LoadSessionTranscript(path)
	if err != nil {
		return nil, err
	}
	return &SessionViewer{Path: path, turns: turns}, nil
}

// ScrollUp and ScrollDown move the viewport by n lines, clamped to the
// rendered line count.
func (v *SessionViewer) ScrollUp(n int) {
	v.Offset -= n
	if v.Offset < 0 {
		v.Offset = 0
	}
}

func (v *SessionViewer) ScrollDown(n, totalLines, height int) {
	v.Offset += n
	if max := totalLines - height; max > 0 && v.Offset > max {
		v.Offset = max
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
}

// Search sets the active search query; an empty query clears highlighting.
func (v *SessionViewer) Search(query string) {
	v.Query = query
}

// Render produces the full set of formatted lines (before scroll-window
// clipping) so the caller can apply height-based windowing against Offset.
func (v *SessionViewer) Render(width int) []string {
	lines := make([]string, 0, len(v.turns))
	for _, turn := range v.turns {
		line := formatTurn(turn)
		if v.Query != "" && strings.Contains(strings.ToLower(line), strings.ToLower(v.Query)) {
			line = highlightMatch(line, v.Query)
		}
		lines = append(lines, line)
	}
	return lines
}

// Window returns the visible slice of Render's output for a viewport of
// height rows starting at Offset.
func (v *SessionViewer) Window(lines []string, height int) []string {
	if v.Offset >= len(lines) {
		return nil
	}
	end := v.Offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return lines[v.Offset:end]
}

func formatTurn(turn stream.Turn) string {
	switch turn.Kind {
	case stream.KindSystemInit:
		model := ""
		if turn.SystemInit != nil {
			model = turn.SystemInit.Model
		}
		return systemStyle.Render(fmt.Sprintf("[session] model=%s", model))
	case stream.KindAssistant:
		text := ""
		if turn.Assistant != nil {
			text = turn.Assistant.Text
		}
		return assistantStyle.Render("assistant: ") + text
	case stream.KindUser:
		text := ""
		if turn.User != nil {
			text = turn.User.Text
		}
		return userStyle.Render("user: ") + text
	case stream.KindToolUse:
		name := ""
		if turn.ToolUse != nil {
			name = turn.ToolUse.Name
		}
		return toolStyle.Render(fmt.Sprintf("tool_use: %s", name))
	case stream.KindToolResult:
		errFlag := ""
		if turn.ToolResult != nil && turn.ToolResult.IsError {
			errFlag = " (error)"
		}
		return toolStyle.Render("tool_result" + errFlag)
	case stream.KindUsage:
		if turn.Usage == nil {
			return systemStyle.Render("[usage]")
		}
		return systemStyle.Render(fmt.Sprintf("[usage] in=%d out=%d cost=$%.4f", turn.Usage.InputTokens, turn.Usage.OutputTokens, turn.Usage.CostUSD))
	case stream.KindResult:
		result := ""
		if turn.Result != nil {
			result = turn.Result.Result
		}
		return systemStyle.Render("[result] ") + result
	case stream.KindSessionComplete:
		return systemStyle.Render("[session complete]")
	default:
		return dimStyle.Render(fmt.Sprintf("[%s] %s", turn.Kind, string(turn.Raw)))
	}
}

func highlightMatch(line, query string) string {
	idx := strings.Index(strings.ToLower(line), strings.ToLower(query))
	if idx < 0 {
		return line
	}
	return line[:idx] + matchStyle.Render(line[idx:idx+len(query)]) + line[idx+len(query):]
}
