package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// EventKind is the discriminator on the "type" field of one transcript line,
// matching drone.log's line-delimited JSON grammar (spec §4.4/§4.8).
type EventKind string

const (
	KindSystemInit      EventKind = "system/init"
	KindAssistant       EventKind = "assistant"
	KindUser            EventKind = "user"
	KindToolUse         EventKind = "tool_use"
	KindToolResult      EventKind = "tool_result"
	KindResult          EventKind = "result"
	KindUsage           EventKind = "usage"
	KindSessionComplete EventKind = "session.completed"
)

// Turn is one parsed line of a session transcript. Exactly one of the typed
// fields is populated for a recognized Kind; Raw carries the full decoded
// payload for every turn, typed or not, so opaque passthrough never loses
// data (spec §4.8 Open Question: unknown kinds pass through unmodified).
type Turn struct {
	Kind EventKind
	Raw  json.RawMessage

	SystemInit *SystemInitTurn
	Assistant  *MessageTurn
	User       *MessageTurn
	ToolUse    *ToolUseTurn
	ToolResult *ToolResultTurn
	Result     *ResultTurn
	Usage      *UsageTurn
}

// SystemInitTurn announces the session's identity and working parameters.
type SystemInitTurn struct {
	SessionID string `json:"session_id"`
	Model     string `json:"model,omitempty"`
	Cwd       string `json:"cwd,omitempty"`
}

// MessageTurn is spoken text from either party (assistant or user).
type MessageTurn struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}

// ToolUseTurn records an invocation the assistant made.
type ToolUseTurn struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResultTurn records the outcome of a ToolUseTurn.
type ToolResultTurn struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// ResultTurn is the final structured outcome of a single drone invocation
// (grounded on the coding assistant's own "type":"result" envelope).
type ResultTurn struct {
	SessionID        string          `json:"session_id,omitempty"`
	Subtype          string          `json:"subtype,omitempty"`
	Result           string          `json:"result,omitempty"`
	StructuredOutput json.RawMessage `json:"structured_output,omitempty"`
	IsError          bool            `json:"is_error,omitempty"`
}

// UsageTurn records token/cost accounting for one invocation.
type UsageTurn struct {
	InputTokens  int     `json:"input_tokens,omitempty"`
	OutputTokens int     `json:"output_tokens,omitempty"`
	CostUSD      float64 `json:"cost_usd,omitempty"`
	Model        string  `json:"model,omitempty"`
}

type kindEnvelope struct {
	Type string `json:"type"`
}

// LoadSessionTranscript parses a drone.log-format file into its sequence of
// turns. A line whose "type" isn't one of the recognized kinds still
// produces a Turn with Kind set verbatim and every typed field nil; callers
// render it from Raw (spec §4.8: "unknown event kinds must not abort
// parsing").
func LoadSessionTranscript(path string) ([]Turn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session transcript %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var turns []Turn
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		turn, err := parseTurn(line)
		if err != nil {
			return turns, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		turns = append(turns, turn)
	}
	if err := scanner.Err(); err != nil {
		return turns, fmt.Errorf("scan session transcript %s: %w", path, err)
	}
	return turns, nil
}

func parseTurn(line []byte) (Turn, error) {
	raw := make(json.RawMessage, len(line))
	copy(raw, line)

	var env kindEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Turn{}, fmt.Errorf("decode transcript line: %w", err)
	}
	turn := Turn{Kind: EventKind(env.Type), Raw: raw}

	switch turn.Kind {
	case KindSystemInit:
		var v SystemInitTurn
		if err := json.Unmarshal(line, &v); err != nil {
			return Turn{}, fmt.Errorf("decode system/init turn: %w", err)
		}
		turn.SystemInit = &v
	case KindAssistant:
		var v MessageTurn
		if err := json.Unmarshal(line, &v); err != nil {
			return Turn{}, fmt.Errorf("decode assistant turn: %w", err)
		}
		turn.Assistant = &v
	case KindUser:
		var v MessageTurn
		if err := json.Unmarshal(line, &v); err != nil {
			return Turn{}, fmt.Errorf("decode user turn: %w", err)
		}
		turn.User = &v
	case KindToolUse:
		var v ToolUseTurn
		if err := json.Unmarshal(line, &v); err != nil {
			return Turn{}, fmt.Errorf("decode tool_use turn: %w", err)
		}
		turn.ToolUse = &v
	case KindToolResult:
		var v ToolResultTurn
		if err := json.Unmarshal(line, &v); err != nil {
			return Turn{}, fmt.Errorf("decode tool_result turn: %w", err)
		}
		turn.ToolResult = &v
	case KindResult:
		var v ResultTurn
		if err := json.Unmarshal(line, &v); err != nil {
			return Turn{}, fmt.Errorf("decode result turn: %w", err)
		}
		turn.Result = &v
	case KindUsage:
		var v UsageTurn
		if err := json.Unmarshal(line, &v); err != nil {
			return Turn{}, fmt.Errorf("decode usage turn: %w", err)
		}
		turn.Usage = &v
	case KindSessionComplete:
		// No dedicated payload beyond Raw; the kind itself is the signal.
	default:
		// Opaque passthrough: unrecognized kind, keep Raw only.
	}
	return turn, nil
}
