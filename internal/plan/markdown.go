package plan

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// structureCheck is a minimal goldmark instance used only to confirm the
// plan body is syntactically parseable markdown before the line-oriented
// extraction below runs. Heading/list extraction is done by direct line
// scanning rather than an AST walk, because plan bodies mix prose and
// metadata bullets in ways an AST walk resolves less predictably than a
// dedicated regex pass — the same tradeoff the reference project's own
// plan parser makes.
var structureCheck = goldmark.New()

// frontmatterFields is the optional YAML frontmatter block recognized by
// structured markdown plans (spec §4.2).
type frontmatterFields struct {
	TargetBranch string `yaml:"target_branch"`
	BaseBranch   string `yaml:"base_branch"`
}

var (
	taskHeadingRe = regexp.MustCompile(`^###\s+(\d+)\.\s+(.+)$`)
	metaBulletRe  = regexp.MustCompile(`^-\s+([a-zA-Z_]+):\s*(.*)$`)
	sectionRe     = regexp.MustCompile(`^##\s+(.+)$`)
	dodItemRe     = regexp.MustCompile(`^-\s+\[( |x|X)\]\s*(.+)$`)
)

// ParseMarkdown parses the structured markdown plan shape described in spec
// §4.2: optional frontmatter, then "## Goal", "## Tasks" (with "### N.
// Title" subsections), then "## Definition of Done".
func ParseMarkdown(id string, content []byte) (*Plan, error) {
	body, frontmatter := extractFrontmatter(content)

	// A nil AST root with no error would mean goldmark saw nothing at all;
	// a genuinely malformed document still parses (markdown has no syntax
	// errors in the traditional sense), so this is a best-effort sanity
	// check, not the source of truth for structure.
	_ = structureCheck.Parser().Parse(text.NewReader(body))

	p := &Plan{ID: id}
	if frontmatter != nil {
		var ff frontmatterFields
		if err := yaml.Unmarshal(frontmatter, &ff); err != nil {
			return nil, fmt.Errorf("parse frontmatter: %w", err)
		}
		p.TargetBranch = ff.TargetBranch
		p.BaseBranch = ff.BaseBranch
	}

	lines := strings.Split(string(body), "\n")

	var section string
	var goal strings.Builder
	var tasks []Task
	var dod []string
	var currentTask *Task
	var taskBody strings.Builder
	inCodeBlock := false

	flushTask := func() {
		if currentTask == nil {
			return
		}
		applyTaskMetadata(currentTask, taskBody.String())
		tasks = append(tasks, *currentTask)
		currentTask = nil
		taskBody.Reset()
	}

	for _, rawLine := range lines {
		line := rawLine

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			if currentTask != nil {
				taskBody.WriteString(line)
				taskBody.WriteString("\n")
			}
			continue
		}
		if inCodeBlock {
			if currentTask != nil {
				taskBody.WriteString(line)
				taskBody.WriteString("\n")
			} else if section == "goal" {
				goal.WriteString(line)
				goal.WriteString("\n")
			}
			continue
		}

		if m := taskHeadingRe.FindStringSubmatch(line); m != nil && section == "tasks" {
			flushTask()
			index, _ := strconv.Atoi(m[1])
			currentTask = &Task{Index: index, Title: strings.TrimSpace(m[2]), Type: TaskWork}
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			flushTask()
			switch strings.ToLower(strings.TrimSpace(m[1])) {
			case "goal":
				section = "goal"
			case "tasks":
				section = "tasks"
			case "definition of done":
				section = "dod"
			default:
				section = ""
			}
			continue
		}

		switch section {
		case "goal":
			goal.WriteString(line)
			goal.WriteString("\n")
		case "tasks":
			if currentTask != nil {
				taskBody.WriteString(line)
				taskBody.WriteString("\n")
			}
		case "dod":
			if m := dodItemRe.FindStringSubmatch(line); m != nil {
				dod = append(dod, strings.TrimSpace(m[2]))
			}
		}
	}
	flushTask()

	p.Goal = strings.TrimSpace(goal.String())
	p.Tasks = tasks
	p.DefinitionOfDone = dod

	if p.Title == "" {
		if t, ok := findTitle(lines); ok {
			p.Title = t
		} else {
			p.Title = id
		}
	}

	return p, nil
}

// findTitle looks for a leading "# Title" H1 heading.
func findTitle(lines []string) (string, bool) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# ")), true
		}
	}
	return "", false
}

// applyTaskMetadata scans the leading "- key: value" bullet block of a task
// body for recognized metadata keys, then assigns whatever remains as the
// task description.
func applyTaskMetadata(t *Task, content string) {
	lines := strings.Split(content, "\n")
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		m := metaBulletRe.FindStringSubmatch(line)
		if m == nil {
			break
		}
		key := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])
		switch key {
		case "type":
			t.Type = TaskType(strings.ToLower(value))
		case "model":
			t.Model = value
		case "parallel":
			t.Parallel = strings.EqualFold(value, "true")
		case "files":
			t.Files = splitCSV(value)
		case "depends_on":
			t.DependsOn = parseDependsOn(value)
		case "success_criteria":
			t.SuccessCriteria = splitCSV(value)
		default:
			// Unknown metadata key: stop treating bullets as metadata, the
			// rest (including this line) is prose.
			goto done
		}
	}
done:
	t.Description = strings.TrimSpace(strings.Join(lines[i:], "\n"))
	if t.Type == "" {
		t.Type = TaskWork
	}
}

func splitCSV(value string) []string {
	value = strings.Trim(value, "[]")
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDependsOn(value string) []int {
	raw := splitCSV(value)
	out := make([]int, 0, len(raw))
	for _, r := range raw {
		n, err := strconv.Atoi(r)
		if err == nil {
			out = append(out, n)
		}
	}
	return out
}

// extractFrontmatter splits a leading "---\n...\n---" YAML block from the
// rest of the document, returning (body, frontmatter). frontmatter is nil
// if no block is present.
func extractFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatter := bytes.Join(lines[1:i], []byte("\n"))
			body := bytes.Join(lines[i+1:], []byte("\n"))
			return body, frontmatter
		}
	}
	return content, nil
}
