package plan

import (
	"encoding/json"
	"fmt"
)

// legacyPlan is the older planner's serialized object shape, accepted for
// backward compatibility (spec §4.2): id, title, a markdown body under
// "plan", a flat task list, and an optional target branch.
type legacyPlan struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Plan         string      `json:"plan"`
	Tasks        []legacyTask `json:"tasks"`
	TargetBranch string      `json:"target_branch"`
}

type legacyTask struct {
	Number      interface{} `json:"number"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Model       string      `json:"model"`
	Parallel    bool        `json:"parallel"`
	Files       []string    `json:"files"`
	DependsOn   []int       `json:"depends_on"`
}

// ParseLegacy parses the older JSON plan shape produced by prior planner
// versions.
func ParseLegacy(id string, content []byte) (*Plan, error) {
	var lp legacyPlan
	if err := json.Unmarshal(content, &lp); err != nil {
		return nil, fmt.Errorf("parse legacy plan: %w", err)
	}

	planID := id
	if lp.ID != "" {
		planID = lp.ID
	}

	p := &Plan{
		ID:           planID,
		Title:        lp.Title,
		Goal:         lp.Plan,
		TargetBranch: lp.TargetBranch,
	}

	for i, lt := range lp.Tasks {
		index := i + 1
		if n, ok := lt.Number.(float64); ok {
			index = int(n)
		}
		taskType := TaskType(lt.Type)
		if taskType == "" {
			taskType = TaskWork
		}
		p.Tasks = append(p.Tasks, Task{
			Index:       index,
			Title:       lt.Title,
			Description: lt.Description,
			Type:        taskType,
			Model:       lt.Model,
			Parallel:    lt.Parallel,
			Files:       lt.Files,
			DependsOn:   lt.DependsOn,
		})
	}

	return p, nil
}
