// Package plan parses and validates the declarative input a drone executes
// (spec §3 Plan, §4.2 Plan Loader). It never executes shell commands and
// never mutates the source file it loads.
package plan

// TaskType enumerates the three recognized task roles (spec §3 Task
// invariants: first task is setup, last is pr, everything else is work).
type TaskType string

const (
	TaskSetup TaskType = "setup"
	TaskWork  TaskType = "work"
	TaskPR    TaskType = "pr"
)

// Task is one ordered step of a Plan.
type Task struct {
	Index       int      // 1-based position in the plan
	Title       string
	Description string // free-text prose following the metadata bullets
	Type        TaskType
	Model       string   // optional model override for this task
	Parallel    bool
	Files       []string // optional file hints
	DependsOn   []int    // indices of prior tasks this depends on

	// SuccessCriteria is an optional supplemented metadata bullet (§SPEC_FULL
	// C.2): a free-text acceptance-detail list the planner may attach to a
	// task beyond the plan-level Definition of Done. Not validated.
	SuccessCriteria []string
}

// Plan is the validated, in-memory representation of a plan file.
type Plan struct {
	ID                string // kebab-case identifier, also the drone name
	Title             string
	Goal              string
	Tasks             []Task
	DefinitionOfDone  []string
	TargetBranch      string // optional
	BaseBranch        string // optional
	FilePath          string // source path, for display only; never rewritten
}

// TaskByIndex returns the task with the given 1-based index, or false if it
// does not exist.
func (p *Plan) TaskByIndex(index int) (Task, bool) {
	for _, t := range p.Tasks {
		if t.Index == index {
			return t, true
		}
	}
	return Task{}, false
}
