package plan

import "fmt"

// Validate enforces the Plan invariants from spec §3:
//   - the first task must have type=setup, the last must have type=pr
//   - at least one task must exist
//   - every depends_on index must reference a prior task
//
// Errors name the first offending task or line, per §4.2's validation
// policy, so the planner's author (or Hive's user) can fix the plan
// without hunting through it.
func Validate(p *Plan) error {
	if len(p.Tasks) == 0 {
		return fmt.Errorf("plan %q has no tasks", p.ID)
	}

	first := p.Tasks[0]
	if first.Type != TaskSetup {
		return fmt.Errorf("task %d (%q) must have type=setup (it is the first task)", first.Index, first.Title)
	}

	last := p.Tasks[len(p.Tasks)-1]
	if last.Type != TaskPR {
		return fmt.Errorf("task %d (%q) must have type=pr (it is the last task)", last.Index, last.Title)
	}

	for _, t := range p.Tasks {
		for _, dep := range t.DependsOn {
			if dep >= t.Index {
				return fmt.Errorf("task %d (%q) depends_on %d, which is not a prior task", t.Index, t.Title, dep)
			}
			if _, ok := p.TaskByIndex(dep); !ok {
				return fmt.Errorf("task %d (%q) depends_on unknown task %d", t.Index, t.Title, dep)
			}
		}
	}

	return nil
}
