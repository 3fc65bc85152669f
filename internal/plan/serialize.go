package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// ToMarkdown renders p back into the structured markdown shape ParseMarkdown
// accepts. Loading ToMarkdown's output must reproduce an equivalent in
// -memory Plan (spec §8 testable property #4, round-trip plans).
func (p *Plan) ToMarkdown() []byte {
	var b strings.Builder

	if p.TargetBranch != "" || p.BaseBranch != "" {
		b.WriteString("---\n")
		if p.TargetBranch != "" {
			fmt.Fprintf(&b, "target_branch: %s\n", p.TargetBranch)
		}
		if p.BaseBranch != "" {
			fmt.Fprintf(&b, "base_branch: %s\n", p.BaseBranch)
		}
		b.WriteString("---\n\n")
	}

	if p.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", p.Title)
	}

	b.WriteString("## Goal\n\n")
	b.WriteString(p.Goal)
	b.WriteString("\n\n")

	b.WriteString("## Tasks\n\n")
	for _, t := range p.Tasks {
		fmt.Fprintf(&b, "### %d. %s\n\n", t.Index, t.Title)
		if t.Type != "" && t.Type != TaskWork {
			fmt.Fprintf(&b, "- type: %s\n", t.Type)
		}
		if t.Model != "" {
			fmt.Fprintf(&b, "- model: %s\n", t.Model)
		}
		if t.Parallel {
			b.WriteString("- parallel: true\n")
		}
		if len(t.Files) > 0 {
			fmt.Fprintf(&b, "- files: %s\n", strings.Join(t.Files, ", "))
		}
		if len(t.DependsOn) > 0 {
			deps := make([]string, len(t.DependsOn))
			for i, d := range t.DependsOn {
				deps[i] = strconv.Itoa(d)
			}
			fmt.Fprintf(&b, "- depends_on: %s\n", strings.Join(deps, ", "))
		}
		if len(t.SuccessCriteria) > 0 {
			fmt.Fprintf(&b, "- success_criteria: %s\n", strings.Join(t.SuccessCriteria, ", "))
		}
		b.WriteString("\n")
		if t.Description != "" {
			b.WriteString(t.Description)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("## Definition of Done\n\n")
	for _, d := range p.DefinitionOfDone {
		fmt.Fprintf(&b, "- [ ] %s\n", d)
	}

	return []byte(b.String())
}
