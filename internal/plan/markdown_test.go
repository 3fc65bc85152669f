package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoPlan = `---
target_branch: feature/demo
base_branch: main
---

# Demo Plan

## Goal

hello

## Tasks

### 1. Environment Setup

- type: setup

Set up the environment.

### 2. Do work

Implement the feature.

### 3. PR

- type: pr

Open the pull request.

## Definition of Done

- [ ] done
`

func writePlan(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_StructuredMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := writePlan(t, dir, "demo.md", demoPlan)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", p.ID)
	assert.Equal(t, "feature/demo", p.TargetBranch)
	assert.Equal(t, "main", p.BaseBranch)
	assert.Equal(t, "hello", p.Goal)
	require.Len(t, p.Tasks, 3)
	assert.Equal(t, TaskSetup, p.Tasks[0].Type)
	assert.Equal(t, TaskWork, p.Tasks[1].Type)
	assert.Equal(t, TaskPR, p.Tasks[2].Type)
	assert.Equal(t, []string{"done"}, p.DefinitionOfDone)
}

func TestValidate_RejectsMissingSetupTask(t *testing.T) {
	p := &Plan{
		ID: "bad",
		Tasks: []Task{
			{Index: 1, Title: "Do work", Type: TaskWork},
			{Index: 2, Title: "PR", Type: TaskPR},
		},
	}
	err := Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type=setup")
}

func TestValidate_RejectsUnknownDependency(t *testing.T) {
	p := &Plan{
		ID: "bad",
		Tasks: []Task{
			{Index: 1, Title: "Setup", Type: TaskSetup},
			{Index: 2, Title: "Work", Type: TaskWork, DependsOn: []int{99}},
			{Index: 3, Title: "PR", Type: TaskPR},
		},
	}
	err := Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
}

func TestValidate_RejectsForwardDependency(t *testing.T) {
	p := &Plan{
		ID: "bad",
		Tasks: []Task{
			{Index: 1, Title: "Setup", Type: TaskSetup, DependsOn: []int{2}},
			{Index: 2, Title: "Work", Type: TaskWork},
			{Index: 3, Title: "PR", Type: TaskPR},
		},
	}
	err := Validate(p)
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writePlan(t, dir, "demo.md", demoPlan)

	original, err := Load(path)
	require.NoError(t, err)

	reserialized := original.ToMarkdown()
	rtPath := writePlan(t, dir, "roundtrip.md", string(reserialized))

	reloaded, err := Load(rtPath)
	require.NoError(t, err)

	assert.Equal(t, original.Goal, reloaded.Goal)
	assert.Equal(t, original.TargetBranch, reloaded.TargetBranch)
	assert.Equal(t, original.BaseBranch, reloaded.BaseBranch)
	require.Len(t, reloaded.Tasks, len(original.Tasks))
	for i := range original.Tasks {
		assert.Equal(t, original.Tasks[i].Title, reloaded.Tasks[i].Title)
		assert.Equal(t, original.Tasks[i].Type, reloaded.Tasks[i].Type)
		assert.Equal(t, original.Tasks[i].DependsOn, reloaded.Tasks[i].DependsOn)
	}
	assert.Equal(t, original.DefinitionOfDone, reloaded.DefinitionOfDone)
}

func TestLoad_LegacyJSON(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
		"id": "legacy-demo",
		"title": "Legacy Demo",
		"plan": "hello legacy",
		"target_branch": "hive/legacy-demo",
		"tasks": [
			{"number": 1, "title": "Environment Setup", "description": "setup", "type": "setup"},
			{"number": 2, "title": "Do work", "description": "work"},
			{"number": 3, "title": "PR", "description": "open pr", "type": "pr"}
		]
	}`
	path := writePlan(t, dir, "legacy.json", legacy)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "legacy-demo", p.ID)
	require.Len(t, p.Tasks, 3)
	assert.Equal(t, TaskSetup, p.Tasks[0].Type)
	assert.Equal(t, TaskPR, p.Tasks[2].Type)
}
