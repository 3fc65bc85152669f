package tui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/harrison/hive/internal/aggregator"
)

// PromptUnblock surfaces a blocked drone's blocked_reason and collects a
// resolution string from the user (spec §4.6 Unblock orchestration, §4.9
// Unblock Workflow view). Returns survey.ErrAbort's sentinel up to the
// caller unchanged if the user cancels (ctrl+c).
func PromptUnblock(snap aggregator.Snapshot) (string, error) {
	reason := "(no reason recorded)"
	if snap.Status != nil && snap.Status.BlockedReason != "" {
		reason = snap.Status.BlockedReason
	}
	fmt.Printf("Drone %q is blocked:\n  %s\n\n", snap.Name, reason)

	var resolution string
	prompt := &survey.Multiline{
		Message: "Resolution (what should the drone do next)?",
	}
	if err := survey.AskOne(prompt, &resolution, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return resolution, nil
}
