// Package integration drives the built hive binary inside a pseudo-terminal
// (spec §A.5 Test tooling): it is the one place in the repo that exercises
// the CLI as an end user would, keystrokes and all, rather than calling
// cobra commands in-process.
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var hiveBinary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "hive-integration")
	if err != nil {
		fmt.Fprintln(os.Stderr, "integration: create temp dir:", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	hiveBinary = filepath.Join(dir, "hive")
	build := exec.Command("go", "build", "-o", hiveBinary, "github.com/harrison/hive/cmd/hive")
	build.Stdout = os.Stderr
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "integration: build hive binary:", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
