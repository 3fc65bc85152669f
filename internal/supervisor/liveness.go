package supervisor

import (
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// IsLive reports whether pid names a running process and, when
// expectedName is non-empty, whether that process's own binary name
// contains it (spec §4.5: "a process with that pid exists AND (on
// platforms where it is cheap) the process name matches the expected
// assistant binary"). A pid that exists but belongs to an unrelated
// process (likely recycled by the OS) is reported as not live.
func IsLive(pid int, expectedName string) (bool, error) {
	exists, err := process.PidExists(int32(pid))
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if expectedName == "" {
		return true, nil
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		// Process vanished between the existence check and this lookup;
		// treat as not live rather than erroring the caller.
		return false, nil
	}
	name, err := proc.Name()
	if err != nil {
		// Name is best-effort (spec: "on platforms where it is cheap"); a
		// failure to read it does not demote a pid we know exists.
		return true, nil
	}
	return strings.Contains(name, expectedName) || strings.Contains(expectedName, name), nil
}
