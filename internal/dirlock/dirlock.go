// Package dirlock implements the per-drone advisory directory lock that
// serializes concurrent lifecycle operations on the same drone (spec §4.6,
// §5). It is a thin, Hive-specific wrapper over the same gofrs/flock
// primitive internal/atomicfile uses for status writes.
package dirlock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another process already holds the lock.
var ErrBusy = fmt.Errorf("drone is busy with another operation")

// Lock guards one drone directory's lifecycle operations.
type Lock struct {
	fl   *flock.Flock
	path string
}

// New returns a Lock for the given drone directory. The lock file is
// "<droneDir>/.lock" and is never treated as meaningful drone state.
func New(droneDir string) *Lock {
	return &Lock{fl: flock.New(droneDir + "/.lock"), path: droneDir}
}

// TryAcquire attempts to take the lock without blocking. If another
// operation already holds it, it returns ErrBusy — the caller reports
// "busy" and exits non-fatally (§4.6 idempotence note), it does not retry
// or block.
func (l *Lock) TryAcquire() (func(), error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock drone directory %s: %w", l.path, err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() { l.fl.Unlock() }, nil
}
