package logger

import (
	"errors"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// logOwner is what the process table says about the PID in a log name.
type logOwner struct {
	alive   bool
	started time.Time // zero when unknown
}

// inspectOwner looks pid up with gopsutil. When the process table cannot be
// read the owner is reported alive, so its log is kept.
func inspectOwner(pid int) logOwner {
	if pid <= 0 || pid > math.MaxInt32 {
		return logOwner{}
	}

	proc, err := process.NewProcess(int32(pid))
	if errors.Is(err, process.ErrorProcessNotRunning) {
		return logOwner{}
	}
	owner := logOwner{alive: true}
	if err != nil {
		return owner
	}
	if ms, err := proc.CreateTime(); err == nil && ms > 0 {
		owner.started = time.UnixMilli(ms)
	}
	return owner
}

// ownsLog reports whether the owner is the process that wrote a log last
// modified at modTime. A process started after that has reused the PID.
// Without a start time, logs older than unknownStartMaxAge count as
// orphaned.
func (o logOwner) ownsLog(modTime time.Time) bool {
	if !o.alive {
		return false
	}
	if o.started.IsZero() {
		return time.Since(modTime) <= unknownStartMaxAge
	}
	return !o.started.After(modTime)
}
