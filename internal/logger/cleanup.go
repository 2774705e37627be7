package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const unknownStartMaxAge = 7 * 24 * time.Hour

var (
	inspectOwnerFn = inspectOwner
	removeFn       = os.Remove
)

// CleanupStats summarises a stale log sweep.
type CleanupStats struct {
	Scanned      int
	Deleted      int
	Kept         int
	Errors       int
	DeletedFiles []string
	KeptFiles    []string
}

// CleanupOldLogs removes launcher logs in the temp dir whose owning process
// is gone. Only regular files named <prefix>-<pid>.log directly inside the
// temp dir are considered; symlinks are never followed or removed.
func CleanupOldLogs() (CleanupStats, error) {
	var stats CleanupStats

	matches, err := filepath.Glob(filepath.Join(os.TempDir(), LogPrefix()+"-*.log"))
	if err != nil {
		return stats, fmt.Errorf("glob log files: %w", err)
	}

	var errs []error
	for _, path := range matches {
		stats.Scanned++
		if !isStaleLog(path) {
			stats.Kept++
			stats.KeptFiles = append(stats.KeptFiles, path)
			continue
		}

		if err := removeFn(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			stats.Errors++
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
			continue
		}
		stats.Deleted++
		stats.DeletedFiles = append(stats.DeletedFiles, path)
	}
	return stats, errors.Join(errs...)
}

func isStaleLog(path string) bool {
	pid, ok := parsePIDFromLog(path)
	if !ok {
		return false
	}
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if !info.Mode().IsRegular() {
		LogWarn(fmt.Sprintf("Skipping log cleanup for %s: not a regular file", path))
		return false
	}
	return !inspectOwnerFn(pid).ownsLog(info.ModTime())
}

// parsePIDFromLog extracts the PID from <prefix>-<pid>.log.
func parsePIDFromLog(path string) (int, bool) {
	name := filepath.Base(path)
	core, ok := strings.CutPrefix(name, LogPrefix()+"-")
	if !ok {
		return 0, false
	}
	core, ok = strings.CutSuffix(core, ".log")
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(core)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
