//go:build windows

package executor

import "os"

// sendTermSignal kills the child; Windows has no SIGTERM delivery.
func sendTermSignal(proc processHandle) error {
	if proc == nil {
		return nil
	}
	return proc.Kill()
}

func signaledExitCode(*os.ProcessState) (int, bool) {
	return 0, false
}
