// Package gradle selects the Gradle wrapper script for the current platform
// and builds its argument list.
package gradle

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Wrapper is a way of invoking Gradle.
type Wrapper interface {
	// Name identifies the wrapper in logs.
	Name() string
	// Command is the executable as shown to the user.
	Command() string
	// Executable is the path handed to the OS when running in workDir.
	Executable(workDir string) string
	// BuildArgs returns the tasks as discrete arguments followed by extra.
	BuildArgs(tasks, extra []string) []string
}

var (
	logWarnFn  = func(string) {}
	statFn     = os.Stat
	lookPathFn = exec.LookPath
)

// SetLogFuncs configures the warning hook used when a wrapper script is not
// where it is expected. Callers can pass nil to disable it.
func SetLogFuncs(warnFn func(string)) {
	if warnFn != nil {
		logWarnFn = warnFn
	} else {
		logWarnFn = func(string) {}
	}
}

func buildArgs(tasks, extra []string) []string {
	args := make([]string, 0, len(tasks)+len(extra))
	args = append(args, tasks...)
	return append(args, extra...)
}

// CommandLine renders w followed by args the way it is logged.
func CommandLine(w Wrapper, args []string) string {
	return strings.Join(append([]string{w.Command()}, args...), " ")
}

// CheckPresent warns when w's executable does not exist in workDir. Running
// it anyway surfaces the real error from the OS.
func CheckPresent(w Wrapper, workDir string) bool {
	exe := w.Executable(workDir)
	if _, custom := w.(CustomWrapper); custom && filepath.Base(exe) == exe {
		if _, err := lookPathFn(exe); err != nil {
			logWarnFn("Gradle wrapper " + exe + " not found in PATH")
			return false
		}
		return true
	}

	path := exe
	if !filepath.IsAbs(path) && workDir != "" {
		path = filepath.Join(workDir, path)
	}
	if _, err := statFn(path); err != nil {
		logWarnFn("Gradle wrapper " + w.Command() + " not found at " + path)
		return false
	}
	return true
}
