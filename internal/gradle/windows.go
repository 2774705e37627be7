package gradle

import "path/filepath"

// WindowsWrapper runs gradlew.bat.
type WindowsWrapper struct{}

func (WindowsWrapper) Name() string    { return "gradlew.bat" }
func (WindowsWrapper) Command() string { return "gradlew.bat" }

// Executable anchors the script to workDir because Windows looks bare names
// up relative to the launcher's own directory, not the child's.
func (WindowsWrapper) Executable(workDir string) string {
	if workDir == "" {
		return "gradlew.bat"
	}
	return filepath.Join(workDir, "gradlew.bat")
}

func (WindowsWrapper) BuildArgs(tasks, extra []string) []string {
	return buildArgs(tasks, extra)
}
