package gradle

// UnixWrapper runs the ./gradlew shell script.
type UnixWrapper struct{}

func (UnixWrapper) Name() string    { return "gradlew" }
func (UnixWrapper) Command() string { return "./gradlew" }

// Executable stays relative; the child resolves it after changing into
// workDir.
func (UnixWrapper) Executable(string) string { return "./gradlew" }

func (UnixWrapper) BuildArgs(tasks, extra []string) []string {
	return buildArgs(tasks, extra)
}
