package gradle

// CustomWrapper runs a user supplied executable instead of the checked-in
// wrapper, e.g. a CI shim around gradlew.
type CustomWrapper struct {
	Path string
}

func (w CustomWrapper) Name() string             { return "custom" }
func (w CustomWrapper) Command() string          { return w.Path }
func (w CustomWrapper) Executable(string) string { return w.Path }

func (w CustomWrapper) BuildArgs(tasks, extra []string) []string {
	return buildArgs(tasks, extra)
}
