package logger

// LauncherName is the fixed name for this tool.
const LauncherName = "impact-tests-launcher"

// LogPrefix returns the filename prefix used for launcher log files.
func LogPrefix() string { return LauncherName }
