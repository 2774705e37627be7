package gradle

import (
	"runtime"
	"strings"
)

var registry = map[string]Wrapper{
	"windows": WindowsWrapper{},
	"unix":    UnixWrapper{},
}

// Registry exposes the built-in wrappers keyed by OS family.
func Registry() map[string]Wrapper {
	return registry
}

// IsWindows reports whether goos belongs to the Windows family.
func IsWindows(goos string) bool {
	return strings.EqualFold(strings.TrimSpace(goos), "windows")
}

// ForOS returns the built-in wrapper for goos.
func ForOS(goos string) Wrapper {
	if IsWindows(goos) {
		return registry["windows"]
	}
	return registry["unix"]
}

// Select returns a CustomWrapper when override is set, otherwise the
// built-in wrapper for the running OS.
func Select(override string) Wrapper {
	return selectFor(runtime.GOOS, override)
}

func selectFor(goos, override string) Wrapper {
	if override = strings.TrimSpace(override); override != "" {
		return CustomWrapper{Path: override}
	}
	return ForOS(goos)
}
