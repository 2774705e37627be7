// Package config resolves launcher settings from flags, IMPACT_LAUNCHER_*
// environment variables and an optional config file.
package config

import (
	"fmt"
	"strings"
)

// Config holds the resolved launcher settings.
type Config struct {
	ResultPath string
	Wrapper    string // empty selects the OS default
	WorkDir    string // empty runs in the current directory
	TestTypes  []string
	Dedupe     bool
	GradleArgs []string
	Verbose    bool
	LogFile    bool
}

// SplitList flattens comma separated entries, trimming blanks.
// []string{"unit, integration", "ui"} yields [unit integration ui].
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ValidateTestType checks a testsToRun key used for filtering. Keys come
// from the TestType enum of the analysis plugin (UNIT, INTEGRATION, ...).
func ValidateTestType(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("test type is empty")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-', r == '_':
		default:
			return fmt.Errorf("test type %q contains invalid character %q", name, r)
		}
	}
	return nil
}
