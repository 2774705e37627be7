package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return fs
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{"WRAPPER", "WORKDIR", "TYPES", "DEDUPE", "GRADLE_ARGS", "VERBOSE", "LOG_FILE"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	homedir.Reset()
	t.Cleanup(homedir.Reset)
	return home
}

func TestResolveDefaults(t *testing.T) {
	isolateHome(t)

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	cfg, err := Resolve(newFlagSet(t), v, "build/impact-analysis/result.json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := &Config{ResultPath: "build/impact-analysis/result.json"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFlags(t *testing.T) {
	isolateHome(t)

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	fs := newFlagSet(t,
		"--wrapper", "tools/gradlew",
		"--workdir", "/src/app",
		"--types", "UNIT, integration",
		"--dedupe",
		"--gradle-arg", "--continue",
		"--gradle-arg", "-Pci=true,fast",
		"--verbose",
		"--log-file",
	)
	cfg, err := Resolve(fs, v, "result.json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := &Config{
		ResultPath: "result.json",
		Wrapper:    "tools/gradlew",
		WorkDir:    "/src/app",
		TestTypes:  []string{"UNIT", "integration"},
		Dedupe:     true,
		GradleArgs: []string{"--continue", "-Pci=true,fast"},
		Verbose:    true,
		LogFile:    true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEnvironment(t *testing.T) {
	isolateHome(t)
	t.Setenv("IMPACT_LAUNCHER_WORKDIR", "/env/dir")
	t.Setenv("IMPACT_LAUNCHER_TYPES", "unit,ui")
	t.Setenv("IMPACT_LAUNCHER_GRADLE_ARGS", `--continue -Pmsg="impact run"`)
	t.Setenv("IMPACT_LAUNCHER_DEDUPE", "true")

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	cfg, err := Resolve(newFlagSet(t, "--workdir", "/flag/dir"), v, "result.json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if cfg.WorkDir != "/flag/dir" {
		t.Errorf("WorkDir = %q, flag should win over env", cfg.WorkDir)
	}
	if diff := cmp.Diff([]string{"unit", "ui"}, cfg.TestTypes); diff != "" {
		t.Errorf("TestTypes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"--continue", "-Pmsg=impact run"}, cfg.GradleArgs); diff != "" {
		t.Errorf("GradleArgs mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Dedupe {
		t.Errorf("Dedupe = false, want true from env")
	}
}

func TestResolveConfigFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".impact-launcher")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "wrapper: ./gradlew-ci\ntypes:\n  - UNIT\n  - INTEGRATION\ngradle-args:\n  - --continue\n  - --no-daemon\nverbose: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	cfg, err := Resolve(newFlagSet(t, "--verbose=false"), v, "result.json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := &Config{
		ResultPath: "result.json",
		Wrapper:    "./gradlew-ci",
		TestTypes:  []string{"UNIT", "INTEGRATION"},
		GradleArgs: []string{"--continue", "--no-daemon"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewViperExplicitFile(t *testing.T) {
	isolateHome(t)

	path := filepath.Join(t.TempDir(), "launcher.json")
	if err := os.WriteFile(path, []byte(`{"workdir": "/from/json", "log-file": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper(%q) error = %v", path, err)
	}
	if got := v.GetString(KeyWorkDir); got != "/from/json" {
		t.Errorf("workdir = %q, want /from/json", got)
	}
	if !v.GetBool(KeyLogFile) {
		t.Errorf("log-file = false, want true")
	}

	if _, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("NewViper() with missing explicit file should fail")
	}
}

func TestResolveRejectsInvalidValues(t *testing.T) {
	isolateHome(t)
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"empty wrapper", []string{"--wrapper", "  "}},
		{"empty workdir", []string{"--workdir="}},
		{"bad type", []string{"--types", "unit,../evil"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(newFlagSet(t, tt.args...), v, "result.json"); err == nil {
				t.Fatalf("Resolve(%v) expected error", tt.args)
			}
		})
	}
}

func TestResolveRejectsUnbalancedGradleArgs(t *testing.T) {
	isolateHome(t)
	t.Setenv("IMPACT_LAUNCHER_GRADLE_ARGS", `--continue -Pmsg="unterminated`)

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	if _, err := Resolve(newFlagSet(t), v, "result.json"); err == nil {
		t.Fatal("Resolve() expected error for unbalanced quote")
	}
}

func TestValidateTestType(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"UNIT", false},
		{"integration", false},
		{"e2e_2", false},
		{"ui-tests", false},
		{"", true},
		{"a b", true},
		{"a/b", true},
		{"../evil", true},
		{"单元", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateTestType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTestType(%q) err=%v, wantErr=%v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList([]string{"unit, integration", "", " ,ui,", "e2e"})
	if diff := cmp.Diff([]string{"unit", "integration", "ui", "e2e"}, got); diff != "" {
		t.Fatalf("SplitList() mismatch (-want +got):\n%s", diff)
	}
	if got := SplitList(nil); got != nil {
		t.Fatalf("SplitList(nil) = %v, want nil", got)
	}
}
