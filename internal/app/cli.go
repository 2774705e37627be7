// Package launcher implements the impact-tests-launcher command: it reads an
// impact analysis result document and runs the Gradle wrapper with the test
// tasks it lists.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	config "impact-tests-launcher/internal/config"
	executor "impact-tests-launcher/internal/executor"
	gradle "impact-tests-launcher/internal/gradle"
	result "impact-tests-launcher/internal/result"
	utils "impact-tests-launcher/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	exitUsage        = 1
	exitFileNotFound = 2
	exitFailure      = 1

	maxLoggedCommand = 512
)

var (
	version = "dev"

	exitFn = os.Exit

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	statFn          = os.Stat
	loadResultFn    = result.Load
	selectWrapperFn = gradle.Select
	runWrapperFn    = executor.Run
)

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

type cliOptions struct {
	ConfigFile string
	Version    bool
	Cleanup    bool
}

// Run is the program entrypoint for cmd/impact-tests-launcher/main.go.
func Run() {
	exitFn(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitFailure
	}
	return 0
}

func newRootCommand() *cobra.Command {
	name := launcherName()
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s [flags] <result.json>", name),
		Short:         "Run the Gradle test tasks selected by impact analysis",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Version {
				fmt.Fprintf(stdout, "%s version %s\n", name, version)
				return nil
			}
			if opts.Cleanup {
				return asExitError(runCleanupMode())
			}

			if len(args) == 0 {
				fmt.Fprintf(stdout, "Usage: %s <result.json>\n", name)
				return exitError{code: exitUsage}
			}

			v, err := config.NewViper(opts.ConfigFile)
			if err != nil {
				fmt.Fprintf(stderr, "ERROR: %v\n", err)
				return exitError{code: exitFailure}
			}
			cfg, err := config.Resolve(cmd.Flags(), v, args[0])
			if err != nil {
				fmt.Fprintf(stderr, "ERROR: %v\n", err)
				return exitError{code: exitFailure}
			}

			return asExitError(runWithLogger(cfg, func() int {
				if len(args) > 1 {
					logWarn(fmt.Sprintf("Ignoring extra arguments: %s", strings.Join(args[1:], " ")))
				}
				return runLaunch(cmd.Context(), cfg)
			}))
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	addRootFlags(cmd.Flags(), opts)
	return cmd
}

func addRootFlags(fs *pflag.FlagSet, opts *cliOptions) {
	fs.StringVar(&opts.ConfigFile, "config", "", "Config file path (default: $HOME/.impact-launcher/config.*)")
	fs.BoolVarP(&opts.Version, "version", "v", false, "Print version and exit")
	fs.BoolVar(&opts.Cleanup, "cleanup", false, "Clean up stale launcher logs and exit")
	config.AddFlags(fs)
}

func asExitError(code int) error {
	if code == 0 {
		return nil
	}
	return exitError{code: code}
}

// runLaunch is the parse, extract, decide-empty, build-command and
// execute-and-forward pipeline. It returns the process exit code.
func runLaunch(ctx context.Context, cfg *config.Config) int {
	if ctx == nil {
		ctx = context.Background()
	}
	path := cfg.ResultPath
	logDebug(fmt.Sprintf("Config: wrapper=%q workdir=%q types=%v dedupe=%v gradle_args=%q",
		cfg.Wrapper, cfg.WorkDir, cfg.TestTypes, cfg.Dedupe, cfg.GradleArgs))

	if _, err := statFn(path); err != nil {
		fmt.Fprintf(stdout, "File not found: %s\n", path)
		logWarn(fmt.Sprintf("Result document %s: %v", path, err))
		return exitFileNotFound
	}

	doc, err := loadResultFn(path)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		logError(err.Error())
		return exitFailure
	}
	logInfo(fmt.Sprintf("Loaded %s: testsToRun keys=[%s]", path, strings.Join(doc.TestsToRun.Keys(), ", ")))

	groups := doc.TestsToRun
	if len(cfg.TestTypes) > 0 {
		groups = groups.Filter(cfg.TestTypes)
		logInfo(fmt.Sprintf("Test types %v matched %d of %d group(s)", cfg.TestTypes, len(groups), len(doc.TestsToRun)))
	}
	tasks := groups.Tasks()
	if cfg.Dedupe {
		before := len(tasks)
		tasks = result.Dedupe(tasks)
		if dropped := before - len(tasks); dropped > 0 {
			logInfo(fmt.Sprintf("Dropped %d duplicate task(s)", dropped))
		}
	}

	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "No tests to run.")
		logInfo("No tests to run")
		return 0
	}

	wrapper := selectWrapperFn(cfg.Wrapper)
	gradle.CheckPresent(wrapper, cfg.WorkDir)
	args := wrapper.BuildArgs(tasks, cfg.GradleArgs)
	line := gradle.CommandLine(wrapper, args)

	fmt.Fprintf(stdout, "Running: %s\n", line)
	logInfo(fmt.Sprintf("Selected wrapper: %s, %d task(s): %s", wrapper.Name(), len(tasks), utils.TruncateRunes(line, maxLoggedCommand)))

	res, err := runWrapperFn(ctx, executor.Spec{
		Command: wrapper.Executable(cfg.WorkDir),
		Args:    args,
		WorkDir: cfg.WorkDir,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		logError(err.Error())
		return exitFailure
	}
	if res.ExitCode != 0 {
		logWarn(fmt.Sprintf("%s exited with code %d", wrapper.Name(), res.ExitCode))
	}
	return res.ExitCode
}

// runWithLogger installs the launcher log for the duration of fn. Recent
// warnings and errors are replayed on stderr when fn fails and the log was
// written to a file.
func runWithLogger(cfg *config.Config, fn func() int) (exitCode int) {
	var console io.Writer
	if cfg.Verbose {
		console = stderr
	}

	var logger *Logger
	if cfg.LogFile {
		l, err := NewLogger(LoggerOptions{Persist: true, Console: console})
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: failed to initialize logger: %v\n", err)
			return exitFailure
		}
		logger = l
	} else {
		logger = NewMemoryLogger(console)
	}
	setLogger(logger)
	gradle.SetLogFuncs(logWarn)

	defer func() {
		gradle.SetLogFuncs(nil)
		logger.Flush()
		if err := closeLogger(); err != nil {
			fmt.Fprintf(stderr, "ERROR: failed to close logger: %v\n", err)
		}
		if exitCode == 0 || logger.Path() == "" {
			return
		}
		if entries := logger.ExtractRecentErrors(10); len(entries) > 0 {
			fmt.Fprintln(stderr, "\n=== Recent Errors ===")
			for _, entry := range entries {
				fmt.Fprintln(stderr, utils.StripTerminalCodes(entry))
			}
			fmt.Fprintf(stderr, "Log file: %s\n", logger.Path())
		}
	}()

	logInfo(fmt.Sprintf("%s %s started, run_id=%s", launcherName(), version, logger.RunID()))
	if cfg.LogFile {
		// Clean up stale logs from previous runs.
		runStartupCleanup()
	}
	return fn()
}

func runStartupCleanup() {
	stats, err := cleanupOldLogs()
	if err != nil {
		logWarn(fmt.Sprintf("Stale log cleanup: %v", err))
	}
	if stats.Deleted > 0 {
		logInfo(fmt.Sprintf("Removed %d stale log file(s)", stats.Deleted))
	}
}

func runCleanupMode() int {
	stats, err := cleanupOldLogs()
	if err != nil {
		fmt.Fprintf(stderr, "Cleanup failed: %v\n", err)
		return exitFailure
	}

	fmt.Fprintln(stdout, "Cleanup completed")
	fmt.Fprintf(stdout, "Files scanned: %d\n", stats.Scanned)
	fmt.Fprintf(stdout, "Files deleted: %d\n", stats.Deleted)
	for _, f := range stats.DeletedFiles {
		fmt.Fprintf(stdout, "  - %s\n", f)
	}
	fmt.Fprintf(stdout, "Files kept: %d\n", stats.Kept)
	if stats.Errors > 0 {
		fmt.Fprintf(stdout, "Deletion errors: %d\n", stats.Errors)
	}
	return 0
}
