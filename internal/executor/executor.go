// Package executor runs the Gradle wrapper as a child process that shares
// the launcher's standard streams and reports its exit status.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
)

// Spec describes one child process.
type Spec struct {
	Command string
	Args    []string
	WorkDir string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Result is the outcome of a child that ran to completion.
type Result struct {
	PID      int
	ExitCode int
	Signaled bool
	Duration time.Duration
}

// ErrEmptyCommand is returned when Spec.Command is blank.
var ErrEmptyCommand = errors.New("empty command")

type commandRunner interface {
	Start() error
	Wait() error
	SetDir(string)
	SetStdio(stdin io.Reader, stdout, stderr io.Writer)
	Process() processHandle
}

type processHandle interface {
	Pid() int
	Signal(os.Signal) error
	Kill() error
}

type realCmd struct {
	cmd *exec.Cmd
}

func (r *realCmd) Start() error { return r.cmd.Start() }

func (r *realCmd) Wait() error { return r.cmd.Wait() }

func (r *realCmd) SetDir(dir string) { r.cmd.Dir = dir }

func (r *realCmd) SetStdio(stdin io.Reader, stdout, stderr io.Writer) {
	r.cmd.Stdin = stdin
	r.cmd.Stdout = stdout
	r.cmd.Stderr = stderr
}

func (r *realCmd) Process() processHandle {
	if r.cmd.Process == nil {
		return nil
	}
	return &realProcess{proc: r.cmd.Process}
}

type realProcess struct {
	proc *os.Process
}

func (p *realProcess) Pid() int                   { return p.proc.Pid }
func (p *realProcess) Signal(sig os.Signal) error { return p.proc.Signal(sig) }
func (p *realProcess) Kill() error                { return p.proc.Kill() }

func newRealCommand(name string, args ...string) commandRunner {
	cmd := exec.Command(name, args...)
	// gradlew.bat is found in the working directory on Windows, which
	// exec refuses by default.
	if errors.Is(cmd.Err, exec.ErrDot) {
		cmd.Err = nil
	}
	return &realCmd{cmd: cmd}
}

var (
	newCommandRunner = newRealCommand
	notifySignals    = signal.Notify
	stopSignals      = signal.Stop

	// forceKillDelay is how long a child gets to exit after SIGTERM, in
	// seconds.
	forceKillDelay atomic.Int32
)

func init() {
	forceKillDelay.Store(10)
}

// Run starts spec and blocks until the child exits. An interrupt from the
// terminal already reaches the child through the process group, so the
// launcher only swallows it. Cancelling ctx, or a SIGTERM to the launcher,
// sends SIGTERM to the child and kills it after a grace period.
//
// A child that exits on its own, with any status, is not an error. Errors
// are reserved for children that could not be started or waited on.
func Run(ctx context.Context, spec Spec) (Result, error) {
	if strings.TrimSpace(spec.Command) == "" {
		return Result{}, ErrEmptyCommand
	}

	cmd := newCommandRunner(spec.Command, spec.Args...)
	cmd.SetDir(spec.WorkDir)
	cmd.SetStdio(spec.Stdin, spec.Stdout, spec.Stderr)

	signals := make(chan os.Signal, 2)
	notifySignals(signals, os.Interrupt, syscall.SIGTERM)
	defer stopSignals(signals)

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start %s: %w", spec.Command, err)
	}
	proc := cmd.Process()
	res := Result{}
	if proc != nil {
		res.PID = proc.Pid()
	}
	logInfo(fmt.Sprintf("Started %s (pid %d) in %q", spec.Command, res.PID, displayDir(spec.WorkDir)))

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var (
		waitErr   error
		done      = ctx.Done()
		forceKill <-chan time.Time
	)
	terminate := func(reason string) {
		if forceKill != nil {
			return
		}
		logWarn(fmt.Sprintf("%s; sending SIGTERM to pid %d", reason, res.PID))
		if err := sendTermSignal(proc); err != nil {
			logWarn(fmt.Sprintf("Failed to signal pid %d: %v", res.PID, err))
		}
		forceKill = time.After(time.Duration(forceKillDelay.Load()) * time.Second)
	}

wait:
	for {
		select {
		case waitErr = <-waitCh:
			break wait
		case sig := <-signals:
			if sig == os.Interrupt {
				logInfo("Interrupt received; waiting for the wrapper to exit")
				continue
			}
			terminate(fmt.Sprintf("Received %v", sig))
		case <-done:
			done = nil
			terminate("Cancelled")
		case <-forceKill:
			forceKill = nil
			logWarn(fmt.Sprintf("pid %d did not exit after SIGTERM; killing", res.PID))
			if proc != nil {
				_ = proc.Kill()
			}
		}
	}
	res.Duration = time.Since(started)

	code, signaled, err := exitStatus(waitErr)
	if err != nil {
		return res, fmt.Errorf("wait for %s: %w", spec.Command, err)
	}
	res.ExitCode = code
	res.Signaled = signaled
	logInfo(fmt.Sprintf("%s exited with code %d after %s", spec.Command, code, res.Duration.Round(time.Millisecond)))
	return res, nil
}

// exitStatus maps the error from Wait to an exit code. A child killed by
// signal N reports 128+N, the shell convention.
func exitStatus(waitErr error) (code int, signaled bool, err error) {
	if waitErr == nil {
		return 0, false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if code, ok := signaledExitCode(exitErr.ProcessState); ok {
			return code, true, nil
		}
		return exitErr.ExitCode(), false, nil
	}

	var coder interface{ ExitCode() int }
	if errors.As(waitErr, &coder) {
		return coder.ExitCode(), false, nil
	}
	return 0, false, waitErr
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
