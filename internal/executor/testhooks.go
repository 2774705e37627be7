package executor

import (
	"os"
	"os/signal"
)

// CommandRunner and ProcessHandle let tests substitute the child process.
type CommandRunner = commandRunner
type ProcessHandle = processHandle

func SetForceKillDelay(seconds int32) (restore func()) {
	prev := forceKillDelay.Load()
	forceKillDelay.Store(seconds)
	return func() { forceKillDelay.Store(prev) }
}

func SetNewCommandRunner(fn func(string, ...string) CommandRunner) (restore func()) {
	prev := newCommandRunner
	if fn != nil {
		newCommandRunner = fn
	} else {
		newCommandRunner = newRealCommand
	}
	return func() { newCommandRunner = prev }
}

// SetSignalNotify replaces signal registration so tests can inject signals
// without touching the real process.
func SetSignalNotify(notify func(chan<- os.Signal, ...os.Signal), stop func(chan<- os.Signal)) (restore func()) {
	prevNotify, prevStop := notifySignals, stopSignals
	if notify != nil {
		notifySignals = notify
	} else {
		notifySignals = signal.Notify
	}
	if stop != nil {
		stopSignals = stop
	} else {
		stopSignals = signal.Stop
	}
	return func() { notifySignals, stopSignals = prevNotify, prevStop }
}
