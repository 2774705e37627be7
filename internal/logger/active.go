// Package logger records launcher events. A process-wide logger is installed
// with SetLogger and reached through the Log* helpers, so packages can log
// without passing a logger around.
package logger

import "sync/atomic"

var loggerPtr atomic.Pointer[Logger]

// SetLogger installs l as the process-wide launcher log. Passing nil
// disables package-level logging.
func SetLogger(l *Logger) { loggerPtr.Store(l) }

// CloseLogger uninstalls and closes the process-wide logger.
func CloseLogger() error {
	logger := loggerPtr.Swap(nil)
	if logger == nil {
		return nil
	}
	return logger.Close()
}

func LogDebug(msg string) { loggerPtr.Load().Debug(msg) }

func LogInfo(msg string) { loggerPtr.Load().Info(msg) }

func LogWarn(msg string) { loggerPtr.Load().Warn(msg) }

func LogError(msg string) { loggerPtr.Load().Error(msg) }
